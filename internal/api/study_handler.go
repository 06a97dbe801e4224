package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/phrazzld/notesy-api/internal/api/shared"
	"github.com/phrazzld/notesy-api/internal/flashcard"
	"github.com/phrazzld/notesy-api/internal/ingest"
	"github.com/phrazzld/notesy-api/internal/platform/logger"
	"github.com/phrazzld/notesy-api/internal/redact"
	"github.com/phrazzld/notesy-api/internal/service"
)

// multipartOverhead is allowed on top of the file limit for multipart
// boundaries and headers.
const multipartOverhead = 64 * 1024

// StudyHandler serves the summarization, ingestion and flashcard endpoints.
type StudyHandler struct {
	study          service.StudyService
	recorder       Recorder
	maxUploadBytes int64
	logger         *slog.Logger
}

// NewStudyHandler creates a StudyHandler. recorder may be nil.
func NewStudyHandler(
	study service.StudyService,
	recorder Recorder,
	maxUploadBytes int64,
	logger *slog.Logger,
) *StudyHandler {
	if study == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("study service cannot be nil for StudyHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}
	if recorder == nil {
		recorder = nopRecorder{}
	}
	if maxUploadBytes <= 0 {
		maxUploadBytes = ingest.MaxUploadBytes
	}
	return &StudyHandler{
		study:          study,
		recorder:       recorder,
		maxUploadBytes: maxUploadBytes,
		logger:         logger.With(slog.String("component", "study_handler")),
	}
}

func (h *StudyHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if reason := rejectionReason(err); reason != "" {
		h.recorder.Rejected(reason)
	}
	HandleAPIError(w, r, err)
}

// Summarize handles POST /summarize.
func (h *StudyHandler) Summarize(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if err := shared.DecodeJSON(w, r, &req); err != nil {
		status, message := shared.DecodeFailure(err)
		h.respondSummarizeError(w, r, status, message, err)
		return
	}

	session := shared.SessionFromContext(r.Context())
	text, result, err := h.study.Summarize(r.Context(), session, req.Text)
	if err != nil {
		if reason := rejectionReason(err); reason != "" {
			h.recorder.Rejected(reason)
		}
		h.respondSummarizeError(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	h.recorder.SummaryProduced(result.ModelUsed)
	logger.FromContextOrDefault(r.Context(), h.logger).Debug("summary produced",
		slog.String("model_used", result.ModelUsed),
		slog.Int("word_count", text.WordCount))

	shared.RespondWithJSON(w, r, http.StatusOK, summaryToResponse(text.Raw, result))
}

func (h *StudyHandler) respondSummarizeError(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	err error,
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)
	level := slog.LevelDebug
	if status >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	log.LogAttrs(r.Context(), level, "summarize request failed",
		slog.Int("status_code", status),
		slog.String("user_message", message),
		slog.String("trace_id", shared.GetTraceID(r.Context())),
		redact.Attr(err))

	shared.RespondWithJSON(w, r, status, SummarizeErrorResponse{
		Error:   message,
		Status:  "error",
		TraceID: shared.GetTraceID(r.Context()),
	})
}

// Analyze handles POST /api/text/analyze.
func (h *StudyHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	analysis := h.study.Analyze(shared.SessionFromContext(r.Context()), req.Text)
	shared.RespondWithJSON(w, r, http.StatusOK, analysisToResponse(analysis))
}

// UploadDocument handles POST /api/documents with a multipart "file" field.
func (h *StudyHandler) UploadDocument(w http.ResponseWriter, r *http.Request) {
	session := shared.SessionFromContext(r.Context())

	// The tier gate comes first, before any of the body is read.
	if !session.CanUpload() {
		h.fail(w, r, ingest.ErrLoginRequired)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			h.fail(w, r, &ingest.FileTooLargeError{MaxBytes: h.maxUploadBytes})
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, "A .docx file is required in the \"file\" field", err)
		return
	}
	defer func() { _ = file.Close() }()

	analysis, err := h.study.IngestDocument(r.Context(), session, ingest.Upload{
		Name: header.Filename,
		Size: header.Size,
		Body: file,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, analysisToResponse(analysis))
}

// GenerateFlashcards handles POST /api/flashcards.
func (h *StudyHandler) GenerateFlashcards(w http.ResponseWriter, r *http.Request) {
	var req TextRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	state, err := h.study.GenerateDeck(r.Context(), shared.SessionFromContext(r.Context()), req.Text)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.recorder.DeckGenerated()
	shared.RespondWithJSON(w, r, http.StatusCreated, deckToResponse(state))
}

// GetDeck handles GET /api/deck.
func (h *StudyHandler) GetDeck(w http.ResponseWriter, r *http.Request) {
	state, err := h.study.CurrentDeck(r.Context(), shared.SessionFromContext(r.Context()))
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(state))
}

// DeckAction handles POST /api/deck/{action}.
func (h *StudyHandler) DeckAction(w http.ResponseWriter, r *http.Request) {
	action := flashcard.Action(chi.URLParam(r, "action"))

	state, err := h.study.Navigate(r.Context(), shared.SessionFromContext(r.Context()), action)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, deckToResponse(state))
}
