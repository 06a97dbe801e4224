package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/notesy-api/internal/api/shared"
	"github.com/phrazzld/notesy-api/internal/domain"
	"github.com/phrazzld/notesy-api/internal/flashcard"
	"github.com/phrazzld/notesy-api/internal/ingest"
	"github.com/phrazzld/notesy-api/internal/service"
	"github.com/phrazzld/notesy-api/internal/summarize"
)

func studyRouter(h *StudyHandler, session domain.Session) http.Handler {
	r := chi.NewRouter()
	r.Use(withSession(session))
	r.Post("/summarize", h.Summarize)
	r.Post("/api/text/analyze", h.Analyze)
	r.Post("/api/documents", h.UploadDocument)
	r.Post("/api/flashcards", h.GenerateFlashcards)
	r.Get("/api/deck", h.GetDeck)
	r.Post("/api/deck/{action}", h.DeckAction)
	return r
}

func postJSON(t *testing.T, handler http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSummarizeHandler(t *testing.T) {
	t.Parallel()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		rec := &countingRecorder{}
		svc := &mockStudyService{
			SummarizeFn: func(_ context.Context, _ domain.Session, text string) (ingest.NormalizedText, summarize.Result, error) {
				n := ingest.Normalize(text)
				return n, summarize.Result{Summary: "Short.", ModelUsed: "fallback", SentencesUsed: 1}, nil
			},
		}
		h := NewStudyHandler(svc, rec, 0, testLogger())

		resp := postJSON(t, studyRouter(h, domain.AnonymousSession()), "/summarize", TextRequest{Text: "  One two. Three four.  "})
		require.Equal(t, http.StatusOK, resp.Code)

		var body SummarizeResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, SummarizeResponse{
			Summary:        "Short.",
			ModelUsed:      "fallback",
			Status:         "success",
			OriginalLength: len("One two. Three four."),
			SummaryLength:  len("Short."),
			SentencesUsed:  1,
		}, body)
		assert.Equal(t, []string{"fallback"}, rec.summaries)
	})

	t.Run("over quota", func(t *testing.T) {
		t.Parallel()
		rec := &countingRecorder{}
		svc := &mockStudyService{
			SummarizeFn: func(context.Context, domain.Session, string) (ingest.NormalizedText, summarize.Result, error) {
				return ingest.NormalizedText{}, summarize.Result{}, &ingest.QuotaExceededError{WordCount: 501, WordLimit: 500}
			},
		}
		h := NewStudyHandler(svc, rec, 0, testLogger())

		resp := postJSON(t, studyRouter(h, domain.AnonymousSession()), "/summarize", TextRequest{Text: "x"})
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
		body := decodeBody(t, resp)
		assert.Equal(t, "Text exceeds 500 words.", body["error"])
		assert.Equal(t, "error", body["status"])
		assert.Equal(t, []string{"quota"}, rec.rejections)
	})

	t.Run("malformed body", func(t *testing.T) {
		t.Parallel()
		h := NewStudyHandler(&mockStudyService{}, nil, 0, testLogger())
		req := httptest.NewRequest(http.MethodPost, "/summarize", strings.NewReader("{"))
		resp := httptest.NewRecorder()
		studyRouter(h, domain.AnonymousSession()).ServeHTTP(resp, req)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
		assert.Equal(t, "error", decodeBody(t, resp)["status"])
	})
}

func TestAnalyzeHandler(t *testing.T) {
	t.Parallel()

	svc := &mockStudyService{
		AnalyzeFn: func(session domain.Session, text string) service.Analysis {
			return service.Analysis{
				Text:      ingest.Normalize(text),
				State:     ingest.DraftReady,
				WordLimit: 500,
				CanUpload: session.CanUpload(),
			}
		},
	}
	h := NewStudyHandler(svc, nil, 0, testLogger())

	resp := postJSON(t, studyRouter(h, domain.AnonymousSession()), "/api/text/analyze", TextRequest{Text: "a b c"})
	require.Equal(t, http.StatusOK, resp.Code)

	var body AnalyzeResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, 3, body.WordCount)
	assert.Equal(t, "ready", body.State)
	assert.Equal(t, 500, body.WordLimit)
	assert.False(t, body.CanUpload)
}

func multipartUpload(t *testing.T, field, name string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestOversizedJSONBodies(t *testing.T) {
	t.Parallel()

	user := domain.AuthenticatedSession(uuid.New(), "alice")
	huge := TextRequest{Text: strings.Repeat("word ", shared.MaxJSONBodyBytes/5+1)}

	for _, path := range []string{"/summarize", "/api/text/analyze", "/api/flashcards"} {
		t.Run(path, func(t *testing.T) {
			t.Parallel()
			called := false
			svc := &mockStudyService{
				AnalyzeFn: func(domain.Session, string) service.Analysis {
					called = true
					return service.Analysis{}
				},
				SummarizeFn: func(context.Context, domain.Session, string) (ingest.NormalizedText, summarize.Result, error) {
					called = true
					return ingest.NormalizedText{}, summarize.Result{}, nil
				},
				GenerateDeckFn: func(context.Context, domain.Session, string) (service.DeckState, error) {
					called = true
					return service.DeckState{}, nil
				},
			}
			h := NewStudyHandler(svc, nil, 0, testLogger())

			resp := postJSON(t, studyRouter(h, user), path, huge)

			assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
			assert.Equal(t, shared.RequestTooLargeMessage, decodeBody(t, resp)["error"])
			assert.False(t, called, "oversized text never reaches the service")
		})
	}
}

func TestUploadDocumentHandler(t *testing.T) {
	t.Parallel()

	user := domain.AuthenticatedSession(uuid.New(), "alice")

	t.Run("anonymous rejected before reading body", func(t *testing.T) {
		t.Parallel()
		rec := &countingRecorder{}
		h := NewStudyHandler(&mockStudyService{}, rec, 0, testLogger())
		resp := httptest.NewRecorder()
		studyRouter(h, domain.AnonymousSession()).ServeHTTP(resp, multipartUpload(t, "file", "a.docx", []byte("x")))

		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Equal(t, "Please log in to upload files.", decodeBody(t, resp)["error"])
		assert.Equal(t, []string{"login_required"}, rec.rejections)
	})

	t.Run("passes upload to service", func(t *testing.T) {
		t.Parallel()
		var got ingest.Upload
		var content []byte
		svc := &mockStudyService{
			IngestDocumentFn: func(_ context.Context, _ domain.Session, upload ingest.Upload) (service.Analysis, error) {
				got = upload
				content, _ = io.ReadAll(upload.Body)
				return service.Analysis{Text: ingest.Normalize("Cats purr."), State: ingest.DraftReady, WordLimit: 1000}, nil
			},
		}
		h := NewStudyHandler(svc, nil, 0, testLogger())
		resp := httptest.NewRecorder()
		studyRouter(h, user).ServeHTTP(resp, multipartUpload(t, "file", "notes.docx", []byte("PK-data")))

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, "notes.docx", got.Name)
		assert.Equal(t, int64(len("PK-data")), got.Size)
		assert.Equal(t, []byte("PK-data"), content)
		assert.Equal(t, "Cats purr.", decodeBody(t, resp)["text"])
	})

	t.Run("service rejection mapped", func(t *testing.T) {
		t.Parallel()
		svc := &mockStudyService{
			IngestDocumentFn: func(context.Context, domain.Session, ingest.Upload) (service.Analysis, error) {
				return service.Analysis{}, ingest.ErrUnsupportedFile
			},
		}
		h := NewStudyHandler(svc, nil, 0, testLogger())
		resp := httptest.NewRecorder()
		studyRouter(h, user).ServeHTTP(resp, multipartUpload(t, "file", "notes.pdf", []byte("%PDF")))
		assert.Equal(t, http.StatusUnsupportedMediaType, resp.Code)
	})

	t.Run("body over limit", func(t *testing.T) {
		t.Parallel()
		h := NewStudyHandler(&mockStudyService{}, nil, 16, testLogger())
		big := bytes.Repeat([]byte("a"), multipartOverhead+1024)
		resp := httptest.NewRecorder()
		studyRouter(h, user).ServeHTTP(resp, multipartUpload(t, "file", "big.docx", big))
		assert.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)
		assert.Equal(t, "File must be 16 bytes or less.", decodeBody(t, resp)["error"])
	})

	t.Run("missing file field", func(t *testing.T) {
		t.Parallel()
		h := NewStudyHandler(&mockStudyService{}, nil, 0, testLogger())
		resp := httptest.NewRecorder()
		studyRouter(h, user).ServeHTTP(resp, multipartUpload(t, "document", "a.docx", []byte("x")))
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}

func TestFlashcardHandlers(t *testing.T) {
	t.Parallel()

	user := domain.AuthenticatedSession(uuid.New(), "alice")
	deck := flashcard.Generate("Cats purr. Dogs bark loudly at night! Fish swim?")

	t.Run("generate", func(t *testing.T) {
		t.Parallel()
		rec := &countingRecorder{}
		svc := &mockStudyService{
			GenerateDeckFn: func(context.Context, domain.Session, string) (service.DeckState, error) {
				return service.DeckState{Deck: deck, Generation: 42}, nil
			},
		}
		h := NewStudyHandler(svc, rec, 0, testLogger())
		resp := postJSON(t, studyRouter(h, user), "/api/flashcards", TextRequest{Text: "Cats purr."})
		require.Equal(t, http.StatusCreated, resp.Code)

		var body DeckResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.Equal(t, 3, body.Total)
		assert.Len(t, body.Cards, 3)
		assert.Equal(t, 0, body.CurrentIndex)
		assert.False(t, body.IsFlipped)
		require.NotNil(t, body.Current)
		assert.Equal(t, `Explain: "Cats purr"...`, body.Current.Question)
		assert.Equal(t, body.Current.Question, body.Current.Showing)
		assert.Equal(t, int64(42), body.Generation)
		assert.Equal(t, 1, rec.decks)
	})

	t.Run("generate gated", func(t *testing.T) {
		t.Parallel()
		svc := &mockStudyService{
			GenerateDeckFn: func(context.Context, domain.Session, string) (service.DeckState, error) {
				return service.DeckState{}, ingest.ErrFlashcardsGated
			},
		}
		h := NewStudyHandler(svc, nil, 0, testLogger())
		resp := postJSON(t, studyRouter(h, domain.AnonymousSession()), "/api/flashcards", TextRequest{Text: "x"})
		assert.Equal(t, http.StatusForbidden, resp.Code)
		assert.Equal(t, "Please log in to access flashcard generation.", decodeBody(t, resp)["error"])
	})

	t.Run("get demo deck", func(t *testing.T) {
		t.Parallel()
		svc := &mockStudyService{
			CurrentDeckFn: func(context.Context, domain.Session) (service.DeckState, error) {
				return service.DeckState{Deck: flashcard.DemoDeck(), Demo: true}, nil
			},
		}
		h := NewStudyHandler(svc, nil, 0, testLogger())
		req := httptest.NewRequest(http.MethodGet, "/api/deck", nil)
		resp := httptest.NewRecorder()
		studyRouter(h, domain.AnonymousSession()).ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		var body DeckResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.True(t, body.Demo)
		assert.Equal(t, flashcard.DemoDeck().Len(), body.Total)
	})

	t.Run("action forwarded", func(t *testing.T) {
		t.Parallel()
		var got flashcard.Action
		svc := &mockStudyService{
			NavigateFn: func(_ context.Context, _ domain.Session, action flashcard.Action) (service.DeckState, error) {
				got = action
				return service.DeckState{Deck: deck, Index: 0, Flipped: true}, nil
			},
		}
		h := NewStudyHandler(svc, nil, 0, testLogger())
		req := httptest.NewRequest(http.MethodPost, "/api/deck/flip", nil)
		resp := httptest.NewRecorder()
		studyRouter(h, user).ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		assert.Equal(t, flashcard.ActionFlip, got)
		var body DeckResponse
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
		assert.True(t, body.IsFlipped)
		assert.Equal(t, body.Current.Answer, body.Current.Showing)
	})

	t.Run("invalid action", func(t *testing.T) {
		t.Parallel()
		svc := &mockStudyService{
			NavigateFn: func(context.Context, domain.Session, flashcard.Action) (service.DeckState, error) {
				return service.DeckState{}, service.ErrInvalidAction
			},
		}
		h := NewStudyHandler(svc, nil, 0, testLogger())
		req := httptest.NewRequest(http.MethodPost, "/api/deck/shuffle", nil)
		resp := httptest.NewRecorder()
		studyRouter(h, user).ServeHTTP(resp, req)
		assert.Equal(t, http.StatusBadRequest, resp.Code)
	})
}
