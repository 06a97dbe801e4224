package domain

// Card is a single question/answer study card. Cards are produced only by
// flashcard synthesis and never edited afterwards.
type Card struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}
