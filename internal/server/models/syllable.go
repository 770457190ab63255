package models

// Syllable is a vocabulary item: a word with its transcription,
// translations and example sentences.
type Syllable struct {
	ID            int64     `json:"syllable_id"`
	UserID        int64     `json:"user_id"`
	Word          string    `json:"word"`
	Transcription *string   `json:"transcription"`
	Translations  *string   `json:"translations"`
	ExamplesText  *string   `json:"examples"`
	Examples      []Example `json:"paragraphs"`
	ReviewState
}

func (s *Syllable) ItemID() int64  { return s.ID }
func (s *Syllable) Kind() ItemKind { return KindSyllable }

// Example belongs to exactly one Syllable and is ordered by Sequence.
// ID zero marks an example not yet stored.
type Example struct {
	ID          int64   `json:"paragraph_id"`
	SyllableID  int64   `json:"syllable_id"`
	Text        string  `json:"example"`
	Translation *string `json:"translate"`
	Sequence    int     `json:"sequence"`
}
