package models

import "time"

type Book struct {
	ID               int64      `json:"id_book"`
	UserID           int64      `json:"user_id"`
	Name             string     `json:"book_name"`
	CurrentParagraph *int       `json:"current_paragraph"`
	UpdatedAt        *time.Time `json:"dt"`
}

type Sentence struct {
	ID        int64  `json:"id_sentence"`
	BookID    int64  `json:"id_book"`
	Paragraph int    `json:"id_paragraph"`
	Sequence  int    `json:"sequence"`
	Text      string `json:"sentence"`
}

// JournalEntry is an append-only record of a saved reading position.
type JournalEntry struct {
	ID        int64
	UserID    int64
	BookID    int64
	Paragraph int
	CreatedAt time.Time
}

// Bounds are the smallest and largest paragraph numbers of a book.
type Bounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

func (b Bounds) Contains(p int) bool {
	return b.Min <= p && p <= b.Max
}

// BookStats is the read view of a book: the stored fields plus aggregates
// computed from sentences and the reading journal.
type BookStats struct {
	Book
	MinParagraph   *int    `json:"min_paragraph"`
	MaxParagraph   *int    `json:"max_paragraph"`
	ReadInWindow   int     `json:"paragraphs_read_24h"`
	ReadPercentage float64 `json:"read_percentage"`
}

// ComputeReadPercentage returns (current-min)*100/(max-min), clamped to
// [0,100]. Missing or equal bounds give 0; a missing current position
// counts as the lower bound.
func ComputeReadPercentage(current, minP, maxP *int) float64 {
	if minP == nil || maxP == nil || *maxP == *minP {
		return 0
	}
	cur := *minP
	if current != nil {
		cur = *current
	}
	pct := float64(cur-*minP) * 100 / float64(*maxP-*minP)
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	}
	return pct
}
