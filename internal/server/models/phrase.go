package models

import "time"

type Phrase struct {
	ID          int64     `json:"id_phrase"`
	UserID      int64     `json:"user_id"`
	Text        string    `json:"phrase"`
	Translation string    `json:"translation"`
	CreatedAt   time.Time `json:"dt"`
	ReviewState
}

func (p *Phrase) ItemID() int64  { return p.ID }
func (p *Phrase) Kind() ItemKind { return KindPhrase }
