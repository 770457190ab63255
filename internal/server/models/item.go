package models

import (
	"fmt"
	"time"
)

// ItemKind selects one of the two independent review queues.
type ItemKind string

const (
	KindPhrase   ItemKind = "phrase"
	KindSyllable ItemKind = "syllable"
)

func ParseItemKind(s string) (ItemKind, error) {
	switch ItemKind(s) {
	case KindPhrase, KindSyllable:
		return ItemKind(s), nil
	}
	return "", fmt.Errorf("unknown item kind %q", s)
}

// Reviewable is implemented by the entities that take part in review
// scheduling.
type Reviewable interface {
	ItemID() int64
	Kind() ItemKind
}

// ReviewState is the scheduling state shared by phrases and vocabulary items.
// LastView stays nil until the first review.
type ReviewState struct {
	Ready     int        `json:"ready"`
	ShowCount int        `json:"show_count"`
	LastView  *time.Time `json:"last_view"`
}
