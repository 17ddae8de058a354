package storage

import (
	"context"
	"time"
)

// DeckInfo describes one saved deck.
type DeckInfo struct {
	Name     string
	Location string
	Size     int64
	Updated  time.Time
}

type DeckStore interface {
	SaveDeck(ctx context.Context, filename string, data []byte) (string, error)
	ListDecks(ctx context.Context) ([]DeckInfo, error)
}
