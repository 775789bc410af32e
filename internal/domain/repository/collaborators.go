package repository

import (
	"context"
	"errors"
	"time"

	"github.com/sangkips/quotation-engine/internal/domain/enum"
)

// ErrCacheMiss is returned by DocumentCache.Get when nothing is stored.
var ErrCacheMiss = errors.New("cache miss")

// StoredFile is a file kept by FileStorage.
type StoredFile struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// FileStorage keeps uploaded assets such as logos, seals, signatures and photos.
type FileStorage interface {
	Upload(ctx context.Context, name, contentType string, data []byte) (StoredFile, error)
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// ItemSuggester proposes catalog item ids for a free-text work description.
type ItemSuggester interface {
	SuggestItems(ctx context.Context, description string) ([]string, error)
}

// StatusChanged is published after every successful lifecycle transition.
type StatusChanged struct {
	QuotationID     string               `json:"quotationId"`
	QuotationNumber string               `json:"quotationNumber"`
	From            enum.QuotationStatus `json:"from"`
	To              enum.QuotationStatus `json:"to"`
	At              time.Time            `json:"at"`
}

// EventPublisher delivers lifecycle events to other systems.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, ev StatusChanged) error
}

// DocumentCache keeps rendered exports.
type DocumentCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, data []byte) error
}
