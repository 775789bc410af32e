package repository

import (
	"context"
	"time"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
)

// IdempotencyRepository defines the interface for idempotency key operations
type IdempotencyRepository interface {
	// GetByKey retrieves a stored response by its key and the caller's client key.
	GetByKey(ctx context.Context, key, clientKey string) (*entity.IdempotencyKey, error)
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
