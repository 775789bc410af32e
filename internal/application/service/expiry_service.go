package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/sangkips/quotation-engine/internal/domain/enum"
	"github.com/sangkips/quotation-engine/internal/domain/lifecycle"
	"github.com/sangkips/quotation-engine/internal/domain/repository"
)

// ExpiryService expires sent quotations whose validity date has passed.
type ExpiryService struct {
	quotationRepo repository.QuotationRepository
	idemRepo      repository.IdempotencyRepository
	publisher     repository.EventPublisher
	now           func() time.Time
	logger        *slog.Logger
}

func NewExpiryService(
	quotationRepo repository.QuotationRepository,
	idemRepo repository.IdempotencyRepository,
	publisher repository.EventPublisher,
	logger *slog.Logger,
) *ExpiryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExpiryService{
		quotationRepo: quotationRepo,
		idemRepo:      idemRepo,
		publisher:     publisher,
		now:           time.Now,
		logger:        logger,
	}
}

// ExpireDue moves every overdue sent quotation to expired and returns how many
// changed. A failure on one quotation does not stop the run.
func (s *ExpiryService) ExpireDue(ctx context.Context) (int, error) {
	now := s.now()
	due, err := s.quotationRepo.ListExpirable(ctx, now)
	if err != nil {
		return 0, err
	}
	var expired int
	for i := range due {
		q := &due[i]
		if !lifecycle.Expire(q, now) {
			continue
		}
		if err := s.quotationRepo.Update(ctx, q); err != nil {
			s.logger.Error("expire quotation", "id", q.ID, "error", err)
			continue
		}
		expired++
		ev := repository.StatusChanged{
			QuotationID:     q.ID,
			QuotationNumber: q.QuotationNumber,
			From:            enum.QuotationStatusSent,
			To:              q.Status,
			At:              now,
		}
		if err := s.publisher.PublishStatusChanged(ctx, ev); err != nil {
			s.logger.Warn("status event not published", "id", q.ID, "error", err)
		}
	}
	if expired > 0 {
		s.logger.Info("quotations expired", "count", expired)
	}
	return expired, nil
}

// PurgeIdempotencyKeys removes stored responses past their expiry.
func (s *ExpiryService) PurgeIdempotencyKeys(ctx context.Context) (int64, error) {
	n, err := s.idemRepo.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("idempotency keys purged", "count", n)
	}
	return n, nil
}
