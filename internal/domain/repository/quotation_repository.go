package repository

import (
	"context"
	"time"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/enum"
	"github.com/sangkips/quotation-engine/pkg/pagination"
)

// QuotationRepository stores whole quotation documents. Lookups return nil, nil
// when nothing matches.
type QuotationRepository interface {
	Create(ctx context.Context, q *entity.Quotation) error
	GetByID(ctx context.Context, id string) (*entity.Quotation, error)
	GetByNumber(ctx context.Context, number string) (*entity.Quotation, error)
	Update(ctx context.Context, q *entity.Quotation) error
	SoftDelete(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, params *QuotationFilterParams) ([]entity.Quotation, int64, error)
	// ListByProject includes soft-deleted quotations so their numbers are
	// never handed out again.
	ListByProject(ctx context.Context, projectID string) ([]entity.Quotation, error)
	// ListExpirable returns sent quotations whose validity ended before t.
	ListExpirable(ctx context.Context, before time.Time) ([]entity.Quotation, error)
}

// QuotationFilterParams contains filtering parameters for quotation queries
type QuotationFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
	Status     *enum.QuotationStatus
	ProjectID  string
	Number     string
	SortBy     string
	SortOrder  string
}

// SequenceRepository hands out per-project serials atomically.
type SequenceRepository interface {
	// NextSerial returns max(last, floor)+1 for projectID and stores it.
	NextSerial(ctx context.Context, projectID string, floor int) (int, error)
}
