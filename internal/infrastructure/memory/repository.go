// Package memory holds process-local repositories for running without a
// database (APP_STORAGE=memory) and for tests. State is lost on restart.
package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/enum"
	"github.com/sangkips/quotation-engine/internal/domain/repository"
)

var ErrNotFound = errors.New("record not found")

// QuotationRepository keeps deep copies so callers never share state with the
// store.
type QuotationRepository struct {
	mu   sync.RWMutex
	rows map[string]*entity.Quotation
}

func NewQuotationRepository() *QuotationRepository {
	return &QuotationRepository{rows: map[string]*entity.Quotation{}}
}

// Len returns the number of stored rows, deleted ones included.
func (r *QuotationRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

func (r *QuotationRepository) Create(_ context.Context, q *entity.Quotation) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[q.ID] = q.Clone()
	return nil
}

func (r *QuotationRepository) GetByID(_ context.Context, id string) (*entity.Quotation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if q, ok := r.rows[id]; ok {
		return q.Clone(), nil
	}
	return nil, nil
}

func (r *QuotationRepository) GetByNumber(_ context.Context, number string) (*entity.Quotation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var found *entity.Quotation
	for _, q := range r.rows {
		if q.QuotationNumber == number && (found == nil || q.CreatedAt.Before(found.CreatedAt)) {
			found = q
		}
	}
	if found == nil {
		return nil, nil
	}
	return found.Clone(), nil
}

func (r *QuotationRepository) Update(_ context.Context, q *entity.Quotation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[q.ID]; !ok {
		return ErrNotFound
	}
	r.rows[q.ID] = q.Clone()
	return nil
}

func (r *QuotationRepository) SoftDelete(_ context.Context, id string, at time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.rows[id]
	if !ok || q.DeletedAt != nil {
		return ErrNotFound
	}
	q.DeletedAt = &at
	return nil
}

func (r *QuotationRepository) List(_ context.Context, params *repository.QuotationFilterParams) ([]entity.Quotation, int64, error) {
	r.mu.RLock()
	var out []entity.Quotation
	search := strings.ToLower(params.Search)
	for _, q := range r.rows {
		switch {
		case q.DeletedAt != nil:
		case params.Status != nil && q.Status != *params.Status:
		case params.ProjectID != "" && q.ProjectID != params.ProjectID:
		case params.Number != "" && q.QuotationNumber != params.Number:
		case search != "" && !matches(q, search):
		default:
			out = append(out, *q.Clone())
		}
	}
	r.mu.RUnlock()

	sortQuotations(out, params.SortBy, params.SortOrder)
	total := int64(len(out))
	if params.Pagination != nil {
		start := min(params.Pagination.Offset(), len(out))
		end := min(start+params.Pagination.PerPage, len(out))
		out = out[start:end]
	}
	return out, total, nil
}

func (r *QuotationRepository) ListByProject(_ context.Context, projectID string) ([]entity.Quotation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Quotation
	for _, q := range r.rows {
		if q.ProjectID == projectID || strings.HasPrefix(q.QuotationNumber, projectID+"-") {
			out = append(out, *q.Clone())
		}
	}
	return out, nil
}

func (r *QuotationRepository) ListExpirable(_ context.Context, before time.Time) ([]entity.Quotation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []entity.Quotation
	for _, q := range r.rows {
		if q.DeletedAt == nil && q.Status == enum.QuotationStatusSent && q.ValidUntil != nil && q.ValidUntil.Before(before) {
			out = append(out, *q.Clone())
		}
	}
	return out, nil
}

func matches(q *entity.Quotation, search string) bool {
	for _, s := range []string{q.QuotationNumber, q.Header.To, q.Header.ProjectName, q.ProjectID} {
		if strings.Contains(strings.ToLower(s), search) {
			return true
		}
	}
	return false
}

func sortQuotations(qs []entity.Quotation, by, order string) {
	less := func(a, b *entity.Quotation) bool { return a.CreatedAt.Before(b.CreatedAt) }
	switch by {
	case "quotation_number":
		less = func(a, b *entity.Quotation) bool { return a.QuotationNumber < b.QuotationNumber }
	case "updated_at":
		less = func(a, b *entity.Quotation) bool { return a.UpdatedAt.Before(b.UpdatedAt) }
	}
	desc := !strings.EqualFold(order, "asc")
	sort.SliceStable(qs, func(i, j int) bool {
		if desc {
			return less(&qs[j], &qs[i])
		}
		return less(&qs[i], &qs[j])
	})
}

// SequenceRepository is the in-process counterpart of the row-locked
// per-project counter.
type SequenceRepository struct {
	mu   sync.Mutex
	last map[string]int
}

func NewSequenceRepository() *SequenceRepository {
	return &SequenceRepository{last: map[string]int{}}
}

func (r *SequenceRepository) NextSerial(_ context.Context, projectID string, floor int) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	next := max(r.last[projectID], floor) + 1
	r.last[projectID] = next
	return next, nil
}

type IdempotencyRepository struct {
	mu   sync.Mutex
	keys map[[2]string]entity.IdempotencyKey
}

func NewIdempotencyRepository() *IdempotencyRepository {
	return &IdempotencyRepository{keys: map[[2]string]entity.IdempotencyKey{}}
}

func (r *IdempotencyRepository) GetByKey(_ context.Context, key, clientKey string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if k, ok := r.keys[[2]string{key, clientKey}]; ok {
		return &k, nil
	}
	return nil, nil
}

func (r *IdempotencyRepository) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	id := [2]string{ikey.Key, ikey.ClientKey}
	if _, ok := r.keys[id]; ok {
		return errors.New("duplicate idempotency key")
	}
	r.keys[id] = *ikey
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for id, k := range r.keys {
		if k.IsExpired(now) {
			delete(r.keys, id)
			n++
		}
	}
	return n, nil
}

var (
	_ repository.QuotationRepository   = (*QuotationRepository)(nil)
	_ repository.SequenceRepository    = (*SequenceRepository)(nil)
	_ repository.IdempotencyRepository = (*IdempotencyRepository)(nil)
)
