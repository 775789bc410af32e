package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/enum"
	"github.com/sangkips/quotation-engine/internal/domain/repository"
	"github.com/sangkips/quotation-engine/pkg/pagination"
)

func TestQuotationRepository_CopiesOnReadAndWrite(t *testing.T) {
	r := NewQuotationRepository()
	ctx := context.Background()
	q := &entity.Quotation{QuotationNumber: "PRJ-01", Header: entity.Header{To: "ACME"}}
	require.NoError(t, r.Create(ctx, q))
	require.NotEmpty(t, q.ID)

	q.Header.To = "changed"
	got, err := r.GetByID(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "ACME", got.Header.To)

	got.Header.To = "again"
	again, _ := r.GetByID(ctx, q.ID)
	assert.Equal(t, "ACME", again.Header.To)

	missing, err := r.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestQuotationRepository_ListFilters(t *testing.T) {
	r := NewQuotationRepository()
	ctx := context.Background()
	base := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	for i, n := range []string{"A-01", "A-02", "B-01"} {
		pid := n[:1]
		require.NoError(t, r.Create(ctx, &entity.Quotation{
			QuotationNumber: n,
			ProjectID:       pid,
			CreatedAt:       base.Add(time.Duration(i) * time.Hour),
		}))
	}
	deleted := &entity.Quotation{QuotationNumber: "A-03", ProjectID: "A"}
	require.NoError(t, r.Create(ctx, deleted))
	require.NoError(t, r.SoftDelete(ctx, deleted.ID, base))

	items, total, err := r.List(ctx, &repository.QuotationFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 10},
		ProjectID:  "A",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Equal(t, "A-02", items[0].QuotationNumber)

	draft := enum.QuotationStatusSent
	_, total, err = r.List(ctx, &repository.QuotationFilterParams{Status: &draft})
	require.NoError(t, err)
	assert.Zero(t, total)

	all, err := r.ListByProject(ctx, "A")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSequenceRepository_Concurrent(t *testing.T) {
	r := NewSequenceRepository()
	var wg sync.WaitGroup
	seen := make(chan int, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := r.NextSerial(context.Background(), "PRJ", 3)
			assert.NoError(t, err)
			seen <- n
		}()
	}
	wg.Wait()
	close(seen)

	unique := map[int]bool{}
	for n := range seen {
		assert.False(t, unique[n], "serial %d issued twice", n)
		unique[n] = true
	}
	assert.Len(t, unique, 50)
	assert.True(t, unique[4])
	assert.True(t, unique[53])
}

func TestIdempotencyRepository(t *testing.T) {
	r := NewIdempotencyRepository()
	ctx := context.Background()
	now := time.Now()
	require.NoError(t, r.Create(ctx, &entity.IdempotencyKey{Key: "k", ClientKey: "c", ExpiresAt: now.Add(-time.Minute)}))
	require.Error(t, r.Create(ctx, &entity.IdempotencyKey{Key: "k", ClientKey: "c"}))

	got, err := r.GetByKey(ctx, "k", "other")
	require.NoError(t, err)
	assert.Nil(t, got)

	n, err := r.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}
