package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/enum"
	"github.com/sangkips/quotation-engine/internal/infrastructure/memory"
)

func TestExpiryService_ExpireDue(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()

	past := testNow.Add(-24 * time.Hour)
	future := testNow.Add(24 * time.Hour)
	due, err := f.svc.Create(ctx, createTestInput("PRJ"))
	require.NoError(t, err)
	notDue, err := f.svc.Create(ctx, createTestInput("PRJ"))
	require.NoError(t, err)
	draft, err := f.svc.Create(ctx, createTestInput("PRJ"))
	require.NoError(t, err)

	for id, until := range map[string]time.Time{due.ID: past, notDue.ID: future, draft.ID: past} {
		until := until
		q, err := f.svc.Get(ctx, id)
		require.NoError(t, err)
		_, err = f.svc.Update(ctx, id, &UpdateQuotationInput{Header: q.Header, Options: q.Options, ValidUntil: &until})
		require.NoError(t, err)
	}
	for _, id := range []string{due.ID, notDue.ID} {
		_, err = f.svc.Transition(ctx, id, enum.QuotationStatusSent)
		require.NoError(t, err)
	}

	exp := NewExpiryService(f.repo, memory.NewIdempotencyRepository(), f.publisher, nil)
	exp.now = func() time.Time { return testNow }

	n, err := exp.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.svc.Get(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.QuotationStatusExpired, got.Status)
	last := f.publisher.events[len(f.publisher.events)-1]
	assert.Equal(t, enum.QuotationStatusExpired, last.To)

	got, err = f.svc.Get(ctx, notDue.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.QuotationStatusSent, got.Status)
	got, err = f.svc.Get(ctx, draft.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.QuotationStatusDraft, got.Status)

	n, err = exp.ExpireDue(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestExpiryService_PurgeIdempotencyKeys(t *testing.T) {
	keys := memory.NewIdempotencyRepository()
	ctx := context.Background()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, keys.Create(ctx, &entity.IdempotencyKey{Key: k, ClientKey: "ip", ExpiresAt: testNow.Add(-time.Minute)}))
	}
	require.NoError(t, keys.Create(ctx, &entity.IdempotencyKey{Key: "fresh", ClientKey: "ip", ExpiresAt: testNow.Add(time.Hour)}))

	exp := NewExpiryService(memory.NewQuotationRepository(), keys, &recordingPublisher{}, nil)
	exp.now = func() time.Time { return testNow }
	n, err := exp.PurgeIdempotencyKeys(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
