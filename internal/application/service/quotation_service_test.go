package service

import (
	"context"
	"errors"
	"math"
	"net/http"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/quotation-engine/internal/domain/catalog"
	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/enum"
	"github.com/sangkips/quotation-engine/internal/domain/lifecycle"
	"github.com/sangkips/quotation-engine/internal/domain/pricing"
	"github.com/sangkips/quotation-engine/internal/domain/repository"
	"github.com/sangkips/quotation-engine/internal/infrastructure/memory"
	"github.com/sangkips/quotation-engine/pkg/apperror"
	"github.com/sangkips/quotation-engine/pkg/pagination"
	"github.com/sangkips/quotation-engine/pkg/utils"
)

var testNow = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

type serviceFixture struct {
	repo      *memory.QuotationRepository
	seq       *memory.SequenceRepository
	publisher *recordingPublisher
	svc       *QuotationService
}

func newServiceFixture() *serviceFixture {
	f := &serviceFixture{
		repo:      memory.NewQuotationRepository(),
		seq:       memory.NewSequenceRepository(),
		publisher: &recordingPublisher{},
	}
	f.svc = NewQuotationService(f.repo, f.seq, f.publisher, catalog.Default(),
		&utils.SequentialIDGenerator{Prefix: "id"}, nil).
		WithClock(func() time.Time { return testNow })
	return f
}

func createTestInput(projectID string) *CreateQuotationInput {
	return &CreateQuotationInput{
		ProjectID: projectID,
		Header:    entity.Header{To: "ACME", ProjectName: "Office"},
		Options: []entity.QuotationOption{{
			Name:    "方案A",
			Summary: entity.NewSummary(),
			Categories: []entity.ItemCategory{{
				Code: "壹",
				Name: "拆除工程",
				Items: []entity.QuotationItem{
					{Name: "Wall removal", Unit: "M2", Quantity: 2, UnitPrice: 1000},
				},
			}},
		}},
	}
}

func appCode(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperror.IsAppError(err), "not an AppError: %v", err)
	return apperror.GetAppError(err).Code
}

func TestQuotationService_CreateRecomputesAndNumbers(t *testing.T) {
	f := newServiceFixture()

	q, err := f.svc.Create(context.Background(), createTestInput("PRJ"))
	require.NoError(t, err)

	assert.Equal(t, "PRJ-01", q.QuotationNumber)
	assert.Equal(t, 1, q.Version)
	assert.Equal(t, enum.QuotationStatusDraft, q.Status)
	assert.Equal(t, "2025-06-01", q.Header.QuotationDate)
	assert.NotEmpty(t, q.Options[0].ID)
	assert.NotEmpty(t, q.Options[0].Categories[0].Items[0].ID)
	assert.Equal(t, 1, q.Options[0].Categories[0].Items[0].ItemNumber)

	s := q.Options[0].Summary
	assert.Equal(t, 2000.0, s.Subtotal)
	assert.Equal(t, 200.0, s.ManagementFee)
	assert.Equal(t, 110.0, s.Tax)
	assert.Equal(t, 2310.0, s.TotalAmount)

	stored, err := f.svc.Get(context.Background(), q.ID)
	require.NoError(t, err)
	assert.Equal(t, q.QuotationNumber, stored.QuotationNumber)
}

func TestQuotationService_CreateDefaultsOption(t *testing.T) {
	f := newServiceFixture()

	q, err := f.svc.Create(context.Background(), &CreateQuotationInput{Header: entity.Header{To: "ACME"}})
	require.NoError(t, err)
	require.Len(t, q.Options, 1)
	assert.Equal(t, "方案A", q.Options[0].Name)
	assert.Equal(t, entity.DefaultManagementFeeRate, q.Options[0].Summary.ManagementFeeRate)
	assert.Regexp(t, regexp.MustCompile(`^Q2025-\d{3}$`), q.QuotationNumber)
}

func TestQuotationService_CreateRejectsNonFinite(t *testing.T) {
	f := newServiceFixture()
	in := createTestInput("")
	in.Options[0].Categories[0].Items[0].Quantity = math.NaN()

	_, err := f.svc.Create(context.Background(), in)
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))
	assert.Zero(t, f.repo.Len())
}

func TestQuotationService_NumbersSkipLegacyAndDeleted(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	require.NoError(t, f.repo.Create(ctx, &entity.Quotation{ID: "legacy", QuotationNumber: "PRJ-07", ProjectID: "PRJ"}))

	first, err := f.svc.Create(ctx, createTestInput("PRJ"))
	require.NoError(t, err)
	assert.Equal(t, "PRJ-08", first.QuotationNumber)

	require.NoError(t, f.svc.Delete(ctx, first.ID))
	_, err = f.svc.Get(ctx, first.ID)
	assert.Equal(t, http.StatusNotFound, appCode(t, err))

	second, err := f.svc.Create(ctx, createTestInput("PRJ"))
	require.NoError(t, err)
	assert.Equal(t, "PRJ-09", second.QuotationNumber)

	other, err := f.svc.Create(ctx, createTestInput("PRJ-2"))
	require.NoError(t, err)
	assert.Equal(t, "PRJ-2-01", other.QuotationNumber)
}

func TestQuotationService_UpdateRecomputesStaleTotals(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput(""))
	require.NoError(t, err)

	opts := q.Options
	opts[0].Categories[0].Items[0].Quantity = 3
	opts[0].Summary.TotalAmount = 1 // stale client total
	out, err := f.svc.Update(ctx, q.ID, &UpdateQuotationInput{Header: q.Header, Options: opts})
	require.NoError(t, err)

	assert.Equal(t, 2, out.Version)
	assert.Equal(t, 3000.0, out.Options[0].Categories[0].Items[0].Amount)
	assert.Equal(t, 3465.0, out.Options[0].Summary.TotalAmount)
}

func TestQuotationService_UpdateHeaderOnlyBumpsVersion(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput(""))
	require.NoError(t, err)

	header := q.Header
	header.Attn = "Mr. Lin"
	out, err := f.svc.Update(ctx, q.ID, &UpdateQuotationInput{Header: header, Options: q.Options})
	require.NoError(t, err)
	assert.Equal(t, 2, out.Version)
	assert.Equal(t, "Mr. Lin", out.Header.Attn)
	assert.Equal(t, q.Options[0].Summary, out.Options[0].Summary)
}

func TestQuotationService_OnlyDraftsAreEditable(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput(""))
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, q.ID, enum.QuotationStatusSent)
	require.NoError(t, err)

	_, err = f.svc.Update(ctx, q.ID, &UpdateQuotationInput{Header: q.Header, Options: q.Options})
	assert.Equal(t, http.StatusConflict, appCode(t, err))
	assert.True(t, errors.Is(err, lifecycle.ErrNotEditable))

	_, err = f.svc.AddCategory(ctx, q.ID, 0, "Masonry")
	assert.Equal(t, http.StatusConflict, appCode(t, err))
}

func TestQuotationService_TransitionPublishes(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput(""))
	require.NoError(t, err)

	sent, err := f.svc.Transition(ctx, q.ID, enum.QuotationStatusSent)
	require.NoError(t, err)
	assert.Equal(t, enum.QuotationStatusSent, sent.Status)
	require.NotNil(t, sent.SentAt)
	assert.Equal(t, 1, sent.Version)

	require.Len(t, f.publisher.events, 1)
	ev := f.publisher.events[0]
	assert.Equal(t, q.ID, ev.QuotationID)
	assert.Equal(t, enum.QuotationStatusDraft, ev.From)
	assert.Equal(t, enum.QuotationStatusSent, ev.To)

	_, err = f.svc.Transition(ctx, q.ID, enum.QuotationStatusDraft)
	assert.Equal(t, http.StatusConflict, appCode(t, err))
	assert.ErrorIs(t, err, lifecycle.ErrInvalidTransition)
	assert.Len(t, f.publisher.events, 1)
}

func TestQuotationService_PublishFailureKeepsTransition(t *testing.T) {
	f := newServiceFixture()
	f.publisher.err = errors.New("broker down")
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput(""))
	require.NoError(t, err)

	_, err = f.svc.Transition(ctx, q.ID, enum.QuotationStatusSent)
	require.NoError(t, err)
	stored, err := f.svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.QuotationStatusSent, stored.Status)
}

func TestQuotationService_SignAndConvert(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput("PRJ"))
	require.NoError(t, err)

	_, err = f.svc.Sign(ctx, q.ID, "")
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))

	_, err = f.svc.Transition(ctx, q.ID, enum.QuotationStatusSigned)
	assert.Equal(t, http.StatusConflict, appCode(t, err))

	signed, err := f.svc.Sign(ctx, q.ID, "data:image/png;base64,AA==")
	require.NoError(t, err)
	assert.Equal(t, enum.QuotationStatusSigned, signed.Status)
	assert.NotNil(t, signed.SignedAt)

	converted, err := f.svc.Convert(ctx, q.ID, "NEW-PRJ")
	require.NoError(t, err)
	assert.Equal(t, enum.QuotationStatusConverted, converted.Status)
	assert.Equal(t, "NEW-PRJ", converted.ConvertedProjectID)
	assert.Len(t, f.publisher.events, 2)
}

func TestQuotationService_SignRejectsPathsAndURLs(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput("PRJ"))
	require.NoError(t, err)

	for _, sig := range []string{"/etc/passwd", "http://169.254.169.254/latest", "../secret.png"} {
		_, err = f.svc.Sign(ctx, q.ID, sig)
		assert.Equal(t, http.StatusBadRequest, appCode(t, err), sig)
	}
	stored, err := f.svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, enum.QuotationStatusDraft, stored.Status)

	signed, err := f.svc.Sign(ctx, q.ID, "assets/signature.png")
	require.NoError(t, err)
	assert.Equal(t, "assets/signature.png", signed.Signature)
}

func TestQuotationService_CopyResets(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput("PRJ"))
	require.NoError(t, err)
	_, err = f.svc.Sign(ctx, q.ID, "data:image/png;base64,AA==")
	require.NoError(t, err)

	cp, err := f.svc.Copy(ctx, q.ID)
	require.NoError(t, err)
	assert.NotEqual(t, q.ID, cp.ID)
	assert.Equal(t, "PRJ-02", cp.QuotationNumber)
	assert.Equal(t, 1, cp.Version)
	assert.Equal(t, enum.QuotationStatusDraft, cp.Status)
	assert.Empty(t, cp.Signature)
	assert.Nil(t, cp.SignedAt)
	assert.Equal(t, q.Options[0].Summary.TotalAmount, cp.Options[0].Summary.TotalAmount)
}

func TestQuotationService_ReassignProjectRenumbers(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput("OLD"))
	require.NoError(t, err)

	moved, err := f.svc.ReassignProject(ctx, q.ID, "NEW")
	require.NoError(t, err)
	assert.Equal(t, q.ID, moved.ID)
	assert.Equal(t, "NEW-01", moved.QuotationNumber)
	assert.Equal(t, "NEW", moved.ProjectID)

	_, err = f.svc.GetByNumber(ctx, "OLD-01")
	assert.Equal(t, http.StatusNotFound, appCode(t, err))
	got, err := f.svc.GetByNumber(ctx, "NEW-01")
	require.NoError(t, err)
	assert.Equal(t, q.ID, got.ID)
}

func TestQuotationService_ReassignToSameProjectKeepsVersion(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput("PRJ"))
	require.NoError(t, err)

	same, err := f.svc.ReassignProject(ctx, q.ID, "PRJ")
	require.NoError(t, err)
	assert.Equal(t, 1, same.Version)
	assert.Equal(t, "PRJ-01", same.QuotationNumber)
	assert.Equal(t, q.UpdatedAt, same.UpdatedAt)

	stored, err := f.svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version)
}

func TestQuotationService_CreateRejectsOverflowingAmount(t *testing.T) {
	f := newServiceFixture()
	in := createTestInput("")
	in.Options[0].Categories[0].Items[0].Quantity = 1e200
	in.Options[0].Categories[0].Items[0].UnitPrice = 1e200

	_, err := f.svc.Create(context.Background(), in)
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))
	assert.Zero(t, f.repo.Len())
}

func TestQuotationService_AddItemRejectsOverflowingAmount(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput(""))
	require.NoError(t, err)

	_, err = f.svc.AddItem(ctx, q.ID, 0, 0, pricing.ItemDraft{Name: "x", Quantity: 1e200, UnitPrice: 1e200})
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))

	stored, err := f.svc.Get(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.Version)
}

func TestQuotationService_EditOperations(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput(""))
	require.NoError(t, err)

	q, err = f.svc.AddCategory(ctx, q.ID, 0, "防水工程")
	require.NoError(t, err)
	assert.Equal(t, "貳", q.Options[0].Categories[1].Code)

	q, err = f.svc.AddItem(ctx, q.ID, 0, 1, pricing.ItemDraft{Name: "Injection", Unit: "PC", Quantity: 1, UnitPrice: 1200})
	require.NoError(t, err)
	q, err = f.svc.AddItem(ctx, q.ID, 0, 1, pricing.ItemDraft{Name: "Sealant", Unit: "M", Quantity: 2, UnitPrice: 100})
	require.NoError(t, err)
	assert.Equal(t, 3400.0, q.Options[0].Summary.Subtotal)

	q, err = f.svc.RemoveItem(ctx, q.ID, 0, 1, 0)
	require.NoError(t, err)
	items := q.Options[0].Categories[1].Items
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].ItemNumber)
	assert.Equal(t, 2200.0, q.Options[0].Summary.Subtotal)
	assert.Equal(t, 5, q.Version)

	_, err = f.svc.RemoveItem(ctx, q.ID, 0, 1, 7)
	assert.Equal(t, http.StatusNotFound, appCode(t, err))

	_, err = f.svc.RemoveOption(ctx, q.ID, 0)
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))
	assert.ErrorIs(t, err, pricing.ErrLastOption)
}

func TestQuotationService_ApplyPreset(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput(""))
	require.NoError(t, err)

	_, err = f.svc.ApplyPreset(ctx, q.ID, "missing")
	assert.Equal(t, http.StatusNotFound, appCode(t, err))

	q, err = f.svc.ApplyPreset(ctx, q.ID, "template-structure-reinforce")
	require.NoError(t, err)
	require.Len(t, q.Options, 2)
	assert.Equal(t, 1, q.SelectedOptionIndex)
	assert.Equal(t, "結構補強工程範本", q.Options[1].Name)
	assert.Positive(t, q.Options[1].Summary.TotalAmount)
}

func TestQuotationService_List(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := f.svc.Create(ctx, createTestInput("PRJ"))
		require.NoError(t, err)
	}

	res, err := f.svc.List(ctx, &repository.QuotationFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 2},
		ProjectID:  "PRJ",
	})
	require.NoError(t, err)
	assert.Len(t, res.Items, 2)
	assert.Equal(t, int64(3), res.Pagination.Total)
	assert.Equal(t, 2, res.Pagination.TotalPages)

	res, err = f.svc.List(ctx, &repository.QuotationFilterParams{ProjectID: "none"})
	require.NoError(t, err)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}
