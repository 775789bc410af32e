package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/enum"
)

func createTestQuotation() *entity.Quotation {
	valid := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	summary := entity.NewSummary()
	summary.TotalAmount = 47355
	return &entity.Quotation{
		ID:              uuid.NewString(),
		QuotationNumber: "PRJ-01",
		Version:         2,
		Status:          enum.QuotationStatusSent,
		ProjectID:       "PRJ",
		Header:          entity.Header{To: "ACME", ProjectName: "Office"},
		Options: []entity.QuotationOption{
			{ID: "o1", Name: "A", Summary: entity.NewSummary()},
			{ID: "o2", Name: "B", Summary: summary},
		},
		SelectedOptionIndex: 1,
		ValidUntil:          &valid,
	}
}

func TestRecordRoundTrip(t *testing.T) {
	q := createTestQuotation()

	rec, err := toRecord(q)
	require.NoError(t, err)
	assert.Equal(t, "PRJ-01", rec.QuotationNumber)
	assert.Equal(t, "Office", rec.ProjectName)
	assert.Equal(t, "ACME", rec.Recipient)
	assert.Equal(t, 47355.0, rec.TotalAmount)
	assert.Equal(t, enum.QuotationStatusSent, rec.Status)

	rec.DeletedAt = gorm.DeletedAt{Time: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC), Valid: true}
	back, err := fromRecord(rec)
	require.NoError(t, err)
	assert.Equal(t, q.ID, back.ID)
	assert.Equal(t, q.Options, back.Options)
	assert.True(t, back.IsDeleted())
}

func TestToRecordRejectsBadID(t *testing.T) {
	q := createTestQuotation()
	q.ID = "not-a-uuid"
	_, err := toRecord(q)
	assert.Error(t, err)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `P\_1\%`, escapeLike("P_1%"))
}
