package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/enum"
)

var now = time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

func TestCanTransition(t *testing.T) {
	valid := [][2]enum.QuotationStatus{
		{enum.QuotationStatusDraft, enum.QuotationStatusSent},
		{enum.QuotationStatusSent, enum.QuotationStatusApproved},
		{enum.QuotationStatusSent, enum.QuotationStatusRejected},
		{enum.QuotationStatusSent, enum.QuotationStatusExpired},
		{enum.QuotationStatusDraft, enum.QuotationStatusSigned},
		{enum.QuotationStatusSent, enum.QuotationStatusSigned},
		{enum.QuotationStatusApproved, enum.QuotationStatusSigned},
		{enum.QuotationStatusApproved, enum.QuotationStatusConverted},
		{enum.QuotationStatusSigned, enum.QuotationStatusConverted},
	}
	for _, tr := range valid {
		assert.True(t, CanTransition(tr[0], tr[1]), "%s → %s", tr[0], tr[1])
	}

	invalid := [][2]enum.QuotationStatus{
		{enum.QuotationStatusDraft, enum.QuotationStatusApproved},
		{enum.QuotationStatusSent, enum.QuotationStatusDraft},
		{enum.QuotationStatusRejected, enum.QuotationStatusSent},
		{enum.QuotationStatusExpired, enum.QuotationStatusSigned},
		{enum.QuotationStatusConverted, enum.QuotationStatusSigned},
		{enum.QuotationStatusSigned, enum.QuotationStatusApproved},
	}
	for _, tr := range invalid {
		assert.False(t, CanTransition(tr[0], tr[1]), "%s → %s", tr[0], tr[1])
	}
}

func TestTerminalStatesHaveNoExits(t *testing.T) {
	for _, s := range enum.AllQuotationStatuses() {
		if s.Meta().Terminal {
			assert.Empty(t, Allowed(s), s.String())
		}
	}
}

func TestTransition_StampsTimes(t *testing.T) {
	q := &entity.Quotation{Status: enum.QuotationStatusDraft}

	require.NoError(t, Transition(q, enum.QuotationStatusSent, now))
	assert.Equal(t, enum.QuotationStatusSent, q.Status)
	require.NotNil(t, q.SentAt)
	assert.Equal(t, now, *q.SentAt)

	later := now.Add(time.Hour)
	require.NoError(t, Transition(q, enum.QuotationStatusApproved, later))
	require.NotNil(t, q.ApprovedAt)
	assert.Equal(t, later, *q.ApprovedAt)
	assert.Equal(t, later, q.UpdatedAt)
}

func TestTransition_Invalid(t *testing.T) {
	q := &entity.Quotation{Status: enum.QuotationStatusDraft}

	err := Transition(q, enum.QuotationStatusApproved, now)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, enum.QuotationStatusDraft, q.Status)

	assert.ErrorIs(t, Transition(q, enum.QuotationStatusSigned, now), ErrInvalidTransition)
}

func TestSign(t *testing.T) {
	for _, from := range []enum.QuotationStatus{enum.QuotationStatusDraft, enum.QuotationStatusSent, enum.QuotationStatusApproved} {
		q := &entity.Quotation{Status: from}
		require.NoError(t, Sign(q, "data:image/png;base64,AAAA", now), from.String())
		assert.Equal(t, enum.QuotationStatusSigned, q.Status)
		assert.Equal(t, "data:image/png;base64,AAAA", q.Signature)
		require.NotNil(t, q.SignedAt)
	}

	q := &entity.Quotation{Status: enum.QuotationStatusRejected}
	assert.ErrorIs(t, Sign(q, "sig", now), ErrInvalidTransition)

	q = &entity.Quotation{Status: enum.QuotationStatusDraft}
	assert.ErrorIs(t, Sign(q, "", now), ErrSignatureRequired)
}

func TestConvert(t *testing.T) {
	q := &entity.Quotation{Status: enum.QuotationStatusSigned}
	require.NoError(t, Convert(q, "PRJ-9", now))
	assert.Equal(t, enum.QuotationStatusConverted, q.Status)
	assert.Equal(t, "PRJ-9", q.ConvertedProjectID)

	assert.ErrorIs(t, Convert(&entity.Quotation{Status: enum.QuotationStatusSent}, "P", now), ErrInvalidTransition)
	assert.ErrorIs(t, Convert(&entity.Quotation{Status: enum.QuotationStatusApproved}, "", now), ErrProjectRequired)
}

func TestExpire(t *testing.T) {
	past := now.Add(-24 * time.Hour)
	future := now.Add(24 * time.Hour)

	q := &entity.Quotation{Status: enum.QuotationStatusSent, ValidUntil: &past}
	assert.True(t, Expire(q, now))
	assert.Equal(t, enum.QuotationStatusExpired, q.Status)

	assert.False(t, Expire(&entity.Quotation{Status: enum.QuotationStatusSent, ValidUntil: &future}, now))
	assert.False(t, Expire(&entity.Quotation{Status: enum.QuotationStatusSent}, now))
	assert.False(t, Expire(&entity.Quotation{Status: enum.QuotationStatusDraft, ValidUntil: &past}, now))
}

func TestEditable(t *testing.T) {
	assert.True(t, Editable(enum.QuotationStatusDraft))
	assert.False(t, Editable(enum.QuotationStatusSent))
	assert.False(t, Editable(enum.QuotationStatusSigned))
}
