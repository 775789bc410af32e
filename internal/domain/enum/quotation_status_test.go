package enum

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotationStatus_JSON(t *testing.T) {
	b, err := json.Marshal(QuotationStatusSigned)
	require.NoError(t, err)
	assert.Equal(t, `"signed"`, string(b))

	var s QuotationStatus
	require.NoError(t, json.Unmarshal([]byte(`"expired"`), &s))
	assert.Equal(t, QuotationStatusExpired, s)

	require.NoError(t, json.Unmarshal([]byte(`2`), &s))
	assert.Equal(t, QuotationStatusApproved, s)

	assert.Error(t, json.Unmarshal([]byte(`"archived"`), &s))
	assert.Error(t, json.Unmarshal([]byte(`42`), &s))
}

func TestQuotationStatus_MetaTableIsComplete(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range AllQuotationStatuses() {
		m := s.Meta()
		assert.NotEmpty(t, m.Label)
		assert.NotEmpty(t, m.LabelZH)
		assert.NotEmpty(t, m.Color)
		assert.NotEmpty(t, m.Icon)
		assert.False(t, seen[m.Key], "duplicate key %s", m.Key)
		seen[m.Key] = true
	}
	assert.Len(t, seen, 7)
	assert.Equal(t, "unknown", QuotationStatus(99).String())
}

func TestQuotationStatus_Scan(t *testing.T) {
	var s QuotationStatus
	require.NoError(t, s.Scan(int64(3)))
	assert.Equal(t, QuotationStatusRejected, s)
	require.NoError(t, s.Scan("sent"))
	assert.Equal(t, QuotationStatusSent, s)
	require.NoError(t, s.Scan(nil))
	assert.Equal(t, QuotationStatusDraft, s)
}
