package numbering

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
)

func quotations(numbers ...string) []entity.Quotation {
	out := make([]entity.Quotation, len(numbers))
	for i, n := range numbers {
		out[i] = entity.Quotation{QuotationNumber: n}
	}
	return out
}

func TestNext_Linked(t *testing.T) {
	g := NewGenerator()

	assert.Equal(t, "PRJ-03", g.Next("PRJ", quotations("PRJ-01", "PRJ-02")))
	assert.Equal(t, "PRJ-01", g.Next("PRJ", nil))
	assert.Equal(t, "PRJ-01", g.Next("PRJ", quotations("OTHER-07", "Q2024-123")))
}

func TestNext_MalformedSuffixesIgnored(t *testing.T) {
	g := NewGenerator()
	list := quotations("PRJ-01", "PRJ-02", "PRJ-05", "PRJ-x9", "PRJ-", "PRJ-3a", "PRJ-04-2")

	assert.Equal(t, "PRJ-06", g.Next("PRJ", list))
}

func TestNext_ExactPrefix(t *testing.T) {
	g := NewGenerator()
	list := quotations("PRJ2-40", "PRJ-02", "XPRJ-90")

	assert.Equal(t, "PRJ-03", g.Next("PRJ", list))
}

func TestNext_WidensPastTwoDigits(t *testing.T) {
	g := NewGenerator()
	assert.Equal(t, "PRJ-100", g.Next("PRJ", quotations("PRJ-99")))
}

func TestNext_Unlinked(t *testing.T) {
	g := NewGenerator()
	assert.Regexp(t, regexp.MustCompile(`^Q\d{4}-\d{3}$`), g.Next("", nil))

	fixed := &Generator{
		Now:  func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) },
		Intn: func(int) int { return 7 },
	}
	assert.Equal(t, "Q2025-007", fixed.Next("", quotations("Q2025-007")))
}

func TestParseSerial(t *testing.T) {
	serial, ok := ParseSerial("PRJ-012", "PRJ")
	assert.True(t, ok)
	assert.Equal(t, 12, serial)

	_, ok = ParseSerial("PRJ-1.5", "PRJ")
	assert.False(t, ok)
	_, ok = ParseSerial("PRJ-+3", "PRJ")
	assert.False(t, ok)
}
