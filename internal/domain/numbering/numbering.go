// Package numbering assigns human-readable quotation numbers.
//
// Linked quotations are numbered {projectId}-{serial} with the serial padded to
// two digits. Unlinked quotations get Q{year}-{nnn}, a label that is not
// guaranteed to be unique.
package numbering

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
)

// Generator computes the next quotation number. Now and Intn are injectable so
// the unlinked label is reproducible in tests.
type Generator struct {
	Now  func() time.Time
	Intn func(n int) int
}

// NewGenerator returns a generator using the wall clock and math/rand.
func NewGenerator() *Generator {
	return &Generator{Now: time.Now, Intn: rand.Intn}
}

// Next returns the number for a new quotation given a snapshot of the existing
// ones. The result is only unique if the snapshot is current; the service layer
// serializes linked numbering through an atomic counter.
func (g *Generator) Next(projectID string, existing []entity.Quotation) string {
	if projectID == "" {
		return g.Unlinked()
	}
	return FormatProjectNumber(projectID, MaxSerial(projectID, existing)+1)
}

// Unlinked returns a Q{yyyy}-{nnn} label.
func (g *Generator) Unlinked() string {
	return fmt.Sprintf("Q%04d-%03d", g.Now().Year(), g.Intn(1000))
}

// MaxSerial returns the highest serial among numbers carrying the exact prefix
// "{projectID}-", or 0 when there are none. Non-numeric suffixes are ignored.
func MaxSerial(projectID string, existing []entity.Quotation) int {
	highest := 0
	for i := range existing {
		if serial, ok := ParseSerial(existing[i].QuotationNumber, projectID); ok && serial > highest {
			highest = serial
		}
	}
	return highest
}

// ParseSerial extracts the serial of number for projectID.
func ParseSerial(number, projectID string) (int, bool) {
	suffix, found := strings.CutPrefix(number, projectID+"-")
	if !found || suffix == "" {
		return 0, false
	}
	for _, r := range suffix {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	serial, err := strconv.Atoi(suffix)
	if err != nil {
		return 0, false
	}
	return serial, true
}

// FormatProjectNumber renders a linked quotation number.
func FormatProjectNumber(projectID string, serial int) string {
	return fmt.Sprintf("%s-%02d", projectID, serial)
}
