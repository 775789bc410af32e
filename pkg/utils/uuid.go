package utils

import (
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// IDGenerator produces identifiers for options, categories and items.
type IDGenerator interface {
	NewID() string
}

// UUIDGenerator issues random UUIDs.
type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// SequentialIDGenerator issues prefix-1, prefix-2, ... and is safe for
// concurrent use. Tests use it for reproducible documents.
type SequentialIDGenerator struct {
	Prefix string

	mu   sync.Mutex
	next int
}

func (g *SequentialIDGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("%s-%d", g.Prefix, g.next)
}

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

var (
	unsafeFileRunes     = regexp.MustCompile(`[\\/:*?"<>|\x00-\x1f]+`)
	repeatedUnderscores = regexp.MustCompile(`_+`)
)

// SanitizeFilename replaces characters that are not allowed in file names.
// Non-ASCII letters such as CJK are kept.
func SanitizeFilename(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "_")
	s = unsafeFileRunes.ReplaceAllString(s, "_")
	s = repeatedUnderscores.ReplaceAllString(s, "_")
	return strings.Trim(s, "_.")
}
