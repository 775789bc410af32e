package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectName(t *testing.T) {
	a := ObjectName("company seal.PNG")
	b := ObjectName("company seal.PNG")

	assert.True(t, strings.HasPrefix(a, "assets/"))
	assert.True(t, strings.HasSuffix(a, ".png"))
	assert.NotEqual(t, a, b)
	assert.False(t, strings.Contains(ObjectName("../../etc/passwd"), ".."))
}

func TestUnavailable(t *testing.T) {
	_, err := Unavailable{}.Upload(context.Background(), "a.png", "image/png", []byte{1})
	assert.ErrorIs(t, err, ErrNotConfigured)
	_, err = Unavailable{}.Fetch(context.Background(), "a.png")
	assert.ErrorIs(t, err, ErrNotConfigured)
}
