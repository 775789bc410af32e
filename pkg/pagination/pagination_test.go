package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateClamps(t *testing.T) {
	p := &PaginationParams{Page: -3, PerPage: 500}
	p.Validate()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, maxPerPage, p.PerPage)
	assert.Zero(t, p.Offset())

	p = &PaginationParams{Page: 3}
	p.Validate()
	assert.Equal(t, defaultPerPage, p.PerPage)
	assert.Equal(t, 40, p.Offset())
}

func TestNewPagination(t *testing.T) {
	pg := NewPagination(2, 20, 41)
	assert.Equal(t, 3, pg.TotalPages)
	assert.True(t, pg.HasNext)
	assert.True(t, pg.HasPrev)

	pg = NewPagination(1, 20, 0)
	assert.Zero(t, pg.TotalPages)
	assert.False(t, pg.HasNext)
}

func TestNewPaginatedResultNeverNil(t *testing.T) {
	r := NewPaginatedResult[string](nil, NewPagination(1, 20, 0))
	assert.NotNil(t, r.Items)
}
