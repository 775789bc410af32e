package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSuggestionService_Apply(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput(""))
	require.NoError(t, err)

	s := NewSuggestionService(stubSuggester{ids: []string{"wp-1", "nope", "wp-1", " hydro-2 "}}, f.svc, nil)
	res, err := s.Apply(ctx, q.ID, "屋頂漏水需要灌注止漏")
	require.NoError(t, err)

	assert.Equal(t, []string{"wp-1", "hydro-2"}, res.Imported)
	assert.Equal(t, []string{"nope"}, res.Unknown)
	assert.Equal(t, 2, res.Quotation.Version)
	assert.Len(t, res.Quotation.Options[0].Categories, 3)
	assert.Greater(t, res.Quotation.Options[0].Summary.Subtotal, q.Options[0].Summary.Subtotal)
}

func TestSuggestionService_Errors(t *testing.T) {
	f := newServiceFixture()
	ctx := context.Background()
	q, err := f.svc.Create(ctx, createTestInput(""))
	require.NoError(t, err)

	s := NewSuggestionService(stubSuggester{}, f.svc, nil)
	_, err = s.Apply(ctx, q.ID, "  ")
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))

	_, err = s.Apply(ctx, q.ID, "anything")
	assert.Equal(t, http.StatusUnprocessableEntity, appCode(t, err))

	s = NewSuggestionService(stubSuggester{err: errors.New("quota exceeded")}, f.svc, nil)
	_, err = s.Apply(ctx, q.ID, "anything")
	assert.Equal(t, http.StatusServiceUnavailable, appCode(t, err))

	_, err = s.Apply(ctx, "missing", "anything")
	assert.Equal(t, http.StatusNotFound, appCode(t, err))
}
