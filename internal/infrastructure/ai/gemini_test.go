package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sangkips/quotation-engine/internal/domain/catalog"
)

func TestParseItemIDs(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"object", `{"itemIds": ["wp-1", "hydro-2"]}`, []string{"wp-1", "hydro-2"}},
		{"fenced", "```json\n{\"itemIds\": [\"wp-1\"]}\n```", []string{"wp-1"}},
		{"array", `["demo-1"]`, []string{"demo-1"}},
		{"empty", `{"itemIds": []}`, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseItemIDs(tt.text)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseItemIDs("sorry, I cannot help")
	assert.Error(t, err)
}

func TestBuildPrompt(t *testing.T) {
	p := BuildPrompt(catalog.Default(), "屋頂漏水")
	assert.Contains(t, p, "wp-1 | 參 防水工程")
	assert.Contains(t, p, "屋頂漏水")
}

func TestDisabled(t *testing.T) {
	_, err := Disabled{}.SuggestItems(context.Background(), "x")
	assert.ErrorIs(t, err, ErrDisabled)
}
