// Package ai suggests catalog items for a free-text work description.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/sangkips/quotation-engine/internal/domain/catalog"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("item suggestions are disabled")

const maxSuggestions = 20

// GeminiSuggester implements repository.ItemSuggester. The model only picks
// ids from the catalog listing sent with every prompt.
type GeminiSuggester struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	catalog *catalog.Catalog
	logger  *slog.Logger
}

func NewGeminiSuggester(ctx context.Context, apiKey, modelName string, cat *catalog.Catalog, logger *slog.Logger) (*GeminiSuggester, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("genai client init failed: %w", err)
	}
	model := client.GenerativeModel(modelName)
	model.SetTemperature(0)
	model.ResponseMIMEType = "application/json"
	return &GeminiSuggester{client: client, model: model, catalog: cat, logger: logger}, nil
}

func (g *GeminiSuggester) SuggestItems(ctx context.Context, description string) ([]string, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(BuildPrompt(g.catalog, description)))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("no content returned from AI")
	}
	text, ok := resp.Candidates[0].Content.Parts[0].(genai.Text)
	if !ok {
		return nil, fmt.Errorf("response part is not text, received %T", resp.Candidates[0].Content.Parts[0])
	}
	ids, err := ParseItemIDs(string(text))
	if err != nil {
		return nil, err
	}
	g.logger.Info("items suggested", "count", len(ids))
	return ids, nil
}

func (g *GeminiSuggester) Close() error {
	return g.client.Close()
}

// BuildPrompt lists the catalog and asks for matching item ids as JSON.
func BuildPrompt(cat *catalog.Catalog, description string) string {
	var b strings.Builder
	b.WriteString("You prepare renovation quotations. Pick the catalog items needed for the work described below.\n")
	fmt.Fprintf(&b, "Reply with a JSON object {\"itemIds\": [...]} using only ids from the catalog, at most %d ids.\n\n", maxSuggestions)
	b.WriteString("Catalog (id | category | name | unit):\n")
	for _, c := range cat.Categories() {
		for _, item := range c.Items {
			fmt.Fprintf(&b, "%s | %s %s | %s | %s\n", item.ID, c.Code, c.Name, item.Name, item.Unit)
		}
	}
	b.WriteString("\nWork description:\n")
	b.WriteString(description)
	return b.String()
}

// ParseItemIDs reads {"itemIds": [...]} or a bare array, with or without a
// markdown code fence.
func ParseItemIDs(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var ids []string
	if strings.HasPrefix(text, "[") {
		if err := json.Unmarshal([]byte(text), &ids); err != nil {
			return nil, fmt.Errorf("failed to unmarshal AI response: %w", err)
		}
	} else {
		var body struct {
			ItemIDs []string `json:"itemIds"`
		}
		if err := json.Unmarshal([]byte(text), &body); err != nil {
			return nil, fmt.Errorf("failed to unmarshal AI response: %w", err)
		}
		ids = body.ItemIDs
	}
	if len(ids) > maxSuggestions {
		ids = ids[:maxSuggestions]
	}
	return ids, nil
}

// Disabled is the ItemSuggester used without an API key.
type Disabled struct{}

func (Disabled) SuggestItems(context.Context, string) ([]string, error) {
	return nil, ErrDisabled
}
