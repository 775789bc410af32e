package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/repository"
	"github.com/sangkips/quotation-engine/pkg/apperror"
)

// SuggestionResult is a quotation after importing suggested catalog items.
type SuggestionResult struct {
	Quotation *entity.Quotation `json:"quotation"`
	Imported  []string          `json:"imported"`
	Unknown   []string          `json:"unknown,omitempty"`
}

// SuggestionService asks an ItemSuggester for catalog items that match a work
// description and imports them into the selected option.
type SuggestionService struct {
	suggester  repository.ItemSuggester
	quotations *QuotationService
	logger     *slog.Logger
}

func NewSuggestionService(suggester repository.ItemSuggester, quotations *QuotationService, logger *slog.Logger) *SuggestionService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SuggestionService{suggester: suggester, quotations: quotations, logger: logger}
}

func (s *SuggestionService) Apply(ctx context.Context, id, description string) (*SuggestionResult, error) {
	description = strings.TrimSpace(description)
	if description == "" {
		return nil, apperror.NewBadRequestError("description is required")
	}
	if _, err := s.quotations.Get(ctx, id); err != nil {
		return nil, err
	}

	ids, err := s.suggester.SuggestItems(ctx, description)
	if err != nil {
		s.logger.Error("item suggestion failed", "id", id, "error", err)
		return nil, apperror.Wrap(err, apperror.ErrUnavailable.Code, "Item suggestions are unavailable")
	}
	ids = dedupe(ids)
	if len(ids) == 0 {
		return nil, apperror.NewUnprocessableError("no catalog items match the description")
	}

	q, unknown, err := s.quotations.ImportCatalogItems(ctx, id, ids)
	if err != nil {
		return nil, err
	}
	imported := make([]string, 0, len(ids))
	skip := make(map[string]bool, len(unknown))
	for _, u := range unknown {
		skip[u] = true
	}
	for _, itemID := range ids {
		if !skip[itemID] {
			imported = append(imported, itemID)
		}
	}
	s.logger.Info("suggested items imported", "id", id, "imported", len(imported), "unknown", len(unknown))
	return &SuggestionResult{Quotation: q, Imported: imported, Unknown: unknown}, nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := ids[:0:0]
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
