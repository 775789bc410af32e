package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/sangkips/quotation-engine/internal/application/render"
	"github.com/sangkips/quotation-engine/internal/domain/catalog"
	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/enum"
	"github.com/sangkips/quotation-engine/internal/domain/lifecycle"
	"github.com/sangkips/quotation-engine/internal/domain/numbering"
	"github.com/sangkips/quotation-engine/internal/domain/pricing"
	"github.com/sangkips/quotation-engine/internal/domain/repository"
	"github.com/sangkips/quotation-engine/pkg/apperror"
	"github.com/sangkips/quotation-engine/pkg/pagination"
	"github.com/sangkips/quotation-engine/pkg/utils"
)

const (
	dateLayout        = "2006-01-02"
	defaultOptionName = "方案A"
)

// QuotationService handles quotation-related operations
type QuotationService struct {
	quotationRepo repository.QuotationRepository
	sequenceRepo  repository.SequenceRepository
	publisher     repository.EventPublisher
	catalog       *catalog.Catalog
	editor        *pricing.Editor
	ids           utils.IDGenerator
	numbers       *numbering.Generator
	now           func() time.Time
	logger        *slog.Logger
}

// NewQuotationService creates a new quotation service
func NewQuotationService(
	quotationRepo repository.QuotationRepository,
	sequenceRepo repository.SequenceRepository,
	publisher repository.EventPublisher,
	cat *catalog.Catalog,
	ids utils.IDGenerator,
	logger *slog.Logger,
) *QuotationService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QuotationService{
		quotationRepo: quotationRepo,
		sequenceRepo:  sequenceRepo,
		publisher:     publisher,
		catalog:       cat,
		editor:        pricing.NewEditor(ids),
		ids:           ids,
		numbers:       numbering.NewGenerator(),
		now:           time.Now,
		logger:        logger,
	}
}

// WithClock replaces the wall clock, for tests.
func (s *QuotationService) WithClock(now func() time.Time) *QuotationService {
	s.now = now
	s.numbers.Now = now
	return s
}

// CreateQuotationInput represents the input for creating a quotation
type CreateQuotationInput struct {
	ProjectID      string
	CustomerID     string
	Header         entity.Header
	Options        []entity.QuotationOption
	ShowOptionName bool
	Responsibles   *entity.Responsibles
	Terms          *entity.Terms
	Attachments    *entity.Attachments
	ValidUntil     *time.Time
	CreatedBy      string
	CreatedByName  string
}

// UpdateQuotationInput replaces the editable parts of a draft.
type UpdateQuotationInput struct {
	CustomerID          string
	Header              entity.Header
	Options             []entity.QuotationOption
	SelectedOptionIndex int
	ShowOptionName      bool
	Responsibles        *entity.Responsibles
	Terms               *entity.Terms
	Attachments         *entity.Attachments
	ValidUntil          *time.Time
}

// Create creates a numbered, recomputed draft.
func (s *QuotationService) Create(ctx context.Context, input *CreateQuotationInput) (*entity.Quotation, error) {
	now := s.now()
	q := &entity.Quotation{
		ID:             s.ids.NewID(),
		Version:        1,
		Status:         enum.QuotationStatusDraft,
		CustomerID:     input.CustomerID,
		ProjectID:      input.ProjectID,
		Header:         input.Header,
		Options:        input.Options,
		ShowOptionName: input.ShowOptionName,
		Responsibles:   input.Responsibles,
		Terms:          input.Terms,
		Attachments:    input.Attachments,
		ValidUntil:     input.ValidUntil,
		CreatedBy:      input.CreatedBy,
		CreatedByName:  input.CreatedByName,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if len(q.Options) == 0 {
		q.Options = []entity.QuotationOption{s.editor.NewOption(defaultOptionName)}
	}
	if q.Header.QuotationDate == "" {
		q.Header.QuotationDate = now.Format(dateLayout)
	}
	if errs := pricing.Validate(q); len(errs) > 0 {
		return nil, apperror.NewValidationError(errs)
	}
	q = pricing.Recompute(s.editor.AssignIDs(q))

	number, err := s.nextNumber(ctx, q.ProjectID)
	if err != nil {
		return nil, err
	}
	q.QuotationNumber = number

	if err := s.quotationRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	s.logger.Info("quotation created", "id", q.ID, "number", q.QuotationNumber)
	return q, nil
}

// nextNumber reserves a number. Linked numbers come from the atomic per-project
// counter; the highest serial already in use is its floor so legacy numbers
// are never reissued.
func (s *QuotationService) nextNumber(ctx context.Context, projectID string) (string, error) {
	if projectID == "" {
		return s.numbers.Unlinked(), nil
	}
	existing, err := s.quotationRepo.ListByProject(ctx, projectID)
	if err != nil {
		return "", err
	}
	serial, err := s.sequenceRepo.NextSerial(ctx, projectID, numbering.MaxSerial(projectID, existing))
	if err != nil {
		return "", fmt.Errorf("reserve serial for %s: %w", projectID, err)
	}
	return numbering.FormatProjectNumber(projectID, serial), nil
}

// Get returns a quotation that is not deleted.
func (s *QuotationService) Get(ctx context.Context, id string) (*entity.Quotation, error) {
	q, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q == nil || q.IsDeleted() {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	return q, nil
}

// GetByNumber resolves a quotation number. After a project reassignment the old
// number no longer resolves.
func (s *QuotationService) GetByNumber(ctx context.Context, number string) (*entity.Quotation, error) {
	q, err := s.quotationRepo.GetByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if q == nil || q.IsDeleted() {
		return nil, apperror.NewNotFoundError("Quotation")
	}
	return q, nil
}

func (s *QuotationService) List(ctx context.Context, params *repository.QuotationFilterParams) (*pagination.PaginatedResult[entity.Quotation], error) {
	if params.Pagination == nil {
		params.Pagination = pagination.DefaultPagination()
	}
	params.Pagination.Validate()
	items, total, err := s.quotationRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return pagination.NewPaginatedResult(items,
		pagination.NewPagination(params.Pagination.Page, params.Pagination.PerPage, total)), nil
}

// Update saves a whole draft document. Derived amounts are recomputed when the
// pricing inputs changed or the client sent stale totals.
func (s *QuotationService) Update(ctx context.Context, id string, input *UpdateQuotationInput) (*entity.Quotation, error) {
	return s.edit(ctx, id, func(q *entity.Quotation) (*entity.Quotation, error) {
		next := q.Clone()
		next.CustomerID = input.CustomerID
		next.Header = input.Header
		next.Options = input.Options
		next.SelectedOptionIndex = input.SelectedOptionIndex
		next.ShowOptionName = input.ShowOptionName
		next.Responsibles = input.Responsibles
		next.Terms = input.Terms
		next.Attachments = input.Attachments
		next.ValidUntil = input.ValidUntil

		if errs := pricing.Validate(next); len(errs) > 0 {
			return nil, apperror.NewValidationError(errs)
		}
		next = s.editor.AssignIDs(next)
		if pricing.StructuralChange(q, next) || pricing.NeedsRecompute(next) {
			next = pricing.Recompute(next)
		}
		return next, nil
	})
}

// Delete soft deletes a quotation. Its number stays reserved.
func (s *QuotationService) Delete(ctx context.Context, id string) error {
	q, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.quotationRepo.SoftDelete(ctx, q.ID, s.now()); err != nil {
		return err
	}
	s.logger.Info("quotation deleted", "id", q.ID, "number", q.QuotationNumber)
	return nil
}

// Copy duplicates a quotation as a new draft with its own number, starting
// again at version 1 and dated today.
func (s *QuotationService) Copy(ctx context.Context, id string) (*entity.Quotation, error) {
	src, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	now := s.now()
	q := src.Clone()
	q.ID = s.ids.NewID()
	q.Version = 1
	q.Status = enum.QuotationStatusDraft
	q.Header.QuotationDate = now.Format(dateLayout)
	q.CreatedAt = now
	q.UpdatedAt = now
	q.SentAt, q.ApprovedAt, q.SignedAt = nil, nil, nil
	q.Signature = ""
	q.ConvertedProjectID = ""

	if q.QuotationNumber, err = s.nextNumber(ctx, q.ProjectID); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.Create(ctx, q); err != nil {
		return nil, err
	}
	s.logger.Info("quotation copied", "from", src.QuotationNumber, "to", q.QuotationNumber)
	return q, nil
}

// ReassignProject links a draft to another project and renumbers it. The id
// is kept; the previous number stops resolving.
func (s *QuotationService) ReassignProject(ctx context.Context, id, projectID string) (*entity.Quotation, error) {
	return s.edit(ctx, id, func(q *entity.Quotation) (*entity.Quotation, error) {
		if q.ProjectID == projectID {
			return q, nil
		}
		number, err := s.nextNumber(ctx, projectID)
		if err != nil {
			return nil, err
		}
		next := q.Clone()
		s.logger.Info("quotation renumbered", "id", q.ID, "from", q.QuotationNumber, "to", number)
		next.ProjectID = projectID
		next.QuotationNumber = number
		return next, nil
	})
}

// Transition applies a normal lifecycle transition.
func (s *QuotationService) Transition(ctx context.Context, id string, to enum.QuotationStatus) (*entity.Quotation, error) {
	return s.changeStatus(ctx, id, func(q *entity.Quotation, now time.Time) error {
		return lifecycle.Transition(q, to, now)
	})
}

// Sign stores the customer's signature and moves the quotation to signed.
func (s *QuotationService) Sign(ctx context.Context, id, signature string) (*entity.Quotation, error) {
	if signature != "" && !strings.HasPrefix(signature, "data:") && !render.IsStoredRef(signature) {
		return nil, apperror.NewBadRequestError("signature must be a data url or an uploaded file id")
	}
	return s.changeStatus(ctx, id, func(q *entity.Quotation, now time.Time) error {
		return lifecycle.Sign(q, signature, now)
	})
}

// Convert records the project created from the quotation.
func (s *QuotationService) Convert(ctx context.Context, id, projectID string) (*entity.Quotation, error) {
	return s.changeStatus(ctx, id, func(q *entity.Quotation, now time.Time) error {
		return lifecycle.Convert(q, projectID, now)
	})
}

func (s *QuotationService) changeStatus(ctx context.Context, id string, apply func(*entity.Quotation, time.Time) error) (*entity.Quotation, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	from := q.Status
	now := s.now()
	if err := apply(q, now); err != nil {
		return nil, translate(err)
	}
	if err := s.quotationRepo.Update(ctx, q); err != nil {
		return nil, err
	}
	s.publish(ctx, q, from, now)
	return q, nil
}

// publish reports a status change. Delivery failures are logged only; the
// transition is already stored.
func (s *QuotationService) publish(ctx context.Context, q *entity.Quotation, from enum.QuotationStatus, at time.Time) {
	ev := repository.StatusChanged{
		QuotationID:     q.ID,
		QuotationNumber: q.QuotationNumber,
		From:            from,
		To:              q.Status,
		At:              at,
	}
	if err := s.publisher.PublishStatusChanged(ctx, ev); err != nil {
		s.logger.Warn("status event not published", "id", q.ID, "to", q.Status.String(), "error", err)
	}
}

// edit loads a draft, applies fn and stores the result as the next version.
// When fn hands back the loaded document itself nothing changed and nothing is
// stored.
func (s *QuotationService) edit(ctx context.Context, id string, fn func(*entity.Quotation) (*entity.Quotation, error)) (*entity.Quotation, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !lifecycle.Editable(q.Status) {
		return nil, translate(fmt.Errorf("%w: quotation is %s", lifecycle.ErrNotEditable, q.Status))
	}
	next, err := fn(q)
	if err != nil {
		return nil, translate(err)
	}
	if next == q {
		return q, nil
	}
	next.Version = q.Version + 1
	next.UpdatedAt = s.now()
	if err := s.quotationRepo.Update(ctx, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *QuotationService) AddCategory(ctx context.Context, id string, opt int, name string) (*entity.Quotation, error) {
	return s.edit(ctx, id, func(q *entity.Quotation) (*entity.Quotation, error) {
		return s.editor.AddCategory(q, opt, name)
	})
}

func (s *QuotationService) AddItem(ctx context.Context, id string, opt, cat int, draft pricing.ItemDraft) (*entity.Quotation, error) {
	return s.edit(ctx, id, func(q *entity.Quotation) (*entity.Quotation, error) {
		return s.editor.AddItem(q, opt, cat, draft)
	})
}

func (s *QuotationService) UpdateItem(ctx context.Context, id string, opt, cat, item int, patch pricing.ItemPatch) (*entity.Quotation, error) {
	return s.edit(ctx, id, func(q *entity.Quotation) (*entity.Quotation, error) {
		return s.editor.UpdateItem(q, opt, cat, item, patch)
	})
}

// RemoveItem deletes an item; the remaining items are renumbered densely.
func (s *QuotationService) RemoveItem(ctx context.Context, id string, opt, cat, item int) (*entity.Quotation, error) {
	return s.edit(ctx, id, func(q *entity.Quotation) (*entity.Quotation, error) {
		return s.editor.RemoveItem(q, opt, cat, item)
	})
}

// RemoveOption deletes an option. The last option cannot be removed.
func (s *QuotationService) RemoveOption(ctx context.Context, id string, opt int) (*entity.Quotation, error) {
	return s.edit(ctx, id, func(q *entity.Quotation) (*entity.Quotation, error) {
		return s.editor.RemoveOption(q, opt)
	})
}

// ApplyPreset adds a catalog preset as a new, selected option.
func (s *QuotationService) ApplyPreset(ctx context.Context, id, presetID string) (*entity.Quotation, error) {
	return s.edit(ctx, id, func(q *entity.Quotation) (*entity.Quotation, error) {
		tpl, err := s.catalog.Template(presetID)
		if err != nil {
			return nil, err
		}
		return s.editor.AddTemplateOption(q, tpl)
	})
}

// ImportCatalogItems adds catalog items to the selected option. Ids that are
// not in the catalog are returned.
func (s *QuotationService) ImportCatalogItems(ctx context.Context, id string, itemIDs []string) (*entity.Quotation, []string, error) {
	items, unknown := s.catalog.ImportItems(itemIDs)
	q, err := s.edit(ctx, id, func(q *entity.Quotation) (*entity.Quotation, error) {
		return s.editor.ImportItems(q, q.SelectedOptionIndex, items)
	})
	return q, unknown, err
}

// Presets lists the catalog presets.
func (s *QuotationService) Presets() []catalog.Preset {
	return s.catalog.Presets()
}
