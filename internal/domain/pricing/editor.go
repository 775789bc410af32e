package pricing

import (
	"errors"
	"fmt"
	"math"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/pkg/utils"
)

var (
	ErrLastOption       = errors.New("a quotation must keep at least one option")
	ErrOptionNotFound   = errors.New("option not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrItemNotFound     = errors.New("item not found")
	ErrDiscountNotFound = errors.New("discount not found")
	ErrNotFinite        = errors.New("value must be a finite number")
)

// ItemDraft is the user input for a new line item.
type ItemDraft struct {
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	Notes        string  `json:"notes,omitempty"`
	MaterialCode string  `json:"materialCode,omitempty"`
	IsNoiseWork  bool    `json:"isNoiseWork,omitempty"`
}

// ItemPatch changes the non-nil fields of an existing item.
type ItemPatch struct {
	Name         *string  `json:"name,omitempty"`
	Unit         *string  `json:"unit,omitempty"`
	Quantity     *float64 `json:"quantity,omitempty"`
	UnitPrice    *float64 `json:"unitPrice,omitempty"`
	Notes        *string  `json:"notes,omitempty"`
	MaterialCode *string  `json:"materialCode,omitempty"`
	IsNoiseWork  *bool    `json:"isNoiseWork,omitempty"`
}

// ImportedItem is an item coming from the catalog or the suggestion service,
// together with the category it belongs to.
type ImportedItem struct {
	CategoryCode string
	CategoryName string
	Item         ItemDraft
}

// OptionTemplate describes an option to be instantiated with fresh ids.
type OptionTemplate struct {
	Name        string
	Description string
	Categories  []CategoryTemplate
}

type CategoryTemplate struct {
	Code  string
	Name  string
	Items []ItemDraft
}

// Editor applies structural edits to a quotation. Every method works on a copy
// and returns it recomputed; the input is never modified.
type Editor struct {
	ids utils.IDGenerator
}

// NewEditor creates an editor that takes identifiers from ids.
func NewEditor(ids utils.IDGenerator) *Editor {
	return &Editor{ids: ids}
}

// NewOption returns an empty option with default rates.
func (e *Editor) NewOption(name string) entity.QuotationOption {
	return entity.QuotationOption{
		ID:         e.ids.NewID(),
		Name:       name,
		Categories: []entity.ItemCategory{},
		Summary:    entity.NewSummary(),
	}
}

// AddOption appends an empty option and selects it.
func (e *Editor) AddOption(q *entity.Quotation, name, description string) (*entity.Quotation, error) {
	out := q.Clone()
	opt := e.NewOption(name)
	opt.Description = description
	out.Options = append(out.Options, opt)
	out.SelectedOptionIndex = len(out.Options) - 1
	return finish(out), nil
}

// AddTemplateOption instantiates tpl as a new option and selects it. Categories
// without items are skipped.
func (e *Editor) AddTemplateOption(q *entity.Quotation, tpl OptionTemplate) (*entity.Quotation, error) {
	out := q.Clone()
	opt := e.NewOption(tpl.Name)
	opt.Description = tpl.Description
	for _, ct := range tpl.Categories {
		if len(ct.Items) == 0 {
			continue
		}
		cat := entity.ItemCategory{ID: e.ids.NewID(), Code: ct.Code, Name: ct.Name, Items: []entity.QuotationItem{}}
		for _, d := range ct.Items {
			item, err := e.newItem(d)
			if err != nil {
				return nil, err
			}
			cat.Items = append(cat.Items, item)
		}
		opt.Categories = append(opt.Categories, cat)
	}
	out.Options = append(out.Options, opt)
	out.SelectedOptionIndex = len(out.Options) - 1
	return settle(out)
}

// RemoveOption deletes an option. The last remaining option cannot be removed.
func (e *Editor) RemoveOption(q *entity.Quotation, opt int) (*entity.Quotation, error) {
	if err := checkOption(q, opt); err != nil {
		return nil, err
	}
	if len(q.Options) == 1 {
		return nil, ErrLastOption
	}
	out := q.Clone()
	out.Options = append(out.Options[:opt], out.Options[opt+1:]...)
	switch {
	case out.SelectedOptionIndex > opt:
		out.SelectedOptionIndex--
	case out.SelectedOptionIndex >= len(out.Options):
		out.SelectedOptionIndex = len(out.Options) - 1
	}
	return finish(out), nil
}

// SelectOption marks opt as the active option.
func (e *Editor) SelectOption(q *entity.Quotation, opt int) (*entity.Quotation, error) {
	if err := checkOption(q, opt); err != nil {
		return nil, err
	}
	out := q.Clone()
	out.SelectedOptionIndex = opt
	return out, nil
}

// AddCategory appends a category coded after its position.
func (e *Editor) AddCategory(q *entity.Quotation, opt int, name string) (*entity.Quotation, error) {
	if err := checkOption(q, opt); err != nil {
		return nil, err
	}
	out := q.Clone()
	o := &out.Options[opt]
	o.Categories = append(o.Categories, entity.ItemCategory{
		ID:    e.ids.NewID(),
		Code:  CategoryCode(len(o.Categories) + 1),
		Name:  name,
		Items: []entity.QuotationItem{},
	})
	return finish(out), nil
}

// RemoveCategory deletes a category and re-codes the ones after it.
func (e *Editor) RemoveCategory(q *entity.Quotation, opt, cat int) (*entity.Quotation, error) {
	if err := checkCategory(q, opt, cat); err != nil {
		return nil, err
	}
	out := q.Clone()
	o := &out.Options[opt]
	o.Categories = append(o.Categories[:cat], o.Categories[cat+1:]...)
	for i := cat; i < len(o.Categories); i++ {
		o.Categories[i].Code = CategoryCode(i + 1)
	}
	return finish(out), nil
}

// AddItem appends an item to a category.
func (e *Editor) AddItem(q *entity.Quotation, opt, cat int, d ItemDraft) (*entity.Quotation, error) {
	if err := checkCategory(q, opt, cat); err != nil {
		return nil, err
	}
	item, err := e.newItem(d)
	if err != nil {
		return nil, err
	}
	out := q.Clone()
	c := &out.Options[opt].Categories[cat]
	c.Items = append(c.Items, item)
	return settle(out)
}

// UpdateItem applies p to an existing item.
func (e *Editor) UpdateItem(q *entity.Quotation, opt, cat, idx int, p ItemPatch) (*entity.Quotation, error) {
	if err := checkItem(q, opt, cat, idx); err != nil {
		return nil, err
	}
	if p.Quantity != nil && !finite(*p.Quantity) {
		return nil, fmt.Errorf("quantity: %w", ErrNotFinite)
	}
	if p.UnitPrice != nil && !finite(*p.UnitPrice) {
		return nil, fmt.Errorf("unitPrice: %w", ErrNotFinite)
	}
	out := q.Clone()
	item := &out.Options[opt].Categories[cat].Items[idx]
	if p.Name != nil {
		item.Name = *p.Name
	}
	if p.Unit != nil {
		item.Unit = *p.Unit
	}
	if p.Quantity != nil {
		item.Quantity = *p.Quantity
	}
	if p.UnitPrice != nil {
		item.UnitPrice = *p.UnitPrice
	}
	if p.Notes != nil {
		item.Notes = *p.Notes
	}
	if p.MaterialCode != nil {
		item.MaterialCode = *p.MaterialCode
	}
	if p.IsNoiseWork != nil {
		item.IsNoiseWork = *p.IsNoiseWork
	}
	if !finite(item.Quantity * item.UnitPrice) {
		return nil, fmt.Errorf("amount: %w", ErrNotFinite)
	}
	return settle(out)
}

// RemoveItem deletes an item; the remaining items are renumbered 1..N.
func (e *Editor) RemoveItem(q *entity.Quotation, opt, cat, idx int) (*entity.Quotation, error) {
	if err := checkItem(q, opt, cat, idx); err != nil {
		return nil, err
	}
	out := q.Clone()
	c := &out.Options[opt].Categories[cat]
	c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
	return finish(out), nil
}

// MoveItem moves an item to position to within the same category.
func (e *Editor) MoveItem(q *entity.Quotation, opt, cat, from, to int) (*entity.Quotation, error) {
	if err := checkItem(q, opt, cat, from); err != nil {
		return nil, err
	}
	if err := checkItem(q, opt, cat, to); err != nil {
		return nil, err
	}
	out := q.Clone()
	items := out.Options[opt].Categories[cat].Items
	moved := items[from]
	items = append(items[:from], items[from+1:]...)
	items = append(items[:to], append([]entity.QuotationItem{moved}, items[to:]...)...)
	out.Options[opt].Categories[cat].Items = items
	return finish(out), nil
}

// SetRates changes the management fee and tax percentages of an option.
func (e *Editor) SetRates(q *entity.Quotation, opt int, managementFeeRate, taxRate float64) (*entity.Quotation, error) {
	if err := checkOption(q, opt); err != nil {
		return nil, err
	}
	if !finite(managementFeeRate) || !finite(taxRate) {
		return nil, fmt.Errorf("rates: %w", ErrNotFinite)
	}
	out := q.Clone()
	out.Options[opt].Summary.ManagementFeeRate = managementFeeRate
	out.Options[opt].Summary.TaxRate = taxRate
	return settle(out)
}

// AddDiscount appends a flat deduction to an option.
func (e *Editor) AddDiscount(q *entity.Quotation, opt int, d entity.Discount) (*entity.Quotation, error) {
	if err := checkOption(q, opt); err != nil {
		return nil, err
	}
	if !finite(d.Amount) {
		return nil, fmt.Errorf("discount amount: %w", ErrNotFinite)
	}
	out := q.Clone()
	s := &out.Options[opt].Summary
	s.Discounts = append(s.Discounts, d)
	return settle(out)
}

// RemoveDiscount deletes the idx-th discount of an option.
func (e *Editor) RemoveDiscount(q *entity.Quotation, opt, idx int) (*entity.Quotation, error) {
	if err := checkOption(q, opt); err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(q.Options[opt].Summary.Discounts) {
		return nil, ErrDiscountNotFound
	}
	out := q.Clone()
	s := &out.Options[opt].Summary
	s.Discounts = append(s.Discounts[:idx], s.Discounts[idx+1:]...)
	return finish(out), nil
}

// ImportItems adds items to an option, appending each to the category with the
// same name or creating that category when it does not exist yet.
func (e *Editor) ImportItems(q *entity.Quotation, opt int, items []ImportedItem) (*entity.Quotation, error) {
	if err := checkOption(q, opt); err != nil {
		return nil, err
	}
	out := q.Clone()
	o := &out.Options[opt]
	for _, imp := range items {
		item, err := e.newItem(imp.Item)
		if err != nil {
			return nil, err
		}
		target := -1
		for i := range o.Categories {
			if o.Categories[i].Name == imp.CategoryName {
				target = i
				break
			}
		}
		if target < 0 {
			code := imp.CategoryCode
			if code == "" {
				code = CategoryCode(len(o.Categories) + 1)
			}
			o.Categories = append(o.Categories, entity.ItemCategory{
				ID:    e.ids.NewID(),
				Code:  code,
				Name:  imp.CategoryName,
				Items: []entity.QuotationItem{},
			})
			target = len(o.Categories) - 1
		}
		o.Categories[target].Items = append(o.Categories[target].Items, item)
	}
	return settle(out)
}

// UpdateHeader replaces the header block. Prices are not affected, so the
// document is not recomputed.
func (e *Editor) UpdateHeader(q *entity.Quotation, h entity.Header) *entity.Quotation {
	out := q.Clone()
	out.Header = h
	return out
}

// UpdateTerms replaces the terms block without recomputing.
func (e *Editor) UpdateTerms(q *entity.Quotation, t *entity.Terms) *entity.Quotation {
	out := q.Clone()
	out.Terms = t.Clone()
	return out
}

func (e *Editor) newItem(d ItemDraft) (entity.QuotationItem, error) {
	if !finite(d.Quantity) {
		return entity.QuotationItem{}, fmt.Errorf("quantity: %w", ErrNotFinite)
	}
	if !finite(d.UnitPrice) {
		return entity.QuotationItem{}, fmt.Errorf("unitPrice: %w", ErrNotFinite)
	}
	if !finite(d.Quantity * d.UnitPrice) {
		return entity.QuotationItem{}, fmt.Errorf("amount: %w", ErrNotFinite)
	}
	return entity.QuotationItem{
		ID:           e.ids.NewID(),
		Name:         d.Name,
		Unit:         d.Unit,
		Quantity:     d.Quantity,
		UnitPrice:    d.UnitPrice,
		Notes:        d.Notes,
		MaterialCode: d.MaterialCode,
		IsNoiseWork:  d.IsNoiseWork,
	}, nil
}

// finish recomputes a document the editor already owns.
func finish(q *entity.Quotation) *entity.Quotation {
	for i := range q.Options {
		q.Options[i] = RecomputeOption(q.Options[i])
	}
	return q
}

// settle recomputes q and rejects it when a derived total overflows.
func settle(q *entity.Quotation) (*entity.Quotation, error) {
	q = finish(q)
	for _, opt := range q.Options {
		if !finite(opt.Summary.Subtotal) || !finite(opt.Summary.TotalAmount) {
			return nil, fmt.Errorf("totals: %w", ErrNotFinite)
		}
	}
	return q, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func checkOption(q *entity.Quotation, opt int) error {
	if opt < 0 || opt >= len(q.Options) {
		return ErrOptionNotFound
	}
	return nil
}

func checkCategory(q *entity.Quotation, opt, cat int) error {
	if err := checkOption(q, opt); err != nil {
		return err
	}
	if cat < 0 || cat >= len(q.Options[opt].Categories) {
		return ErrCategoryNotFound
	}
	return nil
}

func checkItem(q *entity.Quotation, opt, cat, idx int) error {
	if err := checkCategory(q, opt, cat); err != nil {
		return err
	}
	if idx < 0 || idx >= len(q.Options[opt].Categories[cat].Items) {
		return ErrItemNotFound
	}
	return nil
}

// AssignIDs returns a copy of q where every option, category and item without
// an id gets a fresh one. Used for whole documents sent by clients.
func (e *Editor) AssignIDs(q *entity.Quotation) *entity.Quotation {
	out := q.Clone()
	for o := range out.Options {
		opt := &out.Options[o]
		if opt.ID == "" {
			opt.ID = e.ids.NewID()
		}
		for c := range opt.Categories {
			cat := &opt.Categories[c]
			if cat.ID == "" {
				cat.ID = e.ids.NewID()
			}
			for i := range cat.Items {
				if cat.Items[i].ID == "" {
					cat.Items[i].ID = e.ids.NewID()
				}
			}
		}
	}
	return out
}
