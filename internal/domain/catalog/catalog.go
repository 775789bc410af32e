// Package catalog holds the standard priced items and the option presets built
// from them.
package catalog

import (
	"errors"

	"github.com/sangkips/quotation-engine/internal/domain/pricing"
)

var (
	ErrPresetNotFound = errors.New("preset not found")
	ErrItemNotFound   = errors.New("catalog item not found")
)

type Item struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	DefaultPrice float64 `json:"defaultPrice"`
	Notes        string  `json:"notes,omitempty"`
}

type Category struct {
	Code  string `json:"code"`
	Name  string `json:"name"`
	Items []Item `json:"items"`
}

// PresetSection selects catalog items of one category for a preset.
type PresetSection struct {
	CategoryCode string   `json:"categoryCode"`
	ItemIDs      []string `json:"itemIds"`
}

type Preset struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Sections    []PresetSection `json:"sections"`
}

// Catalog indexes categories and presets.
type Catalog struct {
	categories []Category
	presets    []Preset
	byID       map[string]entry
}

type entry struct {
	category *Category
	item     Item
}

// New builds a catalog over the given data.
func New(categories []Category, presets []Preset) *Catalog {
	c := &Catalog{categories: categories, presets: presets, byID: map[string]entry{}}
	for i := range c.categories {
		cat := &c.categories[i]
		for _, item := range cat.Items {
			c.byID[item.ID] = entry{category: cat, item: item}
		}
	}
	return c
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(standardCategories, standardPresets)
}

func (c *Catalog) Categories() []Category { return c.categories }

func (c *Catalog) Presets() []Preset { return c.presets }

// Lookup returns the item with id and its category.
func (c *Catalog) Lookup(id string) (Item, Category, bool) {
	e, ok := c.byID[id]
	if !ok {
		return Item{}, Category{}, false
	}
	return e.item, *e.category, true
}

// ImportItems turns catalog ids into items for pricing.Editor.ImportItems. Each
// item starts with quantity 1 at its default price. Unknown ids are returned
// separately so callers can report them.
func (c *Catalog) ImportItems(ids []string) ([]pricing.ImportedItem, []string) {
	var (
		out     []pricing.ImportedItem
		unknown []string
	)
	for _, id := range ids {
		item, cat, ok := c.Lookup(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		out = append(out, pricing.ImportedItem{
			CategoryCode: cat.Code,
			CategoryName: cat.Name,
			Item:         draft(item),
		})
	}
	return out, unknown
}

// Template resolves a preset into an option template. Sections whose category
// is unknown, and ids that do not resolve, are skipped.
func (c *Catalog) Template(presetID string) (pricing.OptionTemplate, error) {
	var preset *Preset
	for i := range c.presets {
		if c.presets[i].ID == presetID {
			preset = &c.presets[i]
			break
		}
	}
	if preset == nil {
		return pricing.OptionTemplate{}, ErrPresetNotFound
	}

	tpl := pricing.OptionTemplate{Name: preset.Name, Description: preset.Description}
	for _, section := range preset.Sections {
		cat := c.category(section.CategoryCode)
		if cat == nil {
			continue
		}
		ct := pricing.CategoryTemplate{Code: cat.Code, Name: cat.Name}
		for _, id := range section.ItemIDs {
			if e, ok := c.byID[id]; ok {
				ct.Items = append(ct.Items, draft(e.item))
			}
		}
		tpl.Categories = append(tpl.Categories, ct)
	}
	return tpl, nil
}

func (c *Catalog) category(code string) *Category {
	for i := range c.categories {
		if c.categories[i].Code == code {
			return &c.categories[i]
		}
	}
	return nil
}

func draft(item Item) pricing.ItemDraft {
	return pricing.ItemDraft{
		Name:      item.Name,
		Unit:      item.Unit,
		Quantity:  1,
		UnitPrice: item.DefaultPrice,
		Notes:     item.Notes,
	}
}
