// Package pricing derives the monetary fields of a quotation and provides the
// structural edit operations that keep those fields consistent.
package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// Recompute returns a copy of q in which every option's item amounts, item
// numbers and summary are derived from quantities, prices, rates and discounts.
// q itself is left untouched.
func Recompute(q *entity.Quotation) *entity.Quotation {
	out := q.Clone()
	if out == nil {
		return nil
	}
	for i := range out.Options {
		out.Options[i] = RecomputeOption(out.Options[i])
	}
	return out
}

// RecomputeOption derives the amounts and summary of a single option. The
// option's slices are owned by the caller and may be modified in place.
func RecomputeOption(opt entity.QuotationOption) entity.QuotationOption {
	for c := range opt.Categories {
		if opt.Categories[c].Items == nil {
			opt.Categories[c].Items = []entity.QuotationItem{}
		}
		for i := range opt.Categories[c].Items {
			item := &opt.Categories[c].Items[i]
			item.ItemNumber = i + 1
			item.Amount = item.Quantity * item.UnitPrice
		}
	}
	if opt.Categories == nil {
		opt.Categories = []entity.ItemCategory{}
	}
	opt.Summary = Summarize(opt.Categories, opt.Summary)
	return opt
}

// Summarize computes the derived summary fields from the categories, keeping the
// rates and discounts of prev. Sums are plain float64 additions so the subtotal
// equals the sum of the item amounts exactly; only the two percentages are
// rounded, in decimal.
func Summarize(categories []entity.ItemCategory, prev entity.QuotationSummary) entity.QuotationSummary {
	var subtotal float64
	for _, cat := range categories {
		for _, item := range cat.Items {
			subtotal += item.Amount
		}
	}

	fee := percentOf(subtotal, prev.ManagementFeeRate)
	beforeTax := subtotal + fee
	tax := percentOf(beforeTax, prev.TaxRate)

	var discounts float64
	for _, d := range prev.Discounts {
		discounts += d.Amount
	}

	return entity.QuotationSummary{
		Subtotal:          subtotal,
		ManagementFeeRate: prev.ManagementFeeRate,
		ManagementFee:     fee,
		BeforeTaxAmount:   beforeTax,
		TaxRate:           prev.TaxRate,
		Tax:               tax,
		Discounts:         prev.Discounts,
		TotalAmount:       beforeTax + tax - discounts,
	}
}

// percentOf returns base × rate / 100 rounded to a whole currency unit, half
// away from zero. Non-finite operands are passed through unrounded.
func percentOf(base, rate float64) float64 {
	if !finite(base) || !finite(rate) {
		return base * rate / 100
	}
	return decimal.NewFromFloat(base).Mul(decimal.NewFromFloat(rate)).Div(hundred).Round(0).InexactFloat64()
}

// RoundCurrency rounds v to a whole currency unit, half away from zero.
func RoundCurrency(v float64) float64 {
	if !finite(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(0).InexactFloat64()
}
