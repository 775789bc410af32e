package pricing

import "github.com/sangkips/quotation-engine/internal/domain/entity"

// StructuralChange reports whether after differs from before in anything that
// feeds the derived amounts: option, category and item counts, quantities,
// prices, rates and discounts. Header or terms edits return false.
func StructuralChange(before, after *entity.Quotation) bool {
	if before == nil || after == nil {
		return before != after
	}
	if len(before.Options) != len(after.Options) {
		return true
	}
	for o := range before.Options {
		a, b := before.Options[o], after.Options[o]
		if len(a.Categories) != len(b.Categories) {
			return true
		}
		if a.Summary.ManagementFeeRate != b.Summary.ManagementFeeRate || a.Summary.TaxRate != b.Summary.TaxRate {
			return true
		}
		if len(a.Summary.Discounts) != len(b.Summary.Discounts) {
			return true
		}
		for d := range a.Summary.Discounts {
			if a.Summary.Discounts[d].Amount != b.Summary.Discounts[d].Amount {
				return true
			}
		}
		for c := range a.Categories {
			ai, bi := a.Categories[c].Items, b.Categories[c].Items
			if len(ai) != len(bi) {
				return true
			}
			for i := range ai {
				if ai[i].Quantity != bi[i].Quantity || ai[i].UnitPrice != bi[i].UnitPrice {
					return true
				}
			}
		}
	}
	return false
}

// NeedsRecompute reports whether any derived field of q disagrees with its
// inputs, e.g. a document saved by a client that skipped recomputation.
func NeedsRecompute(q *entity.Quotation) bool {
	for _, opt := range q.Options {
		for _, cat := range opt.Categories {
			for i, item := range cat.Items {
				if item.ItemNumber != i+1 || item.Amount != item.Quantity*item.UnitPrice {
					return true
				}
			}
		}
		want := Summarize(opt.Categories, opt.Summary)
		got := opt.Summary
		if got.Subtotal != want.Subtotal || got.ManagementFee != want.ManagementFee ||
			got.BeforeTaxAmount != want.BeforeTaxAmount || got.Tax != want.Tax ||
			got.TotalAmount != want.TotalAmount {
			return true
		}
	}
	return false
}
