package layout

import (
	"fmt"
	"strings"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
)

// Typographic metrics in millimetres and points, shared by the renderers.
const (
	BodyFontSize    = 9.0
	TextFontSize    = 9.0
	RowLineHeight   = 4.2
	RowPadding      = 2.8
	MinRowHeight    = 7.0
	TableHeaderH    = 8.0
	CategoryHeaderH = 8.0
	SectionTitleH   = 8.0
	TextLineHeight  = 5.0
	FieldLineHeight = 6.0
	BlockGap        = 4.0
	IdentityBandH   = 32.0
	OptionTitleH    = 8.0
	TotalLineH      = 10.0
	BankSealSize    = 28.0
	SignatureH      = 34.0
	termsIndent     = 10.0
)

// BlockKind identifies what a block draws.
type BlockKind int

const (
	BlockCover BlockKind = iota
	BlockTableHeader
	BlockCategoryHeader
	BlockItemRow
	BlockTotals
	BlockTerms
	BlockBankAccount
	BlockSignature
	BlockContacts
	BlockPhoto
)

var blockKindNames = [...]string{
	"cover", "table-header", "category-header", "item-row", "totals",
	"terms", "bank-account", "signature", "contacts", "photo",
}

func (k BlockKind) String() string {
	if k < 0 || int(k) >= len(blockKindNames) {
		return "unknown"
	}
	return blockKindNames[k]
}

// Block is an atomic unit of content. It is never split across pages.
type Block struct {
	Kind     BlockKind `json:"kind"`
	Height   float64   `json:"height"`
	Category int       `json:"category"` // index in the option, -1 when not applicable
	Item     int       `json:"item"`     // index in the category, -1 when not applicable
	Lines    []string  `json:"lines,omitempty"`
	Photo    *Photo    `json:"photo,omitempty"`
	Overflow bool      `json:"overflow,omitempty"` // taller than an empty page
}

// Field is a label/value pair printed in the cover or totals panel.
type Field struct {
	Label string
	Value string
}

// CoverFields returns the recipient and project rows printed on page one.
func CoverFields(q *entity.Quotation) []Field {
	h := q.Header
	fields := []Field{{Label: "TO", Value: h.To}}
	add := func(label, value string) {
		if value != "" {
			fields = append(fields, Field{Label: label, Value: value})
		}
	}
	add("ATTN", h.Attn)
	add("TEL", h.Tel)
	add("MOBILE", h.Mobile)
	add("FAX", h.Fax)
	add("EMAIL", h.Email)
	add("Project ID", q.ProjectID)
	add("Project Code", h.ProjectCode)
	fields = append(fields, Field{Label: "Project", Value: h.ProjectName})
	add("Address", h.ProjectAddress)
	return fields
}

// InfoFields returns the document rows printed on the right of the cover.
func InfoFields(q *entity.Quotation) []Field {
	return []Field{
		{Label: "Quote No.", Value: q.QuotationNumber},
		{Label: "Date", Value: q.Header.QuotationDate},
		{Label: "Version", Value: fmt.Sprintf("v%d", q.Version)},
	}
}

// OptionTitle returns the heading of the selected option, or "" when none is
// printed.
func OptionTitle(q *entity.Quotation, opt *entity.QuotationOption) string {
	switch {
	case opt.Description != "":
		return opt.Name + ": " + opt.Description
	case q.ShowOptionName:
		return opt.Name
	}
	return ""
}

// ItemDescription is the text of the description cell.
func ItemDescription(item entity.QuotationItem) string {
	if item.Notes == "" {
		return item.Name
	}
	return item.Name + " (" + item.Notes + ")"
}

// TermsLines returns the printed lines of the terms block, before wrapping.
func TermsLines(t *entity.Terms) []string {
	if t == nil {
		return nil
	}
	var lines []string
	add := func(label, value string) {
		if value != "" {
			lines = append(lines, "- "+label+": "+value)
		}
	}
	add("Work Schedule 工期說明", t.WorkSchedule)
	add("Payment Terms 付款方式", t.PaymentTerms)
	add("Valid Until 有效期限", t.ValidityPeriod)
	if t.WarrantyYears > 0 {
		add("Warranty 保固年限", fmt.Sprintf("%d years", t.WarrantyYears))
	}
	if len(t.SafetyRequirements) > 0 {
		lines = append(lines, "- Safety 安全規範: "+strings.Join(t.SafetyRequirements, "；"))
	}
	for i, note := range t.OtherNotes {
		lines = append(lines, fmt.Sprintf("%d. %s", i+1, note))
	}
	return lines
}

// BankLines returns the printed lines of the bank account block.
func BankLines(b *entity.BankAccount) []string {
	if b == nil {
		return nil
	}
	return []string{
		"Bank 銀行: " + b.BankName,
		"Account Name 戶名: " + b.AccountName,
		"Account No. 帳號: " + b.AccountNumber,
	}
}

// ContactLines returns the printed lines of the responsibles block.
func ContactLines(r *entity.Responsibles) []string {
	if r == nil {
		return nil
	}
	var lines []string
	add := func(label string, c *entity.Contact) {
		if c == nil || c.Name == "" {
			return
		}
		line := label + ": " + c.Name
		if c.Mobile != "" {
			line += " (" + c.Mobile + ")"
		}
		lines = append(lines, line)
	}
	add("Site Manager 工地負責人", r.SiteManager)
	add("Project Manager 專案負責人", r.ProjectManager)
	add("Field Manager 現場負責人", r.FieldManager)
	return lines
}

// TotalsRows returns the summary lines above the grand total.
func TotalsRows(s entity.QuotationSummary, money func(float64) string) []Field {
	rows := []Field{
		{Label: "Subtotal 項目小計", Value: money(s.Subtotal)},
		{Label: fmt.Sprintf("Management Fee 工安管理費 (%g%%)", s.ManagementFeeRate), Value: money(s.ManagementFee)},
		{Label: "Subtotal Before Tax 未稅金額", Value: money(s.BeforeTaxAmount)},
		{Label: fmt.Sprintf("Tax 營業稅 (%g%%)", s.TaxRate), Value: money(s.Tax)},
	}
	for _, d := range s.Discounts {
		rows = append(rows, Field{Label: d.Name, Value: "-" + money(d.Amount)})
	}
	return rows
}
