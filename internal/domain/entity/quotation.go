package entity

import (
	"time"

	"github.com/sangkips/quotation-engine/internal/domain/enum"
)

// Default rates applied to a new option summary.
const (
	DefaultManagementFeeRate = 10.0
	DefaultTaxRate           = 5.0
)

// Quotation is the whole quotation document. It is persisted as one JSON tree
// inside QuotationRecord and is the unit of pricing, pagination and export.
type Quotation struct {
	ID                  string               `json:"id"`
	QuotationNumber     string               `json:"quotationNumber"`
	Version             int                  `json:"version"`
	Status              enum.QuotationStatus `json:"status"`
	CustomerID          string               `json:"customerId,omitempty"`
	ProjectID           string               `json:"projectId,omitempty"`
	Header              Header               `json:"header"`
	Options             []QuotationOption    `json:"options"`
	SelectedOptionIndex int                  `json:"selectedOptionIndex"`
	ShowOptionName      bool                 `json:"showOptionName"`
	Responsibles        *Responsibles        `json:"responsibles,omitempty"`
	Terms               *Terms               `json:"terms,omitempty"`
	Attachments         *Attachments         `json:"attachments,omitempty"`
	ValidUntil          *time.Time           `json:"validUntil,omitempty"`
	CreatedBy           string               `json:"createdBy,omitempty"`
	CreatedByName       string               `json:"createdByName,omitempty"`
	CreatedAt           time.Time            `json:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt"`
	SentAt              *time.Time           `json:"sentAt,omitempty"`
	ApprovedAt          *time.Time           `json:"approvedAt,omitempty"`
	SignedAt            *time.Time           `json:"signedAt,omitempty"`
	Signature           string               `json:"signature,omitempty"`
	ConvertedProjectID  string               `json:"convertedProjectId,omitempty"`
	DeletedAt           *time.Time           `json:"deletedAt,omitempty"`
}

// Header carries the recipient and project block printed on the first page.
type Header struct {
	To             string `json:"to"`
	Attn           string `json:"attn,omitempty"`
	Tel            string `json:"tel,omitempty"`
	Mobile         string `json:"mobile,omitempty"`
	Fax            string `json:"fax,omitempty"`
	Email          string `json:"email,omitempty"`
	ProjectCode    string `json:"projectCode,omitempty"`
	ProjectName    string `json:"projectName"`
	ProjectAddress string `json:"projectAddress,omitempty"`
	QuotationDate  string `json:"quotationDate"`
}

// QuotationOption is one alternative priced scenario of a quotation.
type QuotationOption struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description,omitempty"`
	Categories  []ItemCategory   `json:"categories"`
	Summary     QuotationSummary `json:"summary"`
	Warranty    string           `json:"warranty,omitempty"`
}

// ItemCategory groups line items under a display code such as 壹 or 貳.
type ItemCategory struct {
	ID    string          `json:"id"`
	Code  string          `json:"code"`
	Name  string          `json:"name"`
	Items []QuotationItem `json:"items"`
}

// QuotationItem is a single priced line.
type QuotationItem struct {
	ID           string  `json:"id"`
	ItemNumber   int     `json:"itemNumber"`
	Name         string  `json:"name"`
	Unit         string  `json:"unit"`
	Quantity     float64 `json:"quantity"`
	UnitPrice    float64 `json:"unitPrice"`
	Amount       float64 `json:"amount"`
	Notes        string  `json:"notes,omitempty"`
	MaterialCode string  `json:"materialCode,omitempty"`
	IsNoiseWork  bool    `json:"isNoiseWork,omitempty"`
}

// QuotationSummary holds the derived totals of an option. Only the two rates and
// the discounts are user input; everything else is recomputed.
type QuotationSummary struct {
	Subtotal          float64    `json:"subtotal"`
	ManagementFeeRate float64    `json:"managementFeeRate"`
	ManagementFee     float64    `json:"managementFee"`
	BeforeTaxAmount   float64    `json:"beforeTaxAmount"`
	TaxRate           float64    `json:"taxRate"`
	Tax               float64    `json:"tax"`
	Discounts         []Discount `json:"discounts,omitempty"`
	TotalAmount       float64    `json:"totalAmount"`
}

// Discount is a flat deduction. Amount is the magnitude subtracted from the total.
type Discount struct {
	Name        string  `json:"name"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description,omitempty"`
}

// Terms are the printed conditions attached to a quotation.
type Terms struct {
	WorkSchedule       string       `json:"workSchedule,omitempty"`
	SafetyRequirements []string     `json:"safetyRequirements,omitempty"`
	PaymentTerms       string       `json:"paymentTerms,omitempty"`
	BankAccount        *BankAccount `json:"bankAccount,omitempty"`
	ValidityPeriod     string       `json:"validityPeriod,omitempty"`
	WarrantyYears      int          `json:"warrantyYears,omitempty"`
	OtherNotes         []string     `json:"otherNotes,omitempty"`
}

type BankAccount struct {
	BankName      string `json:"bankName"`
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
}

type Contact struct {
	Name   string `json:"name"`
	Mobile string `json:"mobile,omitempty"`
}

// Responsibles lists the people in charge, printed below the terms.
type Responsibles struct {
	SiteManager    *Contact `json:"siteManager,omitempty"`
	ProjectManager *Contact `json:"projectManager,omitempty"`
	FieldManager   *Contact `json:"fieldManager,omitempty"`
}

type Attachments struct {
	DrawingURL       string   `json:"drawingUrl,omitempty"`
	DetailDrawingURL string   `json:"detailDrawingUrl,omitempty"`
	OtherFiles       []string `json:"otherFiles,omitempty"`
}

// NewSummary returns an empty summary carrying the default rates.
func NewSummary() QuotationSummary {
	return QuotationSummary{
		ManagementFeeRate: DefaultManagementFeeRate,
		TaxRate:           DefaultTaxRate,
	}
}

// SelectedOption returns the option chosen for pricing and export, or nil when
// the index is out of range.
func (q *Quotation) SelectedOption() *QuotationOption {
	if q.SelectedOptionIndex < 0 || q.SelectedOptionIndex >= len(q.Options) {
		return nil
	}
	return &q.Options[q.SelectedOptionIndex]
}

// IsDeleted reports whether the quotation was soft deleted.
func (q *Quotation) IsDeleted() bool {
	return q.DeletedAt != nil
}

// Clone returns a deep copy of the quotation tree.
func (q *Quotation) Clone() *Quotation {
	if q == nil {
		return nil
	}
	out := *q
	out.Options = make([]QuotationOption, len(q.Options))
	for i := range q.Options {
		out.Options[i] = q.Options[i].Clone()
	}
	if q.Responsibles != nil {
		r := *q.Responsibles
		r.SiteManager = cloneContact(r.SiteManager)
		r.ProjectManager = cloneContact(r.ProjectManager)
		r.FieldManager = cloneContact(r.FieldManager)
		out.Responsibles = &r
	}
	out.Terms = q.Terms.Clone()
	if q.Attachments != nil {
		a := *q.Attachments
		a.OtherFiles = append([]string(nil), q.Attachments.OtherFiles...)
		out.Attachments = &a
	}
	out.ValidUntil = cloneTime(q.ValidUntil)
	out.SentAt = cloneTime(q.SentAt)
	out.ApprovedAt = cloneTime(q.ApprovedAt)
	out.SignedAt = cloneTime(q.SignedAt)
	out.DeletedAt = cloneTime(q.DeletedAt)
	return &out
}

// Clone returns a deep copy of the option.
func (o QuotationOption) Clone() QuotationOption {
	out := o
	out.Categories = make([]ItemCategory, len(o.Categories))
	for i, cat := range o.Categories {
		c := cat
		c.Items = append([]QuotationItem(nil), cat.Items...)
		if c.Items == nil {
			c.Items = []QuotationItem{}
		}
		out.Categories[i] = c
	}
	out.Summary.Discounts = append([]Discount(nil), o.Summary.Discounts...)
	return out
}

// Clone returns a deep copy of the terms; nil stays nil.
func (t *Terms) Clone() *Terms {
	if t == nil {
		return nil
	}
	out := *t
	out.SafetyRequirements = append([]string(nil), t.SafetyRequirements...)
	out.OtherNotes = append([]string(nil), t.OtherNotes...)
	if t.BankAccount != nil {
		b := *t.BankAccount
		out.BankAccount = &b
	}
	return &out
}

func cloneContact(c *Contact) *Contact {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
