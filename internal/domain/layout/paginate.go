package layout

import (
	"errors"
	"math"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/enum"
)

var ErrNoSelectedOption = errors.New("quotation has no selected option")

// Chrome tells a renderer which header to draw above the content.
type Chrome int

const (
	ChromeFull Chrome = iota
	ChromeContinuation
)

func (c Chrome) String() string {
	if c == ChromeContinuation {
		return "continuation"
	}
	return "full"
}

// PageDescriptor is one output page.
type PageDescriptor struct {
	Index  int        `json:"index"`
	Total  int        `json:"total"`
	Chrome Chrome     `json:"chrome"`
	Blocks []Block    `json:"blocks"`
	Stamp  *Placement `json:"stamp,omitempty"`
}

// Number is the 1-based page number printed in the footer.
func (p PageDescriptor) Number() int {
	return p.Index + 1
}

// Used returns the total height of the page's blocks.
func (p PageDescriptor) Used() float64 {
	return sum(p.Blocks)
}

// Paginate lays out the selected option of q. Every block either fits in the
// space left on the current page or starts a new one; a category header is
// only placed where its first item row fits too.
func Paginate(q *entity.Quotation, g Geometry, m Measurer) ([]PageDescriptor, error) {
	opt := q.SelectedOption()
	if opt == nil {
		return nil, ErrNoSelectedOption
	}
	if m == nil {
		m = NewEstimateMeasurer()
	}
	p := &paginator{g: g}
	p.newPage()

	p.place(coverBlock(q, opt, g, m))

	for c, cat := range opt.Categories {
		group := []Block{categoryHeaderBlock(c)}
		if len(cat.Items) > 0 {
			group = append(group, itemRowBlock(c, 0, cat.Items[0], m))
		}
		p.placeTable(group...)
		for i := 1; i < len(cat.Items); i++ {
			p.placeTable(itemRowBlock(c, i, cat.Items[i], m))
		}
	}

	p.place(totalsBlock(opt.Summary))
	if lines := TermsLines(q.Terms); len(lines) > 0 {
		p.place(textBlock(BlockTerms, lines, g.ContentWidth()-termsIndent, m))
	}
	if q.Terms != nil && q.Terms.BankAccount != nil {
		b := textBlock(BlockBankAccount, BankLines(q.Terms.BankAccount), g.ContentWidth()-BankSealSize-termsIndent, m)
		b.Height = math.Max(b.Height, BankSealSize+BlockGap)
		p.place(b)
	}
	if q.Signature != "" || AwaitingSignature(q) {
		p.place(Block{Kind: BlockSignature, Height: SignatureH, Category: -1, Item: -1})
	}
	if lines := ContactLines(q.Responsibles); len(lines) > 0 {
		p.place(textBlock(BlockContacts, lines, g.ContentWidth()-termsIndent, m))
	}

	return p.finish(), nil
}

// AwaitingSignature reports whether q was issued but not yet signed. Its
// signature block is printed empty, next to the signing link.
func AwaitingSignature(q *entity.Quotation) bool {
	return q.Signature == "" && (q.Status == enum.QuotationStatusSent || q.Status == enum.QuotationStatusApproved)
}

type paginator struct {
	g        Geometry
	pages    []PageDescriptor
	used     float64
	hasTable bool // current page already shows the column header
}

func (p *paginator) cur() *PageDescriptor {
	return &p.pages[len(p.pages)-1]
}

func (p *paginator) newPage() {
	chrome := ChromeFull
	if len(p.pages) > 0 {
		chrome = ChromeContinuation
	}
	page := PageDescriptor{Index: len(p.pages), Chrome: chrome, Blocks: []Block{}}
	if p.g.HasStamp() {
		stamp := p.g.Stamp
		page.Stamp = &stamp
	}
	p.pages = append(p.pages, page)
	p.used = 0
	p.hasTable = false
}

func (p *paginator) remaining() float64 {
	return p.g.ContentHeight(p.cur().Chrome) - p.used
}

// place adds blocks that must stay on one page together.
func (p *paginator) place(blocks ...Block) {
	need := sum(blocks)
	if need > p.remaining() && len(p.cur().Blocks) > 0 {
		p.newPage()
	}
	if need > p.remaining() {
		for i := range blocks {
			blocks[i].Overflow = true
		}
	}
	for _, b := range blocks {
		p.cur().Blocks = append(p.cur().Blocks, b)
		p.used += b.Height
	}
}

// placeTable places table content, prefixing the column header on any page
// that does not show it yet.
func (p *paginator) placeTable(blocks ...Block) {
	header := Block{Kind: BlockTableHeader, Height: TableHeaderH, Category: -1, Item: -1}
	if !p.hasTable {
		if sum(blocks)+header.Height > p.remaining() && len(p.cur().Blocks) > 0 {
			p.newPage()
		}
		p.place(append([]Block{header}, blocks...)...)
		p.hasTable = true
		return
	}
	if sum(blocks) > p.remaining() {
		p.newPage()
		p.place(append([]Block{header}, blocks...)...)
		p.hasTable = true
		return
	}
	p.place(blocks...)
}

func (p *paginator) finish() []PageDescriptor {
	for i := range p.pages {
		p.pages[i].Total = len(p.pages)
	}
	return p.pages
}

func sum(blocks []Block) float64 {
	var h float64
	for _, b := range blocks {
		h += b.Height
	}
	return h
}

func coverBlock(q *entity.Quotation, opt *entity.QuotationOption, g Geometry, m Measurer) Block {
	rows := len(CoverFields(q))
	if info := len(InfoFields(q)); info > rows {
		rows = info
	}
	h := IdentityBandH + float64(rows)*FieldLineHeight + BlockGap
	if title := OptionTitle(q, opt); title != "" {
		lines := m.Wrap(title, g.ContentWidth(), BodyFontSize+2)
		h += float64(len(lines))*TextLineHeight + BlockGap
	}
	return Block{Kind: BlockCover, Height: h, Category: -1, Item: -1}
}

func categoryHeaderBlock(c int) Block {
	return Block{Kind: BlockCategoryHeader, Height: CategoryHeaderH, Category: c, Item: -1}
}

func itemRowBlock(c, i int, item entity.QuotationItem, m Measurer) Block {
	lines := m.Wrap(ItemDescription(item), ItemColumns[1].Width-2, BodyFontSize)
	h := math.Max(MinRowHeight, float64(len(lines))*RowLineHeight+RowPadding)
	return Block{Kind: BlockItemRow, Height: h, Category: c, Item: i, Lines: lines}
}

func totalsBlock(s entity.QuotationSummary) Block {
	rows := 4 + len(s.Discounts)
	return Block{
		Kind:     BlockTotals,
		Height:   float64(rows)*FieldLineHeight + TotalLineH + BlockGap,
		Category: -1,
		Item:     -1,
	}
}

func textBlock(kind BlockKind, raw []string, width float64, m Measurer) Block {
	var lines []string
	for _, l := range raw {
		lines = append(lines, m.Wrap(l, width, TextFontSize)...)
	}
	return Block{
		Kind:     kind,
		Height:   SectionTitleH + float64(len(lines))*TextLineHeight + BlockGap,
		Category: -1,
		Item:     -1,
		Lines:    lines,
	}
}
