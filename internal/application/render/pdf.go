package render

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/layout"
)

const fontFamily = "NotoSansTC"

var ErrPageCountMismatch = errors.New("pdf page count does not match layout")

var disablePdfcpuConfig sync.Once

// PDFRenderer draws page descriptors with gofpdf. Automatic page breaks are
// off: a page starts only where the paginator started one.
type PDFRenderer struct {
	logger *slog.Logger
}

func NewPDFRenderer(logger *slog.Logger) *PDFRenderer {
	if logger == nil {
		logger = slog.Default()
	}
	disablePdfcpuConfig.Do(api.DisableConfigDir)
	return &PDFRenderer{logger: logger}
}

// Render draws in and checks the produced page count with pdfcpu.
func (r *PDFRenderer) Render(in Input) ([]byte, error) {
	opt := in.option()
	if opt == nil {
		return nil, layout.ErrNoSelectedOption
	}
	a := in.assets()
	if len(a.Font) == 0 {
		return nil, fmt.Errorf("%w: no font data", ErrFontUnavailable)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(in.Geometry.MarginLeft, in.Geometry.MarginTop, in.Geometry.MarginRight)
	pdf.AddUTF8FontFromBytes(fontFamily, "", a.Font)
	if pdf.Err() {
		return nil, fmt.Errorf("%w: %v", ErrFontUnavailable, pdf.Error())
	}

	d := &pdfDrawer{pdf: pdf, in: in, opt: opt, g: in.Geometry, images: map[string]bool{}}
	d.register(a.Logo)
	d.register(a.Seal)
	d.register(a.Signature)
	d.register(a.QRCode)
	for name := range d.images {
		if !d.images[name] {
			r.logger.Warn("pdf image skipped", "asset", name)
		}
	}

	for _, page := range in.Pages {
		d.page(page)
	}
	if pdf.Err() {
		return nil, fmt.Errorf("render pdf: %w", pdf.Error())
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	n, err := api.PageCount(bytes.NewReader(buf.Bytes()), model.NewDefaultConfiguration())
	if err != nil {
		return nil, fmt.Errorf("verify pdf: %w", err)
	}
	if n != len(in.Pages) {
		return nil, fmt.Errorf("%w: drew %d, expected %d", ErrPageCountMismatch, n, len(in.Pages))
	}
	return buf.Bytes(), nil
}

type pdfDrawer struct {
	pdf    *gofpdf.Fpdf
	in     Input
	opt    *entity.QuotationOption
	g      layout.Geometry
	images map[string]bool // name -> registered
}

// register adds img to the document. A failed registration is cleared so it
// cannot poison the rest of the drawing.
func (d *pdfDrawer) register(img *Image) {
	if img == nil {
		return
	}
	d.pdf.RegisterImageOptionsReader(img.Name, gofpdf.ImageOptions{ImageType: img.Type}, bytes.NewReader(img.Data))
	if d.pdf.Err() {
		d.pdf.ClearError()
		d.images[img.Name] = false
		return
	}
	d.images[img.Name] = true
}

func (d *pdfDrawer) image(img *Image, x, y, w, h float64) bool {
	if img == nil || !d.images[img.Name] {
		return false
	}
	d.pdf.ImageOptions(img.Name, x, y, w, h, false, gofpdf.ImageOptions{ImageType: img.Type}, 0, "")
	return true
}

func (d *pdfDrawer) font(size float64) {
	d.pdf.SetFont(fontFamily, "", size)
}

func (d *pdfDrawer) page(p layout.PageDescriptor) {
	pdf := d.pdf
	pdf.AddPage()
	left := d.g.MarginLeft
	width := d.g.ContentWidth()

	if p.Chrome == layout.ChromeContinuation {
		d.font(8)
		pdf.SetXY(left, d.g.MarginTop)
		pdf.CellFormat(width, d.g.ContinuationHeader-2, d.in.Company.NameZH+" | "+d.in.Quotation.QuotationNumber, "B", 0, "L", false, 0, "")
	}

	y := d.g.ContentTop(p.Chrome)
	for _, b := range p.Blocks {
		if b.Overflow {
			// cut at the footer band instead of drawing over it
			pdf.ClipRect(left, y, width, d.g.ContentHeight(p.Chrome), false)
			d.block(b, left, y, width)
			pdf.ClipEnd()
		} else {
			d.block(b, left, y, width)
		}
		y += b.Height
	}

	if p.Stamp != nil {
		d.image(d.in.assets().Seal, p.Stamp.X, p.Stamp.Y, p.Stamp.Width, p.Stamp.Height)
	}

	d.font(8)
	pdf.SetTextColor(90, 90, 90)
	pdf.SetXY(left, d.g.PageHeight-d.g.MarginBottom-d.g.Footer/2-2)
	pdf.CellFormat(width, 4, fmt.Sprintf("Page %d of %d", p.Number(), p.Total), "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

func (d *pdfDrawer) block(b layout.Block, x, y, w float64) {
	switch b.Kind {
	case layout.BlockCover:
		d.cover(x, y, w)
	case layout.BlockTableHeader:
		d.font(layout.BodyFontSize)
		d.pdf.SetFillColor(235, 235, 235)
		d.pdf.SetXY(x, y)
		for _, col := range layout.ItemColumns {
			d.pdf.CellFormat(col.Width, b.Height, col.Title, "1", 0, "C", true, 0, "")
		}
	case layout.BlockCategoryHeader:
		cat := d.opt.Categories[b.Category]
		d.font(layout.BodyFontSize + 1)
		d.pdf.SetFillColor(246, 246, 246)
		d.pdf.SetXY(x, y)
		d.pdf.CellFormat(w, b.Height, cat.Code+"、"+cat.Name, "1", 0, "L", true, 0, "")
	case layout.BlockItemRow:
		d.itemRow(b, x, y)
	case layout.BlockTotals:
		d.totals(x, y, w)
	case layout.BlockTerms:
		d.section("Terms & Conditions 報價條款", b.Lines, x, y, w)
	case layout.BlockBankAccount:
		d.section("Remittance 匯款資訊", b.Lines, x, y, w-layout.BankSealSize)
		d.image(d.in.assets().Seal, x+w-layout.BankSealSize, y, layout.BankSealSize, layout.BankSealSize)
	case layout.BlockSignature:
		d.signature(x, y, w, b.Height)
	case layout.BlockContacts:
		d.section("Contacts 聯絡窗口", b.Lines, x, y, w)
	case layout.BlockPhoto:
		if b.Photo != nil {
			d.font(layout.TextFontSize)
			d.pdf.SetXY(x, y)
			d.pdf.CellFormat(w, layout.TextLineHeight, b.Photo.Caption, "", 0, "C", false, 0, "")
		}
	}
}

func (d *pdfDrawer) cover(x, y, w float64) {
	pdf := d.pdf
	q := d.in.Quotation
	c := d.in.Company

	textX := x
	if d.image(d.in.assets().Logo, x, y, 0, 14) {
		textX = x + 30
	}
	d.font(16)
	pdf.SetXY(textX, y)
	pdf.CellFormat(w-(textX-x), 8, c.NameZH, "", 1, "L", false, 0, "")
	d.font(9)
	pdf.SetX(textX)
	pdf.CellFormat(w-(textX-x), 5, c.NameEN, "", 1, "L", false, 0, "")
	for _, line := range c.Address {
		pdf.SetX(textX)
		pdf.CellFormat(w-(textX-x), 4, line, "", 1, "L", false, 0, "")
	}
	d.font(14)
	pdf.SetXY(x, y+layout.IdentityBandH-10)
	meta := q.Status.Meta()
	pdf.CellFormat(w, 8, "報價單 QUOTATION  ["+meta.LabelZH+" "+meta.Label+"]", "B", 0, "C", false, 0, "")

	d.font(layout.BodyFontSize)
	top := y + layout.IdentityBandH
	for i, f := range layout.CoverFields(q) {
		pdf.SetXY(x, top+float64(i)*layout.FieldLineHeight)
		pdf.CellFormat(w*0.6, layout.FieldLineHeight, f.Label+": "+f.Value, "", 0, "L", false, 0, "")
	}
	for i, f := range layout.InfoFields(q) {
		pdf.SetXY(x+w*0.6, top+float64(i)*layout.FieldLineHeight)
		pdf.CellFormat(w*0.4, layout.FieldLineHeight, f.Label+": "+f.Value, "", 0, "L", false, 0, "")
	}

	if title := layout.OptionTitle(q, d.opt); title != "" {
		rows := max(len(layout.CoverFields(q)), len(layout.InfoFields(q)))
		d.font(layout.BodyFontSize + 2)
		pdf.SetXY(x, top+float64(rows)*layout.FieldLineHeight+layout.BlockGap)
		pdf.MultiCell(w, layout.TextLineHeight, title, "", "L", false)
	}
}

func (d *pdfDrawer) itemRow(b layout.Block, x, y float64) {
	pdf := d.pdf
	item := d.opt.Categories[b.Category].Items[b.Item]
	cells := itemCells(item)
	d.font(layout.BodyFontSize)

	cx := x
	for i, col := range layout.ItemColumns {
		pdf.Rect(cx, y, col.Width, b.Height, "D")
		if i == 1 {
			ly := y + layout.RowPadding/2
			for _, line := range b.Lines {
				pdf.SetXY(cx+1, ly)
				pdf.CellFormat(col.Width-2, layout.RowLineHeight, line, "", 0, "L", false, 0, "")
				ly += layout.RowLineHeight
			}
		} else {
			pdf.SetXY(cx, y)
			pdf.CellFormat(col.Width, b.Height, cells[i], "", 0, col.Align, false, 0, "")
		}
		cx += col.Width
	}
}

func (d *pdfDrawer) totals(x, y, w float64) {
	pdf := d.pdf
	panel := 90.0
	px := x + w - panel
	d.font(layout.BodyFontSize)
	rows := layout.TotalsRows(d.opt.Summary, Money)
	for i, f := range rows {
		pdf.SetXY(px, y+float64(i)*layout.FieldLineHeight)
		pdf.CellFormat(panel*0.62, layout.FieldLineHeight, f.Label, "", 0, "L", false, 0, "")
		pdf.CellFormat(panel*0.38, layout.FieldLineHeight, f.Value, "", 0, "R", false, 0, "")
	}
	d.font(layout.BodyFontSize + 3)
	pdf.SetXY(px, y+float64(len(rows))*layout.FieldLineHeight)
	pdf.CellFormat(panel*0.5, layout.TotalLineH, "Total 總計", "T", 0, "L", false, 0, "")
	pdf.CellFormat(panel*0.5, layout.TotalLineH, Total(d.opt.Summary.TotalAmount), "T", 0, "R", false, 0, "")
}

func (d *pdfDrawer) section(title string, lines []string, x, y, w float64) {
	pdf := d.pdf
	d.font(layout.BodyFontSize + 1)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, layout.SectionTitleH, title, "", 0, "L", false, 0, "")
	d.font(layout.TextFontSize)
	ly := y + layout.SectionTitleH
	for _, line := range lines {
		pdf.SetXY(x+4, ly)
		pdf.CellFormat(w-4, layout.TextLineHeight, line, "", 0, "L", false, 0, "")
		ly += layout.TextLineHeight
	}
}

func (d *pdfDrawer) signature(x, y, w, h float64) {
	pdf := d.pdf
	a := d.in.assets()
	d.font(layout.BodyFontSize + 1)
	pdf.SetXY(x, y)
	pdf.CellFormat(w, layout.SectionTitleH, "Customer Signature 客戶簽章", "", 0, "L", false, 0, "")
	boxH := h - layout.SectionTitleH - layout.BlockGap
	pdf.Rect(x, y+layout.SectionTitleH, 80, boxH, "D")
	d.image(a.Signature, x+2, y+layout.SectionTitleH+2, 0, boxH-4)
	d.image(a.QRCode, x+w-boxH, y+layout.SectionTitleH, boxH, boxH)
	if t := d.in.Quotation.SignedAt; t != nil {
		d.font(layout.TextFontSize)
		pdf.SetXY(x+84, y+layout.SectionTitleH)
		pdf.CellFormat(60, layout.TextLineHeight, "Signed 簽署日期: "+t.Format("2006-01-02"), "", 0, "L", false, 0, "")
	}
}
