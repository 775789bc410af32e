package render

import (
	"bytes"
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/layout"
)

// HTMLRenderer produces print-ready markup. Every page is a fixed A4 section
// so the browser's print dialog breaks exactly where the paginator did.
type HTMLRenderer struct {
	tmpl *template.Template
}

func NewHTMLRenderer() *HTMLRenderer {
	return &HTMLRenderer{tmpl: template.Must(template.New("quotation").Parse(htmlTemplate))}
}

type htmlDoc struct {
	Title   string
	Company Company
	Status  string
	Color   template.CSS
	PageCSS template.CSS
	Logo    template.URL
	Number  string
	Pages   []htmlPage
}

type htmlPage struct {
	Number       int
	Total        int
	Continuation bool
	Style        template.CSS
	Stamp        template.CSS
	Seal         template.URL
	Blocks       []htmlBlock
}

type htmlBlock struct {
	Kind      string
	Style     template.CSS
	Overflow  bool
	Title     string
	Fields    []layout.Field
	Info      []layout.Field
	Lines     []string
	Cells     []htmlCell
	Total     string
	Image     template.URL
	QRCode    template.URL
	PhotoURL  template.URL
	PhotoText string
}

type htmlCell struct {
	Text  string
	Style template.CSS
}

// Render writes the pages of in as one HTML document.
func (r *HTMLRenderer) Render(in Input) ([]byte, error) {
	opt := in.option()
	if opt == nil {
		return nil, layout.ErrNoSelectedOption
	}
	a := in.assets()
	q := in.Quotation
	g := in.Geometry
	meta := q.Status.Meta()

	doc := htmlDoc{
		Title:   Filename(q, FormatHTML),
		Company: in.Company,
		Status:  meta.LabelZH + " " + meta.Label,
		Color:   template.CSS("background:" + meta.Color),
		PageCSS: template.CSS(fmt.Sprintf("width:%.1fmm;height:%.1fmm;padding:%.1fmm %.1fmm %.1fmm %.1fmm",
			g.PageWidth, g.PageHeight, g.MarginTop, g.MarginRight, g.MarginBottom, g.MarginLeft)),
		Number: q.QuotationNumber,
	}
	if a.Logo != nil {
		doc.Logo = template.URL(a.Logo.DataURL())
	}

	for _, p := range in.Pages {
		page := htmlPage{
			Number:       p.Number(),
			Total:        p.Total,
			Continuation: p.Chrome == layout.ChromeContinuation,
			Style:        template.CSS(fmt.Sprintf("top:%.1fmm", g.ContentTop(p.Chrome))),
		}
		if p.Stamp != nil && a.Seal != nil {
			page.Stamp = placementCSS(*p.Stamp)
			page.Seal = template.URL(a.Seal.DataURL())
		}
		for _, b := range p.Blocks {
			page.Blocks = append(page.Blocks, htmlBlockFor(q, opt, b, a))
		}
		doc.Pages = append(doc.Pages, page)
	}

	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, doc); err != nil {
		return nil, fmt.Errorf("render html: %w", err)
	}
	return buf.Bytes(), nil
}

func htmlBlockFor(q *entity.Quotation, opt *entity.QuotationOption, b layout.Block, a *Assets) htmlBlock {
	hb := htmlBlock{
		Kind:     b.Kind.String(),
		Style:    template.CSS(fmt.Sprintf("height:%.2fmm", b.Height)),
		Overflow: b.Overflow,
		Lines:    b.Lines,
	}
	switch b.Kind {
	case layout.BlockCover:
		hb.Fields = layout.CoverFields(q)
		hb.Info = layout.InfoFields(q)
		hb.Title = layout.OptionTitle(q, opt)
	case layout.BlockTableHeader:
		for _, col := range layout.ItemColumns {
			hb.Cells = append(hb.Cells, htmlCell{Text: col.Title, Style: columnCSS(col)})
		}
	case layout.BlockCategoryHeader:
		cat := opt.Categories[b.Category]
		hb.Title = cat.Code + "、" + cat.Name
	case layout.BlockItemRow:
		item := opt.Categories[b.Category].Items[b.Item]
		for i, text := range itemCells(item) {
			hb.Cells = append(hb.Cells, htmlCell{Text: text, Style: columnCSS(layout.ItemColumns[i])})
		}
	case layout.BlockTotals:
		hb.Fields = layout.TotalsRows(opt.Summary, Money)
		hb.Total = Total(opt.Summary.TotalAmount)
	case layout.BlockTerms:
		hb.Title = "Terms & Conditions 報價條款"
	case layout.BlockBankAccount:
		hb.Title = "Remittance 匯款資訊"
		if a.Seal != nil {
			hb.Image = template.URL(a.Seal.DataURL())
		}
	case layout.BlockSignature:
		hb.Title = "Customer Signature 客戶簽章"
		if a.Signature != nil {
			hb.Image = template.URL(a.Signature.DataURL())
		}
		if a.QRCode != nil {
			hb.QRCode = template.URL(a.QRCode.DataURL())
		}
	case layout.BlockContacts:
		hb.Title = "Contacts 聯絡窗口"
	case layout.BlockPhoto:
		if b.Photo != nil {
			if PhotoURLAllowed(b.Photo.URL) {
				hb.PhotoURL = template.URL(b.Photo.URL)
			}
			hb.PhotoText = b.Photo.Caption
		}
	}
	return hb
}

// PhotoURLAllowed reports whether u may be used as a photo src: relative and
// http(s) URLs, and base64 image data URLs.
func PhotoURLAllowed(u string) bool {
	if u == "" {
		return false
	}
	if lower := strings.ToLower(u); strings.HasPrefix(lower, "data:") {
		header, _, ok := strings.Cut(lower, ",")
		return ok && strings.HasPrefix(header, "data:image/") && strings.HasSuffix(header, ";base64")
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	switch parsed.Scheme {
	case "":
		return parsed.Host == ""
	case "http", "https":
		return parsed.Host != ""
	}
	return false
}

// itemCells returns the printed cells of an item row in ItemColumns order.
func itemCells(item entity.QuotationItem) []string {
	return []string{
		fmt.Sprint(item.ItemNumber),
		layout.ItemDescription(item),
		item.Unit,
		Quantity(item.Quantity),
		Money(item.UnitPrice),
		Money(item.Amount),
	}
}

func columnCSS(col layout.Column) template.CSS {
	align := map[string]string{"L": "left", "C": "center", "R": "right"}[col.Align]
	return template.CSS(fmt.Sprintf("width:%.1fmm;text-align:%s", col.Width, align))
}

func placementCSS(p layout.Placement) template.CSS {
	return template.CSS(fmt.Sprintf("left:%.1fmm;top:%.1fmm;width:%.1fmm;height:%.1fmm", p.X, p.Y, p.Width, p.Height))
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="zh-Hant">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
@page { size: A4; margin: 0 }
* { box-sizing: border-box }
body { margin: 0; font-family: "Noto Sans TC", "Microsoft JhengHei", sans-serif; font-size: 9pt; color: #111 }
.page { position: relative; overflow: hidden; break-after: page; page-break-after: always }
.page:last-child { break-after: auto; page-break-after: auto }
.flow { position: absolute; left: 15mm; right: 15mm }
.block { break-inside: avoid; page-break-inside: avoid; overflow: hidden }
.block.overflow { overflow: visible }
.continuation { position: absolute; top: 15mm; left: 15mm; right: 15mm; height: 10mm; border-bottom: 1px solid #999; font-size: 8pt }
.footer { position: absolute; bottom: 15mm; left: 15mm; right: 15mm; text-align: center; font-size: 8pt; color: #555 }
.stamp { position: absolute; opacity: .85 }
.row { display: flex; align-items: stretch }
.row > div { padding: 1mm; border: 1px solid #999; margin: 0 -1px -1px 0 }
.table-header > div { background: #eee; font-weight: bold }
.category-header { font-weight: bold; background: #f6f6f6; padding: 2mm 1mm }
.cover h1 { font-size: 16pt; margin: 0 }
.cover .fields { display: flex; justify-content: space-between }
.badge { display: inline-block; color: #fff; padding: 0 2mm; border-radius: 2mm }
.totals { margin-left: auto; width: 90mm }
.totals div { display: flex; justify-content: space-between; line-height: 6mm }
.totals .grand { font-weight: bold; font-size: 11pt; border-top: 2px solid #111 }
.section h3 { margin: 0 0 1mm; font-size: 10pt }
.bank-account img { float: right; width: 28mm; height: 28mm }
.signature img { max-height: 24mm; margin-right: 4mm }
.photo img { max-width: 100%; max-height: 85%; display: block; margin: 0 auto }
</style>
</head>
<body>
{{- range .Pages}}
<section class="page" style="{{$.PageCSS}}">
  {{- if .Continuation}}
  <div class="continuation">{{$.Company.NameZH}} ｜ {{$.Number}}</div>
  {{- end}}
  <div class="flow" style="{{.Style}}">
  {{- range .Blocks}}
    <div class="block {{.Kind}}{{if .Overflow}} overflow{{end}}" style="{{.Style}}">
    {{- if eq .Kind "cover"}}
      {{if $.Logo}}<img src="{{$.Logo}}" alt="logo" style="height:14mm">{{end}}
      <h1>{{$.Company.NameZH}}</h1>
      <div>{{$.Company.NameEN}}</div>
      {{range $.Company.Address}}<div>{{.}}</div>{{end}}
      {{if $.Company.ContactLine}}<div>{{$.Company.ContactLine}}</div>{{end}}
      <h2>報價單 QUOTATION <span class="badge" style="{{$.Color}}">{{$.Status}}</span></h2>
      <div class="fields">
        <div>{{range .Fields}}<div><b>{{.Label}}:</b> {{.Value}}</div>{{end}}</div>
        <div>{{range .Info}}<div><b>{{.Label}}:</b> {{.Value}}</div>{{end}}</div>
      </div>
      {{if .Title}}<h3>{{.Title}}</h3>{{end}}
    {{- else if or (eq .Kind "table-header") (eq .Kind "item-row")}}
      <div class="row">{{range .Cells}}<div style="{{.Style}}">{{.Text}}</div>{{end}}</div>
    {{- else if eq .Kind "category-header"}}
      {{.Title}}
    {{- else if eq .Kind "totals"}}
      <div class="totals">
        {{range .Fields}}<div><span>{{.Label}}</span><span>{{.Value}}</span></div>{{end}}
        <div class="grand"><span>Total 總計</span><span>{{.Total}}</span></div>
      </div>
    {{- else if eq .Kind "photo"}}
      {{if .PhotoURL}}<img src="{{.PhotoURL}}" alt="{{.PhotoText}}">{{end}}<div style="text-align:center">{{.PhotoText}}</div>
    {{- else}}
      <div class="section">
        <h3>{{.Title}}</h3>
        {{if .Image}}<img src="{{.Image}}" alt="">{{end}}
        {{if .QRCode}}<img src="{{.QRCode}}" alt="qr" style="width:24mm">{{end}}
        {{range .Lines}}<div>{{.}}</div>{{end}}
      </div>
    {{- end}}
    </div>
  {{- end}}
  </div>
  {{- if .Seal}}
  <img class="stamp" src="{{.Seal}}" alt="" style="{{.Stamp}}">
  {{- end}}
  <div class="footer">Page {{.Number}} of {{.Total}}</div>
</section>
{{- end}}
</body>
</html>
`
