package render

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/layout"
)

const sheetName = "Quotation"

// XLSXRenderer exports the selected option as an editable workbook. It does not
// use page descriptors; spreadsheets have no fixed pages.
type XLSXRenderer struct{}

func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) Render(in Input) ([]byte, error) {
	q := in.Quotation
	opt := in.option()
	if opt == nil {
		return nil, layout.ErrNoSelectedOption
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	header, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true},
		Fill:   excelize.Fill{Type: "pattern", Color: []string{"#EEEEEE"}, Pattern: 1},
		Border: thinBorder(),
	})
	if err != nil {
		return nil, err
	}
	money, err := f.NewStyle(&excelize.Style{NumFmt: 3, Border: thinBorder()})
	if err != nil {
		return nil, err
	}
	cell, err := f.NewStyle(&excelize.Style{Border: thinBorder(), Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, err
	}

	w := &sheetWriter{f: f}
	w.set(1, 1, in.Company.NameZH)
	w.style(1, 1, 1, 1, bold)
	w.set(1, 2, "報價單 QUOTATION")
	row := 3
	for _, fld := range append(layout.CoverFields(q), layout.InfoFields(q)...) {
		w.set(1, row, fld.Label)
		w.set(2, row, fld.Value)
		row++
	}
	if title := layout.OptionTitle(q, opt); title != "" {
		w.set(1, row, title)
		row++
	}
	row++

	for i, col := range layout.ItemColumns {
		w.set(i+1, row, col.Title)
	}
	w.style(1, row, len(layout.ItemColumns), row, header)
	row++

	for _, cat := range opt.Categories {
		w.set(1, row, cat.Code)
		w.set(2, row, cat.Name)
		w.merge(2, row, len(layout.ItemColumns), row)
		w.style(1, row, len(layout.ItemColumns), row, bold)
		row++
		for _, item := range cat.Items {
			w.set(1, row, item.ItemNumber)
			w.set(2, row, layout.ItemDescription(item))
			w.set(3, row, item.Unit)
			w.set(4, row, item.Quantity)
			w.set(5, row, item.UnitPrice)
			w.set(6, row, item.Amount)
			w.style(1, row, 4, row, cell)
			w.style(5, row, 6, row, money)
			row++
		}
	}
	row++

	row = w.summary(opt.Summary, row, money)
	w.set(5, row, "Total 總計")
	w.set(6, row, opt.Summary.TotalAmount)
	w.style(5, row, 5, row, bold)
	w.style(6, row, 6, row, money)

	for i, col := range layout.ItemColumns {
		name, _ := excelize.ColumnNumberToName(i + 1)
		// column widths in characters, roughly 2mm each
		w.err = firstErr(w.err, f.SetColWidth(sheetName, name, name, col.Width/2))
	}
	if w.err != nil {
		return nil, fmt.Errorf("render xlsx: %w", w.err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

type sheetWriter struct {
	f   *excelize.File
	err error
}

func (w *sheetWriter) set(col, row int, v any) {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		w.err = firstErr(w.err, err)
		return
	}
	w.err = firstErr(w.err, w.f.SetCellValue(sheetName, name, v))
}

func (w *sheetWriter) style(c1, r1, c2, r2, style int) {
	from, _ := excelize.CoordinatesToCellName(c1, r1)
	to, _ := excelize.CoordinatesToCellName(c2, r2)
	w.err = firstErr(w.err, w.f.SetCellStyle(sheetName, from, to, style))
}

func (w *sheetWriter) merge(c1, r1, c2, r2 int) {
	from, _ := excelize.CoordinatesToCellName(c1, r1)
	to, _ := excelize.CoordinatesToCellName(c2, r2)
	w.err = firstErr(w.err, w.f.MergeCell(sheetName, from, to))
}

func (w *sheetWriter) summary(s entity.QuotationSummary, row, money int) int {
	values := []struct {
		label string
		value float64
	}{
		{"Subtotal 項目小計", s.Subtotal},
		{fmt.Sprintf("Management Fee 工安管理費 (%g%%)", s.ManagementFeeRate), s.ManagementFee},
		{"Subtotal Before Tax 未稅金額", s.BeforeTaxAmount},
		{fmt.Sprintf("Tax 營業稅 (%g%%)", s.TaxRate), s.Tax},
	}
	for _, d := range s.Discounts {
		values = append(values, struct {
			label string
			value float64
		}{d.Name, -d.Amount})
	}
	for _, v := range values {
		w.set(5, row, v.label)
		w.set(6, row, v.value)
		w.style(6, row, 6, row, money)
		row++
	}
	return row
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "999999", Style: 1},
		{Type: "top", Color: "999999", Style: 1},
		{Type: "right", Color: "999999", Style: 1},
		{Type: "bottom", Color: "999999", Style: 1},
	}
}

func firstErr(prev, err error) error {
	if prev != nil {
		return prev
	}
	return err
}
