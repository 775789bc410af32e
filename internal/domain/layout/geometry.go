// Package layout splits a quotation into fixed-size pages. Both the HTML and
// the PDF renderers draw exactly the pages produced here.
package layout

// Placement is a box on the page in millimetres, measured from the top-left
// corner of the sheet.
type Placement struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Geometry describes the sheet and the bands reserved outside the content flow.
type Geometry struct {
	PageWidth          float64
	PageHeight         float64
	MarginTop          float64
	MarginRight        float64
	MarginBottom       float64
	MarginLeft         float64
	ContinuationHeader float64 // reserved on every page after the first
	Footer             float64 // reserved on every page for the page number
	Stamp              Placement
}

// Column is one column of the item table.
type Column struct {
	Key   string
	Title string
	Width float64
	Align string
}

// ItemColumns is the item table layout shared by every renderer.
var ItemColumns = []Column{
	{Key: "no", Title: "No.", Width: 12, Align: "C"},
	{Key: "description", Title: "Description 項目說明", Width: 78, Align: "L"},
	{Key: "unit", Title: "Unit", Width: 16, Align: "C"},
	{Key: "qty", Title: "Qty", Width: 20, Align: "R"},
	{Key: "unitPrice", Title: "Unit Price", Width: 27, Align: "R"},
	{Key: "amount", Title: "Amount", Width: 27, Align: "R"},
}

// A4 returns portrait A4 with 15mm margins and the company seal repeated near
// the top-right corner of every page.
func A4() Geometry {
	return Geometry{
		PageWidth:          210,
		PageHeight:         297,
		MarginTop:          15,
		MarginRight:        15,
		MarginBottom:       15,
		MarginLeft:         15,
		ContinuationHeader: 12,
		Footer:             12,
		Stamp:              Placement{X: 165, Y: 8, Width: 30, Height: 30},
	}
}

// ContentWidth is the printable width between the side margins.
func (g Geometry) ContentWidth() float64 {
	return g.PageWidth - g.MarginLeft - g.MarginRight
}

// ContentHeight is the vertical budget for flowing blocks on a page.
func (g Geometry) ContentHeight(chrome Chrome) float64 {
	h := g.PageHeight - g.MarginTop - g.MarginBottom - g.Footer
	if chrome == ChromeContinuation {
		h -= g.ContinuationHeader
	}
	return h
}

// ContentTop is the y coordinate where flowing content starts.
func (g Geometry) ContentTop(chrome Chrome) float64 {
	if chrome == ChromeContinuation {
		return g.MarginTop + g.ContinuationHeader
	}
	return g.MarginTop
}

// HasStamp reports whether a repeated seal is configured.
func (g Geometry) HasStamp() bool {
	return g.Stamp.Width > 0 && g.Stamp.Height > 0
}
