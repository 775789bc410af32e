// Package render turns paginated quotations into HTML, PDF and XLSX documents.
package render

import (
	"fmt"
	"strings"

	"github.com/sangkips/quotation-engine/internal/domain/entity"
	"github.com/sangkips/quotation-engine/internal/domain/layout"
)

type Format string

const (
	FormatPDF  Format = "pdf"
	FormatHTML Format = "html"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts pdf, html or xlsx in any case. Empty means pdf.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatPDF, nil
	case FormatPDF, FormatHTML, FormatXLSX:
		return f, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

func (f Format) ContentType() string {
	switch f {
	case FormatHTML:
		return "text/html; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}

// Document is a rendered export.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
	Pages       int
}

// Company is the issuer block printed at the top of the first page.
type Company struct {
	NameZH      string
	NameEN      string
	Address     []string
	ContactLine string
}

// Input is everything a renderer needs for one document.
type Input struct {
	Quotation *entity.Quotation
	Pages     []layout.PageDescriptor
	Geometry  layout.Geometry
	Company   Company
	Assets    *Assets
}

func (in Input) option() *entity.QuotationOption {
	return in.Quotation.SelectedOption()
}

func (in Input) assets() *Assets {
	if in.Assets == nil {
		return &Assets{}
	}
	return in.Assets
}
