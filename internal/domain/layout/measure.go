package layout

import (
	"strings"

	"golang.org/x/text/width"
)

const ptToMM = 25.4 / 72

// Measurer wraps text into lines that fit a column.
type Measurer interface {
	Wrap(text string, widthMM, fontSizePt float64) []string
}

// EstimateMeasurer wraps text using fixed advance widths: East Asian wide and
// fullwidth runes take one em, everything else NarrowEm.
type EstimateMeasurer struct {
	NarrowEm float64
}

// NewEstimateMeasurer returns a measurer tuned for Noto Sans TC.
func NewEstimateMeasurer() EstimateMeasurer {
	return EstimateMeasurer{NarrowEm: 0.6}
}

// Wrap breaks text at explicit newlines and then greedily at the column width.
// Latin words are kept together when they fit on a line of their own.
func (m EstimateMeasurer) Wrap(text string, widthMM, fontSizePt float64) []string {
	em := fontSizePt * ptToMM
	if widthMM <= 0 || em <= 0 {
		return []string{text}
	}
	var lines []string
	for _, para := range strings.Split(text, "\n") {
		lines = append(lines, m.wrapParagraph(para, widthMM, em)...)
	}
	return lines
}

func (m EstimateMeasurer) wrapParagraph(text string, widthMM, em float64) []string {
	if text == "" {
		return []string{""}
	}
	var (
		lines []string
		line  []rune
		used  float64
	)
	runes := []rune(text)
	for i := 0; i < len(runes); {
		// a token is one wide rune, or a run of narrow non-space runes, or a space
		j := i + 1
		if !m.wide(runes[i]) && runes[i] != ' ' {
			for j < len(runes) && !m.wide(runes[j]) && runes[j] != ' ' {
				j++
			}
		}
		token := runes[i:j]
		w := m.advance(token, em)

		if used+w > widthMM && len(line) > 0 {
			lines = append(lines, strings.TrimRight(string(line), " "))
			line, used = nil, 0
			if token[0] == ' ' {
				i = j
				continue
			}
		}
		if w > widthMM {
			// a single word wider than the column is split by rune
			for _, r := range token {
				rw := m.advance([]rune{r}, em)
				if used+rw > widthMM && len(line) > 0 {
					lines = append(lines, string(line))
					line, used = nil, 0
				}
				line = append(line, r)
				used += rw
			}
		} else {
			line = append(line, token...)
			used += w
		}
		i = j
	}
	lines = append(lines, strings.TrimRight(string(line), " "))
	return lines
}

func (m EstimateMeasurer) advance(rs []rune, em float64) float64 {
	var total float64
	for _, r := range rs {
		if m.wide(r) {
			total += em
		} else {
			total += em * m.NarrowEm
		}
	}
	return total
}

func (m EstimateMeasurer) wide(r rune) bool {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return true
	}
	return false
}
