package render

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var numberPrinter = message.NewPrinter(language.English)

// Money formats an amount with thousands separators. Whole amounts print
// without decimals.
func Money(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return numberPrinter.Sprintf("%d", int64(v))
	}
	return numberPrinter.Sprintf("%.2f", v)
}

// Quantity prints the shortest exact representation of a quantity.
func Quantity(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Total formats the grand total with the currency prefix.
func Total(v float64) string {
	return "NT$ " + Money(v)
}
