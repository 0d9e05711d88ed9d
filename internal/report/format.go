package report

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatCount writes n with thousands separators.
func FormatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// FormatPrice writes v as dollars and cents with thousands separators.
// NaN is written as "n/a".
func FormatPrice(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return printer.Sprintf("$%.2f", v)
}

// FormatFloat writes v with two decimals, or "n/a" for NaN.
func FormatFloat(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "n/a"
	}
	return printer.Sprintf("%.2f", v)
}
