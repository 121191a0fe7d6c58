// Package currency formats monetary amounts and figures for valuation
// narratives.
package currency

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Symbol prefixes every formatted amount.
const Symbol = "£"

var tag = language.BritishEnglish

// Format renders v rounded to whole pounds with thousands separators,
// e.g. "£1,250,000". Non-finite values render as "£0".
func Format(v float64) string {
	return Symbol + Number(v)
}

// Number renders v rounded to an integer with thousands separators.
func Number(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		v = 0
	}
	return message.NewPrinter(tag).Sprintf("%d", int64(math.Round(clampInt(v))))
}

// Decimal renders v with at most two decimals and no trailing zeros, e.g.
// "2.5" or "45".
func Decimal(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

// clampInt keeps v within int64 range so the conversion is defined.
func clampInt(v float64) float64 {
	return math.Max(math.MinInt64/2, math.Min(math.MaxInt64/2, v))
}
