package present

import (
	"strings"

	"github.com/shopspring/decimal"
)

// NotAvailable is shown in place of an absent value.
const NotAvailable = "N/A"

// Currency formats d as dollars with two decimals, e.g. "$185.50".
func Currency(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}

// Percent formats d with an explicit sign, e.g. "+4.20%" or "-1.05%".
// A small negative change keeps its sign after rounding: "-0.00%".
func Percent(d decimal.Decimal) string {
	s := d.StringFixed(2)
	switch {
	case d.Sign() >= 0:
		s = "+" + s
	case !strings.HasPrefix(s, "-"):
		s = "-" + s
	}
	return s + "%"
}

// OptionalPercent formats d, or NotAvailable when it is nil.
func OptionalPercent(d *decimal.Decimal) string {
	if d == nil {
		return NotAvailable
	}
	return Percent(*d)
}

// Trend classifies the direction of a change.
type Trend int

const (
	TrendFlat Trend = iota
	TrendUp
	TrendDown
)

// TrendOf returns the trend of d.
func TrendOf(d decimal.Decimal) Trend {
	switch d.Sign() {
	case 1:
		return TrendUp
	case -1:
		return TrendDown
	default:
		return TrendFlat
	}
}

// Positive reports whether t gets the positive styling. Zero counts as positive.
func (t Trend) Positive() bool { return t != TrendDown }

// Indicator returns the glyph drawn next to a value with this trend.
func (t Trend) Indicator() string {
	switch t {
	case TrendUp:
		return "▲"
	case TrendDown:
		return "▼"
	default:
		return "■"
	}
}

func (t Trend) String() string {
	switch t {
	case TrendUp:
		return "up"
	case TrendDown:
		return "down"
	default:
		return "flat"
	}
}
