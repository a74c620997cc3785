package types

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// Column identifies one value column of a price table.
type Column string

const (
	ColumnOpen     Column = "Open"
	ColumnHigh     Column = "High"
	ColumnLow      Column = "Low"
	ColumnClose    Column = "Close"
	ColumnAdjClose Column = "Adj Close"
	ColumnVolume   Column = "Volume"
)

// OHLCVColumns is the column set of providers that do not report an adjusted close.
var OHLCVColumns = []Column{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnVolume}

// AdjustedOHLCVColumns is the full Yahoo column set, in Yahoo's order.
var AdjustedOHLCVColumns = []Column{ColumnOpen, ColumnHigh, ColumnLow, ColumnClose, ColumnAdjClose, ColumnVolume}

// Format renders the column's value of bar.
func (c Column) Format(bar Bar) string {
	switch c {
	case ColumnOpen:
		return formatDecimal(bar.Open)
	case ColumnHigh:
		return formatDecimal(bar.High)
	case ColumnLow:
		return formatDecimal(bar.Low)
	case ColumnClose:
		return formatDecimal(bar.Close)
	case ColumnAdjClose:
		return formatDecimal(bar.AdjClose)
	case ColumnVolume:
		return strconv.FormatInt(bar.Volume, 10)
	default:
		return ""
	}
}

// formatDecimal keeps integral prices distinguishable from volumes ("100.0").
func formatDecimal(d decimal.Decimal) string {
	if d.IsInteger() {
		return d.StringFixed(1)
	}

	return d.String()
}
