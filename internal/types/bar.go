package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Bar is a single OHLCV row of a price table.
type Bar struct {
	// Time is the bar's open time as reported by the provider.
	Time     time.Time       `json:"time" yaml:"time"`
	Open     decimal.Decimal `json:"open" yaml:"open"`
	High     decimal.Decimal `json:"high" yaml:"high"`
	Low      decimal.Decimal `json:"low" yaml:"low"`
	Close    decimal.Decimal `json:"close" yaml:"close"`
	AdjClose decimal.Decimal `json:"adjClose" yaml:"adj_close"`
	Volume   int64           `json:"volume" yaml:"volume"`
}

// IsEmpty reports whether the provider returned no prices for the bar.
// Yahoo emits such rows for exchange holidays.
func (b Bar) IsEmpty() bool {
	return b.Open.IsZero() && b.High.IsZero() && b.Low.IsZero() && b.Close.IsZero()
}
