package types

import (
	"fmt"

	"github.com/polygon-io/client-go/rest/models"
)

// Interval is the sampling granularity of a price series, in Yahoo notation.
type Interval string

const (
	IntervalOneMinute      Interval = "1m"
	IntervalTwoMinutes     Interval = "2m"
	IntervalFiveMinutes    Interval = "5m"
	IntervalFifteenMinutes Interval = "15m"
	IntervalThirtyMinutes  Interval = "30m"
	IntervalSixtyMinutes   Interval = "60m"
	IntervalNinetyMinutes  Interval = "90m"
	IntervalOneHour        Interval = "1h"
	IntervalOneDay         Interval = "1d"
	IntervalFiveDays       Interval = "5d"
	IntervalOneWeek        Interval = "1wk"
	IntervalOneMonth       Interval = "1mo"
	IntervalThreeMonths    Interval = "3mo"
)

// Intervals lists every supported interval.
var Intervals = []Interval{
	IntervalOneMinute,
	IntervalTwoMinutes,
	IntervalFiveMinutes,
	IntervalFifteenMinutes,
	IntervalThirtyMinutes,
	IntervalSixtyMinutes,
	IntervalNinetyMinutes,
	IntervalOneHour,
	IntervalOneDay,
	IntervalFiveDays,
	IntervalOneWeek,
	IntervalOneMonth,
	IntervalThreeMonths,
}

// IsValid reports whether i is one of Intervals.
func (i Interval) IsValid() bool {
	for _, interval := range Intervals {
		if interval == i {
			return true
		}
	}

	return false
}

// IsIntraday reports whether bars of this interval are shorter than a day.
func (i Interval) IsIntraday() bool {
	switch i {
	case IntervalOneMinute, IntervalTwoMinutes, IntervalFiveMinutes, IntervalFifteenMinutes,
		IntervalThirtyMinutes, IntervalSixtyMinutes, IntervalNinetyMinutes, IntervalOneHour:
		return true
	default:
		return false
	}
}

// Multiplier is the Polygon aggregate multiplier for the interval.
func (i Interval) Multiplier() int {
	switch i {
	case IntervalTwoMinutes:
		return 2
	case IntervalFiveMinutes, IntervalFiveDays:
		return 5
	case IntervalFifteenMinutes:
		return 15
	case IntervalThirtyMinutes:
		return 30
	case IntervalSixtyMinutes:
		return 60
	case IntervalNinetyMinutes:
		return 90
	default:
		return 1
	}
}

// Timespan is the Polygon aggregate timespan for the interval.
func (i Interval) Timespan() models.Timespan {
	switch i {
	case IntervalOneMinute, IntervalTwoMinutes, IntervalFiveMinutes, IntervalFifteenMinutes,
		IntervalThirtyMinutes, IntervalSixtyMinutes, IntervalNinetyMinutes:
		return models.Minute
	case IntervalOneHour:
		return models.Hour
	case IntervalOneWeek:
		return models.Week
	case IntervalOneMonth:
		return models.Month
	case IntervalThreeMonths:
		return models.Quarter
	default:
		return models.Day
	}
}

// BinanceInterval converts the interval to a Binance kline interval.
// Ref: https://binance-docs.github.io/apidocs/spot/en/#kline-candlestick-data
func (i Interval) BinanceInterval() (string, error) {
	switch i {
	case IntervalOneMinute, IntervalFiveMinutes, IntervalFifteenMinutes, IntervalThirtyMinutes, IntervalOneHour, IntervalOneDay:
		return string(i), nil
	case IntervalSixtyMinutes:
		return "1h", nil
	case IntervalOneWeek:
		return "1w", nil
	case IntervalOneMonth:
		return "1M", nil
	default:
		return "", fmt.Errorf("unsupported interval for Binance: %s", i)
	}
}
