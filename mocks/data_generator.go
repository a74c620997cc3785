package mocks

import (
	"math"
	"math/rand"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/index-history/internal/types"
)

// DataGenerator generates realistic daily price tables for tests.
type DataGenerator struct {
	rng *rand.Rand
}

// NewDataGenerator creates a new DataGenerator with the given seed.
// Use a fixed seed for reproducible results in tests.
func NewDataGenerator(seed int64) *DataGenerator {
	return &DataGenerator{
		rng: rand.New(rand.NewSource(seed)),
	}
}

// GeneratorConfig configures how price data is generated.
type GeneratorConfig struct {
	// Ticker is the index or security symbol (e.g., "OSEBX.OL")
	Ticker string
	// StartDate is the first candidate trading day; weekends are skipped
	StartDate time.Time
	// Count is the number of trading days to generate
	Count int
	// InitialPrice is the starting price
	InitialPrice float64
	// Volatility controls price movement (0.01 = 1% typical daily volatility)
	Volatility float64
	// Trend is the drift factor (-0.01 to 0.01 for bearish to bullish)
	Trend float64
	// AdjustmentFactor scales Close into AdjClose
	AdjustmentFactor float64
	// VolumeBase is the average volume per bar
	VolumeBase float64
	// VolumeVariance is the variance in volume (0.0 to 1.0)
	VolumeVariance float64
}

// DefaultConfig returns a configuration resembling the Oslo benchmark index.
func DefaultConfig() GeneratorConfig {
	return GeneratorConfig{
		Ticker:           "OSEBX.OL",
		StartDate:        time.Date(2015, 3, 2, 0, 0, 0, 0, time.UTC),
		Count:            250,
		InitialPrice:     650.0,
		Volatility:       0.01,
		Trend:            0.0,
		AdjustmentFactor: 1.0,
		VolumeBase:       0,
		VolumeVariance:   0,
	}
}

// Generate creates a daily price table based on the configuration.
// Closes follow a geometric Brownian motion.
func (g *DataGenerator) Generate(config GeneratorConfig) *types.PriceTable {
	table := types.NewPriceTable(types.Schema{
		Ticker:   config.Ticker,
		Interval: types.IntervalOneDay,
		Location: time.UTC,
		Columns:  types.AdjustedOHLCVColumns,
	})

	currentPrice := config.InitialPrice
	currentDay := config.StartDate

	for table.Len() < config.Count {
		if weekday := currentDay.Weekday(); weekday == time.Saturday || weekday == time.Sunday {
			currentDay = currentDay.AddDate(0, 0, 1)

			continue
		}

		open := currentPrice

		// Box-Muller transform for a normally distributed move
		u1 := g.rng.Float64()
		u2 := g.rng.Float64()
		z := math.Sqrt(-2*math.Log(1-u1)) * math.Cos(2*math.Pi*u2)

		drift := config.Trend / float64(config.Count)

		closePrice := open * (1 + config.Volatility*z + drift)
		if closePrice <= 0 {
			closePrice = open * 0.99
		}

		highExtension := g.rng.Float64() * config.Volatility * open * 0.5
		lowExtension := g.rng.Float64() * config.Volatility * open * 0.5

		high := math.Max(open, closePrice) + highExtension

		low := math.Min(open, closePrice) - lowExtension
		if low <= 0 {
			low = math.Min(open, closePrice) * 0.99
		}

		volume := config.VolumeBase * (1.0 + (g.rng.Float64()*2-1)*config.VolumeVariance)
		if volume < 0 {
			volume = config.VolumeBase * 0.1
		}

		table.Append(types.Bar{
			Time:     currentDay,
			Open:     price(open),
			High:     price(high),
			Low:      price(low),
			Close:    price(closePrice),
			AdjClose: price(closePrice * config.AdjustmentFactor),
			Volume:   int64(math.Round(volume)),
		})

		currentPrice = closePrice
		currentDay = currentDay.AddDate(0, 0, 1)
	}

	return table
}

// GenerateYear is a convenience function producing 250 trading days of ticker
// with default settings.
func GenerateYear(ticker string) *types.PriceTable {
	gen := NewDataGenerator(42)
	config := DefaultConfig()
	config.Ticker = ticker

	return gen.Generate(config)
}

func price(val float64) decimal.Decimal {
	return decimal.NewFromFloat(val).Round(4)
}
