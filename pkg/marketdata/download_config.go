package marketdata

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/index-history/internal/types"
	"github.com/rxtech-lab/index-history/pkg/errors"
	"github.com/rxtech-lab/index-history/pkg/marketdata/provider"
)

// BaseDownloadConfig contains common fields for all download configurations.
// The json and yaml keys match so the published schema describes the config file.
type BaseDownloadConfig struct {
	Ticker    string `json:"ticker" yaml:"ticker" jsonschema:"title=Ticker,description=The symbol to download data for (e.g. OSEBX.OL or BTCUSDT),default=OSEBX.OL,required" validate:"required"`
	StartDate string `json:"start_date" yaml:"start_date" jsonschema:"title=Start Date,description=Inclusive start date (YYYY-MM-DD or RFC3339),default=2015-03-01,required" validate:"required"`
	EndDate   string `json:"end_date" yaml:"end_date" jsonschema:"title=End Date,description=Exclusive end date (YYYY-MM-DD or RFC3339),default=2025-03-01,required" validate:"required"`
	Interval  string `json:"interval" yaml:"interval" jsonschema:"title=Interval,description=Bar interval,default=1d,enum=1m,enum=2m,enum=5m,enum=15m,enum=30m,enum=60m,enum=90m,enum=1h,enum=1d,enum=5d,enum=1wk,enum=1mo,enum=3mo" validate:"omitempty,oneof=1m 2m 5m 15m 30m 60m 90m 1h 1d 5d 1wk 1mo 3mo"`
}

// DownloadConfig is a provider's view of the download configuration.
type DownloadConfig interface {
	Validate() error
	Base() *BaseDownloadConfig
}

// YahooDownloadConfig contains configuration for downloading through the Yahoo Finance library.
type YahooDownloadConfig struct {
	BaseDownloadConfig `yaml:",inline"`
}

// YahooChartDownloadConfig contains configuration for downloading from the Yahoo chart endpoint.
type YahooChartDownloadConfig struct {
	BaseDownloadConfig `yaml:",inline"`

	Yahoo provider.YahooChartConfig `json:"yahoo,omitempty" yaml:"yahoo,omitempty" jsonschema:"title=Yahoo,description=Chart endpoint settings"`
}

// PolygonDownloadConfig contains configuration for downloading from Polygon.io.
type PolygonDownloadConfig struct {
	BaseDownloadConfig `yaml:",inline"`

	PolygonApiKey string `json:"polygon_api_key" yaml:"polygon_api_key" jsonschema:"title=API Key,description=Polygon.io API key (falls back to POLYGON_API_KEY),required" validate:"required"`
}

// BinanceDownloadConfig contains configuration for downloading from Binance.
// Binance public market data API does not require authentication.
type BinanceDownloadConfig struct {
	BaseDownloadConfig `yaml:",inline"`
}

// Base returns the fields shared by every provider.
func (c *BaseDownloadConfig) Base() *BaseDownloadConfig {
	return c
}

// ParseDate accepts a plain date or an RFC3339 timestamp. Plain dates are
// midnight in loc, or UTC when loc is nil.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.ParseInLocation(types.DateLayout, value, loc); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, errors.Newf(errors.ErrCodeInvalidParameter, "invalid date %q, expected YYYY-MM-DD or RFC3339", value)
	}

	return t, nil
}

// Validate validates the BaseDownloadConfig fields.
func (c *BaseDownloadConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	if _, err := ParseDate(c.StartDate, nil); err != nil {
		return fmt.Errorf("invalid start_date: %w", err)
	}

	if _, err := ParseDate(c.EndDate, nil); err != nil {
		return fmt.Errorf("invalid end_date: %w", err)
	}

	return nil
}

// Validate validates the YahooChartDownloadConfig.
func (c *YahooChartDownloadConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	return c.BaseDownloadConfig.Validate()
}

// Validate validates the PolygonDownloadConfig.
func (c *PolygonDownloadConfig) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid config", err)
	}

	return c.BaseDownloadConfig.Validate()
}

// ToDownloadParams converts a BaseDownloadConfig to DownloadParams. Plain dates
// are interpreted in loc.
func (c *BaseDownloadConfig) ToDownloadParams(loc *time.Location) (DownloadParams, error) {
	startDate, err := ParseDate(c.StartDate, loc)
	if err != nil {
		return DownloadParams{}, fmt.Errorf("failed to parse start_date: %w", err)
	}

	endDate, err := ParseDate(c.EndDate, loc)
	if err != nil {
		return DownloadParams{}, fmt.Errorf("failed to parse end_date: %w", err)
	}

	interval := types.Interval(c.Interval)
	if interval == "" {
		interval = types.IntervalOneDay
	}

	return DownloadParams{
		Ticker:    c.Ticker,
		StartDate: startDate,
		EndDate:   endDate,
		Interval:  interval,
	}, nil
}

// parseConfig decodes a YAML (or JSON) document into T and validates it.
// Keys that belong to other settings are ignored.
func parseConfig[T any, PT interface {
	*T
	DownloadConfig
}](data []byte) (*T, error) {
	var config T
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to parse download config", err)
	}

	if err := PT(&config).Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// ParseYahooConfig parses a YahooDownloadConfig.
func ParseYahooConfig(data []byte) (*YahooDownloadConfig, error) {
	return parseConfig[YahooDownloadConfig](data)
}

// ParseYahooChartConfig parses a YahooChartDownloadConfig.
func ParseYahooChartConfig(data []byte) (*YahooChartDownloadConfig, error) {
	return parseConfig[YahooChartDownloadConfig](data)
}

// ParsePolygonConfig parses a PolygonDownloadConfig.
func ParsePolygonConfig(data []byte) (*PolygonDownloadConfig, error) {
	return parseConfig[PolygonDownloadConfig](data)
}

// ParseBinanceConfig parses a BinanceDownloadConfig.
func ParseBinanceConfig(data []byte) (*BinanceDownloadConfig, error) {
	return parseConfig[BinanceDownloadConfig](data)
}
