package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/moznion/go-optional"
	"gopkg.in/yaml.v3"

	"github.com/rxtech-lab/index-history/internal/logger"
	"github.com/rxtech-lab/index-history/internal/version"
	"github.com/rxtech-lab/index-history/pkg/errors"
	"github.com/rxtech-lab/index-history/pkg/marketdata"
	"github.com/rxtech-lab/index-history/pkg/marketdata/preview"
	"github.com/rxtech-lab/index-history/pkg/marketdata/provider"
	"github.com/rxtech-lab/index-history/pkg/marketdata/writer"
)

const (
	DefaultTicker    = "OSEBX.OL"
	DefaultStartDate = "2015-03-01"
	DefaultEndDate   = "2025-03-01"
	DefaultOutput    = "osebx_prices.csv"
	DefaultLogLevel  = "info"

	EnvPolygonApiKey = "POLYGON_API_KEY"
	EnvHTTPSProxy    = "HTTPS_PROXY"
	EnvConfigPath    = "DOWNLOAD_CONFIG"
)

// Config is the downloader configuration as read from YAML. Command-line
// flags are applied on top through Overrides.
type Config struct {
	// Version is the downloader version the file was written for.
	Version string `yaml:"version,omitempty"`

	marketdata.BaseDownloadConfig `yaml:",inline"`

	Provider      provider.ProviderType     `yaml:"provider" validate:"required,oneof=yahoo yahoo-chart polygon binance"`
	Writer        writer.WriterType         `yaml:"writer" validate:"required,writer_type"`
	Output        string                    `yaml:"output" validate:"required"`
	Preview       int                       `yaml:"preview" validate:"min=0"`
	Timezone      string                    `yaml:"timezone"`
	LogLevel      string                    `yaml:"log_level" validate:"oneof=debug info warn error"`
	PolygonApiKey string                    `yaml:"polygon_api_key"`
	Yahoo         provider.YahooChartConfig `yaml:"yahoo" validate:"-"`
}

// Overrides holds values given on the command line. None leaves the configured value alone.
type Overrides struct {
	Ticker    optional.Option[string]
	StartDate optional.Option[string]
	EndDate   optional.Option[string]
	Interval  optional.Option[string]
	Provider  optional.Option[string]
	Writer    optional.Option[string]
	Output    optional.Option[string]
	Preview   optional.Option[int]
	LogLevel  optional.Option[string]
}

// Default returns the configuration used when nothing else is given.
func Default() *Config {
	return &Config{
		Version: "",
		BaseDownloadConfig: marketdata.BaseDownloadConfig{
			Ticker:    DefaultTicker,
			StartDate: DefaultStartDate,
			EndDate:   DefaultEndDate,
			Interval:  "1d",
		},
		Provider:      provider.ProviderYahoo,
		Writer:        writer.WriterCSV,
		Output:        DefaultOutput,
		Preview:       preview.DefaultRows,
		Timezone:      "UTC",
		LogLevel:      DefaultLogLevel,
		PolygonApiKey: "",
		Yahoo: provider.YahooChartConfig{
			BaseURL:   provider.DefaultYahooBaseURL,
			UserAgent: provider.DefaultYahooUserAgent,
			Timeout:   provider.DefaultYahooTimeout,
			Proxy:     "",
		},
	}
}

// Load reads path over the defaults and fills credentials from the environment.
// An empty path yields the defaults.
func Load(path string) (*Config, error) {
	config := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to read config file %s", path)
		}

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "failed to parse config file %s", path)
		}
	}

	config.applyEnv()

	return config, nil
}

func (c *Config) applyEnv() {
	if c.PolygonApiKey == "" {
		c.PolygonApiKey = os.Getenv(EnvPolygonApiKey)
	}

	if c.Yahoo.Proxy == "" {
		c.Yahoo.Proxy = os.Getenv(EnvHTTPSProxy)
	}
}

// Apply copies every set override into c.
func (c *Config) Apply(o Overrides) {
	if o.Ticker.IsSome() {
		c.Ticker = o.Ticker.Unwrap()
	}

	if o.StartDate.IsSome() {
		c.StartDate = o.StartDate.Unwrap()
	}

	if o.EndDate.IsSome() {
		c.EndDate = o.EndDate.Unwrap()
	}

	if o.Interval.IsSome() {
		c.Interval = o.Interval.Unwrap()
	}

	if o.Provider.IsSome() {
		c.Provider = provider.ProviderType(o.Provider.Unwrap())
	}

	if o.Writer.IsSome() {
		c.Writer = writer.WriterType(o.Writer.Unwrap())
	}

	if o.Output.IsSome() {
		c.Output = o.Output.Unwrap()
	}

	if o.Preview.IsSome() {
		c.Preview = o.Preview.Unwrap()
	}

	if o.LogLevel.IsSome() {
		c.LogLevel = o.LogLevel.Unwrap()
	}
}

// Validate checks the merged configuration.
func (c *Config) Validate() error {
	if err := version.CheckConfigVersion(version.GetVersion(), c.Version); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidVersion, "incompatible config file", err)
	}

	validate := validator.New()
	if err := writer.RegisterValidation(validate); err != nil {
		return err
	}

	if err := validate.Struct(c); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid configuration", err)
	}

	if _, err := c.DownloadConfig(); err != nil {
		return err
	}

	if _, err := c.Location(); err != nil {
		return err
	}

	return nil
}

// DownloadConfig reads the merged configuration back through the selected
// provider's download config, the same type `download schema` publishes.
func (c *Config) DownloadConfig() (marketdata.DownloadConfig, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "failed to encode configuration", err)
	}

	return marketdata.ParseDownloadConfig(string(c.Provider), data)
}

// Location resolves Timezone. An empty timezone means UTC.
func (c *Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "unknown timezone %q", c.Timezone)
	}

	return loc, nil
}

// DownloadParams converts the configuration into a download request.
func (c *Config) DownloadParams() (marketdata.DownloadParams, error) {
	loc, err := c.Location()
	if err != nil {
		return marketdata.DownloadParams{}, err
	}

	return c.ToDownloadParams(loc)
}

// ClientConfig converts the configuration into the market data client's settings.
func (c *Config) ClientConfig(log *logger.Logger) (marketdata.ClientConfig, error) {
	loc, err := c.Location()
	if err != nil {
		return marketdata.ClientConfig{}, err
	}

	return marketdata.ClientConfig{
		ProviderType:  c.Provider,
		WriterType:    c.Writer,
		OutputPath:    c.Output,
		PolygonApiKey: c.PolygonApiKey,
		Location:      loc,
		Yahoo:         c.Yahoo,
		Logger:        log,
	}, nil
}

// String renders the configuration as YAML with the API key masked.
func (c *Config) String() string {
	masked := *c
	if masked.PolygonApiKey != "" {
		masked.PolygonApiKey = "****"
	}

	data, err := yaml.Marshal(&masked)
	if err != nil {
		return fmt.Sprintf("%+v", masked.BaseDownloadConfig)
	}

	return string(data)
}
