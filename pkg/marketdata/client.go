package marketdata

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rxtech-lab/index-history/internal/logger"
	"github.com/rxtech-lab/index-history/internal/types"
	"github.com/rxtech-lab/index-history/pkg/errors"
	"github.com/rxtech-lab/index-history/pkg/marketdata/provider"
	"github.com/rxtech-lab/index-history/pkg/marketdata/writer"
)

// ClientConfig holds the configuration for the market data client.
type ClientConfig struct {
	ProviderType  provider.ProviderType `validate:"required,oneof=yahoo yahoo-chart polygon binance"`
	WriterType    writer.WriterType     `validate:"required,writer_type"`
	OutputPath    string                `validate:"required"`
	PolygonApiKey string                `validate:"required_if=ProviderType polygon"`
	// Location renders index dates when the provider does not report an exchange zone.
	Location *time.Location            `validate:"-"`
	Yahoo    provider.YahooChartConfig `validate:"-"`
	Logger   *logger.Logger            `validate:"-"`
}

// DownloadParams holds the parameters for a market data download request.
// StartDate is inclusive and EndDate exclusive.
type DownloadParams struct {
	Ticker    string         `validate:"required"`
	StartDate time.Time      `validate:"required"`
	EndDate   time.Time      `validate:"required,gtfield=StartDate"`
	Interval  types.Interval `validate:"required"`
}

// DownloadResult is what a successful download produced.
type DownloadResult struct {
	Table      *types.PriceTable
	OutputPath string
}

// Client is the market data client responsible for downloading data from providers and storing it using writers.
type Client struct {
	provider   provider.Provider
	writer     writer.MarketDataWriter
	config     ClientConfig
	validate   *validator.Validate
	onProgress provider.OnDownloadProgress
	log        *logger.Logger
}

// NewClient creates a new market data client with the given configuration.
func NewClient(config ClientConfig, onProgress provider.OnDownloadProgress) (*Client, error) {
	validate := validator.New()
	if err := writer.RegisterValidation(validate); err != nil {
		return nil, err
	}

	if err := validate.Struct(config); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "invalid client configuration", err)
	}

	marketProvider, err := provider.NewMarketDataProvider(config.ProviderType, provider.Config{
		PolygonApiKey: config.PolygonApiKey,
		Yahoo:         config.Yahoo,
		Location:      config.Location,
	})
	if err != nil {
		return nil, err
	}

	marketWriter, err := writer.NewMarketDataWriter(config.WriterType, config.OutputPath, config.Logger)
	if err != nil {
		return nil, err
	}

	return newClient(config, marketProvider, marketWriter, validate, onProgress), nil
}

// NewClientWithProvider creates a client around an existing provider and writer.
func NewClientWithProvider(config ClientConfig, marketProvider provider.Provider, marketWriter writer.MarketDataWriter, onProgress provider.OnDownloadProgress) *Client {
	return newClient(config, marketProvider, marketWriter, validator.New(), onProgress)
}

func newClient(config ClientConfig, marketProvider provider.Provider, marketWriter writer.MarketDataWriter, validate *validator.Validate, onProgress provider.OnDownloadProgress) *Client {
	log := config.Logger
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		provider:   marketProvider,
		writer:     marketWriter,
		config:     config,
		validate:   validate,
		onProgress: onProgress,
		log:        log,
	}
}

// Download fetches the whole range from the provider, then writes every bar.
// Nothing is written when the fetch fails, so an existing output file survives.
// The context can be used to cancel the download operation.
func (c *Client) Download(ctx context.Context, params DownloadParams) (*DownloadResult, error) {
	if err := c.validate.Struct(params); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidParameter, "invalid download parameters", err)
	}

	if !params.Interval.IsValid() {
		return nil, errors.Newf(errors.ErrCodeInvalidTimespan, "unsupported interval: %s", params.Interval)
	}

	log := c.log.With(
		zap.String("run_id", uuid.New().String()),
		zap.String("ticker", params.Ticker),
		zap.String("provider", string(c.provider.Name())),
	)

	log.Info("Downloading price history",
		zap.Time("start", params.StartDate),
		zap.Time("end", params.EndDate),
		zap.String("interval", string(params.Interval)),
	)

	table, err := c.provider.Fetch(ctx, params.Ticker, params.StartDate, params.EndDate, params.Interval, c.onProgress)
	if err != nil {
		return nil, err
	}

	if dropped := table.Clip(params.StartDate, params.EndDate); dropped > 0 {
		log.Debug("Dropped bars outside the requested range", zap.Int("dropped", dropped))
	}

	outputPath, err := c.write(table)
	if err != nil {
		return nil, err
	}

	log.Info("Saved price history",
		zap.String("path", outputPath),
		zap.Int("rows", table.Len()),
	)

	return &DownloadResult{
		Table:      table,
		OutputPath: outputPath,
	}, nil
}

// write persists table through the configured writer.
func (c *Client) write(table *types.PriceTable) (outputPath string, err error) {
	dir := filepath.Dir(c.writer.GetOutputPath())
	if _, statErr := os.Stat(dir); os.IsNotExist(statErr) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to create %s", dir)
		}
	}

	if err := c.writer.Initialize(table.Schema); err != nil {
		return "", errors.Wrapf(errors.ErrCodeMarketDataWriteFailed, err, "failed to initialize writer at %s", c.writer.GetOutputPath())
	}

	defer func() {
		if closeErr := c.writer.Close(); closeErr != nil {
			c.log.Warn("Failed to close writer", zap.Error(closeErr))
		}
	}()

	for _, bar := range table.Bars {
		if err := c.writer.Write(bar); err != nil {
			return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to write bar", err)
		}
	}

	outputPath, err = c.writer.Finalize()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeMarketDataWriteFailed, "failed to finalize output", err)
	}

	return outputPath, nil
}

// OutputPath returns where the client writes.
func (c *Client) OutputPath() string {
	return c.writer.GetOutputPath()
}
