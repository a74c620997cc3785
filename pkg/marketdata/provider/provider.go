package provider

import (
	"context"
	"fmt"
	"time"

	"github.com/rxtech-lab/index-history/internal/types"
	"github.com/rxtech-lab/index-history/pkg/errors"
)

// ProviderType defines the type of market data provider.
type ProviderType string

const (
	ProviderYahoo      ProviderType = "yahoo"
	ProviderYahooChart ProviderType = "yahoo-chart"
	ProviderPolygon    ProviderType = "polygon"
	ProviderBinance    ProviderType = "binance"
)

// OnDownloadProgress is called synchronously while a provider pages through a download.
type OnDownloadProgress = func(current float64, total float64, message string)

// Provider fetches a complete price table for one ticker.
type Provider interface {
	// Name returns the provider type the client was built for.
	Name() ProviderType
	// Fetch downloads every bar of ticker between startDate and endDate and returns
	// them only once the whole range has been received. Pagination, if the
	// upstream API needs it, happens inside Fetch.
	// example:
	// Fetch(ctx, "OSEBX.OL", time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), types.IntervalOneDay, onProgress)
	Fetch(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, interval types.Interval, onProgress OnDownloadProgress) (*types.PriceTable, error)
}

// Config carries the settings any provider may need.
type Config struct {
	PolygonApiKey string
	Yahoo         YahooChartConfig
	// Location is used to render index dates when the provider does not report one.
	Location *time.Location
}

// NewMarketDataProvider creates a new market data provider based on the provider type.
func NewMarketDataProvider(providerType ProviderType, config Config) (Provider, error) {
	switch providerType {
	case ProviderYahoo:
		return NewYahooClient(config.Location), nil
	case ProviderYahooChart:
		client, err := NewYahooChartClient(config.Yahoo)
		if err != nil {
			return nil, err
		}

		return client, nil
	case ProviderPolygon:
		client, err := NewPolygonClient(config.PolygonApiKey, config.Location)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfiguration, "polygon", err)
		}

		return client, nil
	case ProviderBinance:
		return NewBinanceClient(config.Location), nil
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported market data provider: %s", providerType)
	}
}

// reportProgress tolerates a nil callback.
func reportProgress(onProgress OnDownloadProgress, current float64, total float64, message string) {
	if onProgress != nil {
		onProgress(current, total, message)
	}
}

func locationOrUTC(location *time.Location) *time.Location {
	if location == nil {
		return time.UTC
	}

	return location
}

func checkRange(startDate time.Time, endDate time.Time) error {
	if !startDate.Before(endDate) {
		return errors.Newf(errors.ErrCodeInvalidParameter, "start date %s must be before end date %s",
			startDate.Format(types.DateLayout), endDate.Format(types.DateLayout))
	}

	return nil
}

func fetchError(provider ProviderType, ticker string, cause error) error {
	return errors.Wrap(errors.ErrCodeMarketDataFetchFailed, fmt.Sprintf("%s: failed to fetch %s", provider, ticker), cause)
}
