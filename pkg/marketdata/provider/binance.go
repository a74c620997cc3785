package provider

import (
	"context"
	"fmt"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/index-history/internal/types"
	"github.com/rxtech-lab/index-history/pkg/errors"
)

// binancePageSize is the maximum number of klines per request.
const binancePageSize = 1000

// BinanceKlinesAPI is the subset of the Binance client in use.
type BinanceKlinesAPI interface {
	Klines(ctx context.Context, symbol string, interval string, startTime int64, endTime int64, limit int) ([]*binance.Kline, error)
}

type binanceAPIAdapter struct {
	client *binance.Client
}

func (a *binanceAPIAdapter) Klines(ctx context.Context, symbol string, interval string, startTime int64, endTime int64, limit int) ([]*binance.Kline, error) {
	return a.client.NewKlinesService().
		Symbol(symbol).
		Interval(interval).
		StartTime(startTime).
		EndTime(endTime).
		Limit(limit).
		Do(ctx)
}

// BinanceClient downloads klines from the public Binance market data API.
// Volumes are base-asset volumes truncated to whole units.
type BinanceClient struct {
	apiClient BinanceKlinesAPI
	location  *time.Location
}

func NewBinanceClient(location *time.Location) *BinanceClient {
	return NewBinanceClientWithAPI(&binanceAPIAdapter{client: binance.NewClient("", "")}, location)
}

// NewBinanceClientWithAPI creates a Binance client backed by apiClient. Used in tests.
func NewBinanceClientWithAPI(apiClient BinanceKlinesAPI, location *time.Location) *BinanceClient {
	return &BinanceClient{
		apiClient: apiClient,
		location:  locationOrUTC(location),
	}
}

func (c *BinanceClient) Name() ProviderType { return ProviderBinance }

// Fetch pages through klines until the end of the range. The end date is exclusive.
func (c *BinanceClient) Fetch(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, interval types.Interval, onProgress OnDownloadProgress) (*types.PriceTable, error) {
	if err := checkRange(startDate, endDate); err != nil {
		return nil, err
	}

	binanceInterval, err := interval.BinanceInterval()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidTimespan, "binance", err)
	}

	table := types.NewPriceTable(types.Schema{
		Ticker:   ticker,
		Interval: interval,
		Location: c.location,
		Columns:  types.OHLCVColumns,
	})

	startMillis := startDate.UnixMilli()
	endMillis := endDate.UnixMilli() - 1
	currentStart := startMillis
	message := fmt.Sprintf("Downloading %s klines from Binance", ticker)

	for currentStart <= endMillis {
		klines, err := c.apiClient.Klines(ctx, ticker, binanceInterval, currentStart, endMillis, binancePageSize)
		if err != nil {
			return nil, fetchError(ProviderBinance, ticker, err)
		}

		for _, kline := range klines {
			bar, err := convertKline(kline)
			if err != nil {
				return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, err, "binance: kline at %d", kline.OpenTime)
			}

			table.Append(bar)
		}

		reportProgress(onProgress, float64(currentStart-startMillis), float64(endMillis-startMillis), message)

		if len(klines) < binancePageSize {
			break
		}

		// Continue after the close time of the last kline to avoid duplicates
		currentStart = klines[len(klines)-1].CloseTime + 1
	}

	reportProgress(onProgress, float64(endMillis-startMillis), float64(endMillis-startMillis), message)

	return table, nil
}

func convertKline(kline *binance.Kline) (types.Bar, error) {
	open, err := decimal.NewFromString(kline.Open)
	if err != nil {
		return types.Bar{}, fmt.Errorf("open: %w", err)
	}

	high, err := decimal.NewFromString(kline.High)
	if err != nil {
		return types.Bar{}, fmt.Errorf("high: %w", err)
	}

	low, err := decimal.NewFromString(kline.Low)
	if err != nil {
		return types.Bar{}, fmt.Errorf("low: %w", err)
	}

	closePrice, err := decimal.NewFromString(kline.Close)
	if err != nil {
		return types.Bar{}, fmt.Errorf("close: %w", err)
	}

	volume, err := decimal.NewFromString(kline.Volume)
	if err != nil {
		return types.Bar{}, fmt.Errorf("volume: %w", err)
	}

	return types.Bar{
		Time:     time.UnixMilli(kline.OpenTime),
		Open:     open,
		High:     high,
		Low:      low,
		Close:    closePrice,
		AdjClose: decimal.Zero,
		Volume:   volume.IntPart(),
	}, nil
}
