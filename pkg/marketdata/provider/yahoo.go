package provider

import (
	"context"
	"fmt"
	"time"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"

	"github.com/rxtech-lab/index-history/internal/types"
)

// YahooChartIterator is the subset of *chart.Iter the Yahoo client uses.
type YahooChartIterator interface {
	Next() bool
	Bar() *finance.ChartBar
	Meta() finance.ChartMeta
	Err() error
}

// YahooChartFunc issues a chart request. chart.Get is the production implementation.
type YahooChartFunc func(params *chart.Params) YahooChartIterator

// YahooClient downloads price tables through the finance-go Yahoo chart API.
type YahooClient struct {
	getChart YahooChartFunc
	location *time.Location
}

// NewYahooClient creates a Yahoo client. Index dates are rendered in the
// exchange zone from the chart metadata, or in location when Yahoo reports none.
func NewYahooClient(location *time.Location) *YahooClient {
	return NewYahooClientWithAPI(func(params *chart.Params) YahooChartIterator {
		return chart.Get(params)
	}, location)
}

// NewYahooClientWithAPI creates a Yahoo client backed by getChart. Used in tests.
func NewYahooClientWithAPI(getChart YahooChartFunc, location *time.Location) *YahooClient {
	return &YahooClient{
		getChart: getChart,
		location: locationOrUTC(location),
	}
}

func (c *YahooClient) Name() ProviderType { return ProviderYahoo }

// Fetch downloads the chart of ticker. The whole range is a single request;
// holiday rows without prices are dropped.
func (c *YahooClient) Fetch(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, interval types.Interval, onProgress OnDownloadProgress) (*types.PriceTable, error) {
	if err := checkRange(startDate, endDate); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	//nolint:exhaustruct // third-party struct with many optional fields
	params := &chart.Params{
		Params:   finance.Params{Context: &ctx},
		Symbol:   ticker,
		Start:    datetime.New(&startDate),
		End:      datetime.New(&endDate),
		Interval: datetime.Interval(interval),
	}

	message := fmt.Sprintf("Downloading %s from Yahoo Finance", ticker)
	reportProgress(onProgress, 0, 1, message)

	table := types.NewPriceTable(types.Schema{
		Ticker:   ticker,
		Interval: interval,
		Location: c.location,
		Columns:  types.AdjustedOHLCVColumns,
	})

	iter := c.getChart(params)
	first := true

	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		// Meta is only safe to read once the first page has loaded.
		if first {
			table.Location = c.chartLocation(iter.Meta())
			first = false
		}

		bar := convertChartBar(iter.Bar())
		if bar.IsEmpty() {
			continue
		}

		table.Append(bar)
	}

	if err := iter.Err(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		return nil, fetchError(ProviderYahoo, ticker, err)
	}

	reportProgress(onProgress, 1, 1, message)

	return table, nil
}

func (c *YahooClient) chartLocation(meta finance.ChartMeta) *time.Location {
	if meta.ExchangeTimezoneName == "" && meta.Gmtoffset == 0 {
		return c.location
	}

	return exchangeLocation(meta.ExchangeTimezoneName, meta.Gmtoffset)
}

func convertChartBar(bar *finance.ChartBar) types.Bar {
	return types.Bar{
		Time:     time.Unix(int64(bar.Timestamp), 0),
		Open:     bar.Open,
		High:     bar.High,
		Low:      bar.Low,
		Close:    bar.Close,
		AdjClose: bar.AdjClose,
		Volume:   int64(bar.Volume),
	}
}
