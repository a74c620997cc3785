package provider

import (
	"context"
	"fmt"
	"math"
	"time"

	polygon "github.com/polygon-io/client-go/rest"
	"github.com/polygon-io/client-go/rest/models"
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/index-history/internal/types"
)

// PolygonAggsIterator is the subset of the Polygon aggregates iterator in use.
type PolygonAggsIterator interface {
	Next() bool
	Item() models.Agg
	Err() error
}

// PolygonAPIClient is the subset of the Polygon REST client in use.
type PolygonAPIClient interface {
	ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator
}

type polygonAPIAdapter struct {
	client *polygon.Client
}

func (a *polygonAPIAdapter) ListAggs(ctx context.Context, params *models.ListAggsParams, options ...models.RequestOption) PolygonAggsIterator {
	return a.client.ListAggs(ctx, params, options...)
}

// PolygonClient downloads aggregates from Polygon.io. Polygon has no adjusted
// close column; its prices are split-adjusted at the source.
type PolygonClient struct {
	apiClient PolygonAPIClient
	location  *time.Location
}

func NewPolygonClient(apiKey string, location *time.Location) (*PolygonClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("apiKey is required")
	}

	return NewPolygonClientWithAPI(&polygonAPIAdapter{client: polygon.New(apiKey)}, location), nil
}

// NewPolygonClientWithAPI creates a Polygon client backed by apiClient. Used in tests.
func NewPolygonClientWithAPI(apiClient PolygonAPIClient, location *time.Location) *PolygonClient {
	return &PolygonClient{
		apiClient: apiClient,
		location:  locationOrUTC(location),
	}
}

func (c *PolygonClient) Name() ProviderType { return ProviderPolygon }

func (c *PolygonClient) Fetch(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, interval types.Interval, onProgress OnDownloadProgress) (*types.PriceTable, error) {
	if err := checkRange(startDate, endDate); err != nil {
		return nil, err
	}

	totalDays := math.Ceil(endDate.Sub(startDate).Hours() / 24)
	message := fmt.Sprintf("Downloading %s from Polygon", ticker)

	//nolint:exhaustruct // third-party struct with many optional fields
	params := models.ListAggsParams{
		Ticker:     ticker,
		Multiplier: interval.Multiplier(),
		Timespan:   interval.Timespan(),
		From:       models.Millis(startDate),
		To:         models.Millis(endDate),
	}.WithOrder(models.Asc).WithLimit(50000)

	table := types.NewPriceTable(types.Schema{
		Ticker:   ticker,
		Interval: interval,
		Location: c.location,
		Columns:  types.OHLCVColumns,
	})

	iter := c.apiClient.ListAggs(ctx, params)

	for iter.Next() {
		agg := iter.Item()
		barTime := time.Time(agg.Timestamp)

		table.Append(types.Bar{
			Time:     barTime,
			Open:     decimal.NewFromFloat(agg.Open),
			High:     decimal.NewFromFloat(agg.High),
			Low:      decimal.NewFromFloat(agg.Low),
			Close:    decimal.NewFromFloat(agg.Close),
			AdjClose: decimal.Zero,
			Volume:   int64(math.Round(agg.Volume)),
		})

		if table.Len()%1000 == 0 {
			reportProgress(onProgress, math.Floor(barTime.Sub(startDate).Hours()/24), totalDays, message)
		}
	}

	if err := iter.Err(); err != nil {
		return nil, fetchError(ProviderPolygon, ticker, err)
	}

	reportProgress(onProgress, totalDays, totalDays, message)

	return table, nil
}
