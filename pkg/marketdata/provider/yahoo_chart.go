package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/rxtech-lab/index-history/internal/types"
	"github.com/rxtech-lab/index-history/pkg/errors"
)

const (
	DefaultYahooBaseURL   = "https://query2.finance.yahoo.com"
	DefaultYahooUserAgent = "Mozilla/5.0"
	DefaultYahooTimeout   = 30 * time.Second
)

// YahooChartConfig configures the direct v8 chart endpoint client.
type YahooChartConfig struct {
	BaseURL   string        `yaml:"base_url" json:"base_url,omitempty" jsonschema:"title=Base URL,description=Chart API base URL,default=https://query2.finance.yahoo.com" validate:"omitempty,url"`
	UserAgent string        `yaml:"user_agent" json:"user_agent,omitempty" jsonschema:"title=User Agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout,omitempty" jsonschema:"title=Timeout,description=Request timeout such as 30s"`
	Proxy     string        `yaml:"proxy" json:"proxy,omitempty" jsonschema:"title=Proxy,description=HTTP proxy URL (falls back to HTTPS_PROXY)" validate:"omitempty,url"`
}

// YahooChartClient calls Yahoo's v8 chart endpoint directly. Unlike YahooClient
// it honours the context, a proxy and the exchange time zone reported by Yahoo.
type YahooChartClient struct {
	client *resty.Client
}

// NewYahooChartClient creates the client. Zero config fields fall back to defaults.
func NewYahooChartClient(config YahooChartConfig) (*YahooChartClient, error) {
	if config.BaseURL == "" {
		config.BaseURL = DefaultYahooBaseURL
	}

	if config.UserAgent == "" {
		config.UserAgent = DefaultYahooUserAgent
	}

	if config.Timeout <= 0 {
		config.Timeout = DefaultYahooTimeout
	}

	client := resty.New()
	client.SetBaseURL(config.BaseURL)
	client.SetTimeout(config.Timeout)
	client.SetHeader("User-Agent", config.UserAgent)
	client.SetHeader("Accept", "application/json")

	if config.Proxy != "" {
		if _, err := url.Parse(config.Proxy); err != nil {
			return nil, errors.Wrapf(errors.ErrCodeInvalidConfiguration, err, "invalid proxy url %q", config.Proxy)
		}

		client.SetProxy(config.Proxy)
	}

	return &YahooChartClient{client: client}, nil
}

func (c *YahooChartClient) Name() ProviderType { return ProviderYahooChart }

type yahooChartResponse struct {
	Chart struct {
		Result []yahooChartResult `json:"result"`
		Error  *yahooChartError   `json:"error"`
	} `json:"chart"`
}

type yahooChartError struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

type yahooChartResult struct {
	Meta struct {
		Symbol               string `json:"symbol"`
		ExchangeTimezoneName string `json:"exchangeTimezoneName"`
		GmtOffset            int    `json:"gmtoffset"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Open   []*float64 `json:"open"`
			High   []*float64 `json:"high"`
			Low    []*float64 `json:"low"`
			Close  []*float64 `json:"close"`
			Volume []*float64 `json:"volume"`
		} `json:"quote"`
		AdjClose []struct {
			AdjClose []*float64 `json:"adjclose"`
		} `json:"adjclose"`
	} `json:"indicators"`
}

// Fetch requests the full range in one call and decodes it into a table.
func (c *YahooChartClient) Fetch(ctx context.Context, ticker string, startDate time.Time, endDate time.Time, interval types.Interval, onProgress OnDownloadProgress) (*types.PriceTable, error) {
	if err := checkRange(startDate, endDate); err != nil {
		return nil, err
	}

	message := fmt.Sprintf("Downloading %s from Yahoo chart API", ticker)
	reportProgress(onProgress, 0, 1, message)

	resp, err := c.client.R().
		SetContext(ctx).
		SetPathParam("symbol", ticker).
		SetQueryParams(map[string]string{
			"period1":              strconv.FormatInt(startDate.Unix(), 10),
			"period2":              strconv.FormatInt(endDate.Unix(), 10),
			"interval":             string(interval),
			"includeAdjustedClose": "true",
			"events":               "div|split",
		}).
		Get("/v8/finance/chart/{symbol}")
	if err != nil {
		return nil, fetchError(ProviderYahooChart, ticker, err)
	}

	var body yahooChartResponse
	if decodeErr := json.Unmarshal(resp.Body(), &body); decodeErr != nil {
		if resp.StatusCode() != http.StatusOK {
			return nil, fetchError(ProviderYahooChart, ticker,
				fmt.Errorf("http %d: %s", resp.StatusCode(), resp.String()))
		}

		return nil, errors.Wrapf(errors.ErrCodeMarketDataParseFailed, decodeErr, "yahoo-chart: failed to decode %s", ticker)
	}

	if body.Chart.Error != nil {
		code := errors.ErrCodeMarketDataFetchFailed
		if body.Chart.Error.Code == "Not Found" {
			code = errors.ErrCodeDataNotFound
		}

		return nil, errors.Newf(code, "yahoo-chart: %s: %s", body.Chart.Error.Code, body.Chart.Error.Description)
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fetchError(ProviderYahooChart, ticker, fmt.Errorf("http %d", resp.StatusCode()))
	}

	if len(body.Chart.Result) == 0 {
		return nil, errors.Newf(errors.ErrCodeDataNotFound, "yahoo-chart: no result for %s", ticker)
	}

	table := c.buildTable(ticker, interval, body.Chart.Result[0])

	reportProgress(onProgress, 1, 1, message)

	return table, nil
}

func (c *YahooChartClient) buildTable(ticker string, interval types.Interval, result yahooChartResult) *types.PriceTable {
	adjClose := []*float64(nil)
	columns := types.OHLCVColumns

	if len(result.Indicators.AdjClose) > 0 && len(result.Indicators.AdjClose[0].AdjClose) > 0 {
		adjClose = result.Indicators.AdjClose[0].AdjClose
		columns = types.AdjustedOHLCVColumns
	}

	table := types.NewPriceTable(types.Schema{
		Ticker:   ticker,
		Interval: interval,
		Location: exchangeLocation(result.Meta.ExchangeTimezoneName, result.Meta.GmtOffset),
		Columns:  columns,
	})

	if len(result.Indicators.Quote) == 0 {
		return table
	}

	quote := result.Indicators.Quote[0]

	for i, ts := range result.Timestamp {
		open, high, low, closePrice := valueAt(quote.Open, i), valueAt(quote.High, i), valueAt(quote.Low, i), valueAt(quote.Close, i)
		if open == nil && high == nil && low == nil && closePrice == nil {
			continue
		}

		bar := types.Bar{
			Time:     time.Unix(ts, 0),
			Open:     decimalOrZero(open),
			High:     decimalOrZero(high),
			Low:      decimalOrZero(low),
			Close:    decimalOrZero(closePrice),
			AdjClose: decimalOrZero(valueAt(adjClose, i)),
			Volume:   0,
		}

		if volume := valueAt(quote.Volume, i); volume != nil {
			bar.Volume = int64(math.Round(*volume))
		}

		table.Append(bar)
	}

	return table
}

func valueAt(values []*float64, i int) *float64 {
	if i >= len(values) {
		return nil
	}

	return values[i]
}

func decimalOrZero(value *float64) decimal.Decimal {
	if value == nil {
		return decimal.Zero
	}

	return decimal.NewFromFloat(*value)
}

// exchangeLocation prefers the IANA zone name and falls back to the raw offset.
func exchangeLocation(name string, gmtOffset int) *time.Location {
	if name != "" {
		if location, err := time.LoadLocation(name); err == nil {
			return location
		}
	}

	if gmtOffset != 0 {
		return time.FixedZone("", gmtOffset)
	}

	return time.UTC
}
