package provider

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	binance "github.com/adshao/go-binance/v2"
	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/index-history/internal/types"
	pkgerrors "github.com/rxtech-lab/index-history/pkg/errors"
)

type klinesCall struct {
	symbol    string
	interval  string
	startTime int64
	endTime   int64
}

// mockBinanceAPI returns one page per call from pages.
type mockBinanceAPI struct {
	pages [][]*binance.Kline
	err   error
	calls []klinesCall
}

func (m *mockBinanceAPI) Klines(_ context.Context, symbol string, interval string, startTime int64, endTime int64, _ int) ([]*binance.Kline, error) {
	m.calls = append(m.calls, klinesCall{symbol: symbol, interval: interval, startTime: startTime, endTime: endTime})

	if m.err != nil {
		return nil, m.err
	}

	if len(m.calls) > len(m.pages) {
		return []*binance.Kline{}, nil
	}

	return m.pages[len(m.calls)-1], nil
}

func dailyKlines(start time.Time, count int) []*binance.Kline {
	klines := make([]*binance.Kline, 0, count)

	for i := 0; i < count; i++ {
		open := start.AddDate(0, 0, i)
		klines = append(klines, &binance.Kline{
			OpenTime:  open.UnixMilli(),
			Open:      "42000.10",
			High:      "42500.00",
			Low:       "41800.55",
			Close:     "42100.00",
			Volume:    fmt.Sprintf("%d.75", 1000+i),
			CloseTime: open.Add(24*time.Hour).UnixMilli() - 1,
		})
	}

	return klines
}

type BinanceClientTestSuite struct {
	suite.Suite
	start time.Time
}

func TestBinanceClientSuite(t *testing.T) {
	suite.Run(t, new(BinanceClientTestSuite))
}

func (suite *BinanceClientTestSuite) SetupTest() {
	suite.start = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
}

func (suite *BinanceClientTestSuite) TestFetchSinglePage() {
	mockAPI := &mockBinanceAPI{pages: [][]*binance.Kline{dailyKlines(suite.start, 3)}}
	client := NewBinanceClientWithAPI(mockAPI, nil)

	table, err := client.Fetch(context.Background(), "BTCUSDT", suite.start, suite.start.AddDate(0, 0, 3), types.IntervalOneDay, nil)
	suite.Require().NoError(err)

	suite.Len(mockAPI.calls, 1)
	suite.Equal("BTCUSDT", mockAPI.calls[0].symbol)
	suite.Equal("1d", mockAPI.calls[0].interval)
	suite.Equal(suite.start.UnixMilli(), mockAPI.calls[0].startTime)
	suite.Equal(suite.start.AddDate(0, 0, 3).UnixMilli()-1, mockAPI.calls[0].endTime)

	suite.Equal(3, table.Len())
	suite.Equal([]string{"2020-01-01", "42000.1", "42500.0", "41800.55", "42100.0", "1000"}, table.Record(table.Bars[0]))
}

func (suite *BinanceClientTestSuite) TestFetchPaginates() {
	first := dailyKlines(suite.start, binancePageSize)
	second := dailyKlines(suite.start.AddDate(0, 0, binancePageSize), 10)
	mockAPI := &mockBinanceAPI{pages: [][]*binance.Kline{first, second}}
	client := NewBinanceClientWithAPI(mockAPI, nil)

	table, err := client.Fetch(context.Background(), "BTCUSDT", suite.start, suite.start.AddDate(0, 0, binancePageSize+10), types.IntervalOneDay, nil)
	suite.Require().NoError(err)

	suite.Len(mockAPI.calls, 2)
	suite.Equal(first[len(first)-1].CloseTime+1, mockAPI.calls[1].startTime)
	suite.Equal(binancePageSize+10, table.Len())
}

func (suite *BinanceClientTestSuite) TestFetchUnsupportedInterval() {
	mockAPI := &mockBinanceAPI{}
	client := NewBinanceClientWithAPI(mockAPI, nil)

	_, err := client.Fetch(context.Background(), "BTCUSDT", suite.start, suite.start.AddDate(0, 0, 1), types.IntervalNinetyMinutes, nil)
	suite.Error(err)
	suite.True(pkgerrors.HasCode(err, pkgerrors.ErrCodeInvalidTimespan))
	suite.Empty(mockAPI.calls)
}

func (suite *BinanceClientTestSuite) TestFetchAPIError() {
	mockAPI := &mockBinanceAPI{err: errors.New("invalid symbol")}
	client := NewBinanceClientWithAPI(mockAPI, nil)

	_, err := client.Fetch(context.Background(), "NOPE", suite.start, suite.start.AddDate(0, 0, 1), types.IntervalOneDay, nil)
	suite.Error(err)
	suite.True(pkgerrors.HasCode(err, pkgerrors.ErrCodeMarketDataFetchFailed))
}

func (suite *BinanceClientTestSuite) TestFetchMalformedKline() {
	klines := dailyKlines(suite.start, 1)
	klines[0].Close = "n/a"
	mockAPI := &mockBinanceAPI{pages: [][]*binance.Kline{klines}}
	client := NewBinanceClientWithAPI(mockAPI, nil)

	_, err := client.Fetch(context.Background(), "BTCUSDT", suite.start, suite.start.AddDate(0, 0, 1), types.IntervalOneDay, nil)
	suite.Error(err)
	suite.True(pkgerrors.HasCode(err, pkgerrors.ErrCodeMarketDataParseFailed))
	suite.Contains(err.Error(), "close")
}
