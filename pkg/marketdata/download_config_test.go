package marketdata

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/index-history/internal/types"
	"github.com/rxtech-lab/index-history/pkg/errors"
	"github.com/rxtech-lab/index-history/pkg/marketdata/provider"
)

type DownloadConfigTestSuite struct {
	suite.Suite
}

func TestDownloadConfigSuite(t *testing.T) {
	suite.Run(t, new(DownloadConfigTestSuite))
}

func (suite *DownloadConfigTestSuite) TestParseDate() {
	oslo, err := time.LoadLocation("Europe/Oslo")
	suite.Require().NoError(err)

	testCases := []struct {
		name     string
		value    string
		loc      *time.Location
		expected time.Time
	}{
		{"plain date in UTC", "2015-03-01", nil, time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"plain date in location", "2015-03-01", oslo, time.Date(2015, 3, 1, 0, 0, 0, 0, oslo)},
		{"RFC3339", "2025-03-01T00:00:00Z", oslo, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			parsed, err := ParseDate(tc.value, tc.loc)
			suite.Require().NoError(err)
			suite.True(tc.expected.Equal(parsed), "expected %s, got %s", tc.expected, parsed)
		})
	}
}

func (suite *DownloadConfigTestSuite) TestParseDateInvalid() {
	_, err := ParseDate("03/01/2015", nil)
	suite.Error(err)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidParameter))
}

func (suite *DownloadConfigTestSuite) TestToDownloadParams() {
	config := BaseDownloadConfig{
		Ticker:    "OSEBX.OL",
		StartDate: "2015-03-01",
		EndDate:   "2025-03-01",
		Interval:  "",
	}

	params, err := config.ToDownloadParams(nil)
	suite.Require().NoError(err)
	suite.Equal("OSEBX.OL", params.Ticker)
	suite.Equal(time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC), params.StartDate)
	suite.Equal(time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), params.EndDate)
	suite.Equal(types.IntervalOneDay, params.Interval)
}

func (suite *DownloadConfigTestSuite) TestToDownloadParamsInvalidDate() {
	config := BaseDownloadConfig{
		Ticker:    "OSEBX.OL",
		StartDate: "yesterday",
		EndDate:   "2025-03-01",
		Interval:  "1d",
	}

	_, err := config.ToDownloadParams(nil)
	suite.Error(err)
	suite.Contains(err.Error(), "start_date")
}

func (suite *DownloadConfigTestSuite) TestValidate() {
	valid := BaseDownloadConfig{Ticker: "OSEBX.OL", StartDate: "2015-03-01", EndDate: "2025-03-01", Interval: "1wk"}
	suite.NoError(valid.Validate())

	badInterval := valid
	badInterval.Interval = "2h"
	suite.True(errors.HasCode(badInterval.Validate(), errors.ErrCodeInvalidConfiguration))

	badDate := valid
	badDate.EndDate = "2025-13-01"
	suite.Error(badDate.Validate())
}

func (suite *DownloadConfigTestSuite) TestYahooChartValidate() {
	config := YahooChartDownloadConfig{
		BaseDownloadConfig: BaseDownloadConfig{Ticker: "OSEBX.OL", StartDate: "2015-03-01", EndDate: "2025-03-01", Interval: "1d"},
		Yahoo:              provider.YahooChartConfig{BaseURL: "not a url"},
	}

	suite.True(errors.HasCode(config.Validate(), errors.ErrCodeInvalidConfiguration))

	config.Yahoo.BaseURL = "https://query1.finance.yahoo.com"
	suite.NoError(config.Validate())

	config.Yahoo.Proxy = "::"
	suite.Error(config.Validate())
}

func (suite *DownloadConfigTestSuite) TestParseYAMLDocument() {
	data := []byte(`
version: v1.0.0
ticker: ^AXJO
start_date: "2024-01-01"
end_date: "2024-02-01"
provider: yahoo-chart
output: axjo.csv
yahoo:
  base_url: http://localhost:8080
  timeout: 5s
`)

	config, err := ParseYahooChartConfig(data)
	suite.Require().NoError(err)
	suite.Equal("^AXJO", config.Ticker)
	suite.Equal("2024-01-01", config.StartDate)
	suite.Equal("http://localhost:8080", config.Yahoo.BaseURL)
	suite.Equal(5*time.Second, config.Yahoo.Timeout)
	suite.Equal("^AXJO", config.Base().Ticker)
}

func (suite *DownloadConfigTestSuite) TestParsePolygonRequiresKey() {
	data := []byte("ticker: SPY\nstart_date: \"2024-01-01\"\nend_date: \"2024-02-01\"\n")

	_, err := ParsePolygonConfig(data)
	suite.True(errors.HasCode(err, errors.ErrCodeInvalidConfiguration))

	config, err := ParsePolygonConfig(append(data, []byte("polygon_api_key: key\n")...))
	suite.Require().NoError(err)
	suite.Equal("key", config.PolygonApiKey)
}
