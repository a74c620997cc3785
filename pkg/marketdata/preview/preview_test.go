package preview

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/rxtech-lab/index-history/internal/types"
)

type PreviewTestSuite struct {
	suite.Suite
	table *types.PriceTable
}

func TestPreviewSuite(t *testing.T) {
	suite.Run(t, new(PreviewTestSuite))
}

func (suite *PreviewTestSuite) SetupTest() {
	suite.table = types.NewPriceTable(types.Schema{
		Ticker:   "OSEBX.OL",
		Interval: types.IntervalOneDay,
		Location: time.UTC,
		Columns:  types.AdjustedOHLCVColumns,
	})

	start := time.Date(2015, 3, 2, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 8; i++ {
		price := decimal.NewFromInt(650 + int64(i))
		suite.table.Append(types.Bar{
			Time:     start.AddDate(0, 0, i),
			Open:     price,
			High:     price.Add(decimal.RequireFromString("2.5")),
			Low:      price.Sub(decimal.RequireFromString("1.25")),
			Close:    price,
			AdjClose: price,
			Volume:   int64(i),
		})
	}
}

func (suite *PreviewTestSuite) TestRowsArePrefixOfRecords() {
	rows := Rows(suite.table, DefaultRows)
	records := suite.table.Records()

	suite.Len(rows, DefaultRows)
	suite.Equal(records[:DefaultRows], rows)
}

func (suite *PreviewTestSuite) TestRowsShorterTable() {
	suite.table.Bars = suite.table.Bars[:2]

	suite.Len(Rows(suite.table, DefaultRows), 2)
	suite.Empty(Rows(suite.table, 0))
}

func (suite *PreviewTestSuite) TestRender() {
	var buf bytes.Buffer

	err := Render(&buf, suite.table, DefaultRows)
	suite.Require().NoError(err)

	output := buf.String()
	for _, label := range suite.table.Header() {
		suite.Contains(output, label)
	}

	suite.Contains(output, "2015-03-06")
	suite.NotContains(output, "2015-03-07")
	suite.Contains(output, "652.5")
	suite.NotContains(output, "rows x")
	// header, five rows and the three border lines
	suite.Len(strings.Split(strings.TrimSuffix(output, "\n"), "\n"), 9)
}

func (suite *PreviewTestSuite) TestRenderEmptyTable() {
	var buf bytes.Buffer

	suite.table.Bars = nil

	err := Render(&buf, suite.table, DefaultRows)
	suite.Require().NoError(err)
	suite.Contains(buf.String(), "Adj Close")
	suite.NotContains(buf.String(), "2015-03-02")
}
