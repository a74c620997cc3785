package provider

import (
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	pkgerrors "github.com/rxtech-lab/index-history/pkg/errors"
)

type ProviderFactoryTestSuite struct {
	suite.Suite
}

func TestProviderFactorySuite(t *testing.T) {
	suite.Run(t, new(ProviderFactoryTestSuite))
}

func (suite *ProviderFactoryTestSuite) TestNewMarketDataProvider() {
	testCases := []struct {
		providerType ProviderType
		config       Config
	}{
		{ProviderYahoo, Config{}},
		{ProviderYahooChart, Config{}},
		{ProviderPolygon, Config{PolygonApiKey: "key"}},
		{ProviderBinance, Config{}},
	}

	for _, tc := range testCases {
		suite.Run(string(tc.providerType), func() {
			p, err := NewMarketDataProvider(tc.providerType, tc.config)
			suite.Require().NoError(err)
			suite.Equal(tc.providerType, p.Name())
		})
	}
}

func (suite *ProviderFactoryTestSuite) TestNewMarketDataProviderUnsupported() {
	p, err := NewMarketDataProvider("bloomberg", Config{})
	suite.Nil(p)
	suite.True(pkgerrors.HasCode(err, pkgerrors.ErrCodeInvalidProvider))
}

func (suite *ProviderFactoryTestSuite) TestPolygonRequiresKey() {
	_, err := NewMarketDataProvider(ProviderPolygon, Config{})
	suite.Error(err)
}

func (suite *ProviderFactoryTestSuite) TestCheckRange() {
	start := time.Date(2015, 3, 1, 0, 0, 0, 0, time.UTC)

	suite.NoError(checkRange(start, start.AddDate(10, 0, 0)))
	suite.True(pkgerrors.HasCode(checkRange(start, start), pkgerrors.ErrCodeInvalidParameter))
}
