package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
)

type ErrorTestSuite struct {
	suite.Suite
}

func TestErrorSuite(t *testing.T) {
	suite.Run(t, new(ErrorTestSuite))
}

func (suite *ErrorTestSuite) TestNewError() {
	err := New(ErrCodeInvalidParameter, "invalid parameter")
	suite.Equal(ErrCodeInvalidParameter, err.Code)
	suite.Equal("invalid parameter", err.Message)
	suite.Nil(err.Cause)
	suite.Equal("[100] invalid parameter", err.Error())
}

func (suite *ErrorTestSuite) TestNewfError() {
	err := Newf(ErrCodeDataNotFound, "no data for %s", "OSEBX.OL")
	suite.Equal("no data for OSEBX.OL", err.Message)
	suite.Equal("[200] no data for OSEBX.OL", err.Error())
}

func (suite *ErrorTestSuite) TestWrapError() {
	cause := errors.New("connection refused")
	err := Wrap(ErrCodeMarketDataFetchFailed, "yahoo request failed", cause)
	suite.Equal(cause, err.Unwrap())
	suite.Equal("[700] yahoo request failed: connection refused", err.Error())
	suite.True(Is(err, cause))
}

func (suite *ErrorTestSuite) TestWrapfError() {
	cause := errors.New("disk full")
	err := Wrapf(ErrCodeMarketDataWriteFailed, cause, "failed to write %s", "osebx_prices.csv")
	suite.Equal("failed to write osebx_prices.csv", err.Message)
	suite.Equal(cause, err.Cause)
}

func (suite *ErrorTestSuite) TestGetCodeThroughFmtWrapping() {
	inner := New(ErrCodeInvalidTimespan, "bad interval")
	err := fmt.Errorf("download failed: %w", inner)

	suite.Equal(ErrCodeInvalidTimespan, GetCode(err))
	suite.True(HasCode(err, ErrCodeInvalidTimespan))
	suite.False(HasCode(err, ErrCodeDataNotFound))
}

func (suite *ErrorTestSuite) TestGetCodeReturnsOutermost() {
	inner := New(ErrCodeDataNotFound, "no rows")
	err := Wrap(ErrCodeMarketDataFetchFailed, "fetch failed", inner)
	suite.Equal(ErrCodeMarketDataFetchFailed, GetCode(err))
}

func (suite *ErrorTestSuite) TestGetCodeFromPlainError() {
	suite.Equal(ErrCodeUnknown, GetCode(errors.New("plain")))
	suite.Equal(ErrCodeUnknown, GetCode(nil))
}

func (suite *ErrorTestSuite) TestAsError() {
	err := fmt.Errorf("outer: %w", New(ErrCodeInvalidProvider, "unknown provider"))

	var target *Error
	suite.True(As(err, &target))
	suite.Equal(ErrCodeInvalidProvider, target.Code)
}

func (suite *ErrorTestSuite) TestErrorCodeString() {
	suite.Equal("market_data_fetch_failed", ErrCodeMarketDataFetchFailed.String())
	suite.Equal("invalid_writer", ErrCodeInvalidWriter.String())
	suite.Equal("unknown", ErrorCode(9999).String())
}
