package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown ErrorCode = 1

	// Validation errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeInvalidConfiguration ErrorCode = 101
	ErrCodeMissingParameter     ErrorCode = 109
	ErrCodeInvalidVersion       ErrorCode = 110

	// Data/Resource errors (200-299)
	ErrCodeDataNotFound          ErrorCode = 200
	ErrCodeDataSourceUnavailable ErrorCode = 201

	// Market data errors (700-799)
	ErrCodeMarketDataFetchFailed ErrorCode = 700
	ErrCodeMarketDataWriteFailed ErrorCode = 701
	ErrCodeMarketDataParseFailed ErrorCode = 702
	ErrCodeInvalidTimespan       ErrorCode = 703
	ErrCodeInvalidProvider       ErrorCode = 704
	ErrCodeInvalidWriter         ErrorCode = 705
)

// String returns a short name for the code, used as a log field.
func (c ErrorCode) String() string {
	switch c {
	case ErrCodeInvalidParameter:
		return "invalid_parameter"
	case ErrCodeInvalidConfiguration:
		return "invalid_configuration"
	case ErrCodeMissingParameter:
		return "missing_parameter"
	case ErrCodeInvalidVersion:
		return "invalid_version"
	case ErrCodeDataNotFound:
		return "data_not_found"
	case ErrCodeDataSourceUnavailable:
		return "data_source_unavailable"
	case ErrCodeMarketDataFetchFailed:
		return "market_data_fetch_failed"
	case ErrCodeMarketDataWriteFailed:
		return "market_data_write_failed"
	case ErrCodeMarketDataParseFailed:
		return "market_data_parse_failed"
	case ErrCodeInvalidTimespan:
		return "invalid_timespan"
	case ErrCodeInvalidProvider:
		return "invalid_provider"
	case ErrCodeInvalidWriter:
		return "invalid_writer"
	default:
		return "unknown"
	}
}
