package marketdata

import (
	"encoding/json"
	"sort"

	"github.com/invopop/jsonschema"

	"github.com/rxtech-lab/index-history/pkg/errors"
	"github.com/rxtech-lab/index-history/pkg/marketdata/provider"
)

// ProviderInfo contains metadata about a market data provider.
type ProviderInfo struct {
	Name         string `json:"name"`
	DisplayName  string `json:"displayName"`
	Description  string `json:"description"`
	RequiresAuth bool   `json:"requiresAuth"`
}

// providerRegistry holds metadata about all supported providers.
var providerRegistry = map[provider.ProviderType]ProviderInfo{
	provider.ProviderYahoo: {
		Name:         string(provider.ProviderYahoo),
		DisplayName:  "Yahoo Finance",
		Description:  "Daily and intraday OHLCV with adjusted close for global equities and indices",
		RequiresAuth: false,
	},
	provider.ProviderYahooChart: {
		Name:         string(provider.ProviderYahooChart),
		DisplayName:  "Yahoo Finance (chart API)",
		Description:  "Direct access to the Yahoo v8 chart endpoint with configurable base URL and proxy",
		RequiresAuth: false,
	},
	provider.ProviderPolygon: {
		Name:         string(provider.ProviderPolygon),
		DisplayName:  "Polygon.io",
		Description:  "US stock market data provider with real-time and historical OHLCV data",
		RequiresAuth: true,
	},
	provider.ProviderBinance: {
		Name:         string(provider.ProviderBinance),
		DisplayName:  "Binance",
		Description:  "Cryptocurrency exchange with extensive market data for crypto trading pairs",
		RequiresAuth: false,
	},
}

// GetSupportedProviders returns the names of all supported providers, sorted.
func GetSupportedProviders() []string {
	providers := make([]string, 0, len(providerRegistry))
	for providerType := range providerRegistry {
		providers = append(providers, string(providerType))
	}

	sort.Strings(providers)

	return providers
}

// GetProviderInfo returns metadata for a specific provider.
func GetProviderInfo(providerName string) (ProviderInfo, error) {
	info, exists := providerRegistry[provider.ProviderType(providerName)]
	if !exists {
		return ProviderInfo{}, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	return info, nil
}

// GetDownloadConfigSchema returns the JSON schema for a provider's download configuration.
func GetDownloadConfigSchema(providerName string) (string, error) {
	switch provider.ProviderType(providerName) {
	case provider.ProviderYahoo:
		//nolint:exhaustruct // Empty struct is intentional for schema generation
		return toJSONSchema(YahooDownloadConfig{})
	case provider.ProviderYahooChart:
		//nolint:exhaustruct // Empty struct is intentional for schema generation
		return toJSONSchema(YahooChartDownloadConfig{})
	case provider.ProviderPolygon:
		//nolint:exhaustruct // Empty struct is intentional for schema generation
		return toJSONSchema(PolygonDownloadConfig{})
	case provider.ProviderBinance:
		//nolint:exhaustruct // Empty struct is intentional for schema generation
		return toJSONSchema(BinanceDownloadConfig{})
	default:
		return "", errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}
}

// ParseDownloadConfig decodes a YAML or JSON document with the download config
// type of providerName and validates it. The document may carry other settings.
func ParseDownloadConfig(providerName string, data []byte) (DownloadConfig, error) {
	var (
		config DownloadConfig
		err    error
	)

	switch provider.ProviderType(providerName) {
	case provider.ProviderYahoo:
		config, err = ParseYahooConfig(data)
	case provider.ProviderYahooChart:
		config, err = ParseYahooChartConfig(data)
	case provider.ProviderPolygon:
		config, err = ParsePolygonConfig(data)
	case provider.ProviderBinance:
		config, err = ParseBinanceConfig(data)
	default:
		return nil, errors.Newf(errors.ErrCodeInvalidProvider, "unsupported provider: %s", providerName)
	}

	if err != nil {
		return nil, err
	}

	return config, nil
}

func toJSONSchema[T any](t T) (string, error) {
	r := new(jsonschema.Reflector)
	r.DoNotReference = true
	schema := r.Reflect(t)

	jsonSchemaBytes, err := json.Marshal(schema)
	if err != nil {
		return "", err
	}

	return string(jsonSchemaBytes), nil
}
