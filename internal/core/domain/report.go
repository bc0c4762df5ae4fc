package domain

// WeatherReport is the normalized shape returned by the weather upstream.
// Temperature keeps the human-readable unit suffix (e.g. "21.4°C").
type WeatherReport struct {
	City        string `json:"city"`
	Temperature string `json:"temperature"`
	Weather     string `json:"weather"`
}

// CryptoPrice is the normalized shape returned by the pricing upstream.
type CryptoPrice struct {
	Name     string  `json:"name"`
	PriceUSD float64 `json:"price_usd"`
}

// CombinedReport is the merged payload served by GET /v1/data and the value
// stored in the response cache.
type CombinedReport struct {
	City        string      `json:"city"`
	Temperature string      `json:"temperature"`
	Weather     string      `json:"weather"`
	Crypto      CryptoPrice `json:"crypto"`
}
