package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shopspring/decimal"
	"github.com/username/allrounder/backend/src/logger"
	"golang.org/x/net/publicsuffix"
)

// Coin ids known to the price endpoint, resolved from ticker substrings.
var coinIDsByTickerSubstring = []struct {
	substring string
	coinID    string
}{
	{"btc", "bitcoin"},
	{"eth", "ethereum"},
	{"xrp", "ripple"},
}

// ResolveCoinID maps an account ticker to a price-endpoint coin id by
// case-insensitive substring match. Anything unmatched is treated as an
// equity-style ticker with no live feed.
func ResolveCoinID(ticker string) (string, bool) {
	lower := strings.ToLower(ticker)
	for _, entry := range coinIDsByTickerSubstring {
		if strings.Contains(lower, entry.substring) {
			return entry.coinID, true
		}
	}
	return "", false
}

// priceServiceImpl implements PriceService against the CoinGecko simple
// price endpoint. Spot prices are cached so repeated automation runs in one
// session do not hammer the public API.
type priceServiceImpl struct {
	httpClient http.Client
	baseURL    string
	spotCache  *cache.Cache
}

// NewPriceService creates the live price service. The endpoint needs no API
// key; the client still carries a cookie jar and an explicit timeout.
func NewPriceService(baseURL string, timeout time.Duration, spotCache *cache.Cache) PriceService {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		logger.L.Error("Failed to create cookie jar", "error", err)
	}

	return &priceServiceImpl{
		httpClient: http.Client{
			Jar:     jar,
			Timeout: timeout,
		},
		baseURL:   strings.TrimSuffix(baseURL, "/"),
		spotCache: spotCache,
	}
}

func (s *priceServiceImpl) GetSpotPrice(ctx context.Context, coinID, currency string) (decimal.Decimal, error) {
	cacheKey := coinID + ":" + currency
	if cached, found := s.spotCache.Get(cacheKey); found {
		if price, ok := cached.(decimal.Decimal); ok {
			logger.L.Debug("Spot price served from cache", "coinID", coinID, "currency", currency)
			return price, nil
		}
	}

	priceURL := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=%s", s.baseURL, coinID, currency)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, priceURL, nil)
	if err != nil {
		return decimal.Zero, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to call price API for coin %s: %w", coinID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("price API returned non-OK status %d for coin %s", resp.StatusCode, coinID)
	}

	// Response shape: { "<coinID>": { "<currency>": <number> } }
	var priceData map[string]map[string]json.Number
	if err := json.NewDecoder(resp.Body).Decode(&priceData); err != nil {
		return decimal.Zero, fmt.Errorf("failed to decode price response for coin %s: %w", coinID, err)
	}

	raw, ok := priceData[coinID][currency]
	if !ok {
		return decimal.Zero, fmt.Errorf("price API returned no %s quote for coin %s", currency, coinID)
	}
	price, err := decimal.NewFromString(raw.String())
	if err != nil {
		return decimal.Zero, fmt.Errorf("price API returned unparsable quote %q for coin %s: %w", raw.String(), coinID, err)
	}
	if price.IsZero() || price.IsNegative() {
		return decimal.Zero, fmt.Errorf("price API returned non-positive quote for coin %s", coinID)
	}

	s.spotCache.Set(cacheKey, price, cache.DefaultExpiration)
	logger.L.Info("Fetched spot price", "coinID", coinID, "currency", currency, "price", price.String())
	return price, nil
}
