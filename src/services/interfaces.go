package services

import (
	"context"

	"github.com/shopspring/decimal"
)

// PriceService resolves the current spot price of a supported coin in a
// reporting currency. The live implementation talks to CoinGecko; tests
// inject a deterministic one.
type PriceService interface {
	GetSpotPrice(ctx context.Context, coinID, currency string) (decimal.Decimal, error)
}

// SwingService draws the simulated daily valuation swing, in percent, for
// equity-style tickers with no live feed wired up. This is placeholder demo
// behavior, not market data.
type SwingService interface {
	DailySwingPercent() float64
}

// NotificationService delivers the daily automation summary to the user.
// Implementations must be best-effort; a delivery failure never propagates
// into the automation pass.
type NotificationService interface {
	SendAutomationSummary(toEmail, name, date string, synthesized int) error
}
