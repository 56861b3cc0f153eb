package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/username/allrounder/backend/src/models"
	"github.com/username/allrounder/backend/src/storage"
	"github.com/username/allrounder/backend/src/store"
)

type fakePriceService struct {
	price decimal.Decimal
	err   error
	calls int
}

func (f *fakePriceService) GetSpotPrice(ctx context.Context, coinID, currency string) (decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.price, nil
}

type fakeSwingService struct {
	percent float64
	calls   int
}

func (f *fakeSwingService) DailySwingPercent() float64 {
	f.calls++
	return f.percent
}

type countingNotifier struct {
	sent int
	last int
}

func (c *countingNotifier) SendAutomationSummary(toEmail, name, date string, synthesized int) error {
	c.sent++
	c.last = synthesized
	return nil
}

func newTestAutomation(t *testing.T) (*AutomationService, *store.AppStore, *fakePriceService, *fakeSwingService, *countingNotifier) {
	t.Helper()
	appStore := store.New(storage.NewMemoryStore())
	prices := &fakePriceService{price: decimal.NewFromInt(100000000)}
	swing := &fakeSwingService{percent: 2.0}
	notifier := &countingNotifier{}
	svc := NewAutomationService(appStore, prices, swing, notifier, "krw", time.Second)
	return svc, appStore, prices, swing, notifier
}

func TestRunDailyDailyInterest(t *testing.T) {
	t.Parallel()

	svc, appStore, _, _, _ := newTestAutomation(t)
	const userID int64 = 1

	appStore.SaveAccounts(userID, []models.Account{
		{ID: "saving1", Name: "적금", Type: models.AccountSavings, InterestRate: 3.65, InterestCycle: models.CycleDaily},
	})
	appStore.SeedOpeningBalance(userID, "saving1", 3000000)

	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	result := svc.RunDaily(context.Background(), userID, now)

	if result.Synthesized != 1 {
		t.Fatalf("synthesized = %d, want 1", result.Synthesized)
	}

	txs := appStore.Transactions(userID)
	if len(txs) != 1 {
		t.Fatalf("ledger has %d transactions, want 1", len(txs))
	}
	// 3,000,000 * 3.65% / 365 = 300 a day.
	if txs[0].Amount != 300 {
		t.Fatalf("interest amount = %d, want 300", txs[0].Amount)
	}
	if txs[0].Type != models.TxIncome || txs[0].Category != "이자 수익" {
		t.Fatalf("unexpected transaction labels: type=%s category=%s", txs[0].Type, txs[0].Category)
	}

	accounts := appStore.Accounts(userID)
	if accounts[0].LastInterestUpdate != "2025-05-10" {
		t.Fatalf("interest stamp = %q, want 2025-05-10", accounts[0].LastInterestUpdate)
	}
}

func TestRunDailySameDayIdempotent(t *testing.T) {
	t.Parallel()

	svc, appStore, _, _, _ := newTestAutomation(t)
	const userID int64 = 1

	appStore.SaveAccounts(userID, []models.Account{
		{ID: "saving1", Name: "적금", Type: models.AccountSavings, InterestRate: 3.65, InterestCycle: models.CycleDaily},
	})
	appStore.SeedOpeningBalance(userID, "saving1", 3000000)

	now := time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC)
	svc.RunDaily(context.Background(), userID, now)
	second := svc.RunDaily(context.Background(), userID, now.Add(2*time.Hour))

	if second.Synthesized != 0 {
		t.Fatalf("second run synthesized %d, want 0", second.Synthesized)
	}
	if txs := appStore.Transactions(userID); len(txs) != 1 {
		t.Fatalf("ledger has %d transactions after repeat run, want 1", len(txs))
	}
}

func TestRunDailyMonthlyInterestArmsFirst(t *testing.T) {
	t.Parallel()

	svc, appStore, _, _, _ := newTestAutomation(t)
	const userID int64 = 1

	appStore.SaveAccounts(userID, []models.Account{
		{ID: "saving9", Name: "적금", Type: models.AccountSavings, InterestRate: 12, InterestCycle: models.CycleMonthly},
	})
	appStore.SeedOpeningBalance(userID, "saving9", 1200000)

	// First sighting only arms the tracker.
	first := svc.RunDaily(context.Background(), userID, time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC))
	if first.Synthesized != 0 {
		t.Fatalf("arming run synthesized %d, want 0", first.Synthesized)
	}
	if stamp := appStore.Accounts(userID)[0].LastInterestUpdate; stamp != "2025-05-10" {
		t.Fatalf("arming stamp = %q, want 2025-05-10", stamp)
	}

	// Same month again: still nothing.
	svc.RunDaily(context.Background(), userID, time.Date(2025, 5, 25, 9, 0, 0, 0, time.UTC))
	if txs := appStore.Transactions(userID); len(txs) != 0 {
		t.Fatalf("same-month run wrote %d transactions, want 0", len(txs))
	}

	// Next month pays: 1,200,000 * 12% / 12 = 12,000.
	paying := svc.RunDaily(context.Background(), userID, time.Date(2025, 6, 3, 9, 0, 0, 0, time.UTC))
	if paying.Synthesized != 1 {
		t.Fatalf("paying run synthesized %d, want 1", paying.Synthesized)
	}
	txs := appStore.Transactions(userID)
	if txs[0].Amount != 12000 {
		t.Fatalf("monthly interest = %d, want 12000", txs[0].Amount)
	}
}

func TestRunDailyCryptoValuation(t *testing.T) {
	t.Parallel()

	svc, appStore, prices, swing, _ := newTestAutomation(t)
	const userID int64 = 1

	appStore.SaveAccounts(userID, []models.Account{
		{ID: "coin1", Name: "업비트", Type: models.AccountInvestment, Ticker: "BTC", Holdings: 0.05},
	})
	appStore.SeedOpeningBalance(userID, "coin1", 2500000)

	result := svc.RunDaily(context.Background(), userID, time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC))
	if result.Synthesized != 1 {
		t.Fatalf("synthesized = %d, want 1", result.Synthesized)
	}
	if prices.calls != 1 {
		t.Fatalf("price service called %d times, want 1", prices.calls)
	}
	if swing.calls != 0 {
		t.Fatal("swing service must not be used for crypto tickers")
	}

	// 0.05 * 100,000,000 = 5,000,000 real value against a 2,500,000 balance.
	txs := appStore.Transactions(userID)
	if txs[0].Amount != 2500000 || txs[0].Type != models.TxIncome {
		t.Fatalf("valuation tx = %s %d, want income 2500000", txs[0].Type, txs[0].Amount)
	}
	if txs[0].Category != "투자 수익" {
		t.Fatalf("valuation category = %q, want 투자 수익", txs[0].Category)
	}
	if stamp := appStore.Accounts(userID)[0].LastTickerUpdate; stamp != "2025-05-10" {
		t.Fatalf("ticker stamp = %q, want 2025-05-10", stamp)
	}
}

func TestRunDailyCryptoLossBooksExpense(t *testing.T) {
	t.Parallel()

	svc, appStore, prices, _, _ := newTestAutomation(t)
	prices.price = decimal.NewFromInt(10000000)
	const userID int64 = 1

	appStore.SaveAccounts(userID, []models.Account{
		{ID: "coin1", Name: "업비트", Type: models.AccountInvestment, Ticker: "btc-wallet", Holdings: 0.1},
	})
	appStore.SeedOpeningBalance(userID, "coin1", 2500000)

	svc.RunDaily(context.Background(), userID, time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC))

	// 0.1 * 10,000,000 = 1,000,000 against 2,500,000: a 1,500,000 loss.
	txs := appStore.Transactions(userID)
	if len(txs) != 1 {
		t.Fatalf("ledger has %d transactions, want 1", len(txs))
	}
	if txs[0].Type != models.TxExpense || txs[0].Amount != 1500000 {
		t.Fatalf("valuation tx = %s %d, want expense 1500000", txs[0].Type, txs[0].Amount)
	}
	if txs[0].Category != "투자 손실" {
		t.Fatalf("valuation category = %q, want 투자 손실", txs[0].Category)
	}
}

func TestRunDailyEquitySwing(t *testing.T) {
	t.Parallel()

	svc, appStore, prices, swing, _ := newTestAutomation(t)
	swing.percent = 2.0
	const userID int64 = 1

	appStore.SaveAccounts(userID, []models.Account{
		{ID: "stock1", Name: "토스증권", Type: models.AccountInvestment, Ticker: "TSLA", Holdings: 10},
	})
	appStore.SeedOpeningBalance(userID, "stock1", 2500000)

	svc.RunDaily(context.Background(), userID, time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC))
	if prices.calls != 0 {
		t.Fatal("price service must not be used for equity tickers")
	}

	// 2% of 2,500,000 = 50,000 booked as gain.
	txs := appStore.Transactions(userID)
	if len(txs) != 1 || txs[0].Amount != 50000 || txs[0].Type != models.TxIncome {
		t.Fatalf("swing tx unexpected: %+v", txs)
	}
}

func TestRunDailyPriceFetchFailureStillStamps(t *testing.T) {
	t.Parallel()

	svc, appStore, prices, _, _ := newTestAutomation(t)
	prices.err = errors.New("rate limited")
	const userID int64 = 1

	appStore.SaveAccounts(userID, []models.Account{
		{ID: "coin1", Name: "업비트", Type: models.AccountInvestment, Ticker: "ETH", Holdings: 1},
	})
	appStore.SeedOpeningBalance(userID, "coin1", 2500000)

	result := svc.RunDaily(context.Background(), userID, time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC))
	if result.Synthesized != 0 {
		t.Fatalf("synthesized = %d, want 0 on fetch failure", result.Synthesized)
	}
	// The attempt still counts for the day; the stamp advances.
	if stamp := appStore.Accounts(userID)[0].LastTickerUpdate; stamp != "2025-05-10" {
		t.Fatalf("ticker stamp = %q, want 2025-05-10", stamp)
	}
}

func TestRunDailySendsSummaryWhenEmailSet(t *testing.T) {
	t.Parallel()

	svc, appStore, _, _, notifier := newTestAutomation(t)
	const userID int64 = 1

	appStore.SetProfile(userID, models.Profile{Name: "지민", Email: "user@example.com"})
	appStore.SaveAccounts(userID, []models.Account{
		{ID: "saving1", Name: "적금", Type: models.AccountSavings, InterestRate: 3.65, InterestCycle: models.CycleDaily},
	})
	appStore.SeedOpeningBalance(userID, "saving1", 3000000)

	svc.RunDaily(context.Background(), userID, time.Date(2025, 5, 10, 9, 0, 0, 0, time.UTC))
	if notifier.sent != 1 {
		t.Fatalf("notifier sent %d summaries, want 1", notifier.sent)
	}
	if notifier.last != 1 {
		t.Fatalf("summary reported %d records, want 1", notifier.last)
	}
}

func TestResolveCoinID(t *testing.T) {
	t.Parallel()

	cases := []struct {
		ticker string
		coinID string
		crypto bool
	}{
		{"BTC", "bitcoin", true},
		{"btc-wallet", "bitcoin", true},
		{"ETH", "ethereum", true},
		{"MyXRPBag", "ripple", true},
		{"TSLA", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		coinID, crypto := ResolveCoinID(c.ticker)
		if coinID != c.coinID || crypto != c.crypto {
			t.Errorf("ResolveCoinID(%q) = (%q, %v), want (%q, %v)", c.ticker, coinID, crypto, c.coinID, c.crypto)
		}
	}
}
