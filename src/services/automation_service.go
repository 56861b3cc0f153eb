package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/username/allrounder/backend/src/logger"
	"github.com/username/allrounder/backend/src/models"
	"github.com/username/allrounder/backend/src/store"
	"github.com/username/allrounder/backend/src/utils"
)

// Labels of the synthetic transactions the automation pass writes.
const (
	categoryInterestIncome = "이자 수익"
	categoryInvestGain     = "투자 수익"
	categoryInvestLoss     = "투자 손실"
	titleDailyInterest     = "일일 예적금 자동이자"
	titleMonthlyInterest   = "월간 예적금 복리이자"

	daysPerYear            = 365
	monthsPerYear          = 12
	minPayoutWholeCurrency = 1
)

// AutomationResult summarizes one pass over a user's accounts.
type AutomationResult struct {
	Date            string `json:"date"`
	Synthesized     int    `json:"synthesized"`
	AccountsUpdated int    `json:"accountsUpdated"`
}

// AutomationService runs the once-daily asset pass: savings interest payout
// and investment revaluation. Side effects are collected during the sweep
// and applied in one batch at the end; a failing price fetch never blocks
// the remaining accounts.
type AutomationService struct {
	store    *store.AppStore
	prices   PriceService
	swing    SwingService
	notifier NotificationService

	fetchTimeout time.Duration
	currency     string

	mu      sync.Mutex
	lastRun map[int64]string // userID -> date of last completed pass
}

func NewAutomationService(appStore *store.AppStore, prices PriceService, swing SwingService, notifier NotificationService, currency string, fetchTimeout time.Duration) *AutomationService {
	return &AutomationService{
		store:        appStore,
		prices:       prices,
		swing:        swing,
		notifier:     notifier,
		fetchTimeout: fetchTimeout,
		currency:     currency,
		lastRun:      make(map[int64]string),
	}
}

// RunDaily executes the pass for one user. It is idempotent per calendar
// day: an in-process guard skips repeat invocations (hot restarts aside, the
// per-account date stamps make a replay a no-op anyway).
func (s *AutomationService) RunDaily(ctx context.Context, userID int64, now time.Time) AutomationResult {
	today := utils.FormatDate(now)

	s.mu.Lock()
	if s.lastRun[userID] == today {
		s.mu.Unlock()
		logger.L.Debug("Automation already ran today, skipping", "userID", userID, "date", today)
		return AutomationResult{Date: today}
	}
	s.lastRun[userID] = today
	s.mu.Unlock()

	// Balances are derived once, before any synthetic transaction exists;
	// every account in this pass is valued against the same snapshot.
	balances := s.store.CalculatedBalances(userID)
	accounts := s.store.Accounts(userID)

	var newTxs []models.Transaction
	needsUpdate := false

	for i := range accounts {
		acc := &accounts[i]

		if tx, stamped := s.applyInterest(acc, balances[acc.ID], now); stamped {
			needsUpdate = true
			if tx != nil {
				newTxs = append(newTxs, *tx)
			}
		}

		if tx, stamped := s.applyValuation(ctx, acc, balances[acc.ID], now); stamped {
			needsUpdate = true
			if tx != nil {
				newTxs = append(newTxs, *tx)
			}
		}
	}

	// Apply side effects in one batch each: synthesized transactions are
	// prepended to the ledger, mutated accounts persisted together. The two
	// writes are not atomic with each other; that is an accepted limitation.
	if len(newTxs) > 0 {
		s.store.PrependTransactions(userID, newTxs)
	}
	if needsUpdate {
		s.store.SaveAccounts(userID, accounts)
	}

	result := AutomationResult{Date: today, Synthesized: len(newTxs)}
	if needsUpdate {
		result.AccountsUpdated = len(accounts)
	}

	if len(newTxs) > 0 {
		logger.L.Info("Automation pass synthesized transactions", "userID", userID, "count", len(newTxs), "date", today)
		profile := s.store.Profile(userID)
		if profile.Email != "" {
			if err := s.notifier.SendAutomationSummary(profile.Email, profile.Name, today, len(newTxs)); err != nil {
				logger.L.Warn("Automation summary notification failed", "userID", userID, "error", err)
			}
		}
	}
	return result
}

// RunStartupPass runs the daily pass for every user with stored state. Per-
// user failures are isolated; the pass itself never returns an error.
func (s *AutomationService) RunStartupPass(ctx context.Context, userIDs []int64, now time.Time) {
	for _, userID := range userIDs {
		result := s.RunDaily(ctx, userID, now)
		logger.L.Info("Startup automation pass finished for user",
			"userID", userID, "synthesized", result.Synthesized, "accountsUpdated", result.AccountsUpdated)
	}
}

// applyInterest handles savings interest for one account. The returned
// transaction is nil when nothing is payable; stamped reports whether the
// account record changed and must be persisted.
func (s *AutomationService) applyInterest(acc *models.Account, balance int64, now time.Time) (*models.Transaction, bool) {
	if acc.Type != models.AccountSavings || acc.InterestRate <= 0 || balance <= 0 {
		return nil, false
	}

	today := utils.FormatDate(now)
	cycle := acc.InterestCycle
	if cycle == "" {
		cycle = models.CycleDaily
	}

	switch cycle {
	case models.CycleDaily:
		if acc.LastInterestUpdate == today {
			return nil, false
		}
		acc.LastInterestUpdate = today
		interest := interestPayout(balance, acc.InterestRate, daysPerYear)
		if interest < minPayoutWholeCurrency {
			return nil, true
		}
		tx := s.newTransaction(models.TxIncome, acc.ID, now, titleDailyInterest, interest,
			categoryInterestIncome, fmt.Sprintf("연 %g%% 기준 자동 반영 (매일 지급)", acc.InterestRate))
		return &tx, true

	case models.CycleMonthly:
		if acc.LastInterestUpdate == "" {
			// First sighting only arms the tracker; the first payout waits
			// for the next calendar month. Deliberately asymmetric with the
			// daily cycle, which pays immediately.
			acc.LastInterestUpdate = today
			return nil, true
		}
		if utils.SameMonth(acc.LastInterestUpdate, today) {
			return nil, false
		}
		acc.LastInterestUpdate = today
		interest := interestPayout(balance, acc.InterestRate, monthsPerYear)
		if interest < minPayoutWholeCurrency {
			return nil, true
		}
		tx := s.newTransaction(models.TxIncome, acc.ID, now, titleMonthlyInterest, interest,
			categoryInterestIncome, fmt.Sprintf("연 %g%% 기준 자동 반영 (매월 지급)", acc.InterestRate))
		return &tx, true
	}
	return nil, false
}

// interestPayout computes floor(balance * rate% / periods) without float
// drift.
func interestPayout(balance int64, annualRatePercent float64, periods int64) int64 {
	return decimal.NewFromInt(balance).
		Mul(decimal.NewFromFloat(annualRatePercent)).
		Div(decimal.NewFromInt(100 * periods)).
		Floor().
		IntPart()
}

// applyValuation books the daily valuation change for one investment
// account. Crypto tickers are valued against the live spot price; everything
// else gets the simulated swing. The ticker stamp advances regardless of
// outcome, so one attempt is made per account per day.
func (s *AutomationService) applyValuation(ctx context.Context, acc *models.Account, balance int64, now time.Time) (*models.Transaction, bool) {
	today := utils.FormatDate(now)
	if acc.Type != models.AccountInvestment || acc.Ticker == "" || acc.Holdings <= 0 || acc.LastTickerUpdate == today {
		return nil, false
	}
	acc.LastTickerUpdate = today

	coinID, isCrypto := ResolveCoinID(acc.Ticker)
	if !isCrypto {
		changePercent := s.swing.DailySwingPercent()
		change := decimal.NewFromInt(balance).
			Mul(decimal.NewFromFloat(changePercent)).
			Div(decimal.NewFromInt(100)).
			Floor().
			IntPart()
		if change == 0 {
			return nil, true
		}
		tx := s.valuationTransaction(acc, now, change,
			acc.Ticker+" 일일 평가변동",
			fmt.Sprintf("자동 시세추적 반영율: %.2f%%", changePercent))
		return &tx, true
	}

	fetchCtx, cancel := context.WithTimeout(ctx, s.fetchTimeout)
	defer cancel()
	price, err := s.prices.GetSpotPrice(fetchCtx, coinID, s.currency)
	if err != nil {
		// Isolated per account: log and move on, no transaction this cycle.
		logger.L.Warn("Spot price fetch failed, skipping valuation", "accountID", acc.ID, "ticker", acc.Ticker, "error", err)
		return nil, true
	}

	realValue := price.Mul(decimal.NewFromFloat(acc.Holdings)).Floor().IntPart()
	diff := realValue - balance
	if diff == 0 {
		return nil, true
	}
	tx := s.valuationTransaction(acc, now, diff,
		acc.Ticker+" 실시간 평가액 반영",
		fmt.Sprintf("보유량: %g개 / 시세: %s", acc.Holdings, price.String()))
	return &tx, true
}

func (s *AutomationService) valuationTransaction(acc *models.Account, now time.Time, change int64, title, memo string) models.Transaction {
	txType := models.TxIncome
	category := categoryInvestGain
	if change < 0 {
		txType = models.TxExpense
		category = categoryInvestLoss
	}
	return s.newTransaction(txType, acc.ID, now, title, utils.AbsInt64(change), category, memo)
}

func (s *AutomationService) newTransaction(txType, accountID string, now time.Time, title string, amount int64, category, memo string) models.Transaction {
	return models.Transaction{
		ID:        uuid.NewString(),
		Type:      txType,
		Date:      utils.FormatDate(now),
		Time:      utils.FormatClock(now),
		Title:     title,
		Amount:    amount,
		Category:  category,
		Memo:      memo,
		AccountID: accountID,
		CreatedAt: now,
	}
}
