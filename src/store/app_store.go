// Package store owns the per-user application state aggregate: accounts,
// opening balances, transactions, schedules, goals, categories and profile.
// Every collection round-trips through one KeyValueStore slot as JSON; reads
// fall back silently to the built-in defaults when a slot is missing or
// corrupt, and writes are best-effort (logged, never surfaced as fatal).
package store

import (
	"encoding/json"
	"errors"
	"sort"
	"sync"

	"github.com/username/allrounder/backend/src/ledger"
	"github.com/username/allrounder/backend/src/logger"
	"github.com/username/allrounder/backend/src/models"
	"github.com/username/allrounder/backend/src/storage"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrGoalNotFound        = errors.New("goal not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrUnknownCategoryKind = errors.New("unknown category kind")
)

type AppStore struct {
	mu sync.RWMutex
	kv storage.KeyValueStore
}

func New(kv storage.KeyValueStore) *AppStore {
	return &AppStore{kv: kv}
}

// loadSlot unmarshals a slot into dst. Returns false when the slot is
// missing or unreadable; callers then keep whatever default dst already
// holds. Corruption is logged only, per the fall-back-to-defaults contract.
func (s *AppStore) loadSlot(userID int64, slot string, dst interface{}) bool {
	raw, err := s.kv.Get(userID, slot)
	if err != nil {
		if !errors.Is(err, storage.ErrSlotNotFound) {
			logger.L.Warn("Failed reading state slot, using defaults", "userID", userID, "slot", slot, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		logger.L.Warn("Corrupt state slot, using defaults", "userID", userID, "slot", slot, "error", err)
		return false
	}
	return true
}

// saveSlot marshals v into a slot. Write failures are logged and swallowed;
// the in-memory view the caller returns stays authoritative for the session.
func (s *AppStore) saveSlot(userID int64, slot string, v interface{}) {
	raw, err := json.Marshal(v)
	if err != nil {
		logger.L.Error("Failed marshaling state slot", "userID", userID, "slot", slot, "error", err)
		return
	}
	if err := s.kv.Set(userID, slot, raw); err != nil {
		logger.L.Error("Failed writing state slot", "userID", userID, "slot", slot, "error", err)
	}
}

// --- accounts ---

func (s *AppStore) Accounts(userID int64) []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accountsLocked(userID)
}

func (s *AppStore) accountsLocked(userID int64) []models.Account {
	accounts := models.DefaultAccounts()
	s.loadSlot(userID, storage.SlotAccounts, &accounts)
	return accounts
}

func (s *AppStore) AddAccount(userID int64, account models.Account) models.Account {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := append(s.accountsLocked(userID), account)
	s.saveSlot(userID, storage.SlotAccounts, accounts)
	return account
}

// UpdateAccount overwrites the stored account with the same id. The account
// type is immutable after creation; the stored type always wins.
func (s *AppStore) UpdateAccount(userID int64, id string, updated models.Account) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := s.accountsLocked(userID)
	for i, acc := range accounts {
		if acc.ID != id {
			continue
		}
		updated.ID = acc.ID
		updated.Type = acc.Type
		updated.Default = acc.Default
		accounts[i] = updated
		s.saveSlot(userID, storage.SlotAccounts, accounts)
		return updated, nil
	}
	return models.Account{}, ErrAccountNotFound
}

func (s *AppStore) DeleteAccount(userID int64, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := s.accountsLocked(userID)
	for i, acc := range accounts {
		if acc.ID != id {
			continue
		}
		accounts = append(accounts[:i], accounts[i+1:]...)
		s.saveSlot(userID, storage.SlotAccounts, accounts)
		return nil
	}
	return ErrAccountNotFound
}

// SaveAccounts persists a full account list in one batch. The daily
// automation pass uses this after stamping update dates.
func (s *AppStore) SaveAccounts(userID int64, accounts []models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveSlot(userID, storage.SlotAccounts, accounts)
}

// --- opening balances ---

func (s *AppStore) OpeningBalances(userID int64) map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.openingBalancesLocked(userID)
}

func (s *AppStore) openingBalancesLocked(userID int64) map[string]int64 {
	balances := models.DefaultOpeningBalances()
	s.loadSlot(userID, storage.SlotOpeningBalances, &balances)
	return balances
}

// SeedOpeningBalance records the opening balance for a newly created account.
// It seeds once: an existing entry is never overwritten, since all later
// balance change must flow through transactions.
func (s *AppStore) SeedOpeningBalance(userID int64, accountID string, amount int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	balances := s.openingBalancesLocked(userID)
	if _, exists := balances[accountID]; exists {
		return
	}
	balances[accountID] = amount
	s.saveSlot(userID, storage.SlotOpeningBalances, balances)
}

// --- transactions ---

// Transactions returns the ledger sorted newest-first (date, then creation
// order).
func (s *AppStore) Transactions(userID int64) []models.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.transactionsLocked(userID)
}

func (s *AppStore) transactionsLocked(userID int64) []models.Transaction {
	transactions := []models.Transaction{}
	s.loadSlot(userID, storage.SlotTransactions, &transactions)
	sort.SliceStable(transactions, func(i, j int) bool {
		if transactions[i].Date != transactions[j].Date {
			return transactions[i].Date > transactions[j].Date
		}
		return transactions[i].CreatedAt.After(transactions[j].CreatedAt)
	})
	return transactions
}

func (s *AppStore) SetTransactions(userID int64, transactions []models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveSlot(userID, storage.SlotTransactions, transactions)
}

// AppendTransactions adds user-created records behind the existing ledger.
func (s *AppStore) AppendTransactions(userID int64, txs []models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := append(s.transactionsLocked(userID), txs...)
	s.saveSlot(userID, storage.SlotTransactions, all)
}

// PrependTransactions adds synthesized records in front of the ledger in one
// batch, the way the automation pass applies its side effects.
func (s *AppStore) PrependTransactions(userID int64, txs []models.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := append(append([]models.Transaction{}, txs...), s.transactionsLocked(userID)...)
	s.saveSlot(userID, storage.SlotTransactions, all)
}

func (s *AppStore) DeleteTransaction(userID int64, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	transactions := s.transactionsLocked(userID)
	for i, tx := range transactions {
		if tx.ID != id {
			continue
		}
		transactions = append(transactions[:i], transactions[i+1:]...)
		s.saveSlot(userID, storage.SlotTransactions, transactions)
		return nil
	}
	return ErrTransactionNotFound
}

// --- derived balance views ---

// CalculatedBalances replays the ledger over the opening balances.
func (s *AppStore) CalculatedBalances(userID int64) map[string]int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return ledger.CalculateBalances(s.openingBalancesLocked(userID), s.transactionsLocked(userID))
}

// TotalAssets sums every calculated balance, orphan account keys included.
func (s *AppStore) TotalAssets(userID int64) int64 {
	return ledger.TotalAssets(s.CalculatedBalances(userID))
}

// --- schedules ---

func (s *AppStore) Schedules(userID int64) []models.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedulesLocked(userID)
}

func (s *AppStore) schedulesLocked(userID int64) []models.Schedule {
	schedules := []models.Schedule{}
	s.loadSlot(userID, storage.SlotSchedules, &schedules)
	return schedules
}

func (s *AppStore) SetSchedules(userID int64, schedules []models.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveSlot(userID, storage.SlotSchedules, schedules)
}

func (s *AppStore) AppendSchedules(userID int64, entries []models.Schedule) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all := append(s.schedulesLocked(userID), entries...)
	s.saveSlot(userID, storage.SlotSchedules, all)
}

// ToggleSchedule flips the completed flag of one entry.
func (s *AppStore) ToggleSchedule(userID int64, id string) (models.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedules := s.schedulesLocked(userID)
	for i, sc := range schedules {
		if sc.ID != id {
			continue
		}
		schedules[i].Completed = !sc.Completed
		s.saveSlot(userID, storage.SlotSchedules, schedules)
		return schedules[i], nil
	}
	return models.Schedule{}, ErrScheduleNotFound
}

// UpdateSchedule overwrites the free-text fields of one entry.
func (s *AppStore) UpdateSchedule(userID int64, id, title, memo string) (models.Schedule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedules := s.schedulesLocked(userID)
	for i, sc := range schedules {
		if sc.ID != id {
			continue
		}
		schedules[i].Title = title
		schedules[i].Memo = memo
		s.saveSlot(userID, storage.SlotSchedules, schedules)
		return schedules[i], nil
	}
	return models.Schedule{}, ErrScheduleNotFound
}

func (s *AppStore) DeleteSchedule(userID int64, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schedules := s.schedulesLocked(userID)
	for i, sc := range schedules {
		if sc.ID != id {
			continue
		}
		schedules = append(schedules[:i], schedules[i+1:]...)
		s.saveSlot(userID, storage.SlotSchedules, schedules)
		return nil
	}
	return ErrScheduleNotFound
}

// --- goals ---

func (s *AppStore) Goals(userID int64) []models.Goal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.goalsLocked(userID)
}

func (s *AppStore) goalsLocked(userID int64) []models.Goal {
	goals := []models.Goal{}
	s.loadSlot(userID, storage.SlotGoals, &goals)
	return goals
}

func (s *AppStore) SetGoals(userID int64, goals []models.Goal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveSlot(userID, storage.SlotGoals, goals)
}

func (s *AppStore) GetGoal(userID int64, id string) (models.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, g := range s.goalsLocked(userID) {
		if g.ID == id {
			return g, nil
		}
	}
	return models.Goal{}, ErrGoalNotFound
}

func (s *AppStore) AddGoal(userID int64, goal models.Goal) models.Goal {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := append(s.goalsLocked(userID), goal)
	s.saveSlot(userID, storage.SlotGoals, goals)
	return goal
}

// SaveGoal replaces the stored goal with the same id.
func (s *AppStore) SaveGoal(userID int64, goal models.Goal) (models.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := s.goalsLocked(userID)
	for i, g := range goals {
		if g.ID != goal.ID {
			continue
		}
		goals[i] = goal
		s.saveSlot(userID, storage.SlotGoals, goals)
		return goal, nil
	}
	return models.Goal{}, ErrGoalNotFound
}

func (s *AppStore) DeleteGoal(userID int64, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	goals := s.goalsLocked(userID)
	for i, g := range goals {
		if g.ID != id {
			continue
		}
		goals = append(goals[:i], goals[i+1:]...)
		s.saveSlot(userID, storage.SlotGoals, goals)
		return nil
	}
	return ErrGoalNotFound
}

// --- categories ---

func categorySlot(kind string) (string, []models.Category, error) {
	switch kind {
	case models.KindExpense:
		return storage.SlotExpenseCategories, models.DefaultExpenseCategories(), nil
	case models.KindIncome:
		return storage.SlotIncomeCategories, models.DefaultIncomeCategories(), nil
	case models.KindSchedule:
		return storage.SlotScheduleCategories, models.DefaultScheduleCategories(), nil
	}
	return "", nil, ErrUnknownCategoryKind
}

func (s *AppStore) Categories(userID int64, kind string) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	slot, categories, err := categorySlot(kind)
	if err != nil {
		return nil, err
	}
	s.loadSlot(userID, slot, &categories)
	return categories, nil
}

func (s *AppStore) AddCategory(userID int64, kind string, category models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, categories, err := categorySlot(kind)
	if err != nil {
		return err
	}
	s.loadSlot(userID, slot, &categories)
	s.saveSlot(userID, slot, append(categories, category))
	return nil
}

func (s *AppStore) DeleteCategory(userID int64, kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slot, categories, err := categorySlot(kind)
	if err != nil {
		return err
	}
	s.loadSlot(userID, slot, &categories)
	for i, c := range categories {
		if c.ID != id {
			continue
		}
		categories = append(categories[:i], categories[i+1:]...)
		s.saveSlot(userID, slot, categories)
		return nil
	}
	return ErrCategoryNotFound
}

// --- profile ---

func (s *AppStore) Profile(userID int64) models.Profile {
	s.mu.RLock()
	defer s.mu.RUnlock()

	profile := models.DefaultProfile()
	s.loadSlot(userID, storage.SlotProfile, &profile)
	return profile
}

func (s *AppStore) SetProfile(userID int64, profile models.Profile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveSlot(userID, storage.SlotProfile, profile)
}
