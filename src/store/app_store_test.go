package store

import (
	"testing"
	"time"

	"github.com/username/allrounder/backend/src/models"
	"github.com/username/allrounder/backend/src/storage"
)

func newTestStore(t *testing.T) (*AppStore, *storage.MemoryStore) {
	t.Helper()
	kv := storage.NewMemoryStore()
	return New(kv), kv
}

func TestAccountsFallBackToDefaults(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	accounts := s.Accounts(1)
	if len(accounts) != 5 {
		t.Fatalf("default accounts = %d, want 5", len(accounts))
	}
	if accounts[0].ID != "cash" || !accounts[0].Default {
		t.Fatalf("first default account = %+v, want cash marked default", accounts[0])
	}
}

func TestCorruptSlotFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	s, kv := newTestStore(t)
	if err := kv.Set(1, storage.SlotAccounts, []byte("{not json")); err != nil {
		t.Fatalf("seeding corrupt slot: %v", err)
	}

	accounts := s.Accounts(1)
	if len(accounts) != 5 {
		t.Fatalf("corrupt slot must fall back to the 5 defaults, got %d", len(accounts))
	}
}

func TestUpdateAccountKeepsStoredType(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	s.SaveAccounts(1, []models.Account{
		{ID: "a1", Name: "예금", Type: models.AccountBank},
	})

	updated, err := s.UpdateAccount(1, "a1", models.Account{
		Name: "적금으로 바꿔줘",
		Type: models.AccountSavings,
	})
	if err != nil {
		t.Fatalf("UpdateAccount: %v", err)
	}
	if updated.Type != models.AccountBank {
		t.Fatalf("account type changed to %q; type is immutable", updated.Type)
	}
	if updated.Name != "적금으로 바꿔줘" {
		t.Fatalf("name not updated: %q", updated.Name)
	}
}

func TestUpdateAccountUnknownID(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	s.SaveAccounts(1, []models.Account{{ID: "a1", Name: "예금", Type: models.AccountBank}})
	if _, err := s.UpdateAccount(1, "missing", models.Account{Name: "x"}); err != ErrAccountNotFound {
		t.Fatalf("err = %v, want ErrAccountNotFound", err)
	}
}

func TestSeedOpeningBalanceNeverOverwrites(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	s.SeedOpeningBalance(1, "new1", 700000)
	s.SeedOpeningBalance(1, "new1", 999999)

	if got := s.OpeningBalances(1)["new1"]; got != 700000 {
		t.Fatalf("opening balance = %d, want the first seed 700000", got)
	}
}

func TestTransactionsSortedNewestFirst(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	base := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	s.SetTransactions(1, []models.Transaction{
		{ID: "old", Type: models.TxExpense, Date: "2025-04-01", Amount: 1, CreatedAt: base},
		{ID: "newer-later", Type: models.TxExpense, Date: "2025-05-01", Amount: 1, CreatedAt: base.Add(time.Hour)},
		{ID: "newer-earlier", Type: models.TxExpense, Date: "2025-05-01", Amount: 1, CreatedAt: base},
	})

	txs := s.Transactions(1)
	if txs[0].ID != "newer-later" || txs[1].ID != "newer-earlier" || txs[2].ID != "old" {
		t.Fatalf("unexpected order: %s %s %s", txs[0].ID, txs[1].ID, txs[2].ID)
	}
}

func TestPrependTransactions(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	s.SetTransactions(1, []models.Transaction{
		{ID: "existing", Type: models.TxExpense, Date: "2025-05-01", Amount: 1},
	})
	s.PrependTransactions(1, []models.Transaction{
		{ID: "auto1", Type: models.TxIncome, Date: "2025-05-02", Amount: 2},
		{ID: "auto2", Type: models.TxIncome, Date: "2025-05-02", Amount: 3},
	})

	txs := s.Transactions(1)
	if len(txs) != 3 {
		t.Fatalf("ledger has %d records, want 3", len(txs))
	}
}

func TestDeleteTransaction(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	s.SetTransactions(1, []models.Transaction{
		{ID: "t1", Type: models.TxExpense, Date: "2025-05-01", Amount: 1},
		{ID: "t2", Type: models.TxExpense, Date: "2025-05-02", Amount: 2},
	})

	if err := s.DeleteTransaction(1, "t1"); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if txs := s.Transactions(1); len(txs) != 1 || txs[0].ID != "t2" {
		t.Fatalf("ledger after delete: %+v", txs)
	}
	if err := s.DeleteTransaction(1, "t1"); err != ErrTransactionNotFound {
		t.Fatalf("second delete err = %v, want ErrTransactionNotFound", err)
	}
}

func TestCalculatedBalancesUsesDefaults(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	s.SetTransactions(1, []models.Transaction{
		{ID: "t1", Type: models.TxExpense, Date: "2025-05-01", AccountID: "cash", Amount: 4500},
	})

	balances := s.CalculatedBalances(1)
	if got := balances["cash"]; got != 45500 {
		t.Fatalf("cash = %d, want 45500 (default 50000 minus 4500)", got)
	}
}

func TestToggleSchedule(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	s.SetSchedules(1, []models.Schedule{{ID: "s1", Title: "회의", Date: "2025-05-01"}})

	sc, err := s.ToggleSchedule(1, "s1")
	if err != nil {
		t.Fatalf("ToggleSchedule: %v", err)
	}
	if !sc.Completed {
		t.Fatal("toggle must flip Completed to true")
	}
	sc, err = s.ToggleSchedule(1, "s1")
	if err != nil {
		t.Fatalf("ToggleSchedule: %v", err)
	}
	if sc.Completed {
		t.Fatal("second toggle must flip back")
	}
}

func TestCategoriesPerKind(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)

	expense, err := s.Categories(1, models.KindExpense)
	if err != nil {
		t.Fatalf("Categories(expense): %v", err)
	}
	if len(expense) != 5 {
		t.Fatalf("default expense categories = %d, want 5", len(expense))
	}

	if err := s.AddCategory(1, models.KindIncome, models.Category{ID: "c1", Label: "배당금", Icon: "TrendingUp"}); err != nil {
		t.Fatalf("AddCategory: %v", err)
	}
	income, err := s.Categories(1, models.KindIncome)
	if err != nil {
		t.Fatalf("Categories(income): %v", err)
	}
	if len(income) != 6 {
		t.Fatalf("income categories = %d after add, want 6", len(income))
	}

	if err := s.DeleteCategory(1, models.KindIncome, "c1"); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if _, err := s.Categories(1, "weird"); err != ErrUnknownCategoryKind {
		t.Fatalf("unknown kind err = %v, want ErrUnknownCategoryKind", err)
	}
}

func TestUsersAreIsolated(t *testing.T) {
	t.Parallel()

	s, _ := newTestStore(t)
	s.SetTransactions(1, []models.Transaction{
		{ID: "t1", Type: models.TxExpense, Date: "2025-05-01", Amount: 1},
	})

	if txs := s.Transactions(2); len(txs) != 0 {
		t.Fatalf("user 2 sees %d of user 1's transactions", len(txs))
	}
}
