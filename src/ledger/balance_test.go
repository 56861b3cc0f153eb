package ledger

import (
	"testing"

	"github.com/username/allrounder/backend/src/models"
)

func TestCalculateBalancesReplay(t *testing.T) {
	t.Parallel()

	opening := map[string]int64{"cash": 50000, "bank1": 5000000}
	txs := []models.Transaction{
		{ID: "t1", Type: models.TxExpense, AccountID: "cash", Amount: 4500},
		{ID: "t2", Type: models.TxIncome, AccountID: "bank1", Amount: 2500000},
		{ID: "t3", Type: models.TxExpense, AccountID: "bank1", Amount: 32000},
	}

	balances := CalculateBalances(opening, txs)
	if got := balances["cash"]; got != 45500 {
		t.Fatalf("cash balance = %d, want 45500", got)
	}
	if got := balances["bank1"]; got != 7468000 {
		t.Fatalf("bank1 balance = %d, want 7468000", got)
	}
}

func TestCalculateBalancesOrderIndependent(t *testing.T) {
	t.Parallel()

	opening := map[string]int64{"cash": 1000}
	txs := []models.Transaction{
		{ID: "a", Type: models.TxIncome, AccountID: "cash", Amount: 300},
		{ID: "b", Type: models.TxExpense, AccountID: "cash", Amount: 700},
		{ID: "c", Type: models.TxIncome, AccountID: "cash", Amount: 50},
	}
	reversed := []models.Transaction{txs[2], txs[1], txs[0]}

	forward := CalculateBalances(opening, txs)
	backward := CalculateBalances(opening, reversed)
	if forward["cash"] != backward["cash"] {
		t.Fatalf("replay order changed the result: %d vs %d", forward["cash"], backward["cash"])
	}
	if forward["cash"] != 650 {
		t.Fatalf("cash balance = %d, want 650", forward["cash"])
	}
}

func TestCalculateBalancesOrphanAccount(t *testing.T) {
	t.Parallel()

	opening := map[string]int64{"cash": 100}
	txs := []models.Transaction{
		{ID: "t1", Type: models.TxIncome, AccountID: "ghost", Amount: 4000},
		{ID: "t2", Type: models.TxExpense, AccountID: "ghost", Amount: 1500},
	}

	balances := CalculateBalances(opening, txs)
	if got := balances["ghost"]; got != 2500 {
		t.Fatalf("orphan balance = %d, want 2500", got)
	}
	if got := TotalAssets(balances); got != 2600 {
		t.Fatalf("total assets = %d, want 2600 (orphans count)", got)
	}
}

func TestCalculateBalancesDoesNotMutateOpening(t *testing.T) {
	t.Parallel()

	opening := map[string]int64{"cash": 100}
	_ = CalculateBalances(opening, []models.Transaction{
		{ID: "t1", Type: models.TxExpense, AccountID: "cash", Amount: 40},
	})
	if opening["cash"] != 100 {
		t.Fatalf("opening balances mutated: %d", opening["cash"])
	}
}

func TestTotalAssetsNegativeBalance(t *testing.T) {
	t.Parallel()

	balances := map[string]int64{"cash": -500, "bank1": 2000}
	if got := TotalAssets(balances); got != 1500 {
		t.Fatalf("total assets = %d, want 1500 (overdraft subtracts)", got)
	}
}
