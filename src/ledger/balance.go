// Package ledger derives read-only balance views from the transaction list.
// Balances are always recomputed from the opening balances plus a full
// replay; nothing is incrementally cached.
package ledger

import "github.com/username/allrounder/backend/src/models"

// CalculateBalances replays every transaction over a copy of the opening
// balances. Addition is commutative, so transaction order does not matter.
// A transaction referencing an unknown account id still accumulates under
// that key; such orphan balances count toward the total.
func CalculateBalances(opening map[string]int64, transactions []models.Transaction) map[string]int64 {
	balances := make(map[string]int64, len(opening))
	for id, v := range opening {
		balances[id] = v
	}
	for _, tx := range transactions {
		switch tx.Type {
		case models.TxIncome:
			balances[tx.AccountID] += tx.Amount
		case models.TxExpense:
			balances[tx.AccountID] -= tx.Amount
		}
	}
	return balances
}

// TotalAssets sums every balance, orphans included. Overdrafts are negative
// contributions; nothing clamps at zero.
func TotalAssets(balances map[string]int64) int64 {
	var total int64
	for _, v := range balances {
		total += v
	}
	return total
}
