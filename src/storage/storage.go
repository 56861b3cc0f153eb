// Package storage abstracts the slot-per-collection persistence model: each
// top-level collection of a user's data is one JSON document stored under a
// named slot. The same core logic runs against SQLite or an in-memory map.
package storage

import "errors"

// ErrSlotNotFound is returned by Get when a slot has never been written.
var ErrSlotNotFound = errors.New("storage: slot not found")

// Well-known slot names, one per collection.
const (
	SlotAccounts           = "accounts"
	SlotOpeningBalances    = "initialBalances"
	SlotTransactions       = "transactions"
	SlotSchedules          = "schedules"
	SlotGoals              = "goals"
	SlotExpenseCategories  = "expenseCategories"
	SlotIncomeCategories   = "incomeCategories"
	SlotScheduleCategories = "scheduleCategories"
	SlotProfile            = "userProfile"
)

// KeyValueStore is the persistence seam. Implementations must treat Set as
// best-effort durable (no transactional coupling between slots) and Get as
// returning the raw JSON previously written.
type KeyValueStore interface {
	Get(userID int64, slot string) ([]byte, error)
	Set(userID int64, slot string, value []byte) error
	// UserIDs lists every user with at least one stored slot. Used by the
	// startup automation pass.
	UserIDs() ([]int64, error)
}
