package models

import "time"

// Transaction types.
const (
	TxIncome  = "income"
	TxExpense = "expense"
)

// Account types. Type is fixed at creation and never changed afterwards.
const (
	AccountCash       = "cash"
	AccountBank       = "bank"
	AccountSavings    = "savings"
	AccountInvestment = "investment"
)

// Interest payout cycles for savings accounts.
const (
	CycleDaily   = "daily"
	CycleMonthly = "monthly"
)

// Goal horizons.
const (
	GoalShort = "short"
	GoalMid   = "mid"
	GoalLong  = "long"
)

// Goal tracker kinds.
const (
	TrackerChecklist = "checklist"
	TrackerNumeric   = "numeric"
)

// Category kinds.
const (
	KindExpense  = "expense"
	KindIncome   = "income"
	KindSchedule = "schedule"
)

// Account is a money holder. Opening balances live in a separate mapping
// keyed by account id; every later balance change flows through transactions.
type Account struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Type    string `json:"type"`
	Default bool   `json:"default,omitempty"`

	// Savings accounts only.
	InterestRate       float64 `json:"interestRate,omitempty"` // annual, percent
	InterestCycle      string  `json:"interestCycle,omitempty"`
	LastInterestUpdate string  `json:"lastInterestUpdate,omitempty"` // "2006-01-02"

	// Investment accounts only.
	Ticker           string  `json:"ticker,omitempty"`
	Holdings         float64 `json:"holdings,omitempty"`
	LastTickerUpdate string  `json:"lastTickerUpdate,omitempty"` // "2006-01-02"
}

// Transaction is an immutable income/expense record. There is no edit
// operation; records are only created and hard-deleted. Amount is in whole
// currency units, always positive; Type decides the sign at replay time.
type Transaction struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Date      string    `json:"date"` // "2006-01-02"
	Time      string    `json:"time"` // display string, e.g. "08:30 AM"
	Title     string    `json:"title"`
	Amount    int64     `json:"amount"`
	Category  string    `json:"category"` // label, not id
	Memo      string    `json:"memo,omitempty"`
	AccountID string    `json:"accountId"`
	CreatedAt time.Time `json:"createdAt"` // newest-first sort key
}

// Schedule is a day-planner entry. Completed toggles; title and memo may be
// overwritten in place.
type Schedule struct {
	ID        string    `json:"id"`
	Date      string    `json:"date"`
	Time      string    `json:"time"`
	EndTime   string    `json:"endTime,omitempty"`
	Location  string    `json:"location,omitempty"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	Memo      string    `json:"memo,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// GoalTask is one checklist item of a goal.
type GoalTask struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

// GoalTracker decides how Progress is derived: either from the checklist
// done/total ratio, or from Current against Target.
type GoalTracker struct {
	Type    string `json:"type"`
	Unit    string `json:"unit,omitempty"`
	Current int64  `json:"current"`
	Target  int64  `json:"target"`
}

// Goal is one card on the goal board. Progress is an integer percentage in
// [0,100]; it is derived for numeric trackers and non-empty checklists, and
// free-standing otherwise.
type Goal struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Title     string      `json:"title"`
	Progress  int         `json:"progress"`
	Deadline  string      `json:"deadline"`
	Icon      string      `json:"icon,omitempty"`
	ColorFrom string      `json:"colorFrom,omitempty"`
	ColorTo   string      `json:"colorTo,omitempty"`
	Memo      string      `json:"memo,omitempty"`
	Tasks     []GoalTask  `json:"tasks"`
	Tracker   GoalTracker `json:"tracker"`
	CreatedAt time.Time   `json:"createdAt"`
}

// Category is a user-extensible label with an icon name. Uniqueness is caller
// discipline, not enforced.
type Category struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Profile holds display preferences for one user.
type Profile struct {
	Name   string `json:"name"`
	Email  string `json:"email,omitempty"`
	Theme  string `json:"theme"`
	Accent string `json:"accent"`
}

// ValidTransactionType reports whether t is a known transaction type.
func ValidTransactionType(t string) bool {
	return t == TxIncome || t == TxExpense
}

// ValidAccountType reports whether t is a known account type.
func ValidAccountType(t string) bool {
	switch t {
	case AccountCash, AccountBank, AccountSavings, AccountInvestment:
		return true
	}
	return false
}

// ValidGoalType reports whether t is a known goal horizon.
func ValidGoalType(t string) bool {
	return t == GoalShort || t == GoalMid || t == GoalLong
}

// ValidCategoryKind reports whether k is a known category kind.
func ValidCategoryKind(k string) bool {
	return k == KindExpense || k == KindIncome || k == KindSchedule
}
