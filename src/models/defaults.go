package models

// Built-in dataset used when a user's storage slot is missing or corrupt.
// Transactions, schedules and goals start empty on the server; the sample
// rows the web client seeds are demo fixtures, not state this backend owns.

func DefaultExpenseCategories() []Category {
	return []Category{
		{ID: "food", Label: "식비", Icon: "Utensils"},
		{ID: "transit", Label: "교통비", Icon: "Train"},
		{ID: "cafe", Label: "카페", Icon: "Coffee"},
		{ID: "shopping", Label: "쇼핑", Icon: "ShoppingBag"},
		{ID: "invest_loss", Label: "투자 손실", Icon: "TrendingDown"},
	}
}

func DefaultIncomeCategories() []Category {
	return []Category{
		{ID: "salary", Label: "급여", Icon: "Briefcase"},
		{ID: "allowance", Label: "용돈", Icon: "PieChart"},
		{ID: "bonus", Label: "보너스", Icon: "Target"},
		{ID: "interest", Label: "이자 수익", Icon: "TrendingUp"},
		{ID: "invest_profit", Label: "투자 수익", Icon: "PieChart"},
	}
}

func DefaultScheduleCategories() []Category {
	return []Category{
		{ID: "lecture", Label: "강의/수업", Icon: "BookOpen"},
		{ID: "assignment", Label: "과제/팀플", Icon: "Briefcase"},
		{ID: "exam", Label: "시험/평가", Icon: "Target"},
		{ID: "study", Label: "개인 공부", Icon: "Coffee"},
		{ID: "appointment", Label: "약속/동아리", Icon: "Utensils"},
	}
}

func DefaultAccounts() []Account {
	return []Account{
		{ID: "cash", Name: "현금", Type: AccountCash, Default: true},
		{ID: "bank1", Name: "국민은행 예금", Type: AccountBank},
		{ID: "bank2", Name: "신한은행 입출금", Type: AccountBank},
		{ID: "saving1", Name: "청년도약계좌", Type: AccountSavings},
		{ID: "stock1", Name: "토스증권", Type: AccountInvestment},
	}
}

func DefaultOpeningBalances() map[string]int64 {
	return map[string]int64{
		"cash":    50000,
		"bank1":   5000000,
		"bank2":   1200000,
		"saving1": 3000000,
		"stock1":  2500000,
	}
}

func DefaultProfile() Profile {
	return Profile{Name: "사용자", Theme: "light", Accent: "indigo"}
}
