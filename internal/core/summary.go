package core

// Summary holds the dashboard figures for one month. TotalBalance is an
// instantaneous snapshot across active accounts, not scoped to the period.
type Summary struct {
	TotalBalance  Money `json:"totalBalance"`
	MonthIncome   Money `json:"monthIncome"`
	MonthExpenses Money `json:"monthExpenses"`
	MonthBalance  Money `json:"monthBalance"`
}

// ExpenseByCategory is the per-category total of confirmed expenses in a month.
type ExpenseByCategory struct {
	CategoryID   string `json:"categoryId"`
	CategoryName string `json:"categoryName"`
	Total        Money  `json:"total"`
	Color        string `json:"color,omitempty"`
}
