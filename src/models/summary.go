package models

import "github.com/shopspring/decimal"

// NamedAmount is one slice of a grouped aggregation (per category, per card).
type NamedAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// BudgetStatus compares a budget's limit against what was actually spent
// in the summarized range.
type BudgetStatus struct {
	ID         int             `json:"id"`
	Name       string          `json:"name"`
	Limit      decimal.Decimal `json:"limit"`
	Spent      decimal.Decimal `json:"spent"`
	Percentage float64         `json:"percentage"`
}

// Summary is the dashboard payload for one date range.
type Summary struct {
	TotalExpenses      decimal.Decimal `json:"totalExpenses"`
	TotalIncomes       decimal.Decimal `json:"totalIncomes"`
	Balance            decimal.Decimal `json:"balance"`
	BudgetsExceeded    int             `json:"budgetsExceeded"`
	BudgetStatus       []BudgetStatus  `json:"budgetStatus"`
	RecentTransactions []Transaction   `json:"recentTransactions"`
	ByCategory         []NamedAmount   `json:"byCategory"`
	ByCard             []NamedAmount   `json:"byCard"`
}

// Trends is the daily expense series for one date range.
type Trends struct {
	Labels []string          `json:"labels"`
	Data   []decimal.Decimal `json:"data"`
}
