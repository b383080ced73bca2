package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MGuimaraesN/cc-expense-tracker/src/dates"
)

// RecurringTransaction is a template from which concrete transactions are
// materialized, one per elapsed period between StartDate and EndDate.
type RecurringTransaction struct {
	ID          int             `json:"id"`
	UserID      int             `json:"user_id"`
	CardID      *int            `json:"card_id"`
	CategoryID  *int            `json:"category_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Frequency   dates.Frequency `json:"frequency"`
	StartDate   time.Time       `json:"start_date"`
	EndDate     *time.Time      `json:"end_date"`
	CreatedAt   time.Time       `json:"created_at"`
}
