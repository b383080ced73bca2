package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transaction struct {
	ID          int             `json:"id"`
	UserID      int             `json:"user_id"`
	CardID      *int            `json:"card_id"`
	CategoryID  *int            `json:"category_id"`
	RecurringID *int            `json:"recurring_transaction_id"`
	Date        time.Time       `json:"date"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	Type        TransactionType `json:"type"`
	CreatedAt   time.Time       `json:"created_at"`

	// Populated on list endpoints for the dashboard.
	CategoryName *string `json:"category_name,omitempty"`
	CardName     *string `json:"card_name,omitempty"`
}
