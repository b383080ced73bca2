package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Budget is a monthly spending cap for one category, unique per
// (user, category, month, year).
type Budget struct {
	ID           int             `json:"id"`
	UserID       int             `json:"user_id"`
	CategoryID   int             `json:"category_id"`
	Month        int             `json:"month"`
	Year         int             `json:"year"`
	Amount       decimal.Decimal `json:"amount"`
	CreatedAt    time.Time       `json:"created_at"`
	CategoryName *string         `json:"category_name,omitempty"`
}
