package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Card struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	Name      string          `json:"name"`
	Limit     decimal.Decimal `json:"limit"`
	CloseDay  int             `json:"close_day"`
	DueDay    int             `json:"due_day"`
	CreatedAt time.Time       `json:"created_at"`
}
