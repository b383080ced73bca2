package models

import "time"

// TransactionType distinguishes money coming in from money going out.
type TransactionType string

const (
	TypeIncome  TransactionType = "INCOME"
	TypeExpense TransactionType = "EXPENSE"
)

// ParseTransactionType normalizes a free-form type string, defaulting to
// EXPENSE for anything it does not recognize.
func ParseTransactionType(s string) TransactionType {
	switch TransactionType(s) {
	case TypeIncome:
		return TypeIncome
	default:
		return TypeExpense
	}
}

type Category struct {
	ID        int             `json:"id"`
	UserID    int             `json:"user_id"`
	Name      string          `json:"name"`
	Type      TransactionType `json:"type"`
	CreatedAt time.Time       `json:"created_at"`
}
