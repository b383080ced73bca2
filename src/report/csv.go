// Package report renders exportable transaction reports.
package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

const dateFormat = "2006-01-02"

var header = []string{"date", "description", "category", "card", "amount"}

// WriteMonthlyCSV writes the report rows (including header) for the
// transactions of one period.
func WriteMonthlyCSV(w io.Writer, txs []models.Transaction) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		row := []string{
			tx.Date.Format(dateFormat),
			tx.Description,
			deref(tx.CategoryName),
			deref(tx.CardName),
			tx.Amount.StringFixed(2),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
