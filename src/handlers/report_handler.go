package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	sqldb "github.com/MGuimaraesN/cc-expense-tracker/src/db/sql"
	"github.com/MGuimaraesN/cc-expense-tracker/src/middleware"
	"github.com/MGuimaraesN/cc-expense-tracker/src/report"
)

// MonthlyReport streams the user's transactions for a date range as a CSV
// attachment.
func MonthlyReport(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		q := r.URL.Query()

		start, err := time.Parse("2006-01-02", q.Get("startDate"))
		if err != nil {
			http.Error(w, "startDate is required (YYYY-MM-DD)", http.StatusBadRequest)
			return
		}
		end, err := time.Parse("2006-01-02", q.Get("endDate"))
		if err != nil {
			http.Error(w, "endDate is required (YYYY-MM-DD)", http.StatusBadRequest)
			return
		}

		filter := sqldb.TransactionFilter{StartDate: &start, EndDate: &end}
		total, err := sqldb.CountTransactions(r.Context(), pool, userID, filter)
		if err != nil {
			log.Printf("ERROR: Failed to count report transactions for user %d: %v", userID, err)
			http.Error(w, "failed to build report", http.StatusInternalServerError)
			return
		}
		txs, err := sqldb.ListTransactions(r.Context(), pool, userID, filter, 1, total+1)
		if err != nil {
			log.Printf("ERROR: Failed to load report transactions for user %d: %v", userID, err)
			http.Error(w, "failed to build report", http.StatusInternalServerError)
			return
		}
		// List order is newest-first; reports read oldest-first.
		for i, j := 0, len(txs)-1; i < j; i, j = i+1, j-1 {
			txs[i], txs[j] = txs[j], txs[i]
		}

		filename := fmt.Sprintf("report_%s_to_%s.csv", start.Format("2006-01-02"), end.Format("2006-01-02"))
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
		if err := report.WriteMonthlyCSV(w, txs); err != nil {
			log.Printf("ERROR: Failed to write CSV report for user %d: %v", userID, err)
		}
	}
}
