package handlers

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MGuimaraesN/cc-expense-tracker/src/db"
	sqldb "github.com/MGuimaraesN/cc-expense-tracker/src/db/sql"
	"github.com/MGuimaraesN/cc-expense-tracker/src/middleware"
	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

// summaryRange resolves startDate/endDate query params, defaulting to the
// current month so the dashboard loads without parameters.
func summaryRange(r *http.Request) (time.Time, time.Time) {
	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	q := r.URL.Query()
	if t, err := time.Parse("2006-01-02", q.Get("startDate")); err == nil {
		start = t
	}
	if t, err := time.Parse("2006-01-02", q.Get("endDate")); err == nil {
		end = t
	}
	return start, end
}

func GetSummary(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		start, end := summaryRange(r)

		cacheKey := fmt.Sprintf("summary:%d:%s:%s", userID, start.Format("2006-01-02"), end.Format("2006-01-02"))
		if cached, ok := db.GetSummaryCache(cacheKey); ok {
			if summary, ok := cached.(*models.Summary); ok {
				w.Header().Set("Content-Type", "application/json")
				json.NewEncoder(w).Encode(summary)
				return
			}
		}

		ctx := r.Context()
		totalExpenses, err := sqldb.SumTransactionsByType(ctx, pool, userID, start, end, models.TypeExpense)
		if err != nil {
			log.Printf("ERROR: Failed to sum expenses for user %d: %v", userID, err)
			http.Error(w, "failed to build summary", http.StatusInternalServerError)
			return
		}
		totalIncomes, err := sqldb.SumTransactionsByType(ctx, pool, userID, start, end, models.TypeIncome)
		if err != nil {
			log.Printf("ERROR: Failed to sum incomes for user %d: %v", userID, err)
			http.Error(w, "failed to build summary", http.StatusInternalServerError)
			return
		}
		byCategory, err := sqldb.ExpensesByCategory(ctx, pool, userID, start, end)
		if err != nil {
			log.Printf("ERROR: Failed to group expenses by category for user %d: %v", userID, err)
			http.Error(w, "failed to build summary", http.StatusInternalServerError)
			return
		}
		byCard, err := sqldb.ExpensesByCard(ctx, pool, userID, start, end)
		if err != nil {
			log.Printf("ERROR: Failed to group expenses by card for user %d: %v", userID, err)
			http.Error(w, "failed to build summary", http.StatusInternalServerError)
			return
		}
		budgetStatus, err := sqldb.BudgetStatusForRange(ctx, pool, userID, start, end)
		if err != nil {
			log.Printf("ERROR: Failed to compute budget status for user %d: %v", userID, err)
			http.Error(w, "failed to build summary", http.StatusInternalServerError)
			return
		}
		recent, err := sqldb.RecentTransactions(ctx, pool, userID, start, end, 5)
		if err != nil {
			log.Printf("ERROR: Failed to get recent transactions for user %d: %v", userID, err)
			http.Error(w, "failed to build summary", http.StatusInternalServerError)
			return
		}

		exceeded := 0
		for _, bs := range budgetStatus {
			if bs.Spent.GreaterThan(bs.Limit) {
				exceeded++
			}
		}

		summary := &models.Summary{
			TotalExpenses:      totalExpenses,
			TotalIncomes:       totalIncomes,
			Balance:            totalIncomes.Sub(totalExpenses),
			BudgetsExceeded:    exceeded,
			BudgetStatus:       budgetStatus,
			RecentTransactions: recent,
			ByCategory:         byCategory,
			ByCard:             byCard,
		}
		db.SetSummaryCache(userID, cacheKey, summary)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(summary)
	}
}

func GetTrends(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		start, end := summaryRange(r)

		days, totals, err := sqldb.DailyExpenseTotals(r.Context(), pool, userID, start, end)
		if err != nil {
			log.Printf("ERROR: Failed to get expense trends for user %d: %v", userID, err)
			http.Error(w, "failed to build trends", http.StatusInternalServerError)
			return
		}

		trends := models.Trends{Labels: []string{}, Data: totals}
		for _, day := range days {
			trends.Labels = append(trends.Labels, day.Format("02/01"))
		}
		if trends.Data == nil {
			trends.Data = []decimal.Decimal{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(trends)
	}
}
