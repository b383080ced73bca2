package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MGuimaraesN/cc-expense-tracker/src/db"
	sqldb "github.com/MGuimaraesN/cc-expense-tracker/src/db/sql"
	"github.com/MGuimaraesN/cc-expense-tracker/src/middleware"
	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

// UpsertBudget creates the budget for (category, month, year) or replaces
// its amount if one already exists.
func UpsertBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		var req struct {
			CategoryID int              `json:"category_id"`
			Month      int              `json:"month"`
			Year       int              `json:"year"`
			Amount     *decimal.Decimal `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode budget request for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.CategoryID == 0 {
			http.Error(w, "category_id is required", http.StatusBadRequest)
			return
		}
		if req.Month < 1 || req.Month > 12 {
			http.Error(w, "month must be between 1 and 12", http.StatusBadRequest)
			return
		}
		if req.Year < 2000 {
			http.Error(w, "invalid year", http.StatusBadRequest)
			return
		}
		if req.Amount == nil || !req.Amount.IsPositive() {
			http.Error(w, "amount must be positive", http.StatusBadRequest)
			return
		}

		budget := &models.Budget{
			UserID:     userID,
			CategoryID: req.CategoryID,
			Month:      req.Month,
			Year:       req.Year,
			Amount:     *req.Amount,
		}
		saved, err := sqldb.UpsertBudget(r.Context(), pool, budget)
		if err != nil {
			log.Printf("ERROR: Failed to upsert budget for user %d, category %d: %v", userID, req.CategoryID, err)
			http.Error(w, "failed to save budget", http.StatusInternalServerError)
			return
		}
		db.ClearSummaryCaches(userID)
		log.Printf("INFO: Saved budget id %d for user %d, category %d", saved.ID, userID, saved.CategoryID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(saved)
	}
}

func GetAllBudgetsForUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		q := r.URL.Query()

		var month, year *int
		if v, err := strconv.Atoi(q.Get("month")); err == nil {
			if v < 1 || v > 12 {
				http.Error(w, "month must be between 1 and 12", http.StatusBadRequest)
				return
			}
			month = &v
		}
		if v, err := strconv.Atoi(q.Get("year")); err == nil {
			year = &v
		}

		budgets, err := sqldb.GetAllBudgetsForUser(r.Context(), pool, userID, month, year)
		if err != nil {
			log.Printf("ERROR: Failed to get budgets for user %d: %v", userID, err)
			http.Error(w, "failed to get budgets", http.StatusInternalServerError)
			return
		}
		if budgets == nil {
			budgets = []models.Budget{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(budgets)
	}
}

func DeleteBudget(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		budgetID, err := strconv.Atoi(chi.URLParam(r, "budget_id"))
		if err != nil {
			http.Error(w, "invalid budget id", http.StatusBadRequest)
			return
		}
		if err := sqldb.DeleteBudget(r.Context(), pool, userID, budgetID); err != nil {
			log.Printf("ERROR: Failed to delete budget id %d for user %d: %v", budgetID, userID, err)
			http.Error(w, "budget not found", http.StatusNotFound)
			return
		}
		db.ClearSummaryCaches(userID)
		log.Printf("INFO: Deleted budget id %d for user %d", budgetID, userID)
		w.WriteHeader(http.StatusNoContent)
	}
}
