package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MGuimaraesN/cc-expense-tracker/src/dates"
	"github.com/MGuimaraesN/cc-expense-tracker/src/db"
	sqldb "github.com/MGuimaraesN/cc-expense-tracker/src/db/sql"
	"github.com/MGuimaraesN/cc-expense-tracker/src/middleware"
	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
	"github.com/MGuimaraesN/cc-expense-tracker/src/recurring"
)

type recurringRequest struct {
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
	CategoryID  *int             `json:"category_id"`
	CardID      *int             `json:"card_id"`
	Frequency   string           `json:"frequency"`
	StartDate   string           `json:"start_date"`
	EndDate     *string          `json:"end_date"`
}

func (req recurringRequest) toModel(userID int) (*models.RecurringTransaction, string) {
	if req.Amount == nil {
		return nil, "amount is required"
	}
	freq := dates.Frequency(req.Frequency)
	if !freq.Valid() {
		return nil, "frequency must be DAILY, WEEKLY, MONTHLY or YEARLY"
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, "invalid start_date, expected YYYY-MM-DD"
	}
	var end *time.Time
	if req.EndDate != nil && *req.EndDate != "" {
		e, err := time.Parse("2006-01-02", *req.EndDate)
		if err != nil {
			return nil, "invalid end_date, expected YYYY-MM-DD"
		}
		if e.Before(start) {
			return nil, "end_date must not be before start_date"
		}
		end = &e
	}
	return &models.RecurringTransaction{
		UserID:      userID,
		CardID:      req.CardID,
		CategoryID:  req.CategoryID,
		Amount:      *req.Amount,
		Description: req.Description,
		Frequency:   freq,
		StartDate:   start,
		EndDate:     end,
	}, ""
}

func CreateRecurringTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		var req recurringRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create recurring request for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		rt, msg := req.toModel(userID)
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		created, err := sqldb.CreateRecurringTransaction(r.Context(), pool, rt)
		if err != nil {
			log.Printf("ERROR: Failed to create recurring transaction for user %d: %v", userID, err)
			http.Error(w, "failed to create recurring transaction", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created recurring transaction id %d for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAllRecurringTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		items, err := sqldb.GetAllRecurringTransactions(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get recurring transactions for user %d: %v", userID, err)
			http.Error(w, "failed to get recurring transactions", http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []models.RecurringTransaction{}
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"items": items})
	}
}

func UpdateRecurringTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		ruleID, err := strconv.Atoi(chi.URLParam(r, "rule_id"))
		if err != nil {
			http.Error(w, "invalid recurring transaction id", http.StatusBadRequest)
			return
		}
		var req recurringRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update recurring request for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		rt, msg := req.toModel(userID)
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		rt.ID = ruleID

		updated, err := sqldb.UpdateRecurringTransaction(r.Context(), pool, rt)
		if err != nil {
			log.Printf("ERROR: Failed to update recurring transaction id %d for user %d: %v", ruleID, userID, err)
			http.Error(w, "recurring transaction not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

// DeleteRecurringTransaction removes a rule. Transactions already
// materialized from it stay in the ledger.
func DeleteRecurringTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		ruleID, err := strconv.Atoi(chi.URLParam(r, "rule_id"))
		if err != nil {
			http.Error(w, "invalid recurring transaction id", http.StatusBadRequest)
			return
		}
		if err := sqldb.DeleteRecurringTransaction(r.Context(), pool, userID, ruleID); err != nil {
			log.Printf("ERROR: Failed to delete recurring transaction id %d for user %d: %v", ruleID, userID, err)
			http.Error(w, "recurring transaction not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted recurring transaction id %d for user %d", ruleID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}
}

// RunRecurringJob materializes every due occurrence of the caller's rules.
// Safe to trigger at any cadence; re-runs create nothing new.
func RunRecurringJob(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)

		m := recurring.New(sqldb.MaterializerStore{Pool: pool})
		res, err := m.Run(r.Context(), userID, time.Now().UTC())
		if err != nil {
			log.Printf("ERROR: Recurring job failed for user %d: %v", userID, err)
			http.Error(w, "failed to run recurring job", http.StatusInternalServerError)
			return
		}
		if res.Created > 0 {
			db.ClearSummaryCaches(userID)
		}

		log.Printf("INFO: Recurring job for user %d created %d transactions (%d rules failed)",
			userID, res.Created, res.FailedRules)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}
}
