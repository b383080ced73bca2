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

	"github.com/MGuimaraesN/cc-expense-tracker/src/db"
	sqldb "github.com/MGuimaraesN/cc-expense-tracker/src/db/sql"
	"github.com/MGuimaraesN/cc-expense-tracker/src/importer"
	"github.com/MGuimaraesN/cc-expense-tracker/src/middleware"
	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

const maxImportSize = 10 << 20 // 10 MiB upload cap

func parseTransactionFilter(r *http.Request) (sqldb.TransactionFilter, int, int) {
	q := r.URL.Query()

	page := 1
	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 1 {
		page = v
	}
	pageSize := 50
	if v, err := strconv.Atoi(q.Get("pageSize")); err == nil && v >= 1 {
		pageSize = v
	}
	if pageSize > 100 {
		pageSize = 100
	}

	var f sqldb.TransactionFilter
	if v, err := strconv.Atoi(q.Get("cardId")); err == nil {
		f.CardID = &v
	}
	if v, err := strconv.Atoi(q.Get("categoryId")); err == nil {
		f.CategoryID = &v
	}
	if t, err := time.Parse("2006-01-02", q.Get("startDate")); err == nil {
		f.StartDate = &t
	}
	if t, err := time.Parse("2006-01-02", q.Get("endDate")); err == nil {
		f.EndDate = &t
	}
	return f, page, pageSize
}

func ListTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		filter, page, pageSize := parseTransactionFilter(r)

		total, err := sqldb.CountTransactions(r.Context(), pool, userID, filter)
		if err != nil {
			log.Printf("ERROR: Failed to count transactions for user %d: %v", userID, err)
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}
		items, err := sqldb.ListTransactions(r.Context(), pool, userID, filter, page, pageSize)
		if err != nil {
			log.Printf("ERROR: Failed to list transactions for user %d: %v", userID, err)
			http.Error(w, "failed to get transactions", http.StatusInternalServerError)
			return
		}
		if items == nil {
			items = []models.Transaction{}
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"page":     page,
			"pageSize": pageSize,
			"total":    total,
			"items":    items,
		})
	}
}

type transactionRequest struct {
	Date        string           `json:"date"`
	Amount      *decimal.Decimal `json:"amount"`
	Description string           `json:"description"`
	Type        string           `json:"type"`
	CategoryID  *int             `json:"category_id"`
	CardID      *int             `json:"card_id"`
}

func (req transactionRequest) toModel(userID int) (*models.Transaction, string) {
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return nil, "invalid date, expected YYYY-MM-DD"
	}
	if req.Amount == nil {
		return nil, "amount is required"
	}
	return &models.Transaction{
		UserID:      userID,
		CardID:      req.CardID,
		CategoryID:  req.CategoryID,
		Date:        date,
		Amount:      *req.Amount,
		Description: req.Description,
		Type:        models.ParseTransactionType(req.Type),
	}, ""
}

func CreateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create transaction request for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		tx, msg := req.toModel(userID)
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		created, err := sqldb.CreateTransaction(r.Context(), pool, tx)
		if err != nil {
			log.Printf("ERROR: Failed to create transaction for user %d: %v", userID, err)
			http.Error(w, "failed to create transaction", http.StatusInternalServerError)
			return
		}
		db.ClearSummaryCaches(userID)
		log.Printf("INFO: Created transaction id %d for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func UpdateTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		txID, err := strconv.Atoi(chi.URLParam(r, "transaction_id"))
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		var req transactionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update transaction request for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		tx, msg := req.toModel(userID)
		if msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}
		tx.ID = txID

		updated, err := sqldb.UpdateTransaction(r.Context(), pool, tx)
		if err != nil {
			log.Printf("ERROR: Failed to update transaction id %d for user %d: %v", txID, userID, err)
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		db.ClearSummaryCaches(userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteTransaction(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		txID, err := strconv.Atoi(chi.URLParam(r, "transaction_id"))
		if err != nil {
			http.Error(w, "invalid transaction id", http.StatusBadRequest)
			return
		}
		if err := sqldb.DeleteTransaction(r.Context(), pool, userID, txID); err != nil {
			log.Printf("ERROR: Failed to delete transaction id %d for user %d: %v", txID, userID, err)
			http.Error(w, "transaction not found", http.StatusNotFound)
			return
		}
		db.ClearSummaryCaches(userID)
		log.Printf("INFO: Deleted transaction id %d for user %d", txID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}
}

// ImportTransactions accepts a multipart upload (field "file") plus an
// optional "mapping" form field holding a JSON object that renames logical
// CSV columns to the file's actual header names.
func ImportTransactions(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)

		if err := r.ParseMultipartForm(maxImportSize); err != nil {
			log.Printf("ERROR: Failed to parse import upload for user %d: %v", userID, err)
			http.Error(w, "invalid multipart upload", http.StatusBadRequest)
			return
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			http.Error(w, "missing CSV file (field: file)", http.StatusBadRequest)
			return
		}
		defer file.Close()

		var mapping importer.Mapping
		if raw := r.FormValue("mapping"); raw != "" {
			if err := json.Unmarshal([]byte(raw), &mapping); err != nil {
				http.Error(w, "invalid mapping JSON", http.StatusBadRequest)
				return
			}
		}

		im := importer.New(sqldb.ImportStore{Pool: pool})
		report, err := im.Run(r.Context(), userID, file, mapping)
		if err != nil {
			log.Printf("ERROR: Import failed for user %d: %v", userID, err)
			http.Error(w, "unreadable CSV file", http.StatusBadRequest)
			return
		}
		db.ClearSummaryCaches(userID)

		log.Printf("INFO: Imported %d transactions for user %d (%d rows failed)",
			report.Successes, userID, len(report.Errors))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(report)
	}
}
