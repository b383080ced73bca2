package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	db "github.com/MGuimaraesN/cc-expense-tracker/src/db/sql"
	"github.com/MGuimaraesN/cc-expense-tracker/src/middleware"
	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
	"github.com/MGuimaraesN/cc-expense-tracker/src/util"
)

type cardRequest struct {
	Name     string          `json:"name"`
	Limit    decimal.Decimal `json:"limit"`
	CloseDay int             `json:"close_day"`
	DueDay   int             `json:"due_day"`
}

func (req cardRequest) validate() string {
	if req.Name == "" {
		return "name is required"
	}
	if req.Limit.IsNegative() {
		return "limit must not be negative"
	}
	if !util.ValidateDayOfMonth(req.CloseDay) || !util.ValidateDayOfMonth(req.DueDay) {
		return "close_day and due_day must be between 1 and 31"
	}
	return ""
}

func CreateCard(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		var req cardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create card request for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if msg := req.validate(); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		card := &models.Card{
			UserID:   userID,
			Name:     req.Name,
			Limit:    req.Limit,
			CloseDay: req.CloseDay,
			DueDay:   req.DueDay,
		}
		created, err := db.CreateCard(r.Context(), pool, card)
		if err != nil {
			log.Printf("ERROR: Failed to create card for user %d: %v", userID, err)
			http.Error(w, "failed to create card", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created card id %d for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetCardByID(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		cardID, err := strconv.Atoi(chi.URLParam(r, "card_id"))
		if err != nil {
			http.Error(w, "invalid card id", http.StatusBadRequest)
			return
		}
		card, err := db.GetCardByID(r.Context(), pool, userID, cardID)
		if err != nil {
			log.Printf("ERROR: Card id %d not found for user %d: %v", cardID, userID, err)
			http.Error(w, "card not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(card)
	}
}

func GetAllCardsForUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		cards, err := db.GetAllCardsForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get cards for user %d: %v", userID, err)
			http.Error(w, "failed to get cards", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cards)
	}
}

func UpdateCard(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		cardID, err := strconv.Atoi(chi.URLParam(r, "card_id"))
		if err != nil {
			http.Error(w, "invalid card id", http.StatusBadRequest)
			return
		}
		var req cardRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode update card request for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if msg := req.validate(); msg != "" {
			http.Error(w, msg, http.StatusBadRequest)
			return
		}

		card := &models.Card{
			ID:       cardID,
			UserID:   userID,
			Name:     req.Name,
			Limit:    req.Limit,
			CloseDay: req.CloseDay,
			DueDay:   req.DueDay,
		}
		updated, err := db.UpdateCard(r.Context(), pool, card)
		if err != nil {
			log.Printf("ERROR: Failed to update card id %d for user %d: %v", cardID, userID, err)
			http.Error(w, "card not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteCard(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		cardID, err := strconv.Atoi(chi.URLParam(r, "card_id"))
		if err != nil {
			http.Error(w, "invalid card id", http.StatusBadRequest)
			return
		}
		if err := db.DeleteCard(r.Context(), pool, userID, cardID); err != nil {
			log.Printf("ERROR: Failed to delete card id %d for user %d: %v", cardID, userID, err)
			http.Error(w, "card not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted card id %d for user %d", cardID, userID)
		w.WriteHeader(http.StatusNoContent)
	}
}
