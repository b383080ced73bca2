package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	db "github.com/MGuimaraesN/cc-expense-tracker/src/db/sql"
	"github.com/MGuimaraesN/cc-expense-tracker/src/middleware"
	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

func CreateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		var req struct {
			Name string `json:"name"`
			Type string `json:"type"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Printf("ERROR: Failed to decode create category request for user %d: %v", userID, err)
			http.Error(w, "invalid request", http.StatusBadRequest)
			return
		}
		if req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}

		cat := &models.Category{
			UserID: userID,
			Name:   req.Name,
			Type:   models.ParseTransactionType(req.Type),
		}
		created, err := db.CreateCategory(r.Context(), pool, cat)
		if err != nil {
			log.Printf("ERROR: Failed to create category for user %d: %v", userID, err)
			http.Error(w, "failed to create category", http.StatusInternalServerError)
			return
		}
		log.Printf("INFO: Created category id %d for user %d", created.ID, userID)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(created)
	}
}

func GetAllCategoriesForUser(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		cats, err := db.GetAllCategoriesForUser(r.Context(), pool, userID)
		if err != nil {
			log.Printf("ERROR: Failed to get categories for user %d: %v", userID, err)
			http.Error(w, "failed to get categories", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cats)
	}
}

func UpdateCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		catID, err := strconv.Atoi(chi.URLParam(r, "category_id"))
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		var req struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
			http.Error(w, "name is required", http.StatusBadRequest)
			return
		}
		updated, err := db.UpdateCategoryName(r.Context(), pool, userID, catID, req.Name)
		if err != nil {
			log.Printf("ERROR: Failed to update category id %d for user %d: %v", catID, userID, err)
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(updated)
	}
}

func DeleteCategory(pool *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := middleware.UserID(r)
		catID, err := strconv.Atoi(chi.URLParam(r, "category_id"))
		if err != nil {
			http.Error(w, "invalid category id", http.StatusBadRequest)
			return
		}
		if err := db.DeleteCategory(r.Context(), pool, userID, catID); err != nil {
			log.Printf("ERROR: Failed to delete category id %d for user %d: %v", catID, userID, err)
			http.Error(w, "category not found", http.StatusNotFound)
			return
		}
		log.Printf("INFO: Deleted category id %d for user %d", catID, userID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	}
}
