package main

import (
	"context"
	"log"
	"net/http"

	"github.com/MGuimaraesN/cc-expense-tracker/src/api"
	"github.com/MGuimaraesN/cc-expense-tracker/src/config"
	"github.com/MGuimaraesN/cc-expense-tracker/src/db"
)

func main() {
	cfg := config.Load()

	// Connect to database
	pool, err := db.Connect(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("DB connection failed: %v", err)
	}
	defer pool.Close()

	if err := db.Migrate(context.Background(), pool); err != nil {
		log.Fatalf("DB migration failed: %v", err)
	}

	db.InitCache()

	// Router
	router := api.NewRouter(pool, cfg)

	log.Println("API server running on port", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, router); err != nil {
		log.Fatal(err)
	}
}
