package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MGuimaraesN/cc-expense-tracker/src/config"
	"github.com/MGuimaraesN/cc-expense-tracker/src/handlers"
	"github.com/MGuimaraesN/cc-expense-tracker/src/middleware"
)

func NewRouter(pool *pgxpool.Pool, cfg config.Config) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigin))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", handlers.Register(pool, cfg.JWTSecret))
		r.Post("/auth/login", handlers.Login(pool, cfg.JWTSecret))

		// Protected routes
		r.With(middleware.JWTAuthMiddleware(cfg.JWTSecret)).Group(func(r chi.Router) {
			r.Put("/auth/change-password", handlers.ChangePassword(pool))

			// Cards
			r.Post("/cards", handlers.CreateCard(pool))
			r.Get("/cards", handlers.GetAllCardsForUser(pool))
			r.Get("/cards/{card_id}", handlers.GetCardByID(pool))
			r.Put("/cards/{card_id}", handlers.UpdateCard(pool))
			r.Delete("/cards/{card_id}", handlers.DeleteCard(pool))

			// Categories
			r.Post("/categories", handlers.CreateCategory(pool))
			r.Get("/categories", handlers.GetAllCategoriesForUser(pool))
			r.Put("/categories/{category_id}", handlers.UpdateCategory(pool))
			r.Delete("/categories/{category_id}", handlers.DeleteCategory(pool))

			// Transactions
			r.Get("/transactions", handlers.ListTransactions(pool))
			r.Post("/transactions", handlers.CreateTransaction(pool))
			r.Post("/transactions/import", handlers.ImportTransactions(pool))
			r.Put("/transactions/{transaction_id}", handlers.UpdateTransaction(pool))
			r.Delete("/transactions/{transaction_id}", handlers.DeleteTransaction(pool))

			// Recurring transactions
			r.Post("/recurring-transactions", handlers.CreateRecurringTransaction(pool))
			r.Get("/recurring-transactions", handlers.GetAllRecurringTransactions(pool))
			r.Post("/recurring-transactions/run-job", handlers.RunRecurringJob(pool))
			r.Put("/recurring-transactions/{rule_id}", handlers.UpdateRecurringTransaction(pool))
			r.Delete("/recurring-transactions/{rule_id}", handlers.DeleteRecurringTransaction(pool))

			// Budgets
			r.Post("/budgets", handlers.UpsertBudget(pool))
			r.Get("/budgets", handlers.GetAllBudgetsForUser(pool))
			r.Delete("/budgets/{budget_id}", handlers.DeleteBudget(pool))

			// Dashboard
			r.Get("/summary", handlers.GetSummary(pool))
			r.Get("/trends", handlers.GetTrends(pool))
			r.Get("/reports/monthly", handlers.MonthlyReport(pool))
		})

		// Admin Routes
		r.With(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.AdminMiddleware).Group(func(r chi.Router) {
			r.Get("/admin/users", handlers.AdminGetAllUsers(pool))
			r.Get("/admin/transactions", handlers.AdminGetAllTransactions(pool))
			r.Get("/admin/categories", handlers.AdminGetAllCategories(pool))
		})
	})

	return r
}
