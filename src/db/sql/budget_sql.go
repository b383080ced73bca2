package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

// UpsertBudget creates or replaces the budget for (user, category, month, year).
func UpsertBudget(ctx context.Context, pool *pgxpool.Pool, b *models.Budget) (*models.Budget, error) {
	query := `
		INSERT INTO budgets (user_id, category_id, month, year, amount)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, category_id, month, year) DO UPDATE SET amount = EXCLUDED.amount
		RETURNING id, user_id, category_id, month, year, amount, created_at
	`
	var out models.Budget
	err := pool.QueryRow(ctx, query, b.UserID, b.CategoryID, b.Month, b.Year, b.Amount).
		Scan(&out.ID, &out.UserID, &out.CategoryID, &out.Month, &out.Year, &out.Amount, &out.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func GetAllBudgetsForUser(ctx context.Context, pool *pgxpool.Pool, userID int, month, year *int) ([]models.Budget, error) {
	query := `
		SELECT b.id, b.user_id, b.category_id, b.month, b.year, b.amount, b.created_at, c.name
		FROM budgets b
		JOIN categories c ON b.category_id = c.id
		WHERE b.user_id = $1
	`
	args := []any{userID}
	if month != nil {
		args = append(args, *month)
		query += fmt.Sprintf(" AND b.month = $%d", len(args))
	}
	if year != nil {
		args = append(args, *year)
		query += fmt.Sprintf(" AND b.year = $%d", len(args))
	}
	query += " ORDER BY b.year DESC, b.month DESC"

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var budgets []models.Budget
	for rows.Next() {
		var b models.Budget
		err := rows.Scan(&b.ID, &b.UserID, &b.CategoryID, &b.Month, &b.Year, &b.Amount, &b.CreatedAt, &b.CategoryName)
		if err != nil {
			return nil, err
		}
		budgets = append(budgets, b)
	}
	return budgets, rows.Err()
}

func DeleteBudget(ctx context.Context, pool *pgxpool.Pool, userID, budgetID int) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM budgets WHERE id = $1 AND user_id = $2`, budgetID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("budget not found")
	}
	return nil
}
