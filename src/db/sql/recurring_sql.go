package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

func CreateRecurringTransaction(ctx context.Context, pool *pgxpool.Pool, rt *models.RecurringTransaction) (*models.RecurringTransaction, error) {
	query := `
		INSERT INTO recurring_transactions (user_id, card_id, category_id, amount, description, frequency, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, user_id, card_id, category_id, amount, description, frequency, start_date, end_date, created_at
	`
	var r models.RecurringTransaction
	err := pool.QueryRow(ctx, query,
		rt.UserID, rt.CardID, rt.CategoryID, rt.Amount, rt.Description, rt.Frequency, rt.StartDate, rt.EndDate).
		Scan(&r.ID, &r.UserID, &r.CardID, &r.CategoryID, &r.Amount, &r.Description,
			&r.Frequency, &r.StartDate, &r.EndDate, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func GetRecurringTransactionByID(ctx context.Context, pool *pgxpool.Pool, userID, ruleID int) (*models.RecurringTransaction, error) {
	query := `
		SELECT id, user_id, card_id, category_id, amount, description, frequency, start_date, end_date, created_at
		FROM recurring_transactions
		WHERE id = $1 AND user_id = $2
	`
	var r models.RecurringTransaction
	err := pool.QueryRow(ctx, query, ruleID, userID).
		Scan(&r.ID, &r.UserID, &r.CardID, &r.CategoryID, &r.Amount, &r.Description,
			&r.Frequency, &r.StartDate, &r.EndDate, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func GetAllRecurringTransactions(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.RecurringTransaction, error) {
	query := `
		SELECT id, user_id, card_id, category_id, amount, description, frequency, start_date, end_date, created_at
		FROM recurring_transactions
		WHERE user_id = $1
		ORDER BY start_date DESC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRules(rows)
}

func UpdateRecurringTransaction(ctx context.Context, pool *pgxpool.Pool, rt *models.RecurringTransaction) (*models.RecurringTransaction, error) {
	query := `
		UPDATE recurring_transactions
		SET card_id = $1, category_id = $2, amount = $3, description = $4, frequency = $5, start_date = $6, end_date = $7
		WHERE id = $8 AND user_id = $9
		RETURNING id, user_id, card_id, category_id, amount, description, frequency, start_date, end_date, created_at
	`
	var r models.RecurringTransaction
	err := pool.QueryRow(ctx, query,
		rt.CardID, rt.CategoryID, rt.Amount, rt.Description, rt.Frequency, rt.StartDate, rt.EndDate, rt.ID, rt.UserID).
		Scan(&r.ID, &r.UserID, &r.CardID, &r.CategoryID, &r.Amount, &r.Description,
			&r.Frequency, &r.StartDate, &r.EndDate, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// DeleteRecurringTransaction removes the rule. Already-materialized
// transactions keep existing: the back-reference is set null by the schema.
func DeleteRecurringTransaction(ctx context.Context, pool *pgxpool.Pool, userID, ruleID int) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM recurring_transactions WHERE id = $1 AND user_id = $2`, ruleID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("recurring transaction not found")
	}
	return nil
}

func collectRules(rows pgx.Rows) ([]models.RecurringTransaction, error) {
	var rules []models.RecurringTransaction
	for rows.Next() {
		var r models.RecurringTransaction
		err := rows.Scan(&r.ID, &r.UserID, &r.CardID, &r.CategoryID, &r.Amount, &r.Description,
			&r.Frequency, &r.StartDate, &r.EndDate, &r.CreatedAt)
		if err != nil {
			return nil, err
		}
		rules = append(rules, r)
	}
	return rules, rows.Err()
}

// MaterializerStore adapts the pool to the interface the recurring
// materializer runs against.
type MaterializerStore struct {
	Pool *pgxpool.Pool
}

func (s MaterializerStore) ActiveRules(ctx context.Context, userID int, today time.Time) ([]models.RecurringTransaction, error) {
	query := `
		SELECT id, user_id, card_id, category_id, amount, description, frequency, start_date, end_date, created_at
		FROM recurring_transactions
		WHERE user_id = $1 AND start_date <= $2
		ORDER BY id
	`
	rows, err := s.Pool.Query(ctx, query, userID, today)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRules(rows)
}

func (s MaterializerStore) LastOccurrence(ctx context.Context, userID, ruleID int) (time.Time, bool, error) {
	query := `
		SELECT date FROM transactions
		WHERE user_id = $1 AND recurring_transaction_id = $2
		ORDER BY date DESC
		LIMIT 1
	`
	var date time.Time
	err := s.Pool.QueryRow(ctx, query, userID, ruleID).Scan(&date)
	if err == pgx.ErrNoRows {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, err
	}
	return date, true, nil
}

func (s MaterializerStore) OccurrenceExists(ctx context.Context, userID, ruleID int, date time.Time) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM transactions
			WHERE user_id = $1 AND recurring_transaction_id = $2 AND date = $3
		)
	`
	var exists bool
	err := s.Pool.QueryRow(ctx, query, userID, ruleID, date).Scan(&exists)
	return exists, err
}

// CreateOccurrence inserts one materialized transaction. The partial unique
// index on (user_id, recurring_transaction_id, date) makes a concurrent
// duplicate a no-op instead of an error.
func (s MaterializerStore) CreateOccurrence(ctx context.Context, tx *models.Transaction) error {
	query := `
		INSERT INTO transactions (user_id, card_id, category_id, recurring_transaction_id, date, amount, description, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id, recurring_transaction_id, date) WHERE recurring_transaction_id IS NOT NULL DO NOTHING
	`
	_, err := s.Pool.Exec(ctx, query,
		tx.UserID, tx.CardID, tx.CategoryID, tx.RecurringID, tx.Date, tx.Amount, tx.Description, tx.Type)
	return err
}
