package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

// TransactionFilter narrows List queries. Nil fields are not applied.
type TransactionFilter struct {
	CardID     *int
	CategoryID *int
	StartDate  *time.Time
	EndDate    *time.Time
}

const transactionColumns = `
	t.id, t.user_id, t.card_id, t.category_id, t.recurring_transaction_id,
	t.date, t.amount, t.description, t.type, t.created_at,
	c.name, cd.name
`

const transactionJoins = `
	FROM transactions t
	LEFT JOIN categories c ON t.category_id = c.id
	LEFT JOIN cards cd ON t.card_id = cd.id
`

func scanTransaction(row interface{ Scan(...any) error }) (models.Transaction, error) {
	var t models.Transaction
	err := row.Scan(
		&t.ID, &t.UserID, &t.CardID, &t.CategoryID, &t.RecurringID,
		&t.Date, &t.Amount, &t.Description, &t.Type, &t.CreatedAt,
		&t.CategoryName, &t.CardName,
	)
	return t, err
}

func buildFilter(userID int, f TransactionFilter) (string, []any) {
	where := `WHERE t.user_id = $1`
	args := []any{userID}
	if f.CardID != nil {
		args = append(args, *f.CardID)
		where += fmt.Sprintf(" AND t.card_id = $%d", len(args))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		where += fmt.Sprintf(" AND t.category_id = $%d", len(args))
	}
	if f.StartDate != nil {
		args = append(args, *f.StartDate)
		where += fmt.Sprintf(" AND t.date >= $%d", len(args))
	}
	if f.EndDate != nil {
		args = append(args, *f.EndDate)
		where += fmt.Sprintf(" AND t.date <= $%d", len(args))
	}
	return where, args
}

func CountTransactions(ctx context.Context, pool *pgxpool.Pool, userID int, f TransactionFilter) (int, error) {
	where, args := buildFilter(userID, f)
	var total int
	err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions t `+where, args...).Scan(&total)
	return total, err
}

func ListTransactions(ctx context.Context, pool *pgxpool.Pool, userID int, f TransactionFilter, page, pageSize int) ([]models.Transaction, error) {
	where, args := buildFilter(userID, f)
	args = append(args, pageSize, (page-1)*pageSize)
	query := `SELECT ` + transactionColumns + transactionJoins + where +
		fmt.Sprintf(` ORDER BY t.date DESC, t.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

func GetTransactionByID(ctx context.Context, pool *pgxpool.Pool, userID, txID int) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + transactionJoins + `WHERE t.id = $1 AND t.user_id = $2`
	t, err := scanTransaction(pool.QueryRow(ctx, query, txID, userID))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func CreateTransaction(ctx context.Context, pool *pgxpool.Pool, tx *models.Transaction) (*models.Transaction, error) {
	query := `
		INSERT INTO transactions (user_id, card_id, category_id, recurring_transaction_id, date, amount, description, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, user_id, card_id, category_id, recurring_transaction_id, date, amount, description, type, created_at
	`
	var t models.Transaction
	err := pool.QueryRow(ctx, query,
		tx.UserID, tx.CardID, tx.CategoryID, tx.RecurringID, tx.Date, tx.Amount, tx.Description, tx.Type).
		Scan(&t.ID, &t.UserID, &t.CardID, &t.CategoryID, &t.RecurringID,
			&t.Date, &t.Amount, &t.Description, &t.Type, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func UpdateTransaction(ctx context.Context, pool *pgxpool.Pool, tx *models.Transaction) (*models.Transaction, error) {
	query := `
		UPDATE transactions
		SET card_id = $1, category_id = $2, date = $3, amount = $4, description = $5, type = $6
		WHERE id = $7 AND user_id = $8
		RETURNING id, user_id, card_id, category_id, recurring_transaction_id, date, amount, description, type, created_at
	`
	var t models.Transaction
	err := pool.QueryRow(ctx, query,
		tx.CardID, tx.CategoryID, tx.Date, tx.Amount, tx.Description, tx.Type, tx.ID, tx.UserID).
		Scan(&t.ID, &t.UserID, &t.CardID, &t.CategoryID, &t.RecurringID,
			&t.Date, &t.Amount, &t.Description, &t.Type, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func DeleteTransaction(ctx context.Context, pool *pgxpool.Pool, userID, txID int) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1 AND user_id = $2`, txID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("transaction not found")
	}
	return nil
}

func GetAllTransactions(ctx context.Context, pool *pgxpool.Pool) ([]models.Transaction, error) {
	query := `
		SELECT t.id, t.user_id, t.card_id, t.category_id, t.recurring_transaction_id,
			t.date, t.amount, t.description, t.type, t.created_at
		FROM transactions t
		ORDER BY t.date DESC, t.id DESC
	`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var txs []models.Transaction
	for rows.Next() {
		var t models.Transaction
		err := rows.Scan(&t.ID, &t.UserID, &t.CardID, &t.CategoryID, &t.RecurringID,
			&t.Date, &t.Amount, &t.Description, &t.Type, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}
