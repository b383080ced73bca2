package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

// ImportStore adapts the pool to the interface the CSV importer runs
// against. Both find-or-create paths lean on the (user_id, name) unique
// constraints: a concurrent create loses the race, the insert does
// nothing, and the follow-up select returns the winner's row.
type ImportStore struct {
	Pool *pgxpool.Pool
}

func (s ImportStore) FindOrCreateCard(ctx context.Context, userID int, name string) (int, error) {
	var id int
	err := s.Pool.QueryRow(ctx,
		`SELECT id FROM cards WHERE user_id = $1 AND name = $2`, userID, name).Scan(&id)
	if err == nil {
		return id, nil
	}

	// Placeholder billing terms only; import never infers real ones.
	query := `
		INSERT INTO cards (user_id, name, credit_limit, close_day, due_day)
		VALUES ($1, $2, 0, 1, 10)
		ON CONFLICT (user_id, name) DO NOTHING
		RETURNING id
	`
	err = s.Pool.QueryRow(ctx, query, userID, name).Scan(&id)
	if err == nil {
		return id, nil
	}
	err = s.Pool.QueryRow(ctx,
		`SELECT id FROM cards WHERE user_id = $1 AND name = $2`, userID, name).Scan(&id)
	return id, err
}

func (s ImportStore) FindOrCreateCategory(ctx context.Context, userID int, name string, typ models.TransactionType) (int, error) {
	var id int
	err := s.Pool.QueryRow(ctx,
		`SELECT id FROM categories WHERE user_id = $1 AND name = $2`, userID, name).Scan(&id)
	if err == nil {
		return id, nil
	}

	query := `
		INSERT INTO categories (user_id, name, type)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, name) DO NOTHING
		RETURNING id
	`
	err = s.Pool.QueryRow(ctx, query, userID, name, typ).Scan(&id)
	if err == nil {
		return id, nil
	}
	err = s.Pool.QueryRow(ctx,
		`SELECT id FROM categories WHERE user_id = $1 AND name = $2`, userID, name).Scan(&id)
	return id, err
}

func (s ImportStore) CreateTransaction(ctx context.Context, tx *models.Transaction) error {
	created, err := CreateTransaction(ctx, s.Pool, tx)
	if err != nil {
		return err
	}
	*tx = *created
	return nil
}
