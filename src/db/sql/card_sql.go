package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

func CreateCard(ctx context.Context, pool *pgxpool.Pool, card *models.Card) (*models.Card, error) {
	query := `
		INSERT INTO cards (user_id, name, credit_limit, close_day, due_day)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, user_id, name, credit_limit, close_day, due_day, created_at
	`
	var c models.Card
	err := pool.QueryRow(ctx, query, card.UserID, card.Name, card.Limit, card.CloseDay, card.DueDay).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Limit, &c.CloseDay, &c.DueDay, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func GetCardByID(ctx context.Context, pool *pgxpool.Pool, userID, cardID int) (*models.Card, error) {
	query := `
		SELECT id, user_id, name, credit_limit, close_day, due_day, created_at
		FROM cards WHERE id = $1 AND user_id = $2
	`
	var c models.Card
	err := pool.QueryRow(ctx, query, cardID, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Limit, &c.CloseDay, &c.DueDay, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func GetAllCardsForUser(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Card, error) {
	query := `
		SELECT id, user_id, name, credit_limit, close_day, due_day, created_at
		FROM cards WHERE user_id = $1
		ORDER BY name ASC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cards []models.Card
	for rows.Next() {
		var c models.Card
		err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Limit, &c.CloseDay, &c.DueDay, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, rows.Err()
}

func UpdateCard(ctx context.Context, pool *pgxpool.Pool, card *models.Card) (*models.Card, error) {
	query := `
		UPDATE cards
		SET name = $1, credit_limit = $2, close_day = $3, due_day = $4
		WHERE id = $5 AND user_id = $6
		RETURNING id, user_id, name, credit_limit, close_day, due_day, created_at
	`
	var c models.Card
	err := pool.QueryRow(ctx, query, card.Name, card.Limit, card.CloseDay, card.DueDay, card.ID, card.UserID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Limit, &c.CloseDay, &c.DueDay, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func DeleteCard(ctx context.Context, pool *pgxpool.Pool, userID, cardID int) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM cards WHERE id = $1 AND user_id = $2`, cardID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("card not found")
	}
	return nil
}
