package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

func CreateCategory(ctx context.Context, pool *pgxpool.Pool, cat *models.Category) (*models.Category, error) {
	query := `
		INSERT INTO categories (user_id, name, type)
		VALUES ($1, $2, $3)
		RETURNING id, user_id, name, type, created_at
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, cat.UserID, cat.Name, cat.Type).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func GetAllCategoriesForUser(ctx context.Context, pool *pgxpool.Pool, userID int) ([]models.Category, error) {
	query := `
		SELECT id, user_id, name, type, created_at
		FROM categories WHERE user_id = $1
		ORDER BY name ASC
	`
	rows, err := pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}

func UpdateCategoryName(ctx context.Context, pool *pgxpool.Pool, userID, catID int, name string) (*models.Category, error) {
	query := `
		UPDATE categories SET name = $1
		WHERE id = $2 AND user_id = $3
		RETURNING id, user_id, name, type, created_at
	`
	var c models.Category
	err := pool.QueryRow(ctx, query, name, catID, userID).
		Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func DeleteCategory(ctx context.Context, pool *pgxpool.Pool, userID, catID int) error {
	cmd, err := pool.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, catID, userID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return fmt.Errorf("category not found")
	}
	return nil
}

func GetAllCategories(ctx context.Context, pool *pgxpool.Pool) ([]models.Category, error) {
	query := `SELECT id, user_id, name, type, created_at FROM categories ORDER BY id`
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.Category
	for rows.Next() {
		var c models.Category
		err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Type, &c.CreatedAt)
		if err != nil {
			return nil, err
		}
		cats = append(cats, c)
	}
	return cats, rows.Err()
}
