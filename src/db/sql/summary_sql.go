package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/MGuimaraesN/cc-expense-tracker/src/models"
)

func SumTransactionsByType(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time, typ models.TransactionType) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3 AND type = $4
	`
	var sum decimal.Decimal
	err := pool.QueryRow(ctx, query, userID, start, end, typ).Scan(&sum)
	return sum, err
}

func ExpensesByCategory(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time) ([]models.NamedAmount, error) {
	query := `
		SELECT COALESCE(c.name, 'Other'), SUM(t.amount)
		FROM transactions t
		LEFT JOIN categories c ON t.category_id = c.id
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date <= $3
			AND t.type = 'EXPENSE' AND t.category_id IS NOT NULL
		GROUP BY c.name
		ORDER BY SUM(t.amount) DESC
	`
	return collectNamedAmounts(ctx, pool, query, userID, start, end)
}

func ExpensesByCard(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time) ([]models.NamedAmount, error) {
	query := `
		SELECT COALESCE(cd.name, 'Other'), SUM(t.amount)
		FROM transactions t
		LEFT JOIN cards cd ON t.card_id = cd.id
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date <= $3
			AND t.type = 'EXPENSE' AND t.card_id IS NOT NULL
		GROUP BY cd.name
		ORDER BY SUM(t.amount) DESC
	`
	return collectNamedAmounts(ctx, pool, query, userID, start, end)
}

func collectNamedAmounts(ctx context.Context, pool *pgxpool.Pool, query string, args ...any) ([]models.NamedAmount, error) {
	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.NamedAmount{}
	for rows.Next() {
		var na models.NamedAmount
		if err := rows.Scan(&na.Name, &na.Amount); err != nil {
			return nil, err
		}
		out = append(out, na)
	}
	return out, rows.Err()
}

// BudgetStatusForRange reports, for every budget the user has, how much of
// its category was spent inside the range.
func BudgetStatusForRange(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time) ([]models.BudgetStatus, error) {
	query := `
		SELECT b.id, c.name, b.amount,
			COALESCE((
				SELECT SUM(t.amount) FROM transactions t
				WHERE t.user_id = b.user_id AND t.category_id = b.category_id
					AND t.type = 'EXPENSE' AND t.date >= $2 AND t.date <= $3
			), 0) AS spent
		FROM budgets b
		JOIN categories c ON b.category_id = c.id
		WHERE b.user_id = $1
		ORDER BY b.year DESC, b.month DESC
	`
	rows, err := pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.BudgetStatus{}
	for rows.Next() {
		var bs models.BudgetStatus
		if err := rows.Scan(&bs.ID, &bs.Name, &bs.Limit, &bs.Spent); err != nil {
			return nil, err
		}
		if bs.Limit.IsPositive() {
			pct, _ := bs.Spent.Div(bs.Limit).Mul(decimal.NewFromInt(100)).Float64()
			bs.Percentage = pct
		}
		out = append(out, bs)
	}
	return out, rows.Err()
}

func RecentTransactions(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time, limit int) ([]models.Transaction, error) {
	query := `SELECT ` + transactionColumns + transactionJoins + `
		WHERE t.user_id = $1 AND t.date >= $2 AND t.date <= $3
		ORDER BY t.date DESC, t.id DESC
		LIMIT $4
	`
	rows, err := pool.Query(ctx, query, userID, start, end, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// DailyExpenseTotals returns one point per day that has expenses in range,
// oldest first.
func DailyExpenseTotals(ctx context.Context, pool *pgxpool.Pool, userID int, start, end time.Time) ([]time.Time, []decimal.Decimal, error) {
	query := `
		SELECT date, SUM(amount)
		FROM transactions
		WHERE user_id = $1 AND date >= $2 AND date <= $3 AND type = 'EXPENSE'
		GROUP BY date
		ORDER BY date ASC
	`
	rows, err := pool.Query(ctx, query, userID, start, end)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var days []time.Time
	var totals []decimal.Decimal
	for rows.Next() {
		var day time.Time
		var total decimal.Decimal
		if err := rows.Scan(&day, &total); err != nil {
			return nil, nil, err
		}
		days = append(days, day)
		totals = append(totals, total)
	}
	return days, totals, rows.Err()
}
