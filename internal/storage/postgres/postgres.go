package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fdg312/bioboard/internal/meals"
)

var mealColumns = []string{
	"name", "cuisine", "diet", "restrictions", "meal_type", "category",
	"calories", "protein", "carbs", "fats", "is_vegetarian", "is_vegan",
}

// PostgresStorage — Postgres реализация MealsStorage
type PostgresStorage struct {
	pool *pgxpool.Pool
}

// New открывает пул соединений и проверяет доступность базы
func New(ctx context.Context, databaseURL string) (*PostgresStorage, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, err
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStorage{pool: pool}, nil
}

// ListMeals returns the corpus in insertion order.
func (p *PostgresStorage) ListMeals(ctx context.Context) ([]meals.Record, error) {
	query := `
		SELECT name, cuisine, diet, restrictions, meal_type, category,
		       calories, protein, carbs, fats, is_vegetarian, is_vegan
		FROM meals
		ORDER BY id
	`

	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	defer rows.Close()

	var out []meals.Record
	for rows.Next() {
		var r meals.Record
		err := rows.Scan(
			&r.Name,
			&r.Cuisine,
			&r.DietPattern,
			&r.Restriction,
			&r.Slot,
			&r.Category,
			&r.Calories,
			&r.Protein,
			&r.Carbs,
			&r.Fats,
			&r.IsVegetarian,
			&r.IsVegan,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan meal: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate meals: %w", err)
	}

	return out, nil
}

// ReplaceMeals swaps the whole corpus in one transaction.
func (p *PostgresStorage) ReplaceMeals(ctx context.Context, records []meals.Record) (int, error) {
	tx, err := p.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM meals`); err != nil {
		return 0, fmt.Errorf("failed to clear meals: %w", err)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{"meals"}, mealColumns, pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		r := records[i]
		return []any{
			r.Name, r.Cuisine, r.DietPattern, r.Restriction, r.Slot, r.Category,
			r.Calories, r.Protein, r.Carbs, r.Fats, r.IsVegetarian, r.IsVegan,
		}, nil
	}))
	if err != nil {
		return 0, fmt.Errorf("failed to copy meals: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit meals: %w", err)
	}

	return int(n), nil
}

// CountMeals returns the corpus size.
func (p *PostgresStorage) CountMeals(ctx context.Context) (int, error) {
	var n int
	if err := p.pool.QueryRow(ctx, `SELECT COUNT(*) FROM meals`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count meals: %w", err)
	}
	return n, nil
}

// Close закрывает пул соединений
func (p *PostgresStorage) Close() error {
	p.pool.Close()
	return nil
}
