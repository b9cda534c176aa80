package storage

import (
	"context"

	"github.com/fdg312/bioboard/internal/meals"
)

// MealsStorage — хранилище корпуса блюд (таблица meals)
type MealsStorage interface {
	// ListMeals возвращает все блюда в порядке вставки
	ListMeals(ctx context.Context) ([]meals.Record, error)

	// ReplaceMeals атомарно заменяет корпус и возвращает число записанных строк
	ReplaceMeals(ctx context.Context, records []meals.Record) (int, error)

	// CountMeals возвращает размер корпуса
	CountMeals(ctx context.Context) (int, error)

	// Close закрывает соединение (для Postgres)
	Close() error
}
