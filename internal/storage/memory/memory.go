package memory

import (
	"context"
	"sync"

	"github.com/fdg312/bioboard/internal/meals"
)

// MemoryStorage — in-memory реализация MealsStorage
type MemoryStorage struct {
	mu    sync.RWMutex
	meals []meals.Record
}

// New создаёт пустое хранилище
func New() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) ListMeals(ctx context.Context) ([]meals.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]meals.Record(nil), m.meals...), nil
}

func (m *MemoryStorage) ReplaceMeals(ctx context.Context, records []meals.Record) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.meals = append([]meals.Record(nil), records...)
	return len(records), nil
}

func (m *MemoryStorage) CountMeals(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.meals), nil
}

// Close ничего не делает
func (m *MemoryStorage) Close() error {
	return nil
}
