package storage

import (
	"context"
	"sync"

	"digit-bot/internal/domain/entity"
	"digit-bot/internal/domain/port"
)

// DefaultHistoryLimit сколько последних распознаваний хранится на пользователя.
const DefaultHistoryLimit = 10

// MemoryHistoryRepository хранит последние результаты, новые первыми.
type MemoryHistoryRepository struct {
	mu      sync.RWMutex
	limit   int
	entries map[int64][]entity.HistoryEntry
}

// NewMemoryHistoryRepository создаёт историю с ограничением limit записей.
func NewMemoryHistoryRepository(limit int) *MemoryHistoryRepository {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	return &MemoryHistoryRepository{
		limit:   limit,
		entries: make(map[int64][]entity.HistoryEntry),
	}
}

// Record добавляет запись в начало, самая старая вытесняется при переполнении
func (r *MemoryHistoryRepository) Record(ctx context.Context, userID int64, entry entity.HistoryEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.entries[userID]
	next := make([]entity.HistoryEntry, 0, min(len(list)+1, r.limit))
	next = append(next, entry)
	next = append(next, list[:min(len(list), r.limit-1)]...)
	r.entries[userID] = next

	return nil
}

// ListRecent возвращает копию истории от новых к старым
func (r *MemoryHistoryRepository) ListRecent(ctx context.Context, userID int64) ([]entity.HistoryEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.entries[userID]
	out := make([]entity.HistoryEntry, len(list))
	copy(out, list)
	return out, nil
}

// Проверка реализации интерфейса
var _ port.HistoryRepository = (*MemoryHistoryRepository)(nil)
