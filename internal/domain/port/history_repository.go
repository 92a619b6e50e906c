package port

import (
	"context"

	"digit-bot/internal/domain/entity"
)

// HistoryRepository интерфейс ограниченной истории распознаваний
type HistoryRepository interface {
	// Record добавляет запись в начало истории, вытесняя самую старую при переполнении
	Record(ctx context.Context, userID int64, entry entity.HistoryEntry) error

	// ListRecent возвращает записи от новых к старым
	ListRecent(ctx context.Context, userID int64) ([]entity.HistoryEntry, error)
}
