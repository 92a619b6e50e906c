package port

import (
	"context"

	"digit-bot/internal/domain/entity"
)

// RecognitionDescriber интерфейс описателя результата распознавания
type RecognitionDescriber interface {
	// Describe формирует текст карточки результата для пользователя
	Describe(ctx context.Context, entry entity.HistoryEntry) (string, error)
}
