package describer

import (
	"context"
	"fmt"
	"math"
	"strings"

	"digit-bot/internal/domain/entity"
	"digit-bot/internal/domain/port"
)

// barCells длина шкалы уверенности в символах
const barCells = 20

// TextDescriber формирует карточку результата: цифра, уверенность и шкала.
type TextDescriber struct{}

func NewTextDescriber() *TextDescriber {
	return &TextDescriber{}
}

// Describe возвращает текст карточки результата распознавания.
func (d *TextDescriber) Describe(ctx context.Context, entry entity.HistoryEntry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if entry.Digit < 0 || entry.Digit > 9 {
		return "", fmt.Errorf("digit %d out of range", entry.Digit)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🔢 Результат распознавания: %d\n", entry.Digit)
	fmt.Fprintf(&b, "%s %.0f%%\n", ConfidenceBar(entry.Confidence), math.Round(entry.Percent()))
	fmt.Fprintf(&b, "Уверенность: %.1f%%", entry.Percent())
	return b.String(), nil
}

// ConfidenceBar рисует шкалу из barCells клеток, заполненную пропорционально уверенности.
func ConfidenceBar(confidence float64) string {
	filled := int(math.Round(math.Max(0, math.Min(1, confidence)) * barCells))
	return strings.Repeat("▓", filled) + strings.Repeat("░", barCells-filled)
}

// Проверка реализации интерфейса
var _ port.RecognitionDescriber = (*TextDescriber)(nil)
