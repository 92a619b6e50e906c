package entity

import "time"

// Recognition результат работы классификатора: цифра и уверенность.
type Recognition struct {
	Digit      int     // угаданная цифра 0–9
	Confidence float64 // уверенность в диапазоне (0, 1)
}

// Percent возвращает уверенность в процентах.
func (r Recognition) Percent() float64 {
	return r.Confidence * 100
}

// HistoryEntry запись истории распознаваний пользователя.
type HistoryEntry struct {
	Recognition
	CreatedAt time.Time
}

// NewHistoryEntry фиксирует результат с отметкой времени.
func NewHistoryEntry(r Recognition, at time.Time) HistoryEntry {
	return HistoryEntry{Recognition: r, CreatedAt: at}
}
