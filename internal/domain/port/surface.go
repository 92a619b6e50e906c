package port

import (
	"image"

	"digit-bot/internal/domain/entity"
)

// Surface интерфейс холста для рисования
type Surface interface {
	// Size сторона квадратного холста в пикселях
	Size() int

	// Stroke рисует линию по точкам
	Stroke(points entity.Stroke) error

	// Paste заменяет содержимое холста изображением
	Paste(img image.Image)

	// Clear заливает холст белым
	Clear()

	// HasInk проверяет, есть ли на холсте нарисованные пиксели
	HasInk() bool

	// Snapshot возвращает копию RGBA-буфера и размеры холста
	Snapshot() (pix []uint8, width, height int)

	// EncodePNG кодирует текущее содержимое в PNG
	EncodePNG() ([]byte, error)
}
