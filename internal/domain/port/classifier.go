package port

import (
	"context"
	"image"

	"digit-bot/internal/domain/entity"
)

// DigitClassifier интерфейс классификатора рукописных цифр
type DigitClassifier interface {
	// Classify анализирует RGBA-буфер холста. false означает, что на холсте нет чернил.
	Classify(pix []uint8, width, height int) (entity.Recognition, bool)
}

// ImageNormalizer интерфейс подготовки фотографии для холста
type ImageNormalizer interface {
	// Normalize декодирует фото и возвращает квадратное чёрно-белое изображение size×size
	Normalize(ctx context.Context, imageData []byte, size int) (image.Image, error)
}
