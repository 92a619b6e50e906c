package vision

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/segment"
	"github.com/disintegration/imaging"

	"digit-bot/internal/domain/port"
)

// ImagingNormalizer готовит фото на чистом Go: оттенки серого, порог, вписывание в холст.
type ImagingNormalizer struct {
	ThresholdLevel uint8   // яркость, ниже которой пиксель становится чёрным
	MarginRatio    float64 // поля вокруг цифры относительно размера холста
	MaxDarkRatio   float64 // при большей доле тёмного фото считается негативом
}

// NewImagingNormalizer создаёт нормализатор с настройками по умолчанию.
func NewImagingNormalizer() *ImagingNormalizer {
	return &ImagingNormalizer{
		ThresholdLevel: 128,
		MarginRatio:    0.1,
		MaxDarkRatio:   0.5,
	}
}

// Normalize декодирует фото и возвращает чёрную цифру на белом квадрате size×size.
func (n *ImagingNormalizer) Normalize(ctx context.Context, imageData []byte, size int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid canvas size %d", size)
	}

	src, err := imaging.Decode(bytes.NewReader(imageData), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	bw := segment.Threshold(imaging.Grayscale(src), n.ThresholdLevel)

	var digit image.Image = bw
	if darkRatio(bw) > n.MaxDarkRatio {
		// Белый мел на тёмной доске.
		digit = imaging.Invert(bw)
	}

	inner := size - 2*int(float64(size)*n.MarginRatio)
	if inner <= 0 {
		inner = size
	}
	b := digit.Bounds()
	var fitted *image.NRGBA
	if b.Dx() >= b.Dy() {
		fitted = imaging.Resize(digit, inner, 0, imaging.Lanczos)
	} else {
		fitted = imaging.Resize(digit, 0, inner, imaging.Lanczos)
	}

	canvas := imaging.New(size, size, color.White)
	return imaging.PasteCenter(canvas, fitted), nil
}

// darkRatio доля чёрных пикселей в бинарном изображении.
func darkRatio(img *image.Gray) float64 {
	b := img.Bounds()
	total := b.Dx() * b.Dy()
	if total == 0 {
		return 0
	}
	dark := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[(y-b.Min.Y)*img.Stride : (y-b.Min.Y)*img.Stride+b.Dx()]
		for _, v := range row {
			if v < 128 {
				dark++
			}
		}
	}
	return float64(dark) / float64(total)
}

// NewNormalizer выбирает реализацию нормализатора по имени.
func NewNormalizer(variant string) (port.ImageNormalizer, error) {
	switch variant {
	case "imaging", "":
		return NewImagingNormalizer(), nil
	case "gocv":
		return NewGoCVNormalizer(), nil
	default:
		return nil, fmt.Errorf("unknown normalizer variant: %s", variant)
	}
}

// Проверка реализации интерфейса
var (
	_ port.ImageNormalizer = (*ImagingNormalizer)(nil)
	_ port.ImageNormalizer = (*GoCVNormalizer)(nil)
)
