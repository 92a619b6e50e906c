//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"image"
)

type GoCVNormalizer struct {
	MinImageSide int
	MarginRatio  float64
	MaxDarkRatio float64
}

// NewGoCVNormalizer создаёт нормализатор-заглушку (без OpenCV).
func NewGoCVNormalizer() *GoCVNormalizer {
	return &GoCVNormalizer{
		MinImageSide: 28,
		MarginRatio:  0.1,
		MaxDarkRatio: 0.5,
	}
}

// Normalize возвращает ошибку, если сборка без тега gocv.
func (n *GoCVNormalizer) Normalize(ctx context.Context, imageData []byte, size int) (image.Image, error) {
	_ = ctx
	_ = imageData
	_ = size
	return nil, ErrGoCVDisabled
}
