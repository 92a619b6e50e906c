//go:build gocv
// +build gocv

package vision

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

type GoCVNormalizer struct {
	MinImageSide int
	MarginRatio  float64
	MaxDarkRatio float64
}

// NewGoCVNormalizer создаёт нормализатор на OpenCV.
func NewGoCVNormalizer() *GoCVNormalizer {
	return &GoCVNormalizer{
		MinImageSide: 28,
		MarginRatio:  0.1,
		MaxDarkRatio: 0.5,
	}
}

// Normalize бинаризует фото методом Оцу и вписывает его в белый квадрат size×size.
func (n *GoCVNormalizer) Normalize(ctx context.Context, imageData []byte, size int) (image.Image, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if size <= 0 {
		return nil, fmt.Errorf("invalid canvas size %d", size)
	}

	gray, err := gocv.IMDecode(imageData, gocv.IMReadGrayScale)
	if err != nil || gray.Empty() {
		if err == nil {
			gray.Close()
		}
		return nil, errors.New("failed to decode image")
	}
	defer gray.Close()

	if gray.Cols() < n.MinImageSide || gray.Rows() < n.MinImageSide {
		return nil, fmt.Errorf("image is too small (%dx%d)", gray.Cols(), gray.Rows())
	}

	// Подавляем шум бумаги перед порогом.
	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	bw := gocv.NewMat()
	defer bw.Close()
	gocv.Threshold(blur, &bw, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)

	// После порога белым отмечен фон; если белого мало, фото негативное.
	if 1-ratioOfMask(bw) > n.MaxDarkRatio {
		gocv.BitwiseNot(bw, &bw)
	}

	inner := size - 2*int(float64(size)*n.MarginRatio)
	if inner <= 0 {
		inner = size
	}
	scale := float64(inner) / float64(max(bw.Cols(), bw.Rows()))
	newW := max(1, int(float64(bw.Cols())*scale))
	newH := max(1, int(float64(bw.Rows())*scale))

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(bw, &resized, image.Pt(newW, newH), 0, 0, gocv.InterpolationArea)

	img, err := resized.ToImage()
	if err != nil {
		return nil, fmt.Errorf("convert mat: %w", err)
	}

	canvas := imaging.New(size, size, color.White)
	return imaging.PasteCenter(canvas, img), nil
}

func ratioOfMask(mask gocv.Mat) float64 {
	total := mask.Cols() * mask.Rows()
	if total <= 0 {
		return 0
	}
	return float64(gocv.CountNonZero(mask)) / float64(total)
}
