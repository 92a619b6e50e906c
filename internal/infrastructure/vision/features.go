package vision

import (
	"image"
	"math"
)

// Границы горизонтальных полос относительно высоты рамки.
const (
	topBandEdge    = 0.33
	bottomBandEdge = 0.66
)

// BoundingBox наименьший прямоугольник, содержащий все пиксели чернил.
type BoundingBox struct {
	MinX, MaxX int
	MinY, MaxY int
}

// Width ширина рамки (разность крайних координат)
func (b BoundingBox) Width() int {
	return b.MaxX - b.MinX
}

// Height высота рамки (разность крайних координат)
func (b BoundingBox) Height() int {
	return b.MaxY - b.MinY
}

// Center возвращает координаты центра рамки
func (b BoundingBox) Center() (x, y float64) {
	return float64(b.MinX+b.MaxX) / 2, float64(b.MinY+b.MaxY) / 2
}

// Features геометрические признаки рисунка.
type Features struct {
	Box     BoundingBox
	CenterX float64
	CenterY float64
	Width   int
	Height  int

	// AspectRatio равен +Inf, если рамка вырождена по высоте (одна горизонтальная линия).
	AspectRatio float64

	TopRatio    float64 // доля чернил в верхней трети
	MidRatio    float64 // доля чернил в средней трети
	BottomRatio float64 // доля чернил в нижней трети

	LeftRightRatio float64 // доля чернил левее центра

	HasTopCurve    bool
	HasBottomCurve bool
	IsVertical     bool
	HasMidLine     bool
}

// ExtractFeatures считает признаки по непустому набору точек.
func ExtractFeatures(points []image.Point) Features {
	if len(points) == 0 {
		return Features{}
	}

	box := BoundingBox{
		MinX: points[0].X, MaxX: points[0].X,
		MinY: points[0].Y, MaxY: points[0].Y,
	}
	for _, p := range points[1:] {
		box.MinX = min(box.MinX, p.X)
		box.MaxX = max(box.MaxX, p.X)
		box.MinY = min(box.MinY, p.Y)
		box.MaxY = max(box.MaxY, p.Y)
	}

	f := Features{
		Box:    box,
		Width:  box.Width(),
		Height: box.Height(),
	}
	f.CenterX, f.CenterY = box.Center()

	if f.Height == 0 {
		f.AspectRatio = math.Inf(1)
	} else {
		f.AspectRatio = float64(f.Width) / float64(f.Height)
	}

	topEdge := float64(box.MinY) + float64(f.Height)*topBandEdge
	bottomEdge := float64(box.MinY) + float64(f.Height)*bottomBandEdge

	var top, mid, bottom, left, right int
	for _, p := range points {
		y := float64(p.Y)
		switch {
		case y < topEdge:
			top++
		case y < bottomEdge:
			mid++
		default:
			bottom++
		}

		if float64(p.X) < f.CenterX {
			left++
		} else {
			right++
		}
	}

	total := float64(len(points))
	f.TopRatio = float64(top) / total
	f.MidRatio = float64(mid) / total
	f.BottomRatio = float64(bottom) / total
	f.LeftRightRatio = float64(left) / float64(left+right)

	f.HasTopCurve = f.TopRatio > 0.25 && f.AspectRatio > 0.6
	f.HasBottomCurve = f.BottomRatio > 0.25 && f.AspectRatio > 0.6
	f.IsVertical = f.AspectRatio < 0.5
	f.HasMidLine = f.MidRatio > 0.25

	return f
}
