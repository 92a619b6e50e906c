package canvas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"sync"

	"golang.org/x/image/vector"

	"digit-bot/internal/domain/entity"
	"digit-bot/internal/domain/port"
	"digit-bot/internal/infrastructure/vision"
)

const (
	DefaultSize        = 400
	DefaultStrokeWidth = 20
)

// circleSegments число сторон многоугольника, которым приближаются скругления.
const circleSegments = 24

var errEmptyStroke = errors.New("stroke has no points")

// Canvas квадратный холст с белым фоном, на котором пользователь рисует цифру.
// Безопасен для одновременного использования.
type Canvas struct {
	mu    sync.Mutex
	img   *image.RGBA
	ink   *image.Uniform
	width float32
	r     *vector.Rasterizer
}

// Option настройка холста
type Option func(*Canvas)

// WithStrokeWidth задаёт толщину линии в пикселях.
func WithStrokeWidth(w float64) Option {
	return func(c *Canvas) {
		if w > 0 {
			c.width = float32(w)
		}
	}
}

// WithInk задаёт цвет линии.
func WithInk(ink color.Color) Option {
	return func(c *Canvas) {
		if ink != nil {
			c.ink = image.NewUniform(ink)
		}
	}
}

// New создаёт белый холст size×size.
func New(size int, opts ...Option) *Canvas {
	if size <= 0 {
		size = DefaultSize
	}
	c := &Canvas{
		img:   image.NewRGBA(image.Rect(0, 0, size, size)),
		ink:   image.NewUniform(color.Black),
		width: DefaultStrokeWidth,
		r:     vector.NewRasterizer(size, size),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.fillWhite()
	return c
}

// Size сторона холста в пикселях
func (c *Canvas) Size() int {
	return c.img.Bounds().Dx()
}

// Stroke рисует ломаную с круглыми концами и сочленениями.
// Одна точка рисует круглую точку толщиной в линию.
func (c *Canvas) Stroke(points entity.Stroke) error {
	if len(points) == 0 {
		return errEmptyStroke
	}
	for _, p := range points {
		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("invalid point (%v, %v)", p.X, p.Y)
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	size := c.img.Bounds().Dx()
	c.r.Reset(size, size)

	half := c.width / 2
	for i, p := range points {
		addCircle(c.r, float32(p.X), float32(p.Y), half)
		if i > 0 {
			addSegment(c.r, points[i-1], p, half)
		}
	}
	c.r.Draw(c.img, c.img.Bounds(), c.ink, image.Point{})
	return nil
}

// Paste заменяет содержимое холста изображением, вписанным в левый верхний угол.
func (c *Canvas) Paste(img image.Image) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fillWhite()
	draw.Draw(c.img, c.img.Bounds(), img, img.Bounds().Min, draw.Over)
}

// Clear заливает холст белым
func (c *Canvas) Clear() {
	c.mu.Lock()
	c.fillWhite()
	c.mu.Unlock()
}

// HasInk проверяет холст тем же порогом, что и классификатор.
func (c *Canvas) HasInk() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return vision.HasInk(c.img.Pix)
}

// Snapshot возвращает копию пикселей, чтобы распознавание не видело новых линий.
func (c *Canvas) Snapshot() (pix []uint8, width, height int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	pix = make([]uint8, len(c.img.Pix))
	copy(pix, c.img.Pix)
	b := c.img.Bounds()
	return pix, b.Dx(), b.Dy()
}

// EncodePNG кодирует холст в PNG
func (c *Canvas) EncodePNG() ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return nil, fmt.Errorf("encode canvas: %w", err)
	}
	return buf.Bytes(), nil
}

func (c *Canvas) fillWhite() {
	draw.Draw(c.img, c.img.Bounds(), image.White, image.Point{}, draw.Src)
}

// Все фигуры обходятся в одном направлении, иначе перекрытия взаимно гасятся растеризатором.

// addCircle добавляет многоугольник, приближающий круг.
func addCircle(r *vector.Rasterizer, cx, cy, radius float32) {
	r.MoveTo(cx+radius, cy)
	for i := 1; i < circleSegments; i++ {
		a := 2 * math.Pi * float64(i) / circleSegments
		r.LineTo(cx+radius*float32(math.Cos(a)), cy+radius*float32(math.Sin(a)))
	}
	r.ClosePath()
}

// addSegment добавляет прямоугольник толщиной 2*half вдоль отрезка.
func addSegment(r *vector.Rasterizer, from, to entity.Point, half float32) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx := float32(-dy/length) * half
	ny := float32(dx/length) * half

	x0, y0 := float32(from.X), float32(from.Y)
	x1, y1 := float32(to.X), float32(to.Y)
	r.MoveTo(x0-nx, y0-ny)
	r.LineTo(x1-nx, y1-ny)
	r.LineTo(x1+nx, y1+ny)
	r.LineTo(x0+nx, y0+ny)
	r.ClosePath()
}

// Проверка реализации интерфейса
var _ port.Surface = (*Canvas)(nil)
