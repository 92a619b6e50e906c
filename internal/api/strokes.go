package telegram

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"digit-bot/internal/domain/entity"
)

// maxPoints ограничивает размер одного сообщения с линиями.
const maxPoints = 2000

var errNoStrokes = errors.New("no strokes in message")

// ParseStrokes разбирает текст вида "x,y x,y ...; x,y ...".
// Линии разделяются точкой с запятой или переводом строки, точки пробелами.
// Координаты должны лежать в пределах холста size×size.
func ParseStrokes(text string, size int) ([]entity.Stroke, error) {
	lines := strings.FieldsFunc(text, func(r rune) bool {
		return r == ';' || r == '\n'
	})

	strokes := make([]entity.Stroke, 0, len(lines))
	total := 0
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		stroke := make(entity.Stroke, 0, len(fields))
		for _, field := range fields {
			p, err := parsePoint(field, size)
			if err != nil {
				return nil, err
			}
			stroke = append(stroke, p)
		}

		total += len(stroke)
		if total > maxPoints {
			return nil, fmt.Errorf("too many points: more than %d", maxPoints)
		}
		strokes = append(strokes, stroke)
	}

	if len(strokes) == 0 {
		return nil, errNoStrokes
	}
	return strokes, nil
}

func parsePoint(field string, size int) (entity.Point, error) {
	xs, ys, ok := strings.Cut(field, ",")
	if !ok {
		return entity.Point{}, fmt.Errorf("point %q: want x,y", field)
	}

	x, err := strconv.ParseFloat(xs, 64)
	if err != nil {
		return entity.Point{}, fmt.Errorf("point %q: %w", field, err)
	}
	y, err := strconv.ParseFloat(ys, 64)
	if err != nil {
		return entity.Point{}, fmt.Errorf("point %q: %w", field, err)
	}

	// Отрицательные условия отсекают и NaN.
	if !(x >= 0 && x <= float64(size)) || !(y >= 0 && y <= float64(size)) {
		return entity.Point{}, fmt.Errorf("point %q: outside %dx%d canvas", field, size, size)
	}
	return entity.Point{X: x, Y: y}, nil
}
