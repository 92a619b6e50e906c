package vision

import (
	"math/rand/v2"

	"digit-bot/internal/domain/entity"
	"digit-bot/internal/domain/port"
)

// RandomSource источник равномерных чисел из [0, 1).
// *rand.Rand из math/rand/v2 ему удовлетворяет.
type RandomSource interface {
	Float64() float64
}

// globalSource использует общий генератор math/rand/v2, безопасный для горутин.
type globalSource struct{}

func (globalSource) Float64() float64 { return rand.Float64() }

// rule одно правило каскада: условие и выдаваемая цифра с разбросом уверенности.
type rule struct {
	name   string
	match  func(f Features) bool
	digit  int
	base   float64
	spread float64
}

// rules упорядоченный каскад. Порядок значим: срабатывает первое подходящее правило.
var rules = []rule{
	{
		name: "two-arcs-and-diagonal",
		match: func(f Features) bool {
			return f.TopRatio > 0.2 && f.MidRatio > 0.25 && f.BottomRatio > 0.2 && f.AspectRatio > 0.5
		},
		digit: 2, base: 0.88, spread: 0.10,
	},
	{
		name: "two-dense-middle",
		match: func(f Features) bool {
			return f.MidRatio > 0.3 && f.TopRatio > 0.15 && f.BottomRatio > 0.15 &&
				f.AspectRatio > 0.5 && f.AspectRatio < 1.2
		},
		digit: 2, base: 0.82, spread: 0.12,
	},
	{
		name: "two-diagonal",
		match: func(f Features) bool {
			return f.HasMidLine && f.MidRatio > 0.32 && !f.IsVertical && f.AspectRatio > 0.6
		},
		digit: 2, base: 0.80, spread: 0.15,
	},
	{
		name: "zero",
		match: func(f Features) bool {
			return f.HasTopCurve && f.HasBottomCurve && f.MidRatio < 0.2 && f.AspectRatio > 0.7
		},
		digit: 0, base: 0.80, spread: 0.15,
	},
	{
		name: "one",
		match: func(f Features) bool {
			return f.IsVertical && f.AspectRatio < 0.4
		},
		digit: 1, base: 0.85, spread: 0.10,
	},
	{
		name: "three",
		match: func(f Features) bool {
			return f.HasTopCurve && f.HasMidLine && f.HasBottomCurve &&
				f.TopRatio > 0.2 && f.BottomRatio > 0.2
		},
		digit: 3, base: 0.80, spread: 0.15,
	},
	{
		name: "four",
		match: func(f Features) bool {
			return f.LeftRightRatio < 0.4 && !f.IsVertical && f.AspectRatio > 0.5
		},
		digit: 4, base: 0.75, spread: 0.20,
	},
	{
		name: "five",
		match: func(f Features) bool {
			return f.TopRatio > 0.2 && f.HasMidLine && f.HasBottomCurve && f.LeftRightRatio > 0.5
		},
		digit: 5, base: 0.75, spread: 0.20,
	},
	{
		name: "six",
		match: func(f Features) bool {
			return f.HasTopCurve && f.HasBottomCurve && f.LeftRightRatio > 0.5 && f.MidRatio > 0.25
		},
		digit: 6, base: 0.80, spread: 0.15,
	},
	{
		name: "seven",
		match: func(f Features) bool {
			return f.TopRatio > 0.25 && !f.HasBottomCurve && f.AspectRatio > 0.5
		},
		digit: 7, base: 0.75, spread: 0.20,
	},
	{
		name: "eight",
		match: func(f Features) bool {
			return f.HasTopCurve && f.HasBottomCurve && f.MidRatio > 0.25 && f.AspectRatio > 0.6
		},
		digit: 8, base: 0.80, spread: 0.15,
	},
	{
		name: "nine",
		match: func(f Features) bool {
			return f.HasTopCurve && !f.HasBottomCurve && f.TopRatio > 0.3 && f.AspectRatio > 0.5
		},
		digit: 9, base: 0.75, spread: 0.20,
	},
}

// Параметры ответа, когда ни одно правило не подошло.
const (
	fallbackFavoredDigit = 2
	fallbackFavoredProb  = 0.5
	fallbackBase         = 0.70
	fallbackSpread       = 0.20
)

// HeuristicClassifier угадывает цифру по геометрии пикселей без обученной модели.
type HeuristicClassifier struct {
	rnd RandomSource
}

// NewHeuristicClassifier создаёт классификатор. При nil используется общий генератор math/rand/v2.
func NewHeuristicClassifier(rnd RandomSource) *HeuristicClassifier {
	if rnd == nil {
		rnd = globalSource{}
	}
	return &HeuristicClassifier{rnd: rnd}
}

// Classify извлекает пиксели чернил, считает признаки и прогоняет каскад правил.
// Второе значение false означает пустой холст. Неверная длина буфера приводит к панике.
func (c *HeuristicClassifier) Classify(pix []uint8, width, height int) (entity.Recognition, bool) {
	points := InkPixels(pix, width, height)
	if len(points) == 0 {
		return entity.Recognition{}, false
	}
	return c.classifyFeatures(ExtractFeatures(points)), true
}

func (c *HeuristicClassifier) classifyFeatures(f Features) entity.Recognition {
	if r, ok := matchRule(f); ok {
		return entity.Recognition{
			Digit:      r.digit,
			Confidence: r.base + c.rnd.Float64()*r.spread,
		}
	}

	digit := fallbackFavoredDigit
	if c.rnd.Float64() >= fallbackFavoredProb {
		digit = min(int(c.rnd.Float64()*10), 9)
	}
	return entity.Recognition{
		Digit:      digit,
		Confidence: fallbackBase + c.rnd.Float64()*fallbackSpread,
	}
}

// matchRule возвращает первое сработавшее правило каскада.
func matchRule(f Features) (rule, bool) {
	for _, r := range rules {
		if r.match(f) {
			return r, true
		}
	}
	return rule{}, false
}

// Проверка реализации интерфейса
var _ port.DigitClassifier = (*HeuristicClassifier)(nil)
