package entity

// Point точка на холсте в пикселях, начало координат в левом верхнем углу.
type Point struct {
	X float64
	Y float64
}

// Stroke непрерывная линия, нарисованная одним движением пальца или мыши.
type Stroke []Point
