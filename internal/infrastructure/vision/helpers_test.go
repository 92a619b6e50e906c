package vision

// whiteBuffer возвращает белый RGBA-буфер width×height.
func whiteBuffer(width, height int) []uint8 {
	pix := make([]uint8, width*height*bytesPerPixel)
	for i := range pix {
		pix[i] = 255
	}
	return pix
}

// fillRect закрашивает чёрным прямоугольник с включёнными границами.
func fillRect(pix []uint8, width, x0, y0, x1, y1 int) {
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			off := (y*width + x) * bytesPerPixel
			pix[off], pix[off+1], pix[off+2] = 0, 0, 0
		}
	}
}

// fixedSource всегда возвращает одно и то же число.
type fixedSource float64

func (s fixedSource) Float64() float64 { return float64(s) }

// seqSource выдаёт числа по очереди, повторяя последнее.
type seqSource struct {
	values []float64
	i      int
}

func (s *seqSource) Float64() float64 {
	v := s.values[min(s.i, len(s.values)-1)]
	s.i++
	return v
}
