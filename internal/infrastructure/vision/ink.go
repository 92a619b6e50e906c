package vision

import "image"

// inkThreshold яркость канала, ниже которой пиксель считается нарисованным.
// Порог нарочно мягкий: сглаженные края линий тоже попадают в чернила.
const inkThreshold = 250

// bytesPerPixel число байт на пиксель в RGBA-буфере.
const bytesPerPixel = 4

// IsInk сообщает, что пиксель не белый. Альфа-канал не учитывается.
func IsInk(r, g, b uint8) bool {
	return r < inkThreshold || g < inkThreshold || b < inkThreshold
}

// HasInk быстро проверяет, есть ли на холсте хотя бы один пиксель чернил.
func HasInk(pix []uint8) bool {
	for i := 0; i+2 < len(pix); i += bytesPerPixel {
		if IsInk(pix[i], pix[i+1], pix[i+2]) {
			return true
		}
	}
	return false
}

// InkPixels собирает координаты всех пикселей чернил в порядке обхода строк.
func InkPixels(pix []uint8, width, height int) []image.Point {
	checkBuffer(pix, width, height)

	points := make([]image.Point, 0, 1024)
	for i := 0; i < width*height; i++ {
		off := i * bytesPerPixel
		if IsInk(pix[off], pix[off+1], pix[off+2]) {
			points = append(points, image.Point{X: i % width, Y: i / width})
		}
	}
	return points
}

// checkBuffer паникует при несоответствии длины буфера размерам: это ошибка вызывающего кода.
func checkBuffer(pix []uint8, width, height int) {
	if width < 0 || height < 0 || len(pix) != width*height*bytesPerPixel {
		panic(errBufferSize(len(pix), width, height))
	}
}
