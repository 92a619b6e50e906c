package vision

import (
	"errors"
	"fmt"
)

// ErrGoCVDisabled возвращается нормализатором OpenCV в сборке без тега gocv.
var ErrGoCVDisabled = errors.New("gocv build tag is not enabled")

func errBufferSize(n, width, height int) error {
	return fmt.Errorf("pixel buffer has %d bytes, want %d for %dx%d RGBA", n, width*height*bytesPerPixel, width, height)
}
