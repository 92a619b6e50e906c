package app

import "errors"

var (
	// ErrEmptyCanvas на холсте нет ни одного пикселя чернил
	ErrEmptyCanvas = errors.New("canvas is empty")
	// ErrBusy распознавание уже запущено
	ErrBusy = errors.New("recognition is already in progress")
)
