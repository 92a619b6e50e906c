package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecognitionPercent(t *testing.T) {
	r := Recognition{Digit: 7, Confidence: 0.875}
	require.InDelta(t, 87.5, r.Percent(), 1e-9)
}

func TestNewHistoryEntry(t *testing.T) {
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	e := NewHistoryEntry(Recognition{Digit: 3, Confidence: 0.9}, at)
	require.Equal(t, 3, e.Digit)
	require.Equal(t, at, e.CreatedAt)
}
