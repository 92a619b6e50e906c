package telegram

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"digit-bot/internal/domain/entity"
)

func TestFormatNotice(t *testing.T) {
	require.Equal(t, "⚠️ "+noticeDrawFirst, FormatNotice(entity.Notice{Text: noticeDrawFirst, Kind: entity.NoticeWarning}))
	require.Equal(t, "ℹ️ "+noticeCanvasEmpty, FormatNotice(entity.Notice{Text: noticeCanvasEmpty, Kind: entity.NoticeInfo}))
}

func TestFormatHistory(t *testing.T) {
	require.Equal(t, msgHistoryEmpty, FormatHistory(nil))

	at := time.Date(2025, 6, 1, 12, 30, 5, 0, time.UTC)
	text := FormatHistory([]entity.HistoryEntry{
		entity.NewHistoryEntry(entity.Recognition{Digit: 7, Confidence: 0.912}, at),
		entity.NewHistoryEntry(entity.Recognition{Digit: 2, Confidence: 0.8}, at.Add(-time.Minute)),
	})

	lines := strings.Split(text, "\n")
	require.Len(t, lines, 3)
	require.True(t, strings.HasPrefix(lines[1], "1. 7 — 91.2%"))
	require.True(t, strings.HasSuffix(lines[1], "(12:30:05)"))
	require.True(t, strings.HasPrefix(lines[2], "2. 2 — 80.0%"))
}
