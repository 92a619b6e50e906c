package config

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"CONFIG_FILE", "TELEGRAM_TOKEN", "CANVAS_SIZE", "STROKE_WIDTH", "STROKE_COLOR",
		"RECOGNIZE_DELAY", "NOTICE_TTL", "HISTORY_LIMIT", "NORMALIZER", "DEBUG",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 400, cfg.CanvasSize)
	require.Equal(t, 20.0, cfg.StrokeWidth)
	require.Equal(t, 800*time.Millisecond, cfg.RecognizeDelay)
	require.Equal(t, 3*time.Second, cfg.NoticeTTL)
	require.Equal(t, 10, cfg.HistoryLimit)
	require.Equal(t, "imaging", cfg.Normalizer)

	ink, err := cfg.InkColor()
	require.NoError(t, err)
	r, g, b, a := ink.RGBA()
	require.Equal(t, [4]uint32{0, 0, 0, 0xffff}, [4]uint32{r, g, b, a})
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("CANVAS_SIZE", "280")
	t.Setenv("RECOGNIZE_DELAY", "0s")
	t.Setenv("STROKE_COLOR", "#ff0000")
	t.Setenv("DEBUG", "true")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "token", cfg.TelegramToken)
	require.Equal(t, 280, cfg.CanvasSize)
	require.Zero(t, cfg.RecognizeDelay)
	require.True(t, cfg.Debug)

	ink, err := cfg.InkColor()
	require.NoError(t, err)
	require.Equal(t, color.RGBAModel.Convert(color.RGBA{R: 255, A: 255}), color.RGBAModel.Convert(ink))
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "bot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("canvas_size: 200\nhistory_limit: 5\nnotice_ttl: 1s\nnormalizer: gocv\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("HISTORY_LIMIT", "7")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 200, cfg.CanvasSize)
	require.Equal(t, 7, cfg.HistoryLimit)
	require.Equal(t, time.Second, cfg.NoticeTTL)
	require.Equal(t, "gocv", cfg.Normalizer)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		key, value string
	}{
		{"CANVAS_SIZE", "abc"},
		{"CANVAS_SIZE", "0"},
		{"STROKE_WIDTH", "-1"},
		{"STROKE_COLOR", "black"},
		{"RECOGNIZE_DELAY", "soon"},
		{"HISTORY_LIMIT", "0"},
		{"DEBUG", "maybe"},
		{"CONFIG_FILE", "/nonexistent/bot.yaml"},
	}

	for _, tt := range tests {
		t.Run(tt.key+"="+tt.value, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			require.Error(t, err)
		})
	}
}
