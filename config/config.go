package config

import (
	"fmt"
	"image/color"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

type Config struct {
	TelegramToken  string        `yaml:"telegram_token"`
	CanvasSize     int           `yaml:"canvas_size"`
	StrokeWidth    float64       `yaml:"stroke_width"`
	StrokeColor    string        `yaml:"stroke_color"`
	RecognizeDelay time.Duration `yaml:"recognize_delay"`
	NoticeTTL      time.Duration `yaml:"notice_ttl"`
	HistoryLimit   int           `yaml:"history_limit"`
	Normalizer     string        `yaml:"normalizer"`
	Debug          bool          `yaml:"debug"`
}

// Default возвращает настройки эталонного развёртывания: холст 400×400, линия 20 px.
func Default() *Config {
	return &Config{
		CanvasSize:     400,
		StrokeWidth:    20,
		StrokeColor:    "#000000",
		RecognizeDelay: 800 * time.Millisecond,
		NoticeTTL:      3 * time.Second,
		HistoryLimit:   10,
		Normalizer:     "imaging",
	}
}

// Load собирает конфигурацию: значения по умолчанию, затем YAML из CONFIG_FILE, затем переменные окружения.
func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// InkColor разбирает цвет линии из hex-строки
func (c *Config) InkColor() (color.Color, error) {
	ink, err := colorful.Hex(c.StrokeColor)
	if err != nil {
		return nil, fmt.Errorf("stroke color %q: %w", c.StrokeColor, err)
	}
	return ink, nil
}

// Validate проверяет значения после загрузки
func (c *Config) Validate() error {
	if c.CanvasSize <= 0 {
		return fmt.Errorf("canvas size must be positive, got %d", c.CanvasSize)
	}
	if c.StrokeWidth <= 0 {
		return fmt.Errorf("stroke width must be positive, got %v", c.StrokeWidth)
	}
	if c.HistoryLimit <= 0 {
		return fmt.Errorf("history limit must be positive, got %d", c.HistoryLimit)
	}
	if c.RecognizeDelay < 0 || c.NoticeTTL < 0 {
		return fmt.Errorf("durations must not be negative")
	}
	if _, err := c.InkColor(); err != nil {
		return err
	}
	return nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("TELEGRAM_TOKEN"); v != "" {
		c.TelegramToken = v
	}
	if v := os.Getenv("STROKE_COLOR"); v != "" {
		c.StrokeColor = v
	}
	if v := os.Getenv("NORMALIZER"); v != "" {
		c.Normalizer = v
	}

	var err error
	if c.CanvasSize, err = envInt("CANVAS_SIZE", c.CanvasSize); err != nil {
		return err
	}
	if c.HistoryLimit, err = envInt("HISTORY_LIMIT", c.HistoryLimit); err != nil {
		return err
	}
	if c.StrokeWidth, err = envFloat("STROKE_WIDTH", c.StrokeWidth); err != nil {
		return err
	}
	if c.RecognizeDelay, err = envDuration("RECOGNIZE_DELAY", c.RecognizeDelay); err != nil {
		return err
	}
	if c.NoticeTTL, err = envDuration("NOTICE_TTL", c.NoticeTTL); err != nil {
		return err
	}
	if c.Debug, err = envBool("DEBUG", c.Debug); err != nil {
		return err
	}
	return nil
}

func envInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envFloat(key string, def float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return f, nil
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func envBool(key string, def bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}
