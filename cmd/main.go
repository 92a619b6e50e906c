package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"digit-bot/config"
	telegram "digit-bot/internal/api"
	app "digit-bot/internal/application"
	"digit-bot/internal/container"
	"digit-bot/internal/domain/port"
	"digit-bot/internal/infrastructure/canvas"
	"digit-bot/internal/infrastructure/describer"
	"digit-bot/internal/infrastructure/storage"
	"digit-bot/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	ink, err := cfg.InkColor()
	if err != nil {
		log.Fatalf("Invalid stroke color: %v", err)
	}

	normalizer, err := vision.NewNormalizer(cfg.Normalizer)
	if err != nil {
		log.Fatalf("Failed to create normalizer: %v", err)
	}

	// Собираем сервисы приложения
	appContainer := container.New(container.Deps{
		Users:      storage.NewMemoryUserRepository(),
		History:    storage.NewMemoryHistoryRepository(cfg.HistoryLimit),
		Classifier: vision.NewHeuristicClassifier(nil),
		Normalizer: normalizer,
		Describer:  describer.NewTextDescriber(),
	}, app.RecognitionOptions{
		CanvasSize: cfg.CanvasSize,
		Delay:      cfg.RecognizeDelay,
		NewSurface: func(size int) port.Surface {
			return canvas.New(size, canvas.WithStrokeWidth(cfg.StrokeWidth), canvas.WithInk(ink))
		},
	})

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer, telegram.Options{
		CanvasSize: cfg.CanvasSize,
		NoticeTTL:  cfg.NoticeTTL,
		Debug:      cfg.Debug,
	})
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Println("Bot is running...")
		return bot.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
	log.Println("Bot stopped")
}
