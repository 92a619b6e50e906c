package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "digit-bot/internal/application"
	"digit-bot/internal/container"
	"digit-bot/internal/domain/entity"
	"digit-bot/internal/infrastructure/describer"
)

const (
	msgStart = `👋 Привет! Я угадываю рукописные цифры.

✏️ Нарисуйте цифру на холсте 400×400 и отправьте /recognize.

📋 Команды:
/draw — начать рисование
/recognize — распознать цифру
/clear — очистить холст
/show — показать холст
/history — последние результаты
/help — справка
/cancel — отменить текущую операцию`

	msgHelp = `ℹ️ Как пользоваться ботом:

1️⃣ Нарисуйте цифру: отправьте точки линий текстом
   10,20 15,40 20,60; 40,20 40,80
   (точки через пробел, линии через «;» или с новой строки)
   или пришлите фото цифры на бумаге
2️⃣ Отправьте /recognize
3️⃣ Получите цифру и уверенность

💡 Толщина линии 20 пикселей, координаты от 0 до размера холста.

📋 Команды:
/recognize — распознать
/clear — очистить холст
/show — показать холст
/history — последние результаты
/cancel — отменить операцию`

	msgDrawing         = "✏️ Холст готов. Отправьте точки линий или фото цифры."
	msgCancelled       = "❌ Операция отменена. Отправьте /draw, чтобы продолжить рисование."
	msgUnknownCommand  = "❓ Неизвестная команда. Используйте /help для справки."
	msgRecognizing     = "⏳ Распознаю цифру..."
	msgCleared         = "🧽 Холст очищен."
	msgPhotoAccepted   = "🖼 Фото перенесено на холст. Отправьте /recognize."
	msgHistoryEmpty    = "📭 История пуста."
	msgProcessingError = "⚠️ Не удалось обработать запрос. Попробуйте ещё раз."
	msgBadStrokes      = "⚠️ Не удалось разобрать линии: %v\nПример: 10,20 15,40; 40,20 40,80"

	noticeCanvasEmpty = "Холст пуст"
	noticeDrawFirst   = "Сначала нарисуйте цифру на холсте!"
	noticeBusy        = "Распознавание уже идёт, подождите..."
)

// Options настройки бота
type Options struct {
	CanvasSize int
	NoticeTTL  time.Duration
	Debug      bool
}

// Bot представляет Telegram-бота
type Bot struct {
	api         *tgbotapi.BotAPI
	recognition *app.RecognitionService
	opts        Options
	wg          sync.WaitGroup
}

// NewBot создаёт нового бота
func NewBot(token string, services *container.Container, opts Options) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	api.Debug = opts.Debug
	log.Printf("Authorized on account %s", api.Self.UserName)

	return newBot(api, services, opts), nil
}

func newBot(api *tgbotapi.BotAPI, services *container.Container, opts Options) *Bot {
	return &Bot{
		api:         api,
		recognition: services.RecognitionService,
		opts:        opts,
	}
}

// Run запускает основной цикл обработки сообщений до отмены контекста
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}

			// Каждое сообщение в своей горутине: иначе повторный /recognize не увидит флаг занятости.
			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handleMessage(ctx, msg)
			}(update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From == nil {
		return
	}

	// Обработка команд
	if msg.IsCommand() {
		b.handleCommand(ctx, msg)
		return
	}

	// Обработка фото
	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg)
		return
	}

	b.handleStrokes(ctx, msg)
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	switch msg.Command() {
	case "start":
		b.sendMessage(chatID, msgStart)

	case "help":
		b.sendMessage(chatID, msgHelp)

	case "draw":
		if err := b.recognition.Draw(ctx, userID, chatID, nil); err != nil {
			log.Printf("Error starting drawing: %v", err)
			b.sendMessage(chatID, msgProcessingError)
			return
		}
		b.sendMessage(chatID, msgDrawing)

	case "recognize":
		b.handleRecognize(ctx, msg)

	case "clear":
		err := b.recognition.Clear(ctx, userID, chatID)
		if err == nil {
			b.sendMessage(chatID, msgCleared)
			return
		}
		if notice, ok := errorNotice(msg.Command(), err); ok {
			b.sendNotice(chatID, notice)
			return
		}
		log.Printf("Error clearing canvas: %v", err)
		b.sendMessage(chatID, msgProcessingError)

	case "show":
		b.handleShow(ctx, msg)

	case "history":
		b.handleHistory(ctx, msg)

	case "cancel":
		err := b.recognition.Cancel(ctx, userID, chatID)
		if err == nil {
			b.sendMessage(chatID, msgCancelled)
			return
		}
		if notice, ok := errorNotice(msg.Command(), err); ok {
			b.sendNotice(chatID, notice)
			return
		}
		log.Printf("Error cancelling: %v", err)
		b.sendMessage(chatID, msgProcessingError)

	default:
		b.sendMessage(chatID, msgUnknownCommand)
	}
}

// handleRecognize запускает распознавание и отправляет карточку результата
func (b *Bot) handleRecognize(ctx context.Context, msg *tgbotapi.Message) {
	userID, chatID := msg.From.ID, msg.Chat.ID

	// Индикатор показываем, только если распознавание действительно начнётся.
	if err := b.recognition.CheckReady(ctx, userID, chatID); err != nil {
		b.reportRecognizeError(chatID, err)
		return
	}
	b.sendMessage(chatID, msgRecognizing)

	out, err := b.recognition.Recognize(ctx, userID, chatID)
	if err != nil {
		b.reportRecognizeError(chatID, err)
		return
	}

	if b.opts.Debug {
		log.Printf("User %d: digit=%d confidence=%.4f", userID, out.Entry.Digit, out.Entry.Confidence)
	}
	b.sendMessage(chatID, out.Description)
}

func (b *Bot) reportRecognizeError(chatID int64, err error) {
	if notice, ok := errorNotice("recognize", err); ok {
		b.sendNotice(chatID, notice)
		return
	}
	if errors.Is(err, context.Canceled) {
		return
	}
	log.Printf("Error recognizing digit: %v", err)
	b.sendMessage(chatID, msgProcessingError)
}

// errorNotice подбирает всплывающее уведомление для ожидаемой ошибки команды.
func errorNotice(command string, err error) (entity.Notice, bool) {
	switch {
	case errors.Is(err, app.ErrBusy):
		return entity.Notice{Text: noticeBusy, Kind: entity.NoticeWarning}, true
	case errors.Is(err, app.ErrEmptyCanvas) && command == "recognize":
		return entity.Notice{Text: noticeDrawFirst, Kind: entity.NoticeWarning}, true
	case errors.Is(err, app.ErrEmptyCanvas):
		return entity.Notice{Text: noticeCanvasEmpty, Kind: entity.NoticeInfo}, true
	}
	return entity.Notice{}, false
}

// handleShow отправляет текущий холст картинкой
func (b *Bot) handleShow(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	data, err := b.recognition.Preview(ctx, msg.From.ID)
	if notice, ok := errorNotice(msg.Command(), err); ok {
		b.sendNotice(chatID, notice)
		return
	}
	if err != nil {
		log.Printf("Error rendering canvas: %v", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "canvas.png", Bytes: data})
	if _, err := b.api.Send(photo); err != nil {
		log.Printf("Error sending canvas: %v", err)
	}
}

// handleHistory отправляет последние результаты
func (b *Bot) handleHistory(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	entries, err := b.recognition.History(ctx, msg.From.ID)
	if err != nil {
		log.Printf("Error loading history: %v", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	b.sendMessage(chatID, FormatHistory(entries))
}

// handlePhoto переносит входящее фото на холст
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	// Получаем файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		log.Printf("Error downloading photo: %v", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}

	if b.opts.Debug {
		log.Printf("Received image: %d bytes", len(imageData))
	}

	if err := b.recognition.AcceptPhoto(ctx, msg.From.ID, chatID, imageData); err != nil {
		log.Printf("Error accepting photo: %v", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	b.sendMessage(chatID, msgPhotoAccepted)
}

// handleStrokes рисует линии из текстового сообщения
func (b *Bot) handleStrokes(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	strokes, err := ParseStrokes(msg.Text, b.opts.CanvasSize)
	if err != nil {
		b.sendMessage(chatID, fmt.Sprintf(msgBadStrokes, err))
		return
	}

	if err := b.recognition.Draw(ctx, msg.From.ID, chatID, strokes); err != nil {
		log.Printf("Error drawing strokes: %v", err)
		b.sendMessage(chatID, msgProcessingError)
		return
	}
	b.sendMessage(chatID, fmt.Sprintf("✏️ Нарисовано линий: %d. /recognize — распознать, /show — посмотреть холст.", len(strokes)))
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		log.Printf("Error sending message: %v", err)
	}
}

// sendNotice отправляет уведомление и удаляет его через NoticeTTL
func (b *Bot) sendNotice(chatID int64, notice entity.Notice) {
	sent, err := b.api.Send(tgbotapi.NewMessage(chatID, FormatNotice(notice)))
	if err != nil {
		log.Printf("Error sending notice: %v", err)
		return
	}
	if b.opts.NoticeTTL <= 0 {
		return
	}

	time.AfterFunc(b.opts.NoticeTTL, func() {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, sent.MessageID)); err != nil {
			log.Printf("Error deleting notice: %v", err)
		}
	})
}

// FormatNotice добавляет к тексту уведомления значок по типу
func FormatNotice(n entity.Notice) string {
	switch n.Kind {
	case entity.NoticeWarning:
		return "⚠️ " + n.Text
	default:
		return "ℹ️ " + n.Text
	}
}

// FormatHistory строит список последних результатов, новые сверху
func FormatHistory(entries []entity.HistoryEntry) string {
	if len(entries) == 0 {
		return msgHistoryEmpty
	}

	var sb strings.Builder
	sb.WriteString("🕘 Последние результаты:\n")
	for i, e := range entries {
		fmt.Fprintf(&sb, "%d. %d — %.1f%% %s (%s)\n",
			i+1, e.Digit, e.Percent(), describer.ConfidenceBar(e.Confidence), e.CreatedAt.Format("15:04:05"))
	}
	return strings.TrimRight(sb.String(), "\n")
}
