package telegram

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"

	app "digit-bot/internal/application"
	"digit-bot/internal/container"
	"digit-bot/internal/domain/entity"
	"digit-bot/internal/domain/port"
	"digit-bot/internal/infrastructure/canvas"
	"digit-bot/internal/infrastructure/describer"
	"digit-bot/internal/infrastructure/storage"
	"digit-bot/internal/infrastructure/vision"
)

// fakeTelegram отвечает на вызовы Bot API и запоминает отправленные и удалённые сообщения.
type fakeTelegram struct {
	mu      sync.Mutex
	nextID  int
	sent    []sentMessage
	deleted []int
}

type sentMessage struct {
	id   int
	text string
}

func (f *fakeTelegram) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "getMe":
		fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"digit","username":"digit_bot"}}`)
	case "sendMessage":
		f.nextID++
		f.sent = append(f.sent, sentMessage{id: f.nextID, text: r.Form.Get("text")})
		fmt.Fprintf(w, `{"ok":true,"result":{"message_id":%d,"date":0,"chat":{"id":%s,"type":"private"}}}`,
			f.nextID, r.Form.Get("chat_id"))
	case "deleteMessage":
		id, _ := strconv.Atoi(r.Form.Get("message_id"))
		f.deleted = append(f.deleted, id)
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	default:
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	}
}

func (f *fakeTelegram) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	texts := make([]string, 0, len(f.sent))
	for _, m := range f.sent {
		texts = append(texts, m.text)
	}
	return texts
}

func (f *fakeTelegram) wasDeleted(id int) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, d := range f.deleted {
		if d == id {
			return true
		}
	}
	return false
}

func newTestBot(t *testing.T, noticeTTL time.Duration) (*Bot, *fakeTelegram) {
	t.Helper()

	fake := &fakeTelegram{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint("test-token", srv.URL+"/bot%s/%s")
	require.NoError(t, err)

	services := container.New(container.Deps{
		Users:      storage.NewMemoryUserRepository(),
		History:    storage.NewMemoryHistoryRepository(storage.DefaultHistoryLimit),
		Classifier: vision.NewHeuristicClassifier(nil),
		Normalizer: vision.NewImagingNormalizer(),
		Describer:  describer.NewTextDescriber(),
	}, app.RecognitionOptions{
		CanvasSize: canvas.DefaultSize,
		NewSurface: func(size int) port.Surface { return canvas.New(size) },
	})

	return newBot(api, services, Options{CanvasSize: canvas.DefaultSize, NoticeTTL: noticeTTL}), fake
}

func commandMessage(text string) *tgbotapi.Message {
	cmd := strings.Fields(text)[0]
	return &tgbotapi.Message{
		From:     &tgbotapi.User{ID: 1},
		Chat:     &tgbotapi.Chat{ID: 10},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}},
	}
}

func textMessage(text string) *tgbotapi.Message {
	return &tgbotapi.Message{
		From: &tgbotapi.User{ID: 1},
		Chat: &tgbotapi.Chat{ID: 10},
		Text: text,
	}
}

func TestErrorNotice(t *testing.T) {
	tests := []struct {
		name    string
		command string
		err     error
		want    entity.Notice
		wantOK  bool
	}{
		{
			name:    "busy",
			command: "clear",
			err:     app.ErrBusy,
			want:    entity.Notice{Text: noticeBusy, Kind: entity.NoticeWarning},
			wantOK:  true,
		},
		{
			name:    "empty canvas on recognize",
			command: "recognize",
			err:     fmt.Errorf("wrapped: %w", app.ErrEmptyCanvas),
			want:    entity.Notice{Text: noticeDrawFirst, Kind: entity.NoticeWarning},
			wantOK:  true,
		},
		{
			name:    "empty canvas on clear",
			command: "clear",
			err:     app.ErrEmptyCanvas,
			want:    entity.Notice{Text: noticeCanvasEmpty, Kind: entity.NoticeInfo},
			wantOK:  true,
		},
		{
			name:    "empty canvas on show",
			command: "show",
			err:     app.ErrEmptyCanvas,
			want:    entity.Notice{Text: noticeCanvasEmpty, Kind: entity.NoticeInfo},
			wantOK:  true,
		},
		{name: "unexpected error", command: "clear", err: errors.New("boom")},
		{name: "no error", command: "show"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := errorNotice(tt.command, tt.err)
			require.Equal(t, tt.wantOK, ok)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestHandleCommand_Dispatch(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{text: "/start", want: msgStart},
		{text: "/help", want: msgHelp},
		{text: "/draw", want: msgDrawing},
		{text: "/cancel", want: msgCancelled},
		{text: "/history", want: msgHistoryEmpty},
		{text: "/clear", want: "ℹ️ " + noticeCanvasEmpty},
		{text: "/show", want: "ℹ️ " + noticeCanvasEmpty},
		{text: "/unknown", want: msgUnknownCommand},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			bot, fake := newTestBot(t, 0)
			bot.handleMessage(t.Context(), commandMessage(tt.text))
			require.Equal(t, []string{tt.want}, fake.texts())
		})
	}
}

func TestHandleRecognize_EmptyCanvasSkipsProgress(t *testing.T) {
	bot, fake := newTestBot(t, 20*time.Millisecond)

	bot.handleMessage(t.Context(), commandMessage("/recognize"))
	require.Equal(t, []string{"⚠️ " + noticeDrawFirst}, fake.texts())

	// Уведомление удаляется по истечении времени жизни.
	require.Eventually(t, func() bool { return fake.wasDeleted(1) }, time.Second, 5*time.Millisecond)
}

func TestHandleRecognize_DrawnDigit(t *testing.T) {
	bot, fake := newTestBot(t, 0)
	ctx := t.Context()

	bot.handleMessage(ctx, textMessage("200,40 200,360"))
	bot.handleMessage(ctx, commandMessage("/recognize"))

	texts := fake.texts()
	require.Len(t, texts, 3)
	require.Contains(t, texts[0], "Нарисовано линий: 1")
	require.Equal(t, msgRecognizing, texts[1])
	require.Contains(t, texts[2], "Результат распознавания: 1")

	bot.handleMessage(ctx, commandMessage("/history"))
	require.Contains(t, fake.texts()[3], "1. 1 — ")
}

func TestHandleStrokes_BadInput(t *testing.T) {
	bot, fake := newTestBot(t, 0)

	bot.handleMessage(t.Context(), textMessage("hello"))

	texts := fake.texts()
	require.Len(t, texts, 1)
	require.True(t, strings.HasPrefix(texts[0], "⚠️ Не удалось разобрать линии"))
}
