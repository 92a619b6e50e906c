package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"digit-bot/internal/domain/entity"
	"digit-bot/internal/domain/port"
)

// DefaultRecognizeDelay имитация времени работы модели
const DefaultRecognizeDelay = 800 * time.Millisecond

// RecognitionOptions настройки сервиса распознавания.
type RecognitionOptions struct {
	CanvasSize int
	Delay      time.Duration
	NewSurface func(size int) port.Surface
	Now        func() time.Time
}

type RecognitionService struct {
	users      *UserService
	classifier port.DigitClassifier
	normalizer port.ImageNormalizer
	describer  port.RecognitionDescriber
	history    port.HistoryRepository
	opts       RecognitionOptions
	surfaces   map[int64]port.Surface
	mu         sync.Mutex
}

// RecognitionOutput содержит результат распознавания и текст карточки.
type RecognitionOutput struct {
	Entry       entity.HistoryEntry
	Description string
}

// NewRecognitionService создаёт сервис, который ведёт холсты пользователей и распознаёт цифры.
func NewRecognitionService(
	users *UserService,
	classifier port.DigitClassifier,
	normalizer port.ImageNormalizer,
	describer port.RecognitionDescriber,
	history port.HistoryRepository,
	opts RecognitionOptions,
) *RecognitionService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &RecognitionService{
		users:      users,
		classifier: classifier,
		normalizer: normalizer,
		describer:  describer,
		history:    history,
		opts:       opts,
		surfaces:   make(map[int64]port.Surface),
	}
}

// Draw рисует линии на холсте пользователя.
func (s *RecognitionService) Draw(ctx context.Context, userID, chatID int64, strokes []entity.Stroke) error {
	surface, err := s.surface(userID)
	if err != nil {
		return err
	}
	for i, stroke := range strokes {
		if err := surface.Stroke(stroke); err != nil {
			return fmt.Errorf("stroke %d: %w", i+1, err)
		}
	}
	return s.markDrawing(ctx, userID, chatID)
}

// AcceptPhoto переносит фото рукописной цифры на холст, заменяя нарисованное.
func (s *RecognitionService) AcceptPhoto(ctx context.Context, userID, chatID int64, photo []byte) error {
	if s.normalizer == nil {
		return errors.New("normalizer is not configured")
	}
	surface, err := s.surface(userID)
	if err != nil {
		return err
	}

	img, err := s.normalizer.Normalize(ctx, photo, surface.Size())
	if err != nil {
		return fmt.Errorf("normalize photo: %w", err)
	}
	surface.Paste(img)

	return s.markDrawing(ctx, userID, chatID)
}

// Clear очищает холст. Пустой холст и идущее распознавание считаются ошибками.
func (s *RecognitionService) Clear(ctx context.Context, userID, chatID int64) error {
	surface, err := s.surface(userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return err
	}
	if user.IsBusy() {
		return ErrBusy
	}
	if !surface.HasInk() {
		return ErrEmptyCanvas
	}

	surface.Clear()
	return nil
}

// Cancel выходит из режима рисования, не трогая холст.
func (s *RecognitionService) Cancel(ctx context.Context, userID, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.users.Cancel(ctx, userID, chatID)
	return err
}

// State возвращает текущее состояние пользователя.
func (s *RecognitionService) State(ctx context.Context, userID, chatID int64) (entity.UserState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return "", err
	}
	return user.State, nil
}

// Recognize снимает копию холста, выжидает имитацию обработки и классифицирует цифру.
// Пока распознавание идёт, повторный вызов для того же пользователя возвращает ErrBusy.
func (s *RecognitionService) Recognize(ctx context.Context, userID, chatID int64) (*RecognitionOutput, error) {
	if s.classifier == nil {
		return nil, errors.New("classifier is not configured")
	}
	surface, err := s.surface(userID)
	if err != nil {
		return nil, err
	}

	if err := s.beginRecognition(ctx, userID, chatID, surface); err != nil {
		return nil, err
	}
	defer s.finishRecognition(context.WithoutCancel(ctx), userID)

	pix, width, height := surface.Snapshot()

	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	rec, ok := s.classifier.Classify(pix, width, height)
	if !ok {
		return nil, ErrEmptyCanvas
	}

	entry := entity.NewHistoryEntry(rec, s.opts.Now())
	if err := s.history.Record(ctx, userID, entry); err != nil {
		return nil, fmt.Errorf("record history: %w", err)
	}

	out := &RecognitionOutput{Entry: entry}
	if s.describer != nil {
		out.Description, err = s.describer.Describe(ctx, entry)
		if err != nil {
			return nil, fmt.Errorf("describe result: %w", err)
		}
	}
	return out, nil
}

// History возвращает последние результаты пользователя, новые первыми.
func (s *RecognitionService) History(ctx context.Context, userID int64) ([]entity.HistoryEntry, error) {
	return s.history.ListRecent(ctx, userID)
}

// Preview возвращает PNG с текущим содержимым холста.
func (s *RecognitionService) Preview(ctx context.Context, userID int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	surface, err := s.surface(userID)
	if err != nil {
		return nil, err
	}
	if !surface.HasInk() {
		return nil, ErrEmptyCanvas
	}
	return surface.EncodePNG()
}

// CheckReady сообщает, можно ли сейчас запустить распознавание: ErrBusy или ErrEmptyCanvas, если нельзя.
func (s *RecognitionService) CheckReady(ctx context.Context, userID, chatID int64) error {
	surface, err := s.surface(userID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.checkReady(ctx, userID, chatID, surface)
}

func (s *RecognitionService) beginRecognition(ctx context.Context, userID, chatID int64, surface port.Surface) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkReady(ctx, userID, chatID, surface); err != nil {
		return err
	}

	_, err := s.users.SetState(ctx, userID, chatID, entity.StateRecognizing)
	return err
}

// checkReady вызывается под s.mu
func (s *RecognitionService) checkReady(ctx context.Context, userID, chatID int64, surface port.Surface) error {
	user, err := s.users.Get(ctx, userID, chatID)
	if err != nil {
		return err
	}
	if user.IsBusy() {
		return ErrBusy
	}
	if !surface.HasInk() {
		return ErrEmptyCanvas
	}
	return nil
}

func (s *RecognitionService) markDrawing(ctx context.Context, userID, chatID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.users.BeginDrawing(ctx, userID, chatID)
	return err
}

func (s *RecognitionService) finishRecognition(ctx context.Context, userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.users.ResetState(ctx, userID); err != nil {
		log.Printf("Error resetting state for user %d: %v", userID, err)
	}
}

func (s *RecognitionService) wait(ctx context.Context) error {
	if s.opts.Delay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.opts.Delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// surface возвращает холст пользователя, создавая его при первом обращении.
func (s *RecognitionService) surface(userID int64) (port.Surface, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if surface, ok := s.surfaces[userID]; ok {
		return surface, nil
	}
	if s.opts.NewSurface == nil {
		return nil, errors.New("surface factory is not configured")
	}
	surface := s.opts.NewSurface(s.opts.CanvasSize)
	s.surfaces[userID] = surface
	return surface, nil
}
