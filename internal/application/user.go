package app

import (
	"context"

	"digit-bot/internal/domain/entity"
	"digit-bot/internal/domain/port"
)

type UserService struct {
	repo port.UserRepository
}

func NewUserService(repo port.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Get(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	return s.repo.Get(ctx, userID, chatID)
}

func (s *UserService) SetState(ctx context.Context, userID, chatID int64, state entity.UserState) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	user.SetState(state)
	if err := s.repo.Save(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// BeginDrawing переводит пользователя в режим рисования, если распознавание не идёт.
func (s *UserService) BeginDrawing(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if user.IsBusy() {
		return user, nil
	}
	return s.SetState(ctx, userID, chatID, entity.StateDrawing)
}

// Cancel возвращает пользователя в главное меню. Во время распознавания отмена недоступна.
func (s *UserService) Cancel(ctx context.Context, userID, chatID int64) (*entity.User, error) {
	user, err := s.repo.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if user.IsBusy() {
		return user, ErrBusy
	}
	return s.SetState(ctx, userID, chatID, entity.StateMainMenu)
}

// ResetState возвращает известного пользователя в главное меню.
func (s *UserService) ResetState(ctx context.Context, userID int64) error {
	return s.repo.UpdateState(ctx, userID, entity.StateMainMenu)
}
