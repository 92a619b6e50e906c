package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"digit-bot/internal/domain/entity"
	"digit-bot/internal/infrastructure/storage"
)

func TestUserService_BeginDrawingAndCancel(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.BeginDrawing(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateDrawing, user.State)

	user, err = svc.Cancel(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}

func TestUserService_SetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	user, err := svc.SetState(ctx, 2, 20, entity.StateDrawing)
	require.NoError(t, err)
	require.Equal(t, entity.StateDrawing, user.State)
}

func TestUserService_BusyUserKeepsState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	_, err := svc.SetState(ctx, 3, 30, entity.StateRecognizing)
	require.NoError(t, err)

	user, err := svc.BeginDrawing(ctx, 3, 30)
	require.NoError(t, err)
	require.Equal(t, entity.StateRecognizing, user.State)

	_, err = svc.Cancel(ctx, 3, 30)
	require.ErrorIs(t, err, ErrBusy)
}

func TestUserService_ResetState(t *testing.T) {
	repo := storage.NewMemoryUserRepository()
	svc := NewUserService(repo)
	ctx := context.Background()

	require.Error(t, svc.ResetState(ctx, 4))

	_, err := svc.SetState(ctx, 4, 40, entity.StateRecognizing)
	require.NoError(t, err)
	require.NoError(t, svc.ResetState(ctx, 4))

	user, err := svc.Get(ctx, 4, 40)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, user.State)
}
