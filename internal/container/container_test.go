package container

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	app "digit-bot/internal/application"
	"digit-bot/internal/domain/entity"
	"digit-bot/internal/domain/port"
	"digit-bot/internal/infrastructure/canvas"
	"digit-bot/internal/infrastructure/describer"
	"digit-bot/internal/infrastructure/storage"
	"digit-bot/internal/infrastructure/vision"
)

func TestNew_WiresServices(t *testing.T) {
	c := New(Deps{
		Users:      storage.NewMemoryUserRepository(),
		History:    storage.NewMemoryHistoryRepository(storage.DefaultHistoryLimit),
		Classifier: vision.NewHeuristicClassifier(nil),
		Normalizer: vision.NewImagingNormalizer(),
		Describer:  describer.NewTextDescriber(),
	}, app.RecognitionOptions{
		CanvasSize: canvas.DefaultSize,
		NewSurface: func(size int) port.Surface { return canvas.New(size) },
	})

	require.NotNil(t, c.RecognitionService)

	ctx := context.Background()
	require.NoError(t, c.RecognitionService.Draw(ctx, 1, 1, []entity.Stroke{{{X: 200, Y: 40}, {X: 200, Y: 360}}}))

	out, err := c.RecognitionService.Recognize(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, 1, out.Entry.Digit)

	state, err := c.RecognitionService.State(ctx, 1, 1)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, state)
}
