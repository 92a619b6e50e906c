package container

import (
	app "digit-bot/internal/application"
	"digit-bot/internal/domain/port"
)

type Container struct {
	RecognitionService *app.RecognitionService
}

// Deps внешние зависимости сервисов
type Deps struct {
	Users      port.UserRepository
	History    port.HistoryRepository
	Classifier port.DigitClassifier
	Normalizer port.ImageNormalizer
	Describer  port.RecognitionDescriber
}

func New(deps Deps, opts app.RecognitionOptions) *Container {
	recognitionService := app.NewRecognitionService(
		app.NewUserService(deps.Users),
		deps.Classifier,
		deps.Normalizer,
		deps.Describer,
		deps.History,
		opts,
	)

	return &Container{
		RecognitionService: recognitionService,
	}
}
