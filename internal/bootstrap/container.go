package bootstrap

import (
	"ai-therapist-be/internal/config"
	"ai-therapist-be/internal/controller"
	"ai-therapist-be/internal/pkg/logger"
	"ai-therapist-be/internal/repository/unitofwork"
	"ai-therapist-be/internal/service"
	"ai-therapist-be/pkg/janitor"
	"ai-therapist-be/pkg/llm"
	"ai-therapist-be/pkg/speech"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	UserController    controller.IUserController
	SessionController controller.ISessionController
	MessageController controller.IMessageController
	ChatController    controller.IChatController

	// Background workers (exposed for main.go to run)
	Janitor *janitor.Janitor

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus + artifact janitor
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermillLogger)
	artifactJanitor := janitor.New(pubSub, sysLogger)

	// 3. External engines
	completer := llm.NewGeminiClient(cfg.Keys.GoogleGemini, sysLogger)
	synthesizer := speech.NewSynthesizer(
		speech.NewAzureEngine(cfg.Speech.AzureRegion, cfg.Keys.AzureSpeech),
		speech.NewTranslateEngine(),
		cfg.App.UploadDir,
		sysLogger,
	)
	transcriber := speech.NewWhisperTranscriber(cfg.Keys.OpenAI)

	// 4. Services
	userService := service.NewUserService(uowFactory)
	sessionService := service.NewSessionService(uowFactory)
	messageService := service.NewMessageService(uowFactory)
	chatService := service.NewChatService(
		uowFactory,
		sessionService,
		completer,
		synthesizer,
		transcriber,
		artifactJanitor,
		sysLogger,
		cfg.App.BaseURL,
		cfg.App.TempAudioPath,
	)

	// 5. Controllers
	return &Container{
		UserController:    controller.NewUserController(userService),
		SessionController: controller.NewSessionController(sessionService),
		MessageController: controller.NewMessageController(messageService),
		ChatController:    controller.NewChatController(chatService),

		Janitor: artifactJanitor,
		Logger:  sysLogger,
	}
}
