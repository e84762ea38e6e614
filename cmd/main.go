package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"imageprep/internal/domain/entities"
	"imageprep/internal/domain/repositories"
	"imageprep/internal/infrastructure/codecs"
	"imageprep/internal/infrastructure/config"
	"imageprep/internal/infrastructure/logging"
	infraRepos "imageprep/internal/infrastructure/repositories"
	"imageprep/internal/interface/controllers"
	"imageprep/internal/presentation/tui"
	usecases "imageprep/internal/usecase"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	configRepo := config.NewRepository()
	controller := controllers.NewCLIController(controllers.Dependencies{
		ConfigRepo: configRepo,
		NewLogger:  newConsoleLogger,
		NewBatch:   newBatch,
		RunTUI: func(ctx context.Context, configPath string, cfg *entities.Config) error {
			return runTUI(ctx, configRepo, configPath, cfg)
		},
	})

	code := controller.Execute(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// newFileLogger создает файловый логгер. Ошибка не фатальна, запуск продолжается без файла.
func newFileLogger(cfg *entities.Config) repositories.Logger {
	fileLogger, err := logging.NewFileLogger(
		cfg.Output.LogFileName,
		cfg.Output.LogLevel,
		cfg.Output.LogMaxSizeMB,
		cfg.Output.LogToFile,
	)
	if err != nil {
		log.Printf("Предупреждение: не удалось инициализировать логгер: %v", err)
		return nil
	}
	if fileLogger == nil {
		return nil
	}
	return fileLogger
}

// newConsoleLogger логгер для run и watch: консоль плюс файл, если он включен
func newConsoleLogger(out io.Writer, cfg *entities.Config) (repositories.Logger, error) {
	return logging.NewTeeLogger(
		logging.NewConsoleLogger(out, cfg.Output.LogLevel),
		newFileLogger(cfg),
	), nil
}

// newBatch собирает конвейер обработки поверх логгера
func newBatch(logger repositories.Logger) *usecases.ProcessImagesUseCase {
	fileRepo := infraRepos.NewFileSystemRepository()
	resizeConfigRepo := infraRepos.NewConfigRepository()

	processor := usecases.NewProcessImageUseCase(
		codecs.NewDecoder(),
		codecs.NewResizeRenderer(),
		codecs.NewFileEncoder(),
		codecs.NewWebPEncoder(),
		fileRepo,
		resizeConfigRepo,
		logger,
	)
	return usecases.NewProcessImagesUseCase(processor, fileRepo, resizeConfigRepo, logger)
}

// runTUI запускает интерактивный интерфейс и ждет завершения обработки
func runTUI(ctx context.Context, configRepo repositories.AppConfigRepository, configPath string, cfg *entities.Config) error {
	tuiManager := tui.NewManager(configRepo, configPath, cfg)
	tuiManager.Initialize()
	defer tuiManager.Cleanup()

	// Оборачиваем логгер адаптером, чтобы видеть логи в TUI
	logger := tui.NewUILogger(newFileLogger(cfg), tuiManager)
	defer logger.Close()

	batch := newBatch(logger)
	batch.SetProgressReporter(tuiManager.SendStatusUpdate)

	processor := NewApplicationProcessor(ctx, batch, cfg, logger)
	defer processor.Shutdown()

	// Привязываем запуск обработки к TUI, callback уже вызывается в отдельной горутине
	tuiManager.SetOnStartProcessing(func() {
		processor.SetConfig(tuiManager.GetConfig())
		processor.StartProcessing()
	})

	go func() {
		<-ctx.Done()
		tuiManager.Stop()
	}()

	return tuiManager.Run()
}
