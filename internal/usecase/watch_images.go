package usecases

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"imageprep/internal/domain/entities"
	"imageprep/internal/domain/repositories"
	"imageprep/internal/infrastructure/codecs"
	"imageprep/internal/infrastructure/watcher"
)

// WatchImagesUseCase пересобирает мобильные версии при изменениях в дереве
type WatchImagesUseCase struct {
	batch    *ProcessImagesUseCase
	logger   repositories.Logger
	debounce time.Duration
}

// NewWatchImagesUseCase создает сценарий наблюдения
func NewWatchImagesUseCase(batch *ProcessImagesUseCase, logger repositories.Logger) *WatchImagesUseCase {
	return &WatchImagesUseCase{
		batch:    batch,
		logger:   logger,
		debounce: watcher.DefaultDebounce,
	}
}

// SetDebounce меняет паузу между последним событием и пересборкой
func (uc *WatchImagesUseCase) SetDebounce(d time.Duration) {
	uc.debounce = d
}

// Run выполняет первый запуск и затем пересобирает дерево при изменениях.
// Возвращается после отмены контекста.
func (uc *WatchImagesUseCase) Run(ctx context.Context, config *entities.Config) error {
	if _, err := uc.batch.Execute(ctx, config); err != nil && !uc.recoverable(err) {
		return err
	}

	resizeConfig := config.ResizeConfig()
	w, err := watcher.NewWatcher(uc.debounce, ChangeFilter(resizeConfig), uc.logger)
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.AddRecursive(config.Scanner.SourceDirectory); err != nil {
		return fmt.Errorf("не удалось начать наблюдение: %w", err)
	}
	go w.Run(ctx)

	uc.logInfo("👀 Наблюдение за %s, Ctrl+C для выхода", config.Scanner.SourceDirectory)

	for batch := range w.Changes() {
		uc.logInfo("🔁 Изменено файлов: %d, пересборка", len(batch))
		for _, path := range batch {
			uc.logDebug("    └─ %s", path)
		}
		if _, err := uc.batch.Execute(ctx, config); err != nil && !uc.recoverable(err) {
			return err
		}
	}
	return nil
}

// recoverable сообщает, можно ли продолжать наблюдение после ошибки запуска
func (uc *WatchImagesUseCase) recoverable(err error) bool {
	switch {
	case errors.Is(err, entities.ErrRunHadFailures):
		uc.logWarning("⚠️ %v", err)
		return true
	case errors.Is(err, context.Canceled):
		return true
	default:
		return false
	}
}

// ChangeFilter пропускает только исходные изображения, производные файлы игнорируются
func ChangeFilter(config entities.ResizeConfig) watcher.Filter {
	exts := config.NormalizedExtensions()
	return func(path string) bool {
		name := filepath.Base(path)
		if strings.HasPrefix(name, ".") {
			return false
		}
		if !codecs.IsImageFile(name, exts) {
			return false
		}
		return !entities.NewSourceImage(path, 0).IsDerivative(config.Suffix)
	}
}

func (uc *WatchImagesUseCase) logInfo(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Info(format, args...)
	}
}

func (uc *WatchImagesUseCase) logDebug(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Debug(format, args...)
	}
}

func (uc *WatchImagesUseCase) logWarning(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Warning(format, args...)
	}
}
