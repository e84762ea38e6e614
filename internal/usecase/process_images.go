package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"imageprep/internal/domain/entities"
	"imageprep/internal/domain/repositories"
	"imageprep/internal/infrastructure/codecs"
)

// ProcessImagesUseCase сценарий пакетной подготовки мобильных версий
type ProcessImagesUseCase struct {
	processor        *ProcessImageUseCase
	fileRepo         repositories.ImageRepository
	configRepo       repositories.ConfigRepository
	logger           repositories.Logger
	reporter         *Reporter
	progressReporter func(entities.ProcessingStatus)
}

// NewProcessImagesUseCase создает новый сценарий пакетной обработки
func NewProcessImagesUseCase(
	processor *ProcessImageUseCase,
	fileRepo repositories.ImageRepository,
	configRepo repositories.ConfigRepository,
	logger repositories.Logger,
) *ProcessImagesUseCase {
	return &ProcessImagesUseCase{
		processor:  processor,
		fileRepo:   fileRepo,
		configRepo: configRepo,
		logger:     logger,
		reporter:   NewReporter(logger),
	}
}

// SetProgressReporter устанавливает функцию для отчета о прогрессе
func (uc *ProcessImagesUseCase) SetProgressReporter(reporter func(entities.ProcessingStatus)) {
	uc.progressReporter = reporter
}

// reportProgress отправляет обновление прогресса
func (uc *ProcessImagesUseCase) reportProgress(status *entities.ProcessingStatus) {
	if uc.progressReporter != nil {
		uc.progressReporter(*status)
	}
}

// Execute обрабатывает все изображения дерева согласно конфигурации
func (uc *ProcessImagesUseCase) Execute(ctx context.Context, config *entities.Config) (entities.RunSummary, error) {
	start := time.Now()
	summary := entities.RunSummary{RunID: uuid.NewString()}

	// Фаза 1: Инициализация
	status := entities.NewProcessingStatus(0)
	status.SetPhase(entities.PhaseInitializing, "Инициализация обработки...")
	uc.reportProgress(status)

	resizeConfig := config.ResizeConfig()
	if err := uc.configRepo.ValidateConfig(resizeConfig); err != nil {
		err = fmt.Errorf("ошибка валидации конфигурации: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return summary, err
	}

	rendererName := config.Resize.Renderer
	if rendererName == "" {
		rendererName = entities.DefaultRenderer
	}
	if current := uc.processor.Renderer(); current == nil || current.Name() != rendererName {
		renderer, err := codecs.RendererByName(rendererName)
		if err != nil {
			status.Fail(err)
			uc.reportProgress(status)
			return summary, err
		}
		uc.processor.SetRenderer(renderer)
	}

	uc.reporter.Banner(summary.RunID, config, uc.processor.Renderer().Name())

	root := config.Scanner.SourceDirectory
	if !uc.fileRepo.DirectoryExists(root) {
		uc.logWarning("⚠️  Исходная директория не найдена: %s", root)
		err := fmt.Errorf("%w: %s", entities.ErrDirectoryNotFound, root)
		status.Fail(err)
		uc.reportProgress(status)
		return summary, err
	}

	// Фаза 2: Поиск изображений
	status.SetPhase(entities.PhaseScanning, "Поиск изображений...")
	uc.reportProgress(status)
	uc.logInfo("🔍 Сканирование директории...")

	total, err := uc.fileRepo.CountImages(root, resizeConfig.NormalizedExtensions())
	if err != nil {
		err = fmt.Errorf("ошибка подсчета изображений: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return summary, err
	}
	summary.TotalImages = total

	candidates, excluded, err := uc.fileRepo.ListCandidates(root, resizeConfig)
	if err != nil {
		err = fmt.Errorf("ошибка получения списка файлов: %w", err)
		status.Fail(err)
		uc.reportProgress(status)
		return summary, err
	}
	for _, result := range excluded {
		uc.reporter.Excluded(result)
		summary.Add(result)
	}
	summary.Candidates = len(candidates)

	if len(candidates) == 0 {
		uc.logInfo("✓ Новых изображений для обработки нет")
		summary.Elapsed = time.Since(start)
		status.Complete()
		uc.reportProgress(status)
		uc.reporter.Summary(summary)
		return summary, nil
	}
	uc.logSuccess("✓ Найдено изображений для обработки: %d", len(candidates))

	// Фаза 3: Масштабирование
	status.TotalFiles = len(candidates)
	status.SetPhase(entities.PhaseResizing, "Построение мобильных версий...")
	uc.reportProgress(status)
	uc.logInfo("")
	uc.logInfo("🔄 Начало обработки...")
	uc.logInfo(separator)

	results := make([]entities.ProcessResult, len(candidates))
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(config.Workers())

	for i, src := range candidates {
		// Отмена контекста останавливает планирование новых файлов
		if ctx.Err() != nil {
			break
		}

		i, src := i, src
		g.Go(func() error {
			result := uc.processSafe(src, resizeConfig)
			results[i] = result

			mu.Lock()
			defer mu.Unlock()
			status.SetCurrentFile(src.Path, src.Size)
			status.AddResult(result)
			uc.reporter.FileResult(status.ProcessedFiles, status.TotalFiles, result)
			uc.reportProgress(status)
			return nil
		})
	}
	_ = g.Wait()

	for _, result := range results {
		summary.Add(result)
	}
	summary.Elapsed = time.Since(start)

	status.Complete()
	uc.reportProgress(status)
	uc.reporter.Summary(summary)

	if err := ctx.Err(); err != nil {
		return summary, fmt.Errorf("обработка прервана: %w", err)
	}
	if summary.HasFailures() && config.Processing.FailOnError {
		return summary, fmt.Errorf("%w: %d", entities.ErrRunHadFailures, summary.Failed)
	}
	return summary, nil
}

// processSafe превращает панику при обработке файла в ошибку этого файла
func (uc *ProcessImagesUseCase) processSafe(src entities.SourceImage, config entities.ResizeConfig) (result entities.ProcessResult) {
	defer func() {
		if r := recover(); r != nil {
			result = entities.Failed(src, fmt.Errorf("паника при обработке: %v", r))
		}
	}()
	return uc.processor.Process(src, config)
}

// Методы для логирования
func (uc *ProcessImagesUseCase) logInfo(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Info(format, args...)
	}
}

func (uc *ProcessImagesUseCase) logSuccess(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Success(format, args...)
	}
}

func (uc *ProcessImagesUseCase) logWarning(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Warning(format, args...)
	}
}
