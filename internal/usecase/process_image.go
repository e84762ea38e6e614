package usecases

import (
	"errors"
	"fmt"
	"image"
	"os"
	"time"

	"imageprep/internal/domain/entities"
	"imageprep/internal/domain/repositories"
	"imageprep/internal/infrastructure/codecs"
)

// ProcessImageUseCase строит производные файлы для одного исходного изображения
type ProcessImageUseCase struct {
	decoder    repositories.ImageDecoder
	renderer   repositories.ImageRenderer
	encoder    repositories.ImageEncoder
	webp       repositories.AlternateEncoder
	fileRepo   repositories.ImageRepository
	configRepo repositories.ConfigRepository
	logger     repositories.Logger
}

// NewProcessImageUseCase создает сценарий обработки одного изображения
func NewProcessImageUseCase(
	decoder repositories.ImageDecoder,
	renderer repositories.ImageRenderer,
	encoder repositories.ImageEncoder,
	webp repositories.AlternateEncoder,
	fileRepo repositories.ImageRepository,
	configRepo repositories.ConfigRepository,
	logger repositories.Logger,
) *ProcessImageUseCase {
	return &ProcessImageUseCase{
		decoder:    decoder,
		renderer:   renderer,
		encoder:    encoder,
		webp:       webp,
		fileRepo:   fileRepo,
		configRepo: configRepo,
		logger:     logger,
	}
}

// Renderer возвращает текущий рендерер
func (uc *ProcessImageUseCase) Renderer() repositories.ImageRenderer {
	return uc.renderer
}

// SetRenderer меняет рендерер. Вызывать только между запусками.
func (uc *ProcessImageUseCase) SetRenderer(renderer repositories.ImageRenderer) {
	uc.renderer = renderer
}

// Process обрабатывает одно изображение. Ошибка файла не выходит наружу,
// она записывается в результат.
func (uc *ProcessImageUseCase) Process(src entities.SourceImage, config entities.ResizeConfig) (result entities.ProcessResult) {
	start := time.Now()
	defer func() {
		result.Duration = time.Since(start)
	}()

	policy, err := uc.configRepo.GetResizePolicy(config.Policy)
	if err != nil {
		return entities.Failed(src, err)
	}

	// Декодирование
	img, decodedFormat, err := uc.decoder.DecodeFile(src.Path)
	if err != nil {
		if errors.Is(err, entities.ErrInvalidDimensions) {
			return entities.Skipped(src, entities.SkipUnreadable)
		}
		return entities.Failed(src, err)
	}

	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	// Планирование
	plan, err := policy.Plan(width, height, config)
	if err != nil {
		return entities.Failed(src, err)
	}
	if !plan.Needed {
		result = entities.Skipped(src, entities.SkipAlreadySmall)
		result.OriginalWidth, result.OriginalHeight = width, height
		return result
	}

	// Формат вывода определяется расширением, чтобы содержимое совпадало с именем
	format := codecs.GetImageFormat(src.Path)
	if format == "" {
		format = decodedFormat
	}

	result = entities.Processed(src)
	result.OriginalWidth, result.OriginalHeight = width, height
	result.NewWidth, result.NewHeight = plan.Width, plan.Height

	// Рендеринг
	resized := uc.renderer.Render(img, plan.Width, plan.Height, codecs.SupportsAlpha(format))

	// Мобильная версия в исходном формате
	mobilePath := src.MobilePath(config.Suffix)
	var mobile *entities.Derivative
	if format == codecs.FormatWebP {
		mobile, err = uc.writeWebP(mobilePath, resized, entities.DerivativeMobile, plan, config.Quality)
	} else {
		mobile, err = uc.writeStandard(mobilePath, resized, format, plan, config.Quality)
	}
	if err != nil {
		return uc.fail(result, err)
	}
	if mobile == nil {
		// Резервный PNG для WebP источника уже лежит на диске
		skipped := entities.Skipped(src, entities.SkipDerivativeExists)
		skipped.OriginalWidth, skipped.OriginalHeight = width, height
		return skipped
	}
	result.Derivatives = append(result.Derivatives, *mobile)
	result.NewSize = mobile.Size

	if config.GenerateWebP && format != codecs.FormatWebP {
		// Мобильная WebP версия из уменьшенного буфера
		d, err := uc.writeWebP(src.MobileWebPPath(config.Suffix), resized, entities.DerivativeMobileWebP, plan, config.Quality)
		if err != nil {
			return uc.fail(result, err)
		}
		if d != nil {
			result.Derivatives = append(result.Derivatives, *d)
		}

		// WebP копия исходного размера, если ее еще нет
		if originalPath := src.OriginalWebPPath(); !uc.fileRepo.FileExists(originalPath) {
			full := entities.ResizePlan{Width: width, Height: height, Scale: 1}
			d, err := uc.writeWebP(originalPath, img, entities.DerivativeOriginalWebP, full, config.Quality)
			if err != nil {
				return uc.fail(result, err)
			}
			if d != nil {
				result.Derivatives = append(result.Derivatives, *d)
			}
		}
	}

	return result
}

// fail превращает частичный результат в ошибку, сохраняя уже созданные файлы
func (uc *ProcessImageUseCase) fail(partial entities.ProcessResult, err error) entities.ProcessResult {
	partial.Status = entities.StatusFailed
	partial.Err = err
	return partial
}

func (uc *ProcessImageUseCase) writeStandard(path string, img image.Image, format string, plan entities.ResizePlan, quality float64) (*entities.Derivative, error) {
	if err := uc.encoder.EncodeFile(path, img, format, quality); err != nil {
		return nil, fmt.Errorf("ошибка записи %s: %w", path, err)
	}
	return uc.derivative(entities.DerivativeMobile, path, format, plan, false)
}

// writeWebP пишет WebP, а при недоступном или сбойном кодеке пишет PNG рядом.
// Если резервный путь занят, файл пропускается: существующие файлы не перезаписываются.
func (uc *ProcessImageUseCase) writeWebP(path string, img image.Image, kind entities.DerivativeKind, plan entities.ResizePlan, quality float64) (*entities.Derivative, error) {
	outcome, err := codecs.EncodeAlternateFile(uc.webp, path, img, quality)
	if outcome == repositories.Encoded {
		return uc.derivative(kind, path, codecs.FormatWebP, plan, false)
	}

	fallback := entities.FallbackPath(path)
	if uc.fileRepo.FileExists(fallback) {
		uc.logWarning("⚠️ WebP не записан (%s: %v), %s уже существует, пропуск", outcome, err, fallback)
		return nil, nil
	}

	uc.logWarning("⚠️ WebP не записан (%s: %v), резервная копия PNG: %s", outcome, err, fallback)
	if err := uc.encoder.EncodeFile(fallback, img, codecs.FormatPNG, quality); err != nil {
		return nil, fmt.Errorf("ошибка записи резервного PNG %s: %w", fallback, err)
	}
	return uc.derivative(kind, fallback, codecs.FormatPNG, plan, true)
}

func (uc *ProcessImageUseCase) derivative(kind entities.DerivativeKind, path, format string, plan entities.ResizePlan, fallback bool) (*entities.Derivative, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("не удалось получить размер %s: %w", path, err)
	}
	return &entities.Derivative{
		Kind:     kind,
		Path:     path,
		Format:   format,
		Width:    plan.Width,
		Height:   plan.Height,
		Size:     info.Size(),
		Fallback: fallback,
	}, nil
}

func (uc *ProcessImageUseCase) logWarning(format string, args ...interface{}) {
	if uc.logger != nil {
		uc.logger.Warning(format, args...)
	}
}
