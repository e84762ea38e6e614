package usecases

import (
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"imageprep/internal/domain/entities"
	"imageprep/internal/domain/repositories"
)

const (
	boxTop    = "╔════════════════════════════════════════════════════════════"
	boxMiddle = "╠════════════════════════════════════════════════════════════"
	boxBottom = "╚════════════════════════════════════════════════════════════"
	separator = "─────────────────────────────────────────────────────────────"
)

// Reporter выводит построчную диагностику и итоговую сводку запуска.
// Построчные вызовы сериализует вызывающий.
type Reporter struct {
	logger repositories.Logger
}

// NewReporter создает новый репортер
func NewReporter(logger repositories.Logger) *Reporter {
	return &Reporter{logger: logger}
}

// Banner печатает параметры запуска
func (r *Reporter) Banner(runID string, config *entities.Config, renderer string) {
	r.info(boxTop)
	r.info("║ Подготовка мобильных версий изображений")
	r.info(boxMiddle)
	r.info("║ Запуск: %s", runID)
	r.info("║ Исходная директория: %s", config.Scanner.SourceDirectory)
	r.info("║ Политика: %s", config.Resize.Policy)
	r.info("║ Размер: %dx%d", config.Resize.MaxWidth, config.Resize.MaxHeight)
	r.info("║ Суффикс: %s", config.Resize.Suffix)
	r.info("║ Качество: %.2f", config.Resize.Quality)
	r.info("║ WebP: %t", config.Resize.GenerateWebP)
	r.info("║ Рендерер: %s", renderer)
	r.info("║ Параллельных воркеров: %d", config.Workers())
	r.info(boxBottom)
}

// Excluded сообщает о файлах, отброшенных при поиске
func (r *Reporter) Excluded(result entities.ProcessResult) {
	if r.logger == nil {
		return
	}
	r.logger.Debug("⏭️ %s: %s", result.Source.Path, result.Reason.Description())
}

// FileResult печатает строку результата одного файла
func (r *Reporter) FileResult(index, total int, result entities.ProcessResult) {
	if r.logger == nil {
		return
	}

	name := result.Source.Name
	switch result.Status {
	case entities.StatusProcessed:
		mobile := name
		if len(result.Derivatives) > 0 {
			mobile = filepath.Base(result.Derivatives[0].Path)
		}
		r.logger.Success("[%d/%d] ✅ %s -> %s (%dx%d -> %dx%d, %d%% smaller)",
			index, total, name, mobile,
			result.OriginalWidth, result.OriginalHeight,
			result.NewWidth, result.NewHeight,
			result.ReductionPercent())
		for _, d := range result.Derivatives[min(1, len(result.Derivatives)):] {
			note := ""
			if d.Fallback {
				note = " (PNG вместо WebP)"
			}
			r.logger.Info("    └─ %s, %s%s", filepath.Base(d.Path), humanize.Bytes(uint64(d.Size)), note)
		}
	case entities.StatusSkipped:
		r.logger.Info("[%d/%d] ⏭️ %s: %s", index, total, name, result.Reason.Description())
	default:
		r.logger.Error("[%d/%d] ❌ %s: %v", index, total, name, result.Err)
	}
}

// Summary печатает итоги запуска
func (r *Reporter) Summary(summary entities.RunSummary) {
	r.info("")
	r.info(boxTop)
	r.info("║ Обработка завершена")
	r.info(boxMiddle)
	r.info("║ Время выполнения: %s", summary.Elapsed.Round(time.Millisecond))
	r.info("║ Изображений в дереве: %d", summary.TotalImages)
	r.info("║ Кандидатов: %d", summary.Candidates)
	if r.logger != nil {
		r.logger.Success("║   • Обработано: %d", summary.Processed)
	}
	r.info("║   • Пропущено: %d", summary.Skipped)
	if summary.Failed > 0 && r.logger != nil {
		r.logger.Error("║   • Ошибок: %d", summary.Failed)
	} else {
		r.info("║   • Ошибок: %d", summary.Failed)
	}

	if summary.OriginalBytes > 0 {
		r.info(boxMiddle)
		r.info("║   • Исходный размер: %s", humanize.Bytes(uint64(summary.OriginalBytes)))
		r.info("║   • Мобильные версии: %s", humanize.Bytes(uint64(summary.DerivativeBytes)))
		if saved := summary.SavedBytes(); saved > 0 {
			r.info("║   • Сэкономлено: %s", humanize.Bytes(uint64(saved)))
		}
		r.info("║   • Создано файлов: %d", summary.Derivatives)
	}
	r.info(boxBottom)
}

func (r *Reporter) info(format string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Info(format, args...)
	}
}
