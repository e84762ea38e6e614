package entities

import (
	"path/filepath"
	"strings"
	"time"
)

// SourceImage представляет исходное изображение на диске
type SourceImage struct {
	Path string
	Name string
	Ext  string // Расширение в нижнем регистре без точки
	Size int64
}

// NewSourceImage создает описание исходного изображения по пути
func NewSourceImage(path string, size int64) SourceImage {
	name := filepath.Base(path)
	return SourceImage{
		Path: path,
		Name: name,
		Ext:  strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."),
		Size: size,
	}
}

// BaseName возвращает имя файла без расширения
func (s SourceImage) BaseName() string {
	return strings.TrimSuffix(s.Name, filepath.Ext(s.Name))
}

// Dir возвращает директорию исходного файла
func (s SourceImage) Dir() string {
	return filepath.Dir(s.Path)
}

// IsDerivative проверяет, является ли файл уже производным
func (s SourceImage) IsDerivative(suffix string) bool {
	return suffix != "" && strings.Contains(s.Name, suffix)
}

// MobilePath путь мобильной версии в исходном формате: <base><suffix>.<ext>
func (s SourceImage) MobilePath(suffix string) string {
	return filepath.Join(s.Dir(), s.BaseName()+suffix+filepath.Ext(s.Name))
}

// MobileWebPPath путь мобильной WebP версии: <base><suffix>.webp
func (s SourceImage) MobileWebPPath(suffix string) string {
	return filepath.Join(s.Dir(), s.BaseName()+suffix+".webp")
}

// OriginalWebPPath путь WebP копии исходного размера: <base>.webp
func (s SourceImage) OriginalWebPPath() string {
	return filepath.Join(s.Dir(), s.BaseName()+".webp")
}

// FallbackPath заменяет расширение на .png для резервной записи
func FallbackPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".png"
}

// DerivativeKind тип производного файла
type DerivativeKind string

const (
	DerivativeMobile       DerivativeKind = "mobile"
	DerivativeMobileWebP   DerivativeKind = "mobile_webp"
	DerivativeOriginalWebP DerivativeKind = "original_webp"
)

// Derivative производный файл, созданный конвейером
type Derivative struct {
	Kind     DerivativeKind
	Path     string
	Format   string
	Width    int
	Height   int
	Size     int64
	Fallback bool // true, если вместо WebP записан PNG
}

// ProcessStatus итоговое состояние обработки одного файла
type ProcessStatus string

const (
	StatusProcessed ProcessStatus = "processed"
	StatusSkipped   ProcessStatus = "skipped"
	StatusFailed    ProcessStatus = "failed"
)

// SkipReason причина пропуска файла
type SkipReason string

const (
	SkipNone              SkipReason = ""
	SkipAlreadyDerivative SkipReason = "already_derivative"
	SkipDerivativeExists  SkipReason = "derivative_exists"
	SkipAlreadySmall      SkipReason = "already_small"
	SkipUnreadable        SkipReason = "unreadable"
)

// Description возвращает понятное описание причины пропуска
func (r SkipReason) Description() string {
	switch r {
	case SkipAlreadyDerivative:
		return "уже является производным файлом"
	case SkipDerivativeExists:
		return "мобильная версия уже существует"
	case SkipAlreadySmall:
		return "уже меньше мобильного размера"
	case SkipUnreadable:
		return "не удалось прочитать изображение"
	default:
		return ""
	}
}

// ProcessResult результат обработки одного исходного изображения
type ProcessResult struct {
	Source         SourceImage
	Status         ProcessStatus
	Reason         SkipReason
	Err            error
	OriginalWidth  int
	OriginalHeight int
	NewWidth       int
	NewHeight      int
	NewSize        int64 // Размер мобильной версии в исходном формате
	Derivatives    []Derivative
	Duration       time.Duration
}

// Processed создает успешный результат
func Processed(src SourceImage) ProcessResult {
	return ProcessResult{Source: src, Status: StatusProcessed}
}

// Skipped создает результат пропуска с причиной
func Skipped(src SourceImage, reason SkipReason) ProcessResult {
	return ProcessResult{Source: src, Status: StatusSkipped, Reason: reason}
}

// Failed создает результат ошибки
func Failed(src SourceImage, err error) ProcessResult {
	return ProcessResult{Source: src, Status: StatusFailed, Err: err}
}

// ReductionPercent процент уменьшения размера, усеченный до целого
func (r ProcessResult) ReductionPercent() int {
	if r.Source.Size <= 0 {
		return 0
	}
	return int(float64(r.Source.Size-r.NewSize) / float64(r.Source.Size) * 100)
}

// DerivativeBytes суммарный размер всех созданных файлов
func (r ProcessResult) DerivativeBytes() int64 {
	var total int64
	for _, d := range r.Derivatives {
		total += d.Size
	}
	return total
}

// RunSummary итоги одного запуска конвейера
type RunSummary struct {
	RunID           string
	Processed       int
	Skipped         int
	Failed          int
	Candidates      int
	TotalImages     int
	OriginalBytes   int64
	DerivativeBytes int64
	Derivatives     int
	Elapsed         time.Duration
}

// Add учитывает результат обработки одного файла
func (s *RunSummary) Add(result ProcessResult) {
	switch result.Status {
	case StatusProcessed:
		s.Processed++
		s.OriginalBytes += result.Source.Size
		s.DerivativeBytes += result.NewSize
		s.Derivatives += len(result.Derivatives)
	case StatusSkipped:
		s.Skipped++
	case StatusFailed:
		s.Failed++
	}
}

// SavedBytes сэкономленный объем по мобильным версиям
func (s RunSummary) SavedBytes() int64 {
	return s.OriginalBytes - s.DerivativeBytes
}

// HasFailures сообщает, были ли ошибки в запуске
func (s RunSummary) HasFailures() bool {
	return s.Failed > 0
}
