package entities

import "time"

// Config представляет конфигурацию приложения
type Config struct {
	Scanner    ScannerConfig    `yaml:"scanner"`
	Resize     AppResizeConfig  `yaml:"resize"`
	Processing ProcessingConfig `yaml:"processing"`
	Output     OutputConfig     `yaml:"output"`
}

// ScannerConfig настройки сканирования директорий
type ScannerConfig struct {
	SourceDirectory string   `yaml:"source_directory"`
	Extensions      []string `yaml:"extensions"`
}

// AppResizeConfig настройки построения мобильных версий
type AppResizeConfig struct {
	Policy       string  `yaml:"policy"` // bounding_box | width_priority
	MaxWidth     int     `yaml:"max_width"`
	MaxHeight    int     `yaml:"max_height"`
	Suffix       string  `yaml:"suffix"`
	Quality      float64 `yaml:"quality"` // 0.0-1.0
	GenerateWebP bool    `yaml:"generate_webp"`
	Renderer     string  `yaml:"renderer"` // resize | imaging
}

// ProcessingConfig настройки обработки
type ProcessingConfig struct {
	ParallelWorkers int  `yaml:"parallel_workers"`
	FailOnError     bool `yaml:"fail_on_error"`
}

// OutputConfig настройки вывода
type OutputConfig struct {
	LogLevel     string `yaml:"log_level"`
	ProgressBar  bool   `yaml:"progress_bar"`
	LogToFile    bool   `yaml:"log_to_file"`
	LogFileName  string `yaml:"log_file_name"`
	LogMaxSizeMB int    `yaml:"log_max_size_mb"`
}

// ResizeConfig собирает доменную конфигурацию масштабирования
func (c *Config) ResizeConfig() ResizeConfig {
	rc := NewResizeConfig()
	rc.MaxWidth = c.Resize.MaxWidth
	rc.MaxHeight = c.Resize.MaxHeight
	rc.Suffix = c.Resize.Suffix
	rc.Quality = c.Resize.Quality
	rc.GenerateWebP = c.Resize.GenerateWebP
	rc.Policy = c.Resize.Policy
	if len(c.Scanner.Extensions) > 0 {
		rc.Extensions = append([]string(nil), c.Scanner.Extensions...)
	}
	return rc
}

// Validate проверяет корректность конфигурации приложения
func (c *Config) Validate() error {
	if err := c.ResizeConfig().Validate(); err != nil {
		return err
	}
	switch c.Resize.Renderer {
	case "", "resize", "imaging":
	default:
		return ErrUnknownRenderer
	}
	if c.Processing.ParallelWorkers < 0 {
		return ErrInvalidWorkers
	}
	return nil
}

// Workers возвращает количество воркеров, не меньше одного
func (c *Config) Workers() int {
	if c.Processing.ParallelWorkers <= 0 {
		return 1
	}
	return c.Processing.ParallelWorkers
}

// ProcessingStatus статус обработки
type ProcessingStatus struct {
	// Текущая фаза обработки
	Phase ProcessingPhase

	// Информация о текущем файле
	CurrentFile     string
	CurrentFileSize int64

	// Общая статистика
	TotalFiles      int
	ProcessedFiles  int
	SuccessfulFiles int
	FailedFiles     int
	SkippedFiles    int

	// Прогресс
	Progress float64

	// Статистика размеров
	TotalOriginalSize   int64
	TotalDerivativeSize int64
	AverageReduction    float64

	// Текущий результат
	LastResult *ProcessResult

	// Время выполнения
	StartTime     time.Time
	ElapsedTime   time.Duration
	EstimatedTime time.Duration

	// Состояние
	IsComplete bool
	Error      error

	// Сообщение для UI
	Message string
}

// ProcessingPhase фаза обработки
type ProcessingPhase int

const (
	PhaseInitializing ProcessingPhase = iota
	PhaseScanning
	PhaseResizing
	PhaseCompleted
	PhaseFailed
)

// UIScreen типы экранов UI
type UIScreen int

const (
	UIScreenMenu UIScreen = iota
	UIScreenConfig
	UIScreenProcessing
)

// NewProcessingStatus создает новый статус обработки
func NewProcessingStatus(totalFiles int) *ProcessingStatus {
	return &ProcessingStatus{
		Phase:      PhaseInitializing,
		TotalFiles: totalFiles,
		StartTime:  time.Now(),
	}
}

// UpdateProgress обновляет прогресс обработки
func (ps *ProcessingStatus) UpdateProgress() {
	if ps.TotalFiles > 0 {
		ps.Progress = float64(ps.ProcessedFiles) / float64(ps.TotalFiles) * 100
	}

	ps.ElapsedTime = time.Since(ps.StartTime)

	// Оценка оставшегося времени
	if ps.ProcessedFiles > 0 && ps.ProcessedFiles < ps.TotalFiles {
		avgTimePerFile := ps.ElapsedTime / time.Duration(ps.ProcessedFiles)
		remainingFiles := ps.TotalFiles - ps.ProcessedFiles
		ps.EstimatedTime = avgTimePerFile * time.Duration(remainingFiles)
	}
}

// AddResult добавляет результат обработки файла
func (ps *ProcessingStatus) AddResult(result ProcessResult) {
	ps.ProcessedFiles++
	ps.LastResult = &result

	switch result.Status {
	case StatusProcessed:
		ps.SuccessfulFiles++
		ps.TotalOriginalSize += result.Source.Size
		ps.TotalDerivativeSize += result.NewSize

		if ps.TotalOriginalSize > 0 {
			ps.AverageReduction = (float64(ps.TotalOriginalSize) - float64(ps.TotalDerivativeSize)) / float64(ps.TotalOriginalSize) * 100
		}
	case StatusSkipped:
		ps.SkippedFiles++
	default:
		ps.FailedFiles++
	}

	ps.UpdateProgress()
}

// SetPhase устанавливает фазу обработки
func (ps *ProcessingStatus) SetPhase(phase ProcessingPhase, message string) {
	ps.Phase = phase
	ps.Message = message
}

// SetCurrentFile устанавливает текущий обрабатываемый файл
func (ps *ProcessingStatus) SetCurrentFile(filePath string, size int64) {
	ps.CurrentFile = filePath
	ps.CurrentFileSize = size
}

// Complete завершает обработку
func (ps *ProcessingStatus) Complete() {
	ps.IsComplete = true
	ps.Phase = PhaseCompleted
	ps.Progress = 100
	ps.ElapsedTime = time.Since(ps.StartTime)
	ps.EstimatedTime = 0
}

// Fail отмечает обработку как неудачную
func (ps *ProcessingStatus) Fail(err error) {
	ps.IsComplete = true
	ps.Phase = PhaseFailed
	ps.Error = err
	ps.ElapsedTime = time.Since(ps.StartTime)
}

// String возвращает название фазы
func (phase ProcessingPhase) String() string {
	switch phase {
	case PhaseInitializing:
		return "Инициализация"
	case PhaseScanning:
		return "Сканирование изображений"
	case PhaseResizing:
		return "Создание мобильных версий"
	case PhaseCompleted:
		return "Завершено"
	case PhaseFailed:
		return "Ошибка"
	default:
		return "Неизвестно"
	}
}

// FormatElapsedTime форматирует время выполнения
func (ps *ProcessingStatus) FormatElapsedTime() string {
	return formatDuration(ps.ElapsedTime)
}

// FormatEstimatedTime форматирует оставшееся время
func (ps *ProcessingStatus) FormatEstimatedTime() string {
	if ps.EstimatedTime == 0 {
		return "N/A"
	}
	return formatDuration(ps.EstimatedTime)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return "< 1 сек"
	}
	return d.Round(time.Second).String()
}
