package tui

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"imageprep/internal/domain/entities"
	"imageprep/internal/domain/repositories"
)

// UI Configuration constants
const (
	MaxLogBufferSize   = 1000
	LogBatchSize       = 20
	LogFlushInterval   = 50 * time.Millisecond
	ProgressBarWidth   = 40
	MaxFileNameLength  = 60
	MaxFileNameDisplay = 57
	ProgressViewHeight = 11
)

// Порядок элементов формы конфигурации
const (
	formSourceDirectory = iota
	formPolicy
	formMaxWidth
	formMaxHeight
	formSuffix
	formQuality
	formGenerateWebP
	formRenderer
	formWorkers
)

var (
	policyOptions   = []string{entities.PolicyBoundingBox, entities.PolicyWidthPriority}
	rendererOptions = []string{"resize", "imaging"}
)

// Manager управляет TUI интерфейсом
type Manager struct {
	app           *tview.Application
	pages         *tview.Pages
	currentScreen entities.UIScreen

	// UI компоненты
	mainMenu     *tview.List
	configForm   *tview.Form
	progressView *tview.TextView
	logView      *tview.TextView

	// Callbacks
	onStartProcessing func()

	// Состояние
	configRepo   repositories.AppConfigRepository
	configPath   string
	config       entities.Config
	logBuffer    []string
	statusMutex  sync.RWMutex
	isProcessing bool

	// Оптимизированный батчинг логов через канал
	logChan     chan string
	logDone     chan struct{}
	cleanupOnce sync.Once
}

// NewManager создает новый менеджер TUI
func NewManager(configRepo repositories.AppConfigRepository, configPath string, initial *entities.Config) *Manager {
	m := &Manager{
		app:        tview.NewApplication(),
		pages:      tview.NewPages(),
		configRepo: configRepo,
		configPath: configPath,
		logBuffer:  make([]string, 0, MaxLogBufferSize),
		logChan:    make(chan string, 100), // Buffered channel для батчинга
		logDone:    make(chan struct{}),
	}
	if initial != nil {
		m.config = cloneConfig(initial)
	}
	// Запускаем горутину обработки логов
	go m.logProcessor()
	return m
}

// Initialize инициализирует TUI
func (m *Manager) Initialize() {
	m.createUI()
	m.setupKeyBindings()
}

// Run запускает TUI
func (m *Manager) Run() error {
	return m.app.SetRoot(m.pages, true).EnableMouse(true).Run()
}

// Stop завершает цикл приложения, Run возвращает управление
func (m *Manager) Stop() {
	m.app.Stop()
}

// SetOnStartProcessing устанавливает callback для начала обработки
func (m *Manager) SetOnStartProcessing(callback func()) {
	m.onStartProcessing = callback
}

// SendStatusUpdate отправляет обновление статуса
func (m *Manager) SendStatusUpdate(status entities.ProcessingStatus) {
	m.updateProgress(status)
}

// loadConfig перечитывает конфигурацию из файла
func (m *Manager) loadConfig() {
	if m.configRepo == nil {
		return
	}
	config, err := m.configRepo.Load(m.configPath)
	if err != nil {
		m.AddLog("warning", fmt.Sprintf("Не удалось загрузить конфигурацию: %v", err))
		return
	}
	m.config = *config
}

// saveConfig сохраняет конфигурацию
func (m *Manager) saveConfig() {
	if m.configRepo == nil {
		return
	}
	if err := m.config.Validate(); err != nil {
		m.AddLog("error", fmt.Sprintf("Конфигурация не сохранена: %v", err))
		return
	}
	if err := m.configRepo.Save(m.configPath, &m.config); err != nil {
		m.AddLog("error", fmt.Sprintf("Не удалось сохранить конфигурацию: %v", err))
	}
}

// createUI создает пользовательский интерфейс
func (m *Manager) createUI() {
	m.createMainMenu()
	m.createConfigScreen()
	m.createProcessingScreen()

	m.pages.AddPage("menu", m.mainMenu, true, true)
	m.pages.AddPage("config", m.configForm, true, false)
	m.pages.AddPage("processing", m.createProcessingLayout(), true, false)

	m.currentScreen = entities.UIScreenMenu
}

// createMainMenu создает главное меню
func (m *Manager) createMainMenu() {
	m.mainMenu = tview.NewList().
		AddItem("🚀 Построить мобильные версии", "Обработать все изображения исходной директории", '1', func() {
			m.startProcessing()
		}).
		AddItem("⚙️ Конфигурация", "Настроить размеры, качество и WebP", '2', func() {
			m.switchToScreen(entities.UIScreenConfig)
		}).
		AddItem("❌ Выход", "Закрыть приложение", 'q', func() {
			m.Cleanup()
			m.app.Stop()
		})

	m.mainMenu.SetBorder(true).
		SetTitle("🖼️ Image Prep - Главное меню").
		SetTitleAlign(tview.AlignCenter)

	// Настраиваем стиль
	m.mainMenu.SetSelectedBackgroundColor(tcell.ColorDarkBlue).
		SetSelectedTextColor(tcell.ColorWhite).
		SetMainTextColor(tcell.ColorWhite).
		SetSecondaryTextColor(tcell.ColorGray)
}

// createConfigScreen создает экран конфигурации
func (m *Manager) createConfigScreen() {
	m.configForm = tview.NewForm().
		AddInputField("Исходная директория", m.config.Scanner.SourceDirectory, 60, nil, func(text string) {
			m.config.Scanner.SourceDirectory = text
		}).
		AddDropDown("Политика", policyOptions, optionIndex(policyOptions, m.config.Resize.Policy), func(option string, _ int) {
			m.config.Resize.Policy = option
		}).
		AddInputField("Макс. ширина (px)", strconv.Itoa(m.config.Resize.MaxWidth), 10, tview.InputFieldInteger, func(text string) {
			if v, err := strconv.Atoi(text); err == nil && v > 0 {
				m.config.Resize.MaxWidth = v
			}
		}).
		AddInputField("Макс. высота (px)", strconv.Itoa(m.config.Resize.MaxHeight), 10, tview.InputFieldInteger, func(text string) {
			if v, err := strconv.Atoi(text); err == nil && v > 0 {
				m.config.Resize.MaxHeight = v
			}
		}).
		AddInputField("Суффикс", m.config.Resize.Suffix, 20, nil, func(text string) {
			if strings.TrimSpace(text) != "" {
				m.config.Resize.Suffix = text
			}
		}).
		AddInputField("Качество (0.0-1.0)", formatQuality(m.config.Resize.Quality), 10, tview.InputFieldFloat, func(text string) {
			if q, err := strconv.ParseFloat(text, 64); err == nil && q >= 0 && q <= 1 {
				m.config.Resize.Quality = q
			}
		}).
		AddCheckbox("Создавать WebP", m.config.Resize.GenerateWebP, func(checked bool) {
			m.config.Resize.GenerateWebP = checked
		}).
		AddDropDown("Рендерер", rendererOptions, optionIndex(rendererOptions, m.config.Resize.Renderer), func(option string, _ int) {
			m.config.Resize.Renderer = option
		}).
		AddInputField("Параллельных воркеров", strconv.Itoa(m.config.Workers()), 10, tview.InputFieldInteger, func(text string) {
			if v, err := strconv.Atoi(text); err == nil && v > 0 {
				m.config.Processing.ParallelWorkers = v
			}
		}).
		AddButton("Сохранить", func() {
			m.saveConfig()
			m.switchToScreen(entities.UIScreenMenu)
			// Позиционируемся на пункте "Конфигурация" (индекс 1)
			m.mainMenu.SetCurrentItem(1)
		})

	m.configForm.SetBorder(true).
		SetTitle("🖼️ Image Prep - Конфигурация (ESC - выйти без сохранения)").
		SetTitleAlign(tview.AlignCenter)

	// Обработка ESC для выхода без сохранения
	m.configForm.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyEscape {
			// Перезагружаем конфигурацию из файла (отменяем изменения)
			m.loadConfig()
			m.switchToScreen(entities.UIScreenMenu)
			return nil
		}
		return event
	})
}

// createProcessingScreen создает экран обработки
func (m *Manager) createProcessingScreen() {
	m.progressView = tview.NewTextView().
		SetDynamicColors(true).
		SetRegions(true).
		SetScrollable(true)

	m.progressView.SetBorder(true).
		SetTitle("📊 Прогресс обработки").
		SetTitleAlign(tview.AlignCenter)

	m.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(MaxLogBufferSize)

	m.logView.SetBorder(true).
		SetTitle("📋 Журнал событий").
		SetTitleAlign(tview.AlignCenter)
}

// createProcessingLayout создает layout для экрана обработки
func (m *Manager) createProcessingLayout() *tview.Flex {
	return tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(m.logView, 0, 1, false).
		AddItem(m.progressView, ProgressViewHeight, 0, false)
}

// setupKeyBindings настраивает горячие клавиши
func (m *Manager) setupKeyBindings() {
	m.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyF1:
			m.switchToScreen(entities.UIScreenMenu)
			return nil
		case tcell.KeyF2:
			m.switchToScreen(entities.UIScreenConfig)
			return nil
		case tcell.KeyF3:
			if m.isProcessing {
				m.switchToScreen(entities.UIScreenProcessing)
			}
			return nil
		case tcell.KeyEscape:
			// ESC работает по-разному в зависимости от экрана
			if m.currentScreen == entities.UIScreenConfig {
				// В конфигурации ESC обрабатывается локально формой
				return event
			} else if m.currentScreen != entities.UIScreenMenu {
				m.switchToScreen(entities.UIScreenMenu)
				return nil
			}
		}

		// Обработка числовых клавиш для меню
		if m.currentScreen == entities.UIScreenMenu {
			switch event.Rune() {
			case '1':
				m.startProcessing()
				return nil
			case '2':
				m.switchToScreen(entities.UIScreenConfig)
				return nil
			case 'q', 'Q':
				m.Cleanup()
				m.app.Stop()
				return nil
			}
		}

		return event
	})
}

// switchToScreen переключает на указанный экран
func (m *Manager) switchToScreen(screen entities.UIScreen) {
	m.statusMutex.Lock()
	defer m.statusMutex.Unlock()

	m.currentScreen = screen

	switch screen {
	case entities.UIScreenMenu:
		m.pages.SwitchToPage("menu")
	case entities.UIScreenConfig:
		// Форма показывает текущие значения, включая флаги командной строки
		m.refreshConfigForm()
		m.pages.SwitchToPage("config")
	case entities.UIScreenProcessing:
		m.pages.SwitchToPage("processing")
	}
}

// startProcessing начинает обработку
func (m *Manager) startProcessing() {
	if m.isProcessing {
		m.switchToScreen(entities.UIScreenProcessing)
		return
	}
	m.saveConfig()
	m.isProcessing = true
	m.switchToScreen(entities.UIScreenProcessing)

	if m.onStartProcessing != nil {
		go m.onStartProcessing()
	}
}

// updateProgress обновляет прогресс
func (m *Manager) updateProgress(status entities.ProcessingStatus) {
	if m.progressView == nil {
		return
	}
	if status.IsComplete {
		m.isProcessing = false
	}

	progressText := m.formatProgress(status)

	// Обновляем UI потокобезопасно через QueueUpdateDraw
	m.app.QueueUpdateDraw(func() {
		m.progressView.SetText(progressText)
	})
}

// formatProgress формирует текст панели прогресса
func (m *Manager) formatProgress(status entities.ProcessingStatus) string {
	var b strings.Builder

	phase := status.Phase.String()
	if status.Message != "" {
		phase = status.Message
	}
	fmt.Fprintf(&b, "[yellow]⚙️  Фаза:[white] %s\n\n", phase)

	// Корректное усечение имени файла с учетом UTF-8
	current := m.truncateFileName(filepath.Base(status.CurrentFile), MaxFileNameLength, MaxFileNameDisplay)
	fmt.Fprintf(&b, "[yellow]📁 Текущий файл:[white] %s\n", current)
	if status.CurrentFileSize > 0 {
		fmt.Fprintf(&b, "[dim]   Размер: %s[white]\n", humanize.Bytes(uint64(status.CurrentFileSize)))
	}
	if last := status.LastResult; last != nil && last.Status == entities.StatusProcessed {
		fmt.Fprintf(&b, "[dim]   %dx%d → %dx%d, -%d%%[white]\n",
			last.OriginalWidth, last.OriginalHeight, last.NewWidth, last.NewHeight, last.ReductionPercent())
	}

	fmt.Fprintf(&b, "\n[cyan]📊 Прогресс:[white] %s [cyan]%.1f%%[white]\n\n",
		m.createProgressBar(status.Progress, ProgressBarWidth), status.Progress)

	b.WriteString("[green]📈 Изображения:[white]\n")
	fmt.Fprintf(&b, "  • Всего: [cyan]%d[white]\n", status.TotalFiles)
	fmt.Fprintf(&b, "  • Обработано: [cyan]%d[white]\n", status.ProcessedFiles)
	fmt.Fprintf(&b, "  • Создано версий: [green]%d[white]", status.SuccessfulFiles)
	if status.SkippedFiles > 0 {
		fmt.Fprintf(&b, "\n  • Пропущено: [yellow]%d[white]", status.SkippedFiles)
	}
	if status.FailedFiles > 0 {
		fmt.Fprintf(&b, "\n  • Ошибок: [red]%d[white]", status.FailedFiles)
	}

	if status.TotalOriginalSize > 0 {
		b.WriteString("\n\n[green]💾 Размеры:[white]\n")
		fmt.Fprintf(&b, "  • Исходники: [cyan]%s[white]\n", humanize.Bytes(uint64(status.TotalOriginalSize)))
		fmt.Fprintf(&b, "  • Мобильные версии: [cyan]%s[white]\n", humanize.Bytes(uint64(status.TotalDerivativeSize)))
		fmt.Fprintf(&b, "  • Среднее уменьшение: [green]%.1f%%[white]", status.AverageReduction)
	}

	fmt.Fprintf(&b, "\n\n[yellow]⏱️  Время:[white] [cyan]%s[white]", status.FormatElapsedTime())
	if !status.IsComplete && status.EstimatedTime > 0 {
		fmt.Fprintf(&b, ", осталось [cyan]~%s[white]", status.FormatEstimatedTime())
	}
	b.WriteString("\n\n")

	switch {
	case status.IsComplete && status.Error != nil:
		fmt.Fprintf(&b, "[red]❌ Обработка прервана: %v[white]\n", status.Error)
	case status.IsComplete:
		b.WriteString("[green]✅ Обработка завершена[white]\n")
	}
	b.WriteString("\n[yellow]F1[white]/[yellow]ESC[white] - Главное меню\n")

	return b.String()
}

// truncateFileName корректно усекает имя файла с учетом UTF-8
func (m *Manager) truncateFileName(fileName string, maxLength, truncateAt int) string {
	runes := []rune(fileName)
	if len(runes) <= maxLength {
		return fileName
	}
	return string(runes[:truncateAt]) + "..."
}

// createProgressBar создает цветной прогресс-бар
func (m *Manager) createProgressBar(progress float64, width int) string {
	// Нормализуем значения
	if progress < 0 {
		progress = 0
	} else if progress > 100 {
		progress = 100
	}

	filled := int(math.Round(progress * float64(width) / 100))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	const filledChar = "█"
	const emptyChar = "░"

	// Цвет зависит от прогресса
	var color string
	switch {
	case progress < 25:
		color = "red"
	case progress < 50:
		color = "yellow"
	case progress < 75:
		color = "blue"
	default:
		color = "green"
	}

	filledPart := strings.Repeat(filledChar, filled)
	emptyPart := strings.Repeat(emptyChar, width-filled)

	return fmt.Sprintf("[%s]%s[gray]%s", color, filledPart, emptyPart)
}

// levelColors цвета уровней журнала
var levelColors = map[string]string{
	"error":   "red",
	"warning": "yellow",
	"success": "green",
	"debug":   "gray",
}

// AddLog добавляет запись в журнал. Не блокирует: при переполнении канала строка теряется.
func (m *Manager) AddLog(level, message string) {
	color, ok := levelColors[strings.ToLower(level)]
	if !ok {
		color = "white"
	}
	line := fmt.Sprintf("[%s]%s:[white] %s", color, strings.ToUpper(level), tview.Escape(message))

	select {
	case m.logChan <- line:
	default:
	}
}

// logProcessor копит строки журнала и сбрасывает их пачками или по таймеру
func (m *Manager) logProcessor() {
	ticker := time.NewTicker(LogFlushInterval)
	defer ticker.Stop()

	var batch []string
	flush := func() {
		if len(batch) > 0 {
			m.flushLogBatch(batch)
			batch = nil
		}
	}

	for {
		select {
		case line := <-m.logChan:
			batch = append(batch, line)
			if len(batch) >= LogBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-m.logDone:
			flush()
			return
		}
	}
}

// flushLogBatch добавляет пачку в кольцевой буфер и перерисовывает журнал
func (m *Manager) flushLogBatch(batch []string) {
	m.statusMutex.Lock()
	m.logBuffer = append(m.logBuffer, batch...)
	if overflow := len(m.logBuffer) - MaxLogBufferSize; overflow > 0 {
		m.logBuffer = m.logBuffer[overflow:]
	}
	text := strings.Join(m.logBuffer, "\n")
	m.statusMutex.Unlock()

	if m.logView == nil {
		return
	}
	m.app.QueueUpdateDraw(func() {
		m.logView.SetText(text)
		m.logView.ScrollToEnd()
	})
}

// Cleanup останавливает обработку журнала. Повторный вызов ничего не делает.
func (m *Manager) Cleanup() {
	m.cleanupOnce.Do(func() {
		close(m.logDone)
	})
}

// refreshConfigForm синхронизирует значения формы с текущими данными конфигурации
func (m *Manager) refreshConfigForm() {
	if m.configForm == nil {
		return
	}

	if item := m.configForm.GetFormItem(formSourceDirectory); item != nil {
		item.(*tview.InputField).SetText(m.config.Scanner.SourceDirectory)
	}
	if item := m.configForm.GetFormItem(formPolicy); item != nil {
		item.(*tview.DropDown).SetCurrentOption(optionIndex(policyOptions, m.config.Resize.Policy))
	}
	if item := m.configForm.GetFormItem(formMaxWidth); item != nil {
		item.(*tview.InputField).SetText(strconv.Itoa(m.config.Resize.MaxWidth))
	}
	if item := m.configForm.GetFormItem(formMaxHeight); item != nil {
		item.(*tview.InputField).SetText(strconv.Itoa(m.config.Resize.MaxHeight))
	}
	if item := m.configForm.GetFormItem(formSuffix); item != nil {
		item.(*tview.InputField).SetText(m.config.Resize.Suffix)
	}
	if item := m.configForm.GetFormItem(formQuality); item != nil {
		item.(*tview.InputField).SetText(formatQuality(m.config.Resize.Quality))
	}
	if item := m.configForm.GetFormItem(formGenerateWebP); item != nil {
		item.(*tview.Checkbox).SetChecked(m.config.Resize.GenerateWebP)
	}
	if item := m.configForm.GetFormItem(formRenderer); item != nil {
		item.(*tview.DropDown).SetCurrentOption(optionIndex(rendererOptions, m.config.Resize.Renderer))
	}
	if item := m.configForm.GetFormItem(formWorkers); item != nil {
		item.(*tview.InputField).SetText(strconv.Itoa(m.config.Workers()))
	}
}

// GetConfig возвращает копию текущей конфигурации
func (m *Manager) GetConfig() *entities.Config {
	config := cloneConfig(&m.config)
	return &config
}

func cloneConfig(config *entities.Config) entities.Config {
	clone := *config
	clone.Scanner.Extensions = append([]string(nil), config.Scanner.Extensions...)
	return clone
}

func optionIndex(options []string, value string) int {
	for i, option := range options {
		if option == value {
			return i
		}
	}
	return 0
}

func formatQuality(q float64) string {
	return strconv.FormatFloat(q, 'f', -1, 64)
}
