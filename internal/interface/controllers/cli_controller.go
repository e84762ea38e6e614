package controllers

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"imageprep/internal/domain/entities"
	"imageprep/internal/domain/repositories"
	"imageprep/internal/infrastructure/config"
	usecases "imageprep/internal/usecase"
)

// LoggerFactory создает логгер запуска, out это вывод команды
type LoggerFactory func(out io.Writer, cfg *entities.Config) (repositories.Logger, error)

// PipelineFactory собирает пакетный сценарий поверх логгера
type PipelineFactory func(logger repositories.Logger) *usecases.ProcessImagesUseCase

// TUIRunner запускает интерактивный интерфейс и блокируется до выхода из него
type TUIRunner func(ctx context.Context, configPath string, cfg *entities.Config) error

// Dependencies зависимости контроллера, собираются в main
type Dependencies struct {
	ConfigRepo repositories.AppConfigRepository
	NewLogger  LoggerFactory
	NewBatch   PipelineFactory
	RunTUI     TUIRunner
}

// options значения флагов командной строки
type options struct {
	configPath string
	source     string
	policy     string
	maxWidth   int
	maxHeight  int
	suffix     string
	quality    float64
	webp       bool
	renderer   string
	workers    int
	logLevel   string
	noFail     bool
	strict     bool
}

// CLIController контроллер командной строки на cobra
type CLIController struct {
	deps Dependencies
	opts options
	root *cobra.Command
}

// NewCLIController создает контроллер и дерево команд
func NewCLIController(deps Dependencies) *CLIController {
	c := &CLIController{deps: deps}
	c.root = c.newRootCommand()
	return c
}

// Command возвращает корневую команду
func (c *CLIController) Command() *cobra.Command {
	return c.root
}

// Execute выполняет команду с аргументами и возвращает код выхода процесса
func (c *CLIController) Execute(ctx context.Context, args []string) int {
	c.root.SetArgs(args)
	err := c.root.ExecuteContext(ctx)
	code := c.ExitCode(err)
	if code != 0 {
		fmt.Fprintf(c.root.ErrOrStderr(), "❌ %v\n", err)
	}
	return code
}

// ExitCode переводит результат команды в код выхода.
// Отсутствующая директория не считается ошибкой сборки без --strict.
func (c *CLIController) ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, entities.ErrDirectoryNotFound) && !c.opts.strict:
		return 0
	case errors.Is(err, context.Canceled):
		return 130
	default:
		return 1
	}
}

func (c *CLIController) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "imageprep [dir]",
		Short: "Подготовка мобильных версий изображений для статического сайта",
		Long: `imageprep обходит дерево ассетов и рядом с каждым крупным изображением
создает уменьшенную копию с суффиксом (по умолчанию "-m") и WebP версии.
Без подкоманды выполняется один пакетный запуск, как у "imageprep run".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          c.runBatch,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&c.opts.configPath, "config", config.DefaultConfigPath, "путь к YAML конфигурации")
	flags.StringVar(&c.opts.source, "source", "", "корень дерева изображений")
	flags.StringVar(&c.opts.policy, "policy", "", "политика масштабирования: bounding_box или width_priority")
	flags.IntVar(&c.opts.maxWidth, "max-width", 0, "максимальная ширина мобильной версии")
	flags.IntVar(&c.opts.maxHeight, "max-height", 0, "максимальная высота мобильной версии")
	flags.StringVar(&c.opts.suffix, "suffix", "", "суффикс производного файла")
	flags.Float64Var(&c.opts.quality, "quality", 0, "качество 0.0-1.0")
	flags.BoolVar(&c.opts.webp, "webp", true, "создавать WebP версии")
	flags.StringVar(&c.opts.renderer, "renderer", "", "рендерер: resize или imaging")
	flags.IntVar(&c.opts.workers, "workers", 0, "количество параллельных воркеров")
	flags.StringVar(&c.opts.logLevel, "log-level", "", "уровень логирования: debug, info, warning, error")
	flags.BoolVar(&c.opts.noFail, "no-fail", false, "не завершаться с ошибкой, если часть файлов не обработана")
	flags.BoolVar(&c.opts.strict, "strict", false, "считать отсутствие исходной директории ошибкой")

	root.AddCommand(
		&cobra.Command{
			Use:   "run [dir]",
			Short: "Однократная пакетная обработка дерева",
			Args:  cobra.MaximumNArgs(1),
			RunE:  c.runBatch,
		},
		&cobra.Command{
			Use:   "watch [dir]",
			Short: "Пакетная обработка и пересборка при изменениях",
			Args:  cobra.MaximumNArgs(1),
			RunE:  c.runWatch,
		},
		&cobra.Command{
			Use:   "tui",
			Short: "Интерактивный интерфейс с настройками и прогрессом",
			Args:  cobra.NoArgs,
			RunE:  c.runTUI,
		},
	)
	return root
}

func (c *CLIController) runBatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := c.prepare(cmd, args)
	if err != nil {
		return err
	}
	defer logger.Close()

	_, err = c.deps.NewBatch(logger).Execute(cmd.Context(), cfg)
	return err
}

func (c *CLIController) runWatch(cmd *cobra.Command, args []string) error {
	cfg, logger, err := c.prepare(cmd, args)
	if err != nil {
		return err
	}
	defer logger.Close()

	watch := usecases.NewWatchImagesUseCase(c.deps.NewBatch(logger), logger)
	return watch.Run(cmd.Context(), cfg)
}

func (c *CLIController) runTUI(cmd *cobra.Command, args []string) error {
	if c.deps.RunTUI == nil {
		return errors.New("интерактивный интерфейс недоступен")
	}
	cfg, err := c.loadConfig(cmd, args)
	if err != nil {
		return err
	}
	return c.deps.RunTUI(cmd.Context(), c.opts.configPath, cfg)
}

// prepare загружает конфигурацию и создает логгер запуска
func (c *CLIController) prepare(cmd *cobra.Command, args []string) (*entities.Config, repositories.Logger, error) {
	cfg, err := c.loadConfig(cmd, args)
	if err != nil {
		return nil, nil, err
	}
	logger, err := c.deps.NewLogger(cmd.OutOrStdout(), cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("ошибка инициализации логгера: %w", err)
	}
	return cfg, logger, nil
}

// loadConfig читает файл и накладывает явно заданные флаги
func (c *CLIController) loadConfig(cmd *cobra.Command, args []string) (*entities.Config, error) {
	cfg, err := c.deps.ConfigRepo.Load(c.opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("ошибка загрузки конфигурации: %w", err)
	}

	c.applyFlags(cmd, cfg)
	if len(args) == 1 {
		cfg.Scanner.SourceDirectory = args[0]
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация: %w", err)
	}
	return cfg, nil
}

// applyFlags переносит в конфигурацию только флаги, заданные пользователем
func (c *CLIController) applyFlags(cmd *cobra.Command, cfg *entities.Config) {
	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Scanner.SourceDirectory = c.opts.source
	}
	if flags.Changed("policy") {
		cfg.Resize.Policy = c.opts.policy
	}
	if flags.Changed("max-width") {
		cfg.Resize.MaxWidth = c.opts.maxWidth
	}
	if flags.Changed("max-height") {
		cfg.Resize.MaxHeight = c.opts.maxHeight
	}
	if flags.Changed("suffix") {
		cfg.Resize.Suffix = c.opts.suffix
	}
	if flags.Changed("quality") {
		cfg.Resize.Quality = c.opts.quality
	}
	if flags.Changed("webp") {
		cfg.Resize.GenerateWebP = c.opts.webp
	}
	if flags.Changed("renderer") {
		cfg.Resize.Renderer = c.opts.renderer
	}
	if flags.Changed("workers") {
		cfg.Processing.ParallelWorkers = c.opts.workers
	}
	if flags.Changed("log-level") {
		cfg.Output.LogLevel = c.opts.logLevel
	}
	if flags.Changed("no-fail") {
		cfg.Processing.FailOnError = !c.opts.noFail
	}
}
