package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"imageprep/internal/domain/entities"
)

// DefaultConfigPath путь к файлу конфигурации по умолчанию
const DefaultConfigPath = "imageprep.yaml"

// Repository реализация репозитория конфигурации
type Repository struct{}

// NewRepository создает новый репозиторий конфигурации
func NewRepository() *Repository {
	return &Repository{}
}

// Load загружает конфигурацию из файла
func (r *Repository) Load(configPath string) (*entities.Config, error) {
	// Если файл не существует, используем конфигурацию по умолчанию
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("не удалось прочитать конфигурацию %s: %w", configPath, err)
	}

	// Декодируем поверх значений по умолчанию, чтобы отсутствующие ключи их сохранили
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("не удалось разобрать конфигурацию %s: %w", configPath, err)
	}
	ApplyDefaults(config)

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("некорректная конфигурация %s: %w", configPath, err)
	}

	return config, nil
}

// Save сохраняет конфигурацию в файл
func (r *Repository) Save(configPath string, config *entities.Config) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// DefaultConfig создает конфигурацию по умолчанию
func DefaultConfig() *entities.Config {
	return &entities.Config{
		Scanner: entities.ScannerConfig{
			SourceDirectory: "./assets",
			Extensions:      append([]string(nil), entities.DefaultExtensions...),
		},
		Resize: entities.AppResizeConfig{
			Policy:       entities.DefaultPolicy,
			MaxWidth:     entities.DefaultMaxWidth,
			MaxHeight:    entities.DefaultMaxHeight,
			Suffix:       entities.DefaultSuffix,
			Quality:      entities.DefaultQuality,
			GenerateWebP: entities.DefaultGenerateWebP,
			Renderer:     entities.DefaultRenderer,
		},
		Processing: entities.ProcessingConfig{
			ParallelWorkers: 1,
			FailOnError:     true,
		},
		Output: entities.OutputConfig{
			LogLevel:     "info",
			ProgressBar:  true,
			LogToFile:    false,
			LogFileName:  "imageprep.log",
			LogMaxSizeMB: 10,
		},
	}
}

// ApplyDefaults заполняет пустые значения, которые явно обнулены в файле
func ApplyDefaults(config *entities.Config) {
	if config.Scanner.SourceDirectory == "" {
		config.Scanner.SourceDirectory = "./assets"
	}
	if len(config.Scanner.Extensions) == 0 {
		config.Scanner.Extensions = append([]string(nil), entities.DefaultExtensions...)
	}
	if config.Resize.Policy == "" {
		config.Resize.Policy = entities.DefaultPolicy
	}
	if config.Resize.Suffix == "" {
		config.Resize.Suffix = entities.DefaultSuffix
	}
	if config.Resize.Renderer == "" {
		config.Resize.Renderer = entities.DefaultRenderer
	}
	if config.Output.LogLevel == "" {
		config.Output.LogLevel = "info"
	}
	if config.Output.LogFileName == "" {
		config.Output.LogFileName = "imageprep.log"
	}
}
