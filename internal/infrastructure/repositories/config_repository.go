package repositories

import (
	"imageprep/internal/domain/entities"
)

// ConfigRepository реализация репозитория конфигурации масштабирования
type ConfigRepository struct{}

// NewConfigRepository создает новый репозиторий конфигурации
func NewConfigRepository() *ConfigRepository {
	return &ConfigRepository{}
}

// GetResizePolicy получает политику масштабирования по имени
func (r *ConfigRepository) GetResizePolicy(name string) (entities.ResizePolicy, error) {
	return entities.PolicyByName(name)
}

// ValidateConfig валидирует конфигурацию
func (r *ConfigRepository) ValidateConfig(config entities.ResizeConfig) error {
	return config.Validate()
}
