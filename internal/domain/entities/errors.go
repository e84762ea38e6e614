package entities

import "errors"

// Доменные ошибки
var (
	ErrInvalidMaxWidth   = errors.New("максимальная ширина должна быть больше нуля")
	ErrInvalidMaxHeight  = errors.New("максимальная высота должна быть больше нуля")
	ErrInvalidQuality    = errors.New("качество должно быть в диапазоне от 0.0 до 1.0")
	ErrEmptySuffix       = errors.New("суффикс производного файла не может быть пустым")
	ErrNoExtensions      = errors.New("не задано ни одного расширения изображений")
	ErrInvalidWorkers    = errors.New("количество воркеров не может быть отрицательным")
	ErrUnknownPolicy     = errors.New("неизвестная политика масштабирования")
	ErrUnknownRenderer   = errors.New("неизвестный рендерер")
	ErrInvalidDimensions = errors.New("изображение имеет нулевую ширину или высоту")
	ErrUnsupportedFormat = errors.New("неподдерживаемый формат изображения")
	ErrCodecUnavailable  = errors.New("кодек недоступен в текущем окружении")
	ErrFileNotFound      = errors.New("файл не найден")
	ErrDirectoryNotFound = errors.New("директория не найдена")
	ErrRunHadFailures    = errors.New("часть изображений не удалось обработать")
)
