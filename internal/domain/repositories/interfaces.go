package repositories

import (
	"image"
	"io"

	"imageprep/internal/domain/entities"
)

// ImageRepository интерфейс для работы с деревом изображений
type ImageRepository interface {
	FileExists(path string) bool
	DirectoryExists(path string) bool
	GetImageInfo(path string) (entities.SourceImage, error)
	ListImages(root string, extensions []string) ([]entities.SourceImage, error)
	ListCandidates(root string, config entities.ResizeConfig) ([]entities.SourceImage, []entities.ProcessResult, error)
	CountImages(root string, extensions []string) (int, error)
}

// ConfigRepository интерфейс для работы с конфигурацией масштабирования
type ConfigRepository interface {
	GetResizePolicy(name string) (entities.ResizePolicy, error)
	ValidateConfig(config entities.ResizeConfig) error
}

// ImageDecoder декодирует изображение с диска
type ImageDecoder interface {
	DecodeFile(path string) (image.Image, string, error)
}

// ImageRenderer перерисовывает изображение в новый буфер заданного размера
type ImageRenderer interface {
	Name() string
	Render(src image.Image, width, height int, alpha bool) image.Image
}

// ImageEncoder записывает буфер в файл в заданном формате
type ImageEncoder interface {
	EncodeFile(path string, img image.Image, format string, quality float64) error
}

// EncodeOutcome результат попытки кодирования альтернативным кодеком
type EncodeOutcome int

const (
	Encoded EncodeOutcome = iota
	CodecUnavailable
	EncodeFailed
)

// String возвращает название исхода
func (o EncodeOutcome) String() string {
	switch o {
	case Encoded:
		return "encoded"
	case CodecUnavailable:
		return "codec_unavailable"
	case EncodeFailed:
		return "encode_failed"
	default:
		return "unknown"
	}
}

// AlternateEncoder кодек, который может отсутствовать в окружении (WebP)
type AlternateEncoder interface {
	Format() string
	Available() bool
	Encode(w io.Writer, img image.Image, quality float64) (EncodeOutcome, error)
}
