package entities

import (
	"image/png"
	"math"
	"strings"
)

// Значения конфигурации масштабирования по умолчанию
const (
	DefaultMaxWidth     = 600
	DefaultMaxHeight    = 800
	DefaultSuffix       = "-m"
	DefaultQuality      = 0.95
	DefaultGenerateWebP = true
	DefaultPolicy       = PolicyBoundingBox
	DefaultRenderer     = "resize"
)

// DefaultExtensions расширения, которые ищутся в дереве ассетов
var DefaultExtensions = []string{"jpg", "jpeg", "png", "webp"}

// ResizeConfig описывает политику построения мобильных версий
type ResizeConfig struct {
	MaxWidth     int      // Ограничение по ширине (пиксели)
	MaxHeight    int      // Ограничение по высоте (пиксели)
	Suffix       string   // Суффикс производного файла, например "-m"
	Quality      float64  // Подсказка качества 0.0-1.0 для кодеков
	GenerateWebP bool     // Дополнительно создавать WebP версии
	Policy       string   // bounding_box или width_priority
	Extensions   []string // Принимаемые расширения без точки
}

// NewResizeConfig создает конфигурацию со значениями по умолчанию
func NewResizeConfig() ResizeConfig {
	exts := make([]string, len(DefaultExtensions))
	copy(exts, DefaultExtensions)

	return ResizeConfig{
		MaxWidth:     DefaultMaxWidth,
		MaxHeight:    DefaultMaxHeight,
		Suffix:       DefaultSuffix,
		Quality:      DefaultQuality,
		GenerateWebP: DefaultGenerateWebP,
		Policy:       DefaultPolicy,
		Extensions:   exts,
	}
}

// Validate проверяет корректность конфигурации
func (c ResizeConfig) Validate() error {
	if c.MaxWidth <= 0 {
		return ErrInvalidMaxWidth
	}
	if c.MaxHeight <= 0 {
		return ErrInvalidMaxHeight
	}
	if strings.TrimSpace(c.Suffix) == "" {
		return ErrEmptySuffix
	}
	if math.IsNaN(c.Quality) || c.Quality < 0 || c.Quality > 1 {
		return ErrInvalidQuality
	}
	if len(c.NormalizedExtensions()) == 0 {
		return ErrNoExtensions
	}
	if _, err := PolicyByName(c.Policy); err != nil {
		return err
	}
	return nil
}

// NormalizedExtensions возвращает расширения в нижнем регистре без точки и дубликатов
func (c ResizeConfig) NormalizedExtensions() []string {
	seen := make(map[string]bool, len(c.Extensions))
	result := make([]string, 0, len(c.Extensions))
	for _, ext := range c.Extensions {
		ext = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
		if ext == "" || seen[ext] {
			continue
		}
		seen[ext] = true
		result = append(result, ext)
	}
	return result
}

// JPEGQuality переводит качество 0.0-1.0 в параметр JPEG кодека 1-100
func JPEGQuality(quality float64) int {
	q := int(math.Round(quality * 100))
	if q < 1 {
		q = 1
	}
	if q > 100 {
		q = 100
	}
	return q
}

// PNGCompressionParam возвращает параметр усилия сжатия PNG.
//
// Значение качества намеренно инвертируется: для PNG меньшее число означает
// более агрессивное сжатие. quality=0.95 дает 0.05 (максимальное сжатие),
// quality=0.1 дает 0.9 (быстрое и слабое сжатие). Передача качества без
// инверсии дает заметно более тяжелые PNG.
func PNGCompressionParam(quality float64) float64 {
	if quality < 0 {
		quality = 0
	}
	if quality > 1 {
		quality = 1
	}
	return 1 - quality
}

// PNGCompressionLevel переводит инвертированный параметр в уровень png.Encoder
func PNGCompressionLevel(quality float64) png.CompressionLevel {
	param := PNGCompressionParam(quality)
	switch {
	case param <= 1.0/3:
		return png.BestCompression
	case param <= 2.0/3:
		return png.DefaultCompression
	default:
		return png.BestSpeed
	}
}
