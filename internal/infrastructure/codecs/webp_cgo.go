//go:build cgo

package codecs

import (
	"fmt"
	"image"
	"io"

	"github.com/chai2010/webp"

	"imageprep/internal/domain/repositories"
)

// WebPEncoder кодек WebP на основе libwebp
type WebPEncoder struct {
	lossless bool
}

// NewWebPEncoder создает кодек WebP с потерями
func NewWebPEncoder() *WebPEncoder {
	return &WebPEncoder{}
}

// Format возвращает имя формата
func (e *WebPEncoder) Format() string { return FormatWebP }

// Available сообщает, доступен ли кодек в сборке
func (e *WebPEncoder) Available() bool { return true }

// Encode кодирует изображение в WebP с качеством 0-100
func (e *WebPEncoder) Encode(w io.Writer, img image.Image, quality float64) (repositories.EncodeOutcome, error) {
	options := &webp.Options{
		Lossless: e.lossless,
		Quality:  float32(quality * 100),
		Exact:    true,
	}
	if err := webp.Encode(w, img, options); err != nil {
		return repositories.EncodeFailed, fmt.Errorf("не удалось закодировать WebP: %w", err)
	}
	return repositories.Encoded, nil
}
