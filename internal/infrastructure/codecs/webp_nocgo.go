//go:build !cgo

package codecs

import (
	"image"
	"io"

	"imageprep/internal/domain/entities"
	"imageprep/internal/domain/repositories"
)

// WebPEncoder заглушка для сборок без cgo: libwebp недоступна
type WebPEncoder struct{}

// NewWebPEncoder создает заглушку кодека WebP
func NewWebPEncoder() *WebPEncoder {
	return &WebPEncoder{}
}

// Format возвращает имя формата
func (e *WebPEncoder) Format() string { return FormatWebP }

// Available всегда false без cgo
func (e *WebPEncoder) Available() bool { return false }

// Encode всегда сообщает о недоступном кодеке
func (e *WebPEncoder) Encode(w io.Writer, img image.Image, quality float64) (repositories.EncodeOutcome, error) {
	return repositories.CodecUnavailable, entities.ErrCodecUnavailable
}
