package codecs

import (
	"bufio"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	"imageprep/internal/domain/entities"
	"imageprep/internal/domain/repositories"
)

// FileEncoder записывает изображения стандартных форматов на диск
type FileEncoder struct{}

// NewFileEncoder создает новый кодировщик
func NewFileEncoder() *FileEncoder {
	return &FileEncoder{}
}

// EncodeFile кодирует изображение в файл с учетом качества
func (e *FileEncoder) EncodeFile(path string, img image.Image, format string, quality float64) error {
	return WriteAtomic(path, func(w io.Writer) error {
		return Encode(w, img, format, quality)
	})
}

// Encode кодирует изображение в поток
func Encode(w io.Writer, img image.Image, format string, quality float64) error {
	switch format {
	case FormatJPEG:
		// Явное качество: настройки по умолчанию игнорируют подсказку качества
		options := &jpeg.Options{Quality: entities.JPEGQuality(quality)}
		if err := jpeg.Encode(w, img, options); err != nil {
			return fmt.Errorf("не удалось закодировать JPEG: %w", err)
		}
	case FormatPNG:
		// Уровень сжатия вычисляется из инвертированного качества
		encoder := &png.Encoder{CompressionLevel: entities.PNGCompressionLevel(quality)}
		if err := encoder.Encode(w, img); err != nil {
			return fmt.Errorf("не удалось закодировать PNG: %w", err)
		}
	case FormatGIF:
		if err := gif.Encode(w, img, nil); err != nil {
			return fmt.Errorf("не удалось закодировать GIF: %w", err)
		}
	case FormatBMP:
		if err := bmp.Encode(w, img); err != nil {
			return fmt.Errorf("не удалось закодировать BMP: %w", err)
		}
	case FormatTIFF:
		if err := tiff.Encode(w, img, nil); err != nil {
			return fmt.Errorf("не удалось закодировать TIFF: %w", err)
		}
	default:
		return fmt.Errorf("%w: %s", entities.ErrUnsupportedFormat, format)
	}
	return nil
}

// EncodeAlternateFile кодирует изображение альтернативным кодеком.
// Паника внутри кодека перехватывается и возвращается как EncodeFailed.
// При недоступном кодеке файл не создается.
func EncodeAlternateFile(encoder repositories.AlternateEncoder, path string, img image.Image, quality float64) (repositories.EncodeOutcome, error) {
	if encoder == nil || !encoder.Available() {
		return repositories.CodecUnavailable, entities.ErrCodecUnavailable
	}

	outcome := repositories.EncodeFailed
	err := WriteAtomic(path, func(w io.Writer) error {
		var encErr error
		outcome, encErr = SafeEncode(encoder, w, img, quality)
		if outcome != repositories.Encoded && encErr == nil {
			encErr = fmt.Errorf("кодек %s вернул %s", encoder.Format(), outcome)
		}
		return encErr
	})
	if err != nil && outcome == repositories.Encoded {
		// Кодирование прошло, но файл не записан
		outcome = repositories.EncodeFailed
	}
	return outcome, err
}

// SafeEncode вызывает кодек и превращает панику в EncodeFailed
func SafeEncode(encoder repositories.AlternateEncoder, w io.Writer, img image.Image, quality float64) (outcome repositories.EncodeOutcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = repositories.EncodeFailed
			err = fmt.Errorf("паника кодека %s: %v", encoder.Format(), r)
		}
	}()
	return encoder.Encode(w, img, quality)
}

// WriteAtomic пишет во временный файл рядом с целевым и переименовывает его.
// Временный файл удаляется при любой ошибке.
func WriteAtomic(path string, write func(w io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("не удалось создать временный файл: %w", err)
	}
	tmpPath := tmpFile.Name()

	defer func() {
		if err != nil {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	buffered := bufio.NewWriter(tmpFile)
	if err = write(buffered); err != nil {
		return err
	}
	if err = buffered.Flush(); err != nil {
		return fmt.Errorf("не удалось записать временный файл: %w", err)
	}
	if err = tmpFile.Sync(); err != nil {
		return fmt.Errorf("не удалось сбросить временный файл на диск: %w", err)
	}
	if err = tmpFile.Close(); err != nil {
		return fmt.Errorf("не удалось закрыть временный файл: %w", err)
	}
	if err = os.Chmod(tmpPath, 0644); err != nil {
		return fmt.Errorf("не удалось установить права на файл: %w", err)
	}
	if err = os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("не удалось переименовать временный файл: %w", err)
	}
	return nil
}
