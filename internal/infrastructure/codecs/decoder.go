package codecs

import (
	"bufio"
	"fmt"
	"image"
	"os"

	// Регистрация декодеров для image.Decode
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"imageprep/internal/domain/entities"
)

// Decoder декодирует изображения всех зарегистрированных форматов
type Decoder struct{}

// NewDecoder создает новый декодер
func NewDecoder() *Decoder {
	return &Decoder{}
}

// DecodeFile открывает и декодирует файл. Файл закрывается на любом пути выхода.
func (d *Decoder) DecodeFile(path string) (image.Image, string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, "", fmt.Errorf("не удалось открыть файл %s: %w", path, err)
	}
	defer file.Close()

	img, format, err := image.Decode(bufio.NewReader(file))
	if err != nil {
		return nil, "", fmt.Errorf("не удалось декодировать изображение %s: %w", path, err)
	}

	bounds := img.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, format, fmt.Errorf("%s: %w", path, entities.ErrInvalidDimensions)
	}

	return img, format, nil
}
