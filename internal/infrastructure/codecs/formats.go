package codecs

import (
	"path/filepath"
	"strings"
)

// Имена форматов совпадают с именами, которые возвращает image.Decode
const (
	FormatJPEG = "jpeg"
	FormatPNG  = "png"
	FormatWebP = "webp"
	FormatGIF  = "gif"
	FormatBMP  = "bmp"
	FormatTIFF = "tiff"
)

// IsImageFile проверяет, является ли файл изображением одного из расширений
func IsImageFile(filename string, extensions []string) bool {
	name := strings.ToLower(filepath.Base(filename))
	for _, ext := range extensions {
		if strings.HasSuffix(name, "."+ext) {
			return true
		}
	}
	return false
}

// GetImageFormat возвращает формат изображения по расширению файла
func GetImageFormat(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg":
		return FormatJPEG
	case ".png":
		return FormatPNG
	case ".webp":
		return FormatWebP
	case ".gif":
		return FormatGIF
	case ".bmp":
		return FormatBMP
	case ".tif", ".tiff":
		return FormatTIFF
	default:
		return ""
	}
}

// SupportsAlpha сообщает, хранит ли формат альфа-канал
func SupportsAlpha(format string) bool {
	switch format {
	case FormatPNG, FormatWebP:
		return true
	default:
		return false
	}
}
