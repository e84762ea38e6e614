package codecs

import (
	"fmt"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	"imageprep/internal/domain/entities"
	"imageprep/internal/domain/repositories"
)

// ResizeRenderer рендерер на основе nfnt/resize с бикубической интерполяцией
type ResizeRenderer struct {
	filter resize.InterpolationFunction
}

// NewResizeRenderer создает рендерер nfnt/resize
func NewResizeRenderer() *ResizeRenderer {
	return &ResizeRenderer{filter: resize.Bicubic}
}

// Name возвращает имя рендерера
func (r *ResizeRenderer) Name() string { return "resize" }

// Render масштабирует изображение до width x height
func (r *ResizeRenderer) Render(src image.Image, width, height int, alpha bool) image.Image {
	scaled := resize.Resize(uint(width), uint(height), src, r.filter)
	return normalize(scaled, alpha)
}

// ImagingRenderer рендерер на основе disintegration/imaging (Catmull-Rom)
type ImagingRenderer struct {
	filter imaging.ResampleFilter
}

// NewImagingRenderer создает рендерер disintegration/imaging
func NewImagingRenderer() *ImagingRenderer {
	return &ImagingRenderer{filter: imaging.CatmullRom}
}

// Name возвращает имя рендерера
func (r *ImagingRenderer) Name() string { return "imaging" }

// Render масштабирует изображение до width x height
func (r *ImagingRenderer) Render(src image.Image, width, height int, alpha bool) image.Image {
	scaled := imaging.Resize(src, width, height, r.filter)
	return normalize(scaled, alpha)
}

// RendererByName возвращает рендерер по имени из конфигурации
func RendererByName(name string) (repositories.ImageRenderer, error) {
	switch name {
	case "", "resize":
		return NewResizeRenderer(), nil
	case "imaging":
		return NewImagingRenderer(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entities.ErrUnknownRenderer, name)
	}
}

// normalize приводит результат к 32-битному NRGBA с альфа-каналом
// или к непрозрачному RGBA на белом фоне
func normalize(src image.Image, alpha bool) image.Image {
	b := src.Bounds()
	rect := image.Rect(0, 0, b.Dx(), b.Dy())

	if alpha {
		dst := image.NewNRGBA(rect)
		draw.Draw(dst, rect, src, b.Min, draw.Src)
		return dst
	}

	dst := image.NewRGBA(rect)
	draw.Draw(dst, rect, image.White, image.Point{}, draw.Src)
	draw.Draw(dst, rect, src, b.Min, draw.Over)
	return dst
}
