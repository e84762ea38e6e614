package entities

import (
	"fmt"
	"math"
)

// Имена политик масштабирования
const (
	PolicyBoundingBox   = "bounding_box"
	PolicyWidthPriority = "width_priority"
)

// ResizePlan результат планирования масштабирования
type ResizePlan struct {
	Width  int
	Height int
	Scale  float64
	Needed bool // false, если изображение уже укладывается в ограничения
}

// ResizePolicy стратегия вычисления целевых размеров
type ResizePolicy interface {
	Name() string
	Plan(width, height int, config ResizeConfig) (ResizePlan, error)
}

// BoundingBoxPolicy вписывает изображение в прямоугольник MaxWidth x MaxHeight
type BoundingBoxPolicy struct{}

// Name возвращает имя политики
func (BoundingBoxPolicy) Name() string { return PolicyBoundingBox }

// Plan вычисляет размеры по обеим осям, не увеличивая изображение
func (BoundingBoxPolicy) Plan(width, height int, config ResizeConfig) (ResizePlan, error) {
	if width <= 0 || height <= 0 {
		return ResizePlan{}, ErrInvalidDimensions
	}
	scale := math.Min(
		float64(config.MaxWidth)/float64(width),
		float64(config.MaxHeight)/float64(height),
	)
	return planForScale(width, height, scale), nil
}

// WidthPriorityPolicy ограничивает только ширину, высота следует пропорциям.
// MaxHeight при этом не ограничивает результат.
type WidthPriorityPolicy struct{}

// Name возвращает имя политики
func (WidthPriorityPolicy) Name() string { return PolicyWidthPriority }

// Plan вычисляет размеры по ширине
func (WidthPriorityPolicy) Plan(width, height int, config ResizeConfig) (ResizePlan, error) {
	if width <= 0 || height <= 0 {
		return ResizePlan{}, ErrInvalidDimensions
	}
	scale := float64(config.MaxWidth) / float64(width)
	return planForScale(width, height, scale), nil
}

// planForScale усекает размеры к нулю. Пропорции могут отличаться от точных
// на 1px, для мобильных версий это допустимо.
func planForScale(width, height int, scale float64) ResizePlan {
	if scale >= 1.0 {
		return ResizePlan{Width: width, Height: height, Scale: scale, Needed: false}
	}

	newWidth := int(float64(width) * scale)
	newHeight := int(float64(height) * scale)
	if newWidth < 1 {
		newWidth = 1
	}
	if newHeight < 1 {
		newHeight = 1
	}

	return ResizePlan{Width: newWidth, Height: newHeight, Scale: scale, Needed: true}
}

// PolicyByName возвращает политику по имени из конфигурации
func PolicyByName(name string) (ResizePolicy, error) {
	switch name {
	case "", PolicyBoundingBox:
		return BoundingBoxPolicy{}, nil
	case PolicyWidthPriority:
		return WidthPriorityPolicy{}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, name)
	}
}
