package entities_test

import (
	"errors"
	"image/png"
	"math"
	"testing"

	"imageprep/internal/domain/entities"
)

func TestNewResizeConfig(t *testing.T) {
	config := entities.NewResizeConfig()

	if config.MaxWidth != 600 {
		t.Errorf("Expected MaxWidth 600, got %d", config.MaxWidth)
	}
	if config.MaxHeight != 800 {
		t.Errorf("Expected MaxHeight 800, got %d", config.MaxHeight)
	}
	if config.Suffix != "-m" {
		t.Errorf("Expected suffix -m, got %q", config.Suffix)
	}
	if config.Quality != 0.95 {
		t.Errorf("Expected quality 0.95, got %f", config.Quality)
	}
	if !config.GenerateWebP {
		t.Error("Expected GenerateWebP to be enabled by default")
	}
	if config.Policy != entities.PolicyBoundingBox {
		t.Errorf("Expected bounding_box policy, got %q", config.Policy)
	}
	if len(config.Extensions) != 4 {
		t.Errorf("Expected 4 default extensions, got %v", config.Extensions)
	}

	// Изменение копии не должно затрагивать значения по умолчанию
	config.Extensions[0] = "gif"
	if entities.DefaultExtensions[0] != "jpg" {
		t.Error("Default extensions were mutated through a config copy")
	}
}

func TestResizeConfig_Validate(t *testing.T) {
	valid := entities.NewResizeConfig()

	tests := []struct {
		name    string
		mutate  func(c *entities.ResizeConfig)
		wantErr error
	}{
		{"Valid config", func(c *entities.ResizeConfig) {}, nil},
		{"Zero width", func(c *entities.ResizeConfig) { c.MaxWidth = 0 }, entities.ErrInvalidMaxWidth},
		{"Negative height", func(c *entities.ResizeConfig) { c.MaxHeight = -1 }, entities.ErrInvalidMaxHeight},
		{"Empty suffix", func(c *entities.ResizeConfig) { c.Suffix = "  " }, entities.ErrEmptySuffix},
		{"Quality too high", func(c *entities.ResizeConfig) { c.Quality = 1.5 }, entities.ErrInvalidQuality},
		{"Quality negative", func(c *entities.ResizeConfig) { c.Quality = -0.1 }, entities.ErrInvalidQuality},
		{"Quality NaN", func(c *entities.ResizeConfig) { c.Quality = math.NaN() }, entities.ErrInvalidQuality},
		{"No extensions", func(c *entities.ResizeConfig) { c.Extensions = []string{" ", "."} }, entities.ErrNoExtensions},
		{"Unknown policy", func(c *entities.ResizeConfig) { c.Policy = "crop" }, entities.ErrUnknownPolicy},
		{"Width priority", func(c *entities.ResizeConfig) { c.Policy = entities.PolicyWidthPriority }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid
			config.Extensions = append([]string(nil), valid.Extensions...)
			tt.mutate(&config)

			err := config.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Validate() unexpected error = %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResizeConfig_NormalizedExtensions(t *testing.T) {
	config := entities.ResizeConfig{Extensions: []string{".JPG", "png", "jpg", " webp ", ""}}

	got := config.NormalizedExtensions()
	want := []string{"jpg", "png", "webp"}

	if len(got) != len(want) {
		t.Fatalf("Expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Extension %d: expected %q, got %q", i, want[i], got[i])
		}
	}
}

func TestJPEGQuality(t *testing.T) {
	tests := []struct {
		quality float64
		want    int
	}{
		{0.95, 95},
		{1.0, 100},
		{0.5, 50},
		{0.0, 1},
		{2.0, 100},
	}

	for _, tt := range tests {
		if got := entities.JPEGQuality(tt.quality); got != tt.want {
			t.Errorf("JPEGQuality(%v) = %d, want %d", tt.quality, got, tt.want)
		}
	}
}

func TestPNGCompressionInversion(t *testing.T) {
	high := entities.PNGCompressionParam(0.95)
	low := entities.PNGCompressionParam(0.1)

	if math.Abs(high-0.05) > 1e-9 {
		t.Errorf("Expected quality 0.95 to map to 0.05, got %f", high)
	}
	if math.Abs(low-0.9) > 1e-9 {
		t.Errorf("Expected quality 0.1 to map to 0.9, got %f", low)
	}
	if high >= low {
		t.Errorf("Expected inverted mapping: param(0.95)=%f must be lower than param(0.1)=%f", high, low)
	}
}

func TestPNGCompressionLevel(t *testing.T) {
	tests := []struct {
		quality float64
		want    png.CompressionLevel
	}{
		{0.95, png.BestCompression},
		{1.0, png.BestCompression},
		{0.5, png.DefaultCompression},
		{0.1, png.BestSpeed},
		{0.0, png.BestSpeed},
	}

	for _, tt := range tests {
		if got := entities.PNGCompressionLevel(tt.quality); got != tt.want {
			t.Errorf("PNGCompressionLevel(%v) = %v, want %v", tt.quality, got, tt.want)
		}
	}
}
