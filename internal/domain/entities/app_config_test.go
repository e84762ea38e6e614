package entities_test

import (
	"testing"

	"imageprep/internal/domain/entities"
)

func TestConfig_ResizeConfig(t *testing.T) {
	config := &entities.Config{
		Scanner: entities.ScannerConfig{Extensions: []string{"jpg"}},
		Resize: entities.AppResizeConfig{
			Policy:       entities.PolicyWidthPriority,
			MaxWidth:     480,
			MaxHeight:    640,
			Suffix:       "-sm",
			Quality:      0.8,
			GenerateWebP: false,
		},
	}

	rc := config.ResizeConfig()
	if rc.MaxWidth != 480 || rc.MaxHeight != 640 || rc.Suffix != "-sm" || rc.Quality != 0.8 {
		t.Errorf("Unexpected resize config: %+v", rc)
	}
	if rc.GenerateWebP {
		t.Error("Expected GenerateWebP to be disabled")
	}
	if len(rc.Extensions) != 1 || rc.Extensions[0] != "jpg" {
		t.Errorf("Expected extensions [jpg], got %v", rc.Extensions)
	}
}

func TestConfig_Validate(t *testing.T) {
	base := func() *entities.Config {
		return &entities.Config{
			Resize: entities.AppResizeConfig{
				Policy:    entities.PolicyBoundingBox,
				MaxWidth:  600,
				MaxHeight: 800,
				Suffix:    "-m",
				Quality:   0.95,
				Renderer:  "resize",
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *entities.Config)
		wantErr bool
	}{
		{"Valid config", func(c *entities.Config) {}, false},
		{"Imaging renderer", func(c *entities.Config) { c.Resize.Renderer = "imaging" }, false},
		{"Unknown renderer", func(c *entities.Config) { c.Resize.Renderer = "opengl" }, true},
		{"Negative workers", func(c *entities.Config) { c.Processing.ParallelWorkers = -2 }, true},
		{"Bad quality", func(c *entities.Config) { c.Resize.Quality = 3 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := base()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProcessingStatus_AddResult(t *testing.T) {
	status := entities.NewProcessingStatus(4)

	ok := entities.Processed(entities.SourceImage{Size: 1000})
	ok.NewSize = 250
	status.AddResult(ok)
	status.AddResult(entities.Skipped(entities.SourceImage{}, entities.SkipAlreadySmall))
	status.AddResult(entities.Failed(entities.SourceImage{}, entities.ErrUnsupportedFormat))

	if status.ProcessedFiles != 3 {
		t.Errorf("Expected 3 processed files, got %d", status.ProcessedFiles)
	}
	if status.SuccessfulFiles != 1 || status.SkippedFiles != 1 || status.FailedFiles != 1 {
		t.Errorf("Unexpected counters: %+v", status)
	}
	if status.Progress != 75 {
		t.Errorf("Expected progress 75, got %f", status.Progress)
	}
	if status.AverageReduction != 75 {
		t.Errorf("Expected average reduction 75, got %f", status.AverageReduction)
	}

	status.Complete()
	if !status.IsComplete || status.Phase != entities.PhaseCompleted || status.Progress != 100 {
		t.Errorf("Unexpected status after Complete(): %+v", status)
	}
}

func TestConfig_Workers(t *testing.T) {
	config := &entities.Config{}
	if config.Workers() != 1 {
		t.Errorf("Expected 1 worker by default, got %d", config.Workers())
	}
	config.Processing.ParallelWorkers = 4
	if config.Workers() != 4 {
		t.Errorf("Expected 4 workers, got %d", config.Workers())
	}
}
