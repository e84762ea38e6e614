package entities_test

import (
	"errors"
	"testing"

	"imageprep/internal/domain/entities"
)

func TestBoundingBoxPolicy_Plan(t *testing.T) {
	config := entities.NewResizeConfig()

	tests := []struct {
		name           string
		width, height  int
		expectedNeeded bool
		expectedWidth  int
		expectedHeight int
	}{
		{"Portrait exact half", 1200, 1600, true, 600, 800},
		{"Wide landscape", 2000, 500, true, 600, 150},
		{"Tall portrait", 1000, 4000, true, 200, 800},
		{"Already small", 64, 64, false, 64, 64},
		{"Exactly the box", 600, 800, false, 600, 800},
		{"Width fits, height too big", 500, 1000, true, 400, 800},
		{"Extreme aspect keeps one pixel", 100000, 10, true, 600, 1},
	}

	policy := entities.BoundingBoxPolicy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := policy.Plan(tt.width, tt.height, config)
			if err != nil {
				t.Fatalf("Plan() unexpected error = %v", err)
			}
			if plan.Needed != tt.expectedNeeded {
				t.Errorf("Expected Needed %v, got %v", tt.expectedNeeded, plan.Needed)
			}
			if plan.Width != tt.expectedWidth || plan.Height != tt.expectedHeight {
				t.Errorf("Expected %dx%d, got %dx%d", tt.expectedWidth, tt.expectedHeight, plan.Width, plan.Height)
			}
			if plan.Needed && (plan.Width > config.MaxWidth || plan.Height > config.MaxHeight) {
				t.Errorf("Plan %dx%d exceeds box %dx%d", plan.Width, plan.Height, config.MaxWidth, config.MaxHeight)
			}
		})
	}
}

func TestWidthPriorityPolicy_Plan(t *testing.T) {
	config := entities.NewResizeConfig()
	config.Policy = entities.PolicyWidthPriority

	tests := []struct {
		name           string
		width, height  int
		expectedNeeded bool
		expectedWidth  int
		expectedHeight int
	}{
		{"Banner ignores height", 2000, 500, true, 600, 150},
		{"Tall portrait exceeds max height", 1200, 4000, true, 600, 2000},
		{"Narrow but tall is skipped", 500, 3000, false, 500, 3000},
		{"Exactly max width", 600, 900, false, 600, 900},
	}

	policy := entities.WidthPriorityPolicy{}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := policy.Plan(tt.width, tt.height, config)
			if err != nil {
				t.Fatalf("Plan() unexpected error = %v", err)
			}
			if plan.Needed != tt.expectedNeeded {
				t.Errorf("Expected Needed %v, got %v", tt.expectedNeeded, plan.Needed)
			}
			if plan.Width != tt.expectedWidth || plan.Height != tt.expectedHeight {
				t.Errorf("Expected %dx%d, got %dx%d", tt.expectedWidth, tt.expectedHeight, plan.Width, plan.Height)
			}
		})
	}
}

func TestWidthPriorityPolicy_WidthFormula(t *testing.T) {
	config := entities.NewResizeConfig()
	policy := entities.WidthPriorityPolicy{}

	for width := config.MaxWidth + 1; width < 5000; width += 37 {
		plan, err := policy.Plan(width, 1000, config)
		if err != nil {
			t.Fatalf("Plan(%d) unexpected error = %v", width, err)
		}
		scale := float64(config.MaxWidth) / float64(width)
		if want := int(float64(width) * scale); plan.Width != want {
			t.Errorf("Width %d: expected %d, got %d", width, want, plan.Width)
		}
	}
}

func TestPolicy_InvalidDimensions(t *testing.T) {
	config := entities.NewResizeConfig()
	policies := []entities.ResizePolicy{entities.BoundingBoxPolicy{}, entities.WidthPriorityPolicy{}}

	for _, policy := range policies {
		for _, dims := range [][2]int{{0, 100}, {100, 0}, {-1, 10}} {
			if _, err := policy.Plan(dims[0], dims[1], config); !errors.Is(err, entities.ErrInvalidDimensions) {
				t.Errorf("%s.Plan(%d, %d): expected ErrInvalidDimensions, got %v", policy.Name(), dims[0], dims[1], err)
			}
		}
	}
}

func TestPolicyByName(t *testing.T) {
	tests := []struct {
		name     string
		expected string
		wantErr  bool
	}{
		{"", entities.PolicyBoundingBox, false},
		{"bounding_box", entities.PolicyBoundingBox, false},
		{"width_priority", entities.PolicyWidthPriority, false},
		{"smart_crop", "", true},
	}

	for _, tt := range tests {
		policy, err := entities.PolicyByName(tt.name)
		if (err != nil) != tt.wantErr {
			t.Errorf("PolicyByName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
			continue
		}
		if err == nil && policy.Name() != tt.expected {
			t.Errorf("PolicyByName(%q) = %s, want %s", tt.name, policy.Name(), tt.expected)
		}
	}
}
