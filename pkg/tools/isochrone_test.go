package tools

import (
	"strings"
	"testing"
)

func validIsochroneInput() *isochroneInput {
	g := 2000.0
	in := &isochroneInput{
		Coordinates:     Coordinate{Longitude: -82.45, Latitude: 27.94},
		ContoursMinutes: []int{5, 10, 15},
		Generalize:      &g,
	}
	in.applyDefaults()
	return in
}

func TestIsochroneInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*isochroneInput)
		wantErr string
	}{
		{
			name:   "Valid minimal input",
			mutate: func(in *isochroneInput) {},
		},
		{
			name:    "Unknown profile",
			mutate:  func(in *isochroneInput) { in.Profile = "driving" },
			wantErr: "invalid profile",
		},
		{
			name:    "Latitude beyond tile bounds",
			mutate:  func(in *isochroneInput) { in.Coordinates.Latitude = 86 },
			wantErr: "85.0511",
		},
		{
			name:    "Too many minute contours",
			mutate:  func(in *isochroneInput) { in.ContoursMinutes = []int{1, 2, 3, 4, 5} },
			wantErr: "at most 4",
		},
		{
			name:    "Minute contour over 60",
			mutate:  func(in *isochroneInput) { in.ContoursMinutes = []int{61} },
			wantErr: "between 1 and 60",
		},
		{
			name: "Meter contour over 100000",
			mutate: func(in *isochroneInput) {
				in.ContoursMinutes = nil
				in.ContoursMeters = []int{100001}
			},
			wantErr: "between 1 and 100000",
		},
		{
			name:    "Color with hash prefix",
			mutate:  func(in *isochroneInput) { in.ContoursColors = []string{"#ff0000", "00ff00", "0000ff"} },
			wantErr: "hex color",
		},
		{
			name:   "Valid colors",
			mutate: func(in *isochroneInput) { in.ContoursColors = []string{"ff0000", "00ff00", "0000ff"} },
		},
		{
			name: "Denoise out of range",
			mutate: func(in *isochroneInput) {
				d := 1.5
				in.Denoise = &d
			},
			wantErr: "denoise",
		},
		{
			name:    "Generalize missing",
			mutate:  func(in *isochroneInput) { in.Generalize = nil },
			wantErr: "generalize is required",
		},
		{
			name: "Generalize negative",
			mutate: func(in *isochroneInput) {
				g := -1.0
				in.Generalize = &g
			},
			wantErr: "generalize",
		},
		{
			name:    "Unknown exclusion",
			mutate:  func(in *isochroneInput) { in.Exclude = []string{"tunnel"} },
			wantErr: "invalid exclude",
		},
		{
			name:   "Known exclusion",
			mutate: func(in *isochroneInput) { in.Exclude = []string{"ferry", "toll"} },
		},
		{
			name:    "Bad depart_at",
			mutate:  func(in *isochroneInput) { in.DepartAt = "noon" },
			wantErr: "depart_at",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validIsochroneInput()
			tt.mutate(in)
			err := in.validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validate() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validate() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateIsochroneConstraints(t *testing.T) {
	t.Run("No contour set", func(t *testing.T) {
		in := validIsochroneInput()
		in.ContoursMinutes = nil
		if err := validateIsochroneConstraints(in); err == nil ||
			!strings.Contains(err.Error(), "contours_minutes") {
			t.Errorf("expected missing-contours error, got %v", err)
		}
	})

	t.Run("Color count mismatch", func(t *testing.T) {
		in := validIsochroneInput()
		in.ContoursColors = []string{"ff0000"}
		if err := validateIsochroneConstraints(in); err == nil ||
			!strings.Contains(err.Error(), "contours_colors") {
			t.Errorf("expected color-count error, got %v", err)
		}
	})

	t.Run("Colors paired with meter contours", func(t *testing.T) {
		in := validIsochroneInput()
		in.ContoursMinutes = nil
		in.ContoursMeters = []int{1000, 5000}
		in.ContoursColors = []string{"ff0000", "00ff00"}
		if err := validateIsochroneConstraints(in); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}

func TestIsochroneDefaults(t *testing.T) {
	in := &isochroneInput{}
	in.applyDefaults()
	if in.Profile != "mapbox/driving-traffic" {
		t.Errorf("default profile = %q", in.Profile)
	}
	if in.Denoise == nil || *in.Denoise != 1 {
		t.Errorf("default denoise = %v", in.Denoise)
	}
}

func TestJoinInts(t *testing.T) {
	if got := joinInts([]int{5, 10, 15}); got != "5,10,15" {
		t.Errorf("joinInts() = %q", got)
	}
}
