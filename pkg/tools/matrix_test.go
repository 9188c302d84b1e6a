package tools

import (
	"strings"
	"testing"
)

func validMatrixInput(n int) *matrixInput {
	coords := make([]Coordinate, n)
	for i := range coords {
		coords[i] = Coordinate{Longitude: float64(i), Latitude: float64(i)}
	}
	return &matrixInput{
		Coordinates: coords,
		Profile:     "driving",
	}
}

func TestMatrixInputValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*matrixInput)
		wantErr string
	}{
		{
			name:   "Valid minimal input",
			mutate: func(in *matrixInput) {},
		},
		{
			name:    "One coordinate",
			mutate:  func(in *matrixInput) { in.Coordinates = in.Coordinates[:1] },
			wantErr: "at least two",
		},
		{
			name:    "Twenty six coordinates",
			mutate:  func(in *matrixInput) { in.Coordinates = validMatrixInput(26).Coordinates },
			wantErr: "up to 25",
		},
		{
			name:   "Twenty five coordinates allowed",
			mutate: func(in *matrixInput) { in.Coordinates = validMatrixInput(25).Coordinates },
		},
		{
			name:    "Latitude out of range",
			mutate:  func(in *matrixInput) { in.Coordinates[0].Latitude = 95 },
			wantErr: "latitude",
		},
		{
			name:    "Unknown profile",
			mutate:  func(in *matrixInput) { in.Profile = "rowing" },
			wantErr: "invalid profile",
		},
		{
			name:    "Unknown annotations",
			mutate:  func(in *matrixInput) { in.Annotations = "speed" },
			wantErr: "invalid annotations",
		},
		{
			name:   "Combined annotations allowed",
			mutate: func(in *matrixInput) { in.Annotations = "duration,distance" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validMatrixInput(3)
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

func TestValidateMatrixConstraints(t *testing.T) {
	tests := []struct {
		name    string
		input   *matrixInput
		mutate  func(*matrixInput)
		wantErr string
	}{
		{
			name:   "Traffic profile within coordinate cap",
			input:  validMatrixInput(10),
			mutate: func(in *matrixInput) { in.Profile = "driving-traffic" },
		},
		{
			name:    "Traffic profile over coordinate cap",
			input:   validMatrixInput(11),
			mutate:  func(in *matrixInput) { in.Profile = "driving-traffic" },
			wantErr: "maximum of 10",
		},
		{
			name:   "Eleven coordinates fine for plain driving",
			input:  validMatrixInput(11),
			mutate: func(in *matrixInput) {},
		},
		{
			name:   "Approaches count matches",
			input:  validMatrixInput(3),
			mutate: func(in *matrixInput) { in.Approaches = "curb;;unrestricted" },
		},
		{
			name:    "Approaches count mismatch",
			input:   validMatrixInput(3),
			mutate:  func(in *matrixInput) { in.Approaches = "curb;curb" },
			wantErr: "number of approaches",
		},
		{
			name:    "Approaches bad value",
			input:   validMatrixInput(2),
			mutate:  func(in *matrixInput) { in.Approaches = "curb;sidewalk" },
			wantErr: "invalid values",
		},
		{
			name:   "Bearings with skipped entry",
			input:  validMatrixInput(3),
			mutate: func(in *matrixInput) { in.Bearings = "45,90;;270,45" },
		},
		{
			name:    "Bearings count mismatch",
			input:   validMatrixInput(3),
			mutate:  func(in *matrixInput) { in.Bearings = "45,90" },
			wantErr: "number of bearings",
		},
		{
			name:    "Bearing angle over 360",
			input:   validMatrixInput(2),
			mutate:  func(in *matrixInput) { in.Bearings = "361,45;90,45" },
			wantErr: "bearing angle",
		},
		{
			name:    "Bearing spread over 180",
			input:   validMatrixInput(2),
			mutate:  func(in *matrixInput) { in.Bearings = "45,181;90,45" },
			wantErr: "bearing degrees",
		},
		{
			name:    "Bearing missing spread",
			input:   validMatrixInput(2),
			mutate:  func(in *matrixInput) { in.Bearings = "45;90,45" },
			wantErr: "bearings format",
		},
		{
			name:   "Sources all keyword",
			input:  validMatrixInput(3),
			mutate: func(in *matrixInput) { in.Sources = "all" },
		},
		{
			name:    "Sources index out of range",
			input:   validMatrixInput(3),
			mutate:  func(in *matrixInput) { in.Sources = "0;3" },
			wantErr: "sources parameter",
		},
		{
			name:    "Destinations index not a number",
			input:   validMatrixInput(3),
			mutate:  func(in *matrixInput) { in.Destinations = "0;x" },
			wantErr: "destinations parameter",
		},
		{
			name:  "Restricted union covers all coordinates",
			input: validMatrixInput(3),
			mutate: func(in *matrixInput) {
				in.Sources = "0;1"
				in.Destinations = "2"
			},
		},
		{
			name:  "Restricted union leaves a coordinate unused",
			input: validMatrixInput(4),
			mutate: func(in *matrixInput) {
				in.Sources = "0"
				in.Destinations = "1;2"
			},
			wantErr: "all coordinates must be used",
		},
		{
			name:  "Only sources restricted never triggers coverage rule",
			input: validMatrixInput(4),
			mutate: func(in *matrixInput) {
				in.Sources = "0"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mutate(tt.input)
			err := validateMatrixConstraints(tt.input)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("validateMatrixConstraints() unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("validateMatrixConstraints() error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestParseIndexList(t *testing.T) {
	indices, err := parseIndexList("sources", "0; 2;1", 3)
	if err != nil {
		t.Fatalf("parseIndexList() unexpected error: %v", err)
	}
	if len(indices) != 3 || indices[0] != 0 || indices[1] != 2 || indices[2] != 1 {
		t.Errorf("parseIndexList() = %v", indices)
	}

	if got, err := parseIndexList("sources", "all", 3); got != nil || err != nil {
		t.Errorf("parseIndexList(all) = %v, %v, want nil, nil", got, err)
	}
	if got, err := parseIndexList("sources", "", 3); got != nil || err != nil {
		t.Errorf("parseIndexList(empty) = %v, %v, want nil, nil", got, err)
	}
	if _, err := parseIndexList("sources", "-1", 3); err == nil {
		t.Error("parseIndexList(-1) expected error")
	}
}
