package tools

import "testing"

func TestValidateISODateTime(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		wantErr bool
	}{
		{name: "UTC with seconds", value: "2025-06-05T10:30:45Z"},
		{name: "Offset with seconds", value: "2025-06-05T10:30:45+02:00"},
		{name: "Negative offset", value: "2025-06-05T10:30:45-05:30"},
		{name: "Minutes only", value: "2025-06-05T10:30"},
		{name: "Seconds without zone", value: "2025-06-05T10:30:45"},
		{name: "Leap day accepted", value: "2024-02-29T00:00"},
		{name: "Feb 29 always accepted", value: "2025-02-29T00:00"},
		{name: "Month out of range", value: "2025-13-01T10:30", wantErr: true},
		{name: "Month zero", value: "2025-00-01T10:30", wantErr: true},
		{name: "Day out of range", value: "2025-04-31T10:30", wantErr: true},
		{name: "Day zero", value: "2025-04-00T10:30", wantErr: true},
		{name: "Hours out of range", value: "2025-06-05T24:00", wantErr: true},
		{name: "Minutes out of range", value: "2025-06-05T10:60", wantErr: true},
		{name: "Seconds out of range", value: "2025-06-05T10:30:60", wantErr: true},
		{name: "Date only", value: "2025-06-05", wantErr: true},
		{name: "Space separator", value: "2025-06-05 10:30", wantErr: true},
		{name: "Garbage", value: "next tuesday", wantErr: true},
		{name: "Empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateISODateTime(tt.value)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateISODateTime(%q) error = %v, wantErr %v", tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestCanonicalizeISODateTime(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "Seconds without zone drops seconds", value: "2025-06-05T10:30:45", want: "2025-06-05T10:30"},
		{name: "UTC unchanged", value: "2025-06-05T10:30:45Z", want: "2025-06-05T10:30:45Z"},
		{name: "Offset unchanged", value: "2025-06-05T10:30:45+02:00", want: "2025-06-05T10:30:45+02:00"},
		{name: "Minutes only unchanged", value: "2025-06-05T10:30", want: "2025-06-05T10:30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := canonicalizeISODateTime(tt.value); got != tt.want {
				t.Errorf("canonicalizeISODateTime(%q) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}
