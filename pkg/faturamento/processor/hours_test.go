package processor

import "testing"

func TestFormatHorasAtrasos(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"2:30", "2,5"},
		{"1:90", "2,5"}, // 90 minutes carries into the hours
		{"0:30", "0,5"},
		{"-1:30", "-1,5"},
		{"4h 30m", "4,5"},
		{"4h", "4,0"},
		{"2,5", "2,5"},
		{"2.5", "2,5"},
		{"3", "3,0"},
		{"", "Informação pendente"},
		{"Informação pendente", "Informação pendente"},
		{"informacao  PENDENTE", "Informação pendente"},
		{"abc", "abc"},
	}

	for _, tt := range tests {
		if got := FormatHorasAtrasos(tt.input); got != tt.expected {
			t.Errorf("FormatHorasAtrasos(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatHorasAtrasosOverflowEquivalence(t *testing.T) {
	if a, b := FormatHorasAtrasos("1:90"), FormatHorasAtrasos("2:30"); a != b {
		t.Errorf("1:90 (%q) and 2:30 (%q) must normalize identically", a, b)
	}
}

func TestFormatHorasAtrasosRounding(t *testing.T) {
	// 1:20 is 1.333... hours, quantized to one decimal place.
	if got := FormatHorasAtrasos("1:20"); got != "1,3" {
		t.Errorf("FormatHorasAtrasos(1:20) = %q, want 1,3", got)
	}
}
