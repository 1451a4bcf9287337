package processor

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseBRLMoney(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1.234,56", "1234.56"},
		{"R$ 1.234,56", "1234.56"},
		{"1500,00", "1500"},
		{"1234.56", "1234.56"},
		{"1,234.56", "1234.56"},
		{"1.234", "1234"},
		{"1.234.567,89", "1234567.89"},
		{"-2,5", "-2.5"},
		{"0,5", "0.5"},
		{"", "0"},
		{"pendente", "0"},
		{"R$ 1.000,00", "1000"},
	}

	for _, tt := range tests {
		want, _ := decimal.NewFromString(tt.expected)
		if got := ParseBRLMoney(tt.input); !got.Equal(want) {
			t.Errorf("ParseBRLMoney(%q) = %s, want %s", tt.input, got, want)
		}
	}
}

func TestFormatBRL(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1234.56", "1.234,56"},
		{"1500", "1.500,00"},
		{"0", "0,00"},
		{"-1234.5", "-1.234,50"},
		{"1234567.89", "1.234.567,89"},
		{"12.3", "12,30"},
	}

	for _, tt := range tests {
		d, _ := decimal.NewFromString(tt.input)
		if got := FormatBRL(d); got != tt.expected {
			t.Errorf("FormatBRL(%s) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestMoneyRoundTrip(t *testing.T) {
	// Formatting a parsed decimal and re-parsing it must yield the same
	// decimal for Brazilian comma-decimal values.
	inputs := []string{"1.234,56", "0,01", "999,99", "1.000.000,00"}
	for _, in := range inputs {
		d := ParseBRLMoney(in)
		again := ParseBRLMoney(FormatBRL(d))
		if !d.Equal(again) {
			t.Errorf("round trip of %q: %s != %s", in, d, again)
		}
	}
}
