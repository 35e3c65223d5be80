package utils

import "testing"

func TestNormalizeTicker(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"aapl", "AAPL"},
		{" MSFT ", "MSFT"},
		{"$TSLA", "TSLA"},
		{"spx", "S&P 500"},
		{"DJIA", "Dow Jones"},
		{"BRK.B", "BRK.B"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := NormalizeTicker(tt.input)
			if result != tt.expected {
				t.Errorf("NormalizeTicker(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestToYFinanceTicker(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AAPL", "AAPL"},
		{"BRK.B", "BRK-B"},
		{"SPX", "^GSPC"},
		{"VIX", "^VIX"},
		{"^RUT", "^RUT"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := ToYFinanceTicker(tt.input)
			if result != tt.expected {
				t.Errorf("ToYFinanceTicker(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFromYFinanceTicker(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"AAPL", "AAPL"},
		{"BRK-B", "BRK.B"},
		{"^GSPC", "S&P 500"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			result := FromYFinanceTicker(tt.input)
			if result != tt.expected {
				t.Errorf("FromYFinanceTicker(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsIndex(t *testing.T) {
	if !IsIndex("SPX") {
		t.Error("Expected SPX to be an index")
	}
	if !IsIndex("^VIX") {
		t.Error("Expected ^VIX to be an index")
	}
	if IsIndex("AAPL") {
		t.Error("Expected AAPL to not be an index")
	}
}
