package validation

import (
	"strings"
	"testing"
)

func TestParseOutputFormat(t *testing.T) {
	tests := []struct {
		input     string
		expected  string
		expectErr bool
	}{
		{"pretty", "pretty", false},
		{"csv", "csv", false},
		{" CSV ", "csv", false},
		{"", "pretty", false},
		{"xlsx", "", true},
		{"table", "", true},
	}

	for _, tt := range tests {
		got, err := ParseOutputFormat(tt.input)
		if tt.expectErr {
			if err == nil {
				t.Errorf("ParseOutputFormat(%q) expected error", tt.input)
			} else if !strings.Contains(err.Error(), tt.input) {
				t.Errorf("error should mention the rejected format, got %q", err.Error())
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseOutputFormat(%q) error = %v", tt.input, err)
		}
		if got != tt.expected {
			t.Errorf("ParseOutputFormat(%q) = %q, expected %q", tt.input, got, tt.expected)
		}
	}
}
