package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTickers(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: nil,
		},
		{
			name:     "single value",
			input:    "aapl",
			expected: []string{"AAPL"},
		},
		{
			name:     "varied spacing",
			input:    "SPY,  qqq , iwm",
			expected: []string{"SPY", "QQQ", "IWM"},
		},
		{
			name:     "trailing comma",
			input:    "MSFT,",
			expected: []string{"MSFT"},
		},
		{
			name:     "leading comma",
			input:    ",GOOG",
			expected: []string{"GOOG"},
		},
		{
			name:     "duplicates keep first occurrence",
			input:    "spy,AAPL,SPY, aapl",
			expected: []string{"SPY", "AAPL"},
		},
		{
			name:     "only spaces",
			input:    "   ",
			expected: nil,
		},
		{
			name:     "comma only",
			input:    ",",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseTickers(tt.input))
		})
	}
}

func TestNormalizeTicker(t *testing.T) {
	assert.Equal(t, "BRK-B", NormalizeTicker("  brk-b "))
	assert.Equal(t, "", NormalizeTicker("   "))
}
