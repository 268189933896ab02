package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound2(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"already two places", "125.25", "125.25"},
		{"half rounds away from zero", "10.125", "10.13"},
		{"negative half rounds away from zero", "-10.125", "-10.13"},
		{"truncation case", "3.124", "3.12"},
		{"many places", "0.005", "0.01"},
		{"integer unchanged", "125000", "125000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.input)
			require.NoError(t, err)
			expected, err := decimal.NewFromString(tt.expected)
			require.NoError(t, err)
			assert.True(t, Round2(d).Equal(expected), "Round2(%s) = %s, want %s", tt.input, Round2(d), expected)
		})
	}
}
