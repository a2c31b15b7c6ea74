package product

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected float64
		wantErr  bool
	}{
		{name: "plain number", input: "500000", expected: 500000},
		{name: "indian comma grouping", input: "5,00,000", expected: 500000},
		{name: "lakh word", input: "5 lakh", expected: 500000},
		{name: "lakhs plural", input: "12 lakhs", expected: 1200000},
		{name: "lac spelling", input: "2 lacs", expected: 200000},
		{name: "short l suffix", input: "5l", expected: 500000},
		{name: "crore word", input: "1.5 crore", expected: 15000000},
		{name: "cr suffix", input: "2cr", expected: 20000000},
		{name: "rupee symbol", input: "₹7,50,000", expected: 750000},
		{name: "rs prefix", input: "rs. 300000", expected: 300000},
		{name: "decimal lakh", input: "7.5 lakh", expected: 750000},
		{name: "no number", input: "a few", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCoerceNumeric(t *testing.T) {
	assert.Equal(t, float64(42), CoerceNumeric(42))
	assert.Equal(t, 4.2, CoerceNumeric(4.2))
	assert.Equal(t, float64(500000), CoerceNumeric("5 lakh"))
	assert.Equal(t, float64(0), CoerceNumeric(nil))
	assert.Equal(t, float64(0), CoerceNumeric("garbage"))
}
