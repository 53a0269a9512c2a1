package exporter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"reportkit/pkg/contracts/domain"
)

func TestFormatValueNumber(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "integer is grouped", input: 128000, expected: "128,000"},
		{name: "small value keeps fraction", input: 3.4, expected: "3.4"},
		{name: "fraction capped at two digits", input: 3.456, expected: "3.46"},
		{name: "trailing zeros trimmed", input: 100.0, expected: "100"},
		{name: "negative grouped", input: -1234567.5, expected: "-1,234,567.5"},
		{name: "zero", input: 0, expected: "0"},
		{name: "NaN is not available", input: math.NaN(), expected: "N/A"},
		{name: "positive infinity is not available", input: math.Inf(1), expected: "N/A"},
		{name: "negative infinity is not available", input: math.Inf(-1), expected: "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.input, domain.UnitNumber))
		})
	}
}

func TestFormatValueCurrency(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "always two fraction digits", input: 128000, expected: "$128,000.00"},
		{name: "cents preserved", input: 42.5, expected: "$42.50"},
		{name: "negative sign leads", input: -99.99, expected: "-$99.99"},
		{name: "zero", input: 0, expected: "$0.00"},
		{name: "NaN is not available", input: math.NaN(), expected: "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.input, domain.UnitCurrency))
		})
	}
}

func TestFormatValuePercentage(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "one fraction digit", input: 3.4, expected: "3.4%"},
		{name: "rounded to one digit", input: 11.26, expected: "11.3%"},
		{name: "integer gains a digit", input: 50, expected: "50.0%"},
		{name: "NaN is not available", input: math.NaN(), expected: "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.input, domain.UnitPercentage))
		})
	}
}

func TestFormatValueDuration(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "sub-minute keeps one decimal", input: 45, expected: "45.0s"},
		{name: "ninety seconds", input: 90, expected: "1m 30s"},
		{name: "hour minute second", input: 3661, expected: "1h 1m 1s"},
		{name: "exact hour omits zero components", input: 3600, expected: "1h"},
		{name: "exact minute", input: 60, expected: "1m"},
		{name: "hour with seconds only", input: 3601, expected: "1h 1s"},
		{name: "fraction below a minute", input: 59.95, expected: "60.0s"},
		{name: "NaN is not available", input: math.NaN(), expected: "N/A"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatValue(tt.input, domain.UnitDuration))
		})
	}
}

func TestFormatOptional(t *testing.T) {
	v := 12.0
	assert.Equal(t, "N/A", FormatOptional(nil, domain.UnitCurrency))
	assert.Equal(t, "$12.00", FormatOptional(&v, domain.UnitCurrency))
}

func TestFormatSigned(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{name: "positive gains sign and grouping", input: 13000, expected: "+13,000.00"},
		{name: "negative keeps grouping", input: -2500.5, expected: "-2,500.50"},
		{name: "zero is positive", input: 0, expected: "+0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatSigned(tt.input))
		})
	}
}

func TestFormatSignedPercent(t *testing.T) {
	assert.Equal(t, "+11.3%", FormatSignedPercent(11.3043))
	assert.Equal(t, "-8.0%", FormatSignedPercent(-8))
	assert.Equal(t, "N/A", FormatOptionalSignedPercent(nil))
}

func TestFormatTableNumber(t *testing.T) {
	assert.Equal(t, "128,000.00", FormatTableNumber(128000))
	assert.Equal(t, "115,000.00", FormatTableNumber(115000))
	assert.Equal(t, "3.40", FormatTableNumber(3.4))
}

// FormatValue must be pure: the same input always renders the same string
func TestFormatValueDeterministic(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.Equal(t, "$1,234.56", FormatValue(1234.56, domain.UnitCurrency))
	}
}
