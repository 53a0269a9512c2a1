package exporter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportkit/pkg/contracts/domain"
)

func TestMarkdownSummaryCounts(t *testing.T) {
	s := NewMarkdownSerializer(domain.DefaultCatalog())
	out := s.Serialize(mixedChanges(), nil)

	assert.Contains(t, out, "- **Total Metrics:** 5\n")
	assert.Contains(t, out, "- **Improved:** 2\n")
	assert.Contains(t, out, "- **Declined:** 2\n")
	assert.Contains(t, out, "- **Unchanged:** 1\n")
}

// Given change percentages [+12, +3, -1, -8, 0]: Top Performers lists only
// positive entries sorted descending, Needs Attention only negative entries
// sorted by magnitude descending
func TestMarkdownHighlights(t *testing.T) {
	s := NewMarkdownSerializer(domain.Catalog{})
	out := s.Serialize(mixedChanges(), nil)

	require.Contains(t, out, "### Top Performers\n")
	top := section(out, "### Top Performers")
	assert.Contains(t, top, "1. **alpha**: +12.0%")
	assert.Contains(t, top, "2. **bravo**: +3.0%")
	assert.NotContains(t, top, "charlie")
	assert.NotContains(t, top, "echo")

	require.Contains(t, out, "### Needs Attention\n")
	bottom := section(out, "### Needs Attention")
	assert.Contains(t, bottom, "1. **delta**: -8.0%")
	assert.Contains(t, bottom, "2. **charlie**: -1.0%")
	assert.NotContains(t, bottom, "echo")
}

func TestMarkdownHighlightsOmittedWhenAllPositive(t *testing.T) {
	data := mixedChanges()
	for i := range data.DataPoints {
		data.DataPoints[i].ChangePercent = ptr(float64(i + 1))
	}

	s := NewMarkdownSerializer(domain.Catalog{})
	out := s.Serialize(data, nil)

	assert.Contains(t, out, "### Top Performers\n")
	assert.NotContains(t, out, "### Needs Attention")
}

func TestMarkdownHighlightsOmittedWhenAllNegative(t *testing.T) {
	data := mixedChanges()
	for i := range data.DataPoints {
		data.DataPoints[i].ChangePercent = ptr(-float64(i + 1))
	}

	s := NewMarkdownSerializer(domain.Catalog{})
	out := s.Serialize(data, nil)

	assert.NotContains(t, out, "### Top Performers")
	assert.Contains(t, out, "### Needs Attention\n")
}

// End-to-end property: the Executive Overview export carries the exact
// metrics-table row and orders totalRevenue above conversionRate in the
// highlights, since its change percentage is larger
func TestMarkdownExecutiveOverviewEndToEnd(t *testing.T) {
	s := NewMarkdownSerializer(domain.Catalog{})
	out := s.Serialize(executiveOverview(), nil)

	assert.Contains(t, out, "| totalRevenue | 128,000.00 | 115,000.00 | +13,000.00 | +11.3% |")

	top := section(out, "### Top Performers")
	revenueAt := strings.Index(top, "totalRevenue")
	conversionAt := strings.Index(top, "conversionRate")
	require.GreaterOrEqual(t, revenueAt, 0)
	require.GreaterOrEqual(t, conversionAt, 0)
	assert.Less(t, revenueAt, conversionAt)
}

func TestMarkdownSparkline(t *testing.T) {
	tests := []struct {
		name     string
		trend    []domain.TrendPoint
		expected string
	}{
		{
			name: "monotonic rise spans all levels",
			trend: []domain.TrendPoint{
				{Value: 0}, {Value: 1}, {Value: 2}, {Value: 3}, {Value: 4}, {Value: 5}, {Value: 6},
			},
			expected: "▁▂▃▄▅▆▇",
		},
		{
			name:     "flat trend sits mid-level",
			trend:    []domain.TrendPoint{{Value: 5}, {Value: 5}, {Value: 5}},
			expected: "▄▄▄",
		},
		{
			name:     "extremes only",
			trend:    []domain.TrendPoint{{Value: 10}, {Value: 90}},
			expected: "▁▇",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, sparkline(tt.trend))
		})
	}
}

func TestMarkdownTrendTablePadded(t *testing.T) {
	s := NewMarkdownSerializer(domain.DefaultCatalog())
	out := s.Serialize(executiveOverview(), nil)

	trends := section(out, "## Trends")
	assert.Contains(t, trends, "| Metric | Period 1 | Period 2 | Period 3 | Period 4 |")
	// The shorter trend row keeps four period columns, the last two empty
	assert.Contains(t, trends, "| Conversion Rate | 3.0% | 3.4% |  |  |")
}

func TestMarkdownDetailAndFooter(t *testing.T) {
	s := NewMarkdownSerializer(domain.DefaultCatalog())
	out := s.Serialize(executiveOverview(), nil)

	assert.Contains(t, out, "### Total Revenue\n")
	assert.Contains(t, out, "- **Current:** $128,000.00\n")
	assert.Contains(t, out, "- **Change:** +13,000.00 (+11.3%)\n")
	assert.Contains(t, out, "Trend: `")
	assert.Contains(t, out, "## Template\n")
	assert.Contains(t, out, "_Report exported 2026-03-15 09:30:00_\n")
}

func TestMarkdownMissingOptionalsNeverCrash(t *testing.T) {
	data := executiveOverview()
	for i := range data.DataPoints {
		data.DataPoints[i].PreviousValue = nil
		data.DataPoints[i].Change = nil
		data.DataPoints[i].ChangePercent = nil
		data.DataPoints[i].Trend = nil
	}

	s := NewMarkdownSerializer(domain.DefaultCatalog())
	out := s.Serialize(data, nil)

	assert.Contains(t, out, "| Total Revenue | 128,000.00 | N/A | N/A | N/A |")
	assert.NotContains(t, out, "## Performance Highlights")
	assert.NotContains(t, out, "## Trends")
}

// section returns the text from the given heading up to the next heading of
// the same or higher level
func section(doc, heading string) string {
	start := strings.Index(doc, heading)
	if start < 0 {
		return ""
	}
	rest := doc[start+len(heading):]
	if end := strings.Index(rest, "#"); end >= 0 {
		return rest[:end]
	}
	return rest
}
