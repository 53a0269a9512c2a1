package exporter

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock() time.Time {
	return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
}

func TestJSONSerializeRawIsMinified(t *testing.T) {
	s := NewJSONSerializerAt(fixedClock)
	out, err := s.SerializeRaw(executiveOverview())
	require.NoError(t, err)

	assert.False(t, strings.Contains(out, "\n"), "raw mode must not be pretty-printed")
	assert.False(t, strings.Contains(out, "exportedAt"), "raw mode carries no wrapper")
	assert.Contains(t, out, `"templateId":"tpl-exec-overview"`)
}

func TestJSONSerializeWrappedMetadata(t *testing.T) {
	s := NewJSONSerializerAt(fixedClock)
	out, err := s.SerializeWrapped(executiveOverview(), nil)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "2026-03-15T10:00:00Z", doc["exportedAt"])
	assert.Equal(t, "json", doc["format"])
	assert.Equal(t, "1.0", doc["version"])
	assert.Equal(t, "tpl-exec-overview", doc["templateId"])

	stats, ok := doc["stats"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, float64(2), stats["totalMetrics"])
	assert.Equal(t, float64(2), stats["metricsWithTrend"])
	assert.Equal(t, float64(2), stats["metricsWithChange"])
	assert.InDelta(t, (11.3043+9.6774)/2, stats["avgChangePercent"], 0.0001)
}

func TestJSONNormalizationDropsNothingRequired(t *testing.T) {
	s := NewJSONSerializerAt(fixedClock)
	out, err := s.SerializeRaw(executiveOverview())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	points, ok := doc["dataPoints"].([]any)
	require.True(t, ok)
	require.Len(t, points, 2)

	first := points[0].(map[string]any)
	assert.Equal(t, "totalRevenue", first["metricId"])
	assert.Equal(t, float64(128000), first["value"])
	assert.Equal(t, float64(115000), first["previousValue"])
	trend := first["trend"].([]any)
	assert.Len(t, trend, 4)
}

// Round trip: a well-formed report always validates, wrapped or raw
func TestJSONRoundTrip(t *testing.T) {
	s := NewJSONSerializerAt(fixedClock)

	raw, err := s.SerializeRaw(executiveOverview())
	require.NoError(t, err)
	result := ValidateJSONExport([]byte(raw))
	assert.True(t, result.Valid, "raw round trip failed: %v", result.Errors)

	wrapped, err := s.SerializeWrapped(executiveOverview(), nil)
	require.NoError(t, err)
	result = ValidateJSONExport([]byte(wrapped))
	assert.True(t, result.Valid, "wrapped round trip failed: %v", result.Errors)
}

// Corrupting dataPoints[i].metricId must produce a validation error naming
// the offending index
func TestJSONValidatorNamesCorruptedIndex(t *testing.T) {
	s := NewJSONSerializerAt(fixedClock)
	raw, err := s.SerializeRaw(executiveOverview())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	points := doc["dataPoints"].([]any)
	point := points[1].(map[string]any)
	delete(point, "metricId")
	corrupted, err := json.Marshal(doc)
	require.NoError(t, err)

	result := ValidateJSONExport(corrupted)
	assert.False(t, result.Valid)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "dataPoints[1]: missing metricId", result.Errors[0])
}

func TestJSONValidatorStructuralErrors(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		expected string
	}{
		{
			name:     "invalid JSON never panics",
			payload:  "{not json",
			expected: "invalid JSON",
		},
		{
			name:     "missing templateId",
			payload:  `{"template":{"id":"t","name":"n","metrics":[]},"dataPoints":[]}`,
			expected: "missing templateId",
		},
		{
			name:     "missing template",
			payload:  `{"templateId":"t","dataPoints":[]}`,
			expected: "missing template",
		},
		{
			name:     "template metrics not an array",
			payload:  `{"templateId":"t","template":{"id":"t","name":"n","metrics":"oops"},"dataPoints":[]}`,
			expected: "template: metrics is not an array",
		},
		{
			name:     "dataPoints not an array",
			payload:  `{"templateId":"t","template":{"id":"t","name":"n","metrics":[]},"dataPoints":"oops"}`,
			expected: "dataPoints is not an array",
		},
		{
			name:     "non-numeric value named by index",
			payload:  `{"templateId":"t","template":{"id":"t","name":"n","metrics":[]},"dataPoints":[{"metricId":"m","value":"high"}]}`,
			expected: "dataPoints[0]: value is not a number",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateJSONExport([]byte(tt.payload))
			assert.False(t, result.Valid)
			require.NotEmpty(t, result.Errors)
			assert.Contains(t, result.Errors[0], tt.expected)
		})
	}
}

func TestJSONValidatorAcceptsEmptyDataPoints(t *testing.T) {
	payload := `{"templateId":"t","template":{"id":"t","name":"n","metrics":[]},"dataPoints":[]}`
	result := ValidateJSONExport([]byte(payload))
	assert.True(t, result.Valid)
	assert.Empty(t, result.Errors)
}
