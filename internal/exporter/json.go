package exporter

import (
	"encoding/json"
	"fmt"
	"time"

	"reportkit/pkg/contracts/domain"
)

const (
	jsonExportFormat  = "json"
	jsonExportVersion = "1.0"
)

// JSONSerializer renders a report as structured interchange JSON. Two modes:
// raw (minified, no wrapper) and wrapped (export metadata plus derived stats).
// Both modes normalize every data point to a fixed field set.
type JSONSerializer struct {
	now func() time.Time
}

// NewJSONSerializer creates a new JSON serializer
func NewJSONSerializer() *JSONSerializer {
	return &JSONSerializer{now: time.Now}
}

// NewJSONSerializerAt creates a JSON serializer with a fixed clock
func NewJSONSerializerAt(now func() time.Time) *JSONSerializer {
	return &JSONSerializer{now: now}
}

type jsonTemplate struct {
	ID          string                `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description,omitempty"`
	Metrics     []domain.ReportMetric `json:"metrics"`
	IsDefault   bool                  `json:"isDefault"`
}

type jsonDataPoint struct {
	MetricID      string              `json:"metricId"`
	Value         float64             `json:"value"`
	PreviousValue *float64            `json:"previousValue,omitempty"`
	Change        *float64            `json:"change,omitempty"`
	ChangePercent *float64            `json:"changePercent,omitempty"`
	Trend         []domain.TrendPoint `json:"trend,omitempty"`
}

type jsonReport struct {
	TemplateID  string          `json:"templateId"`
	Template    jsonTemplate    `json:"template"`
	DataPoints  []jsonDataPoint `json:"dataPoints"`
	GeneratedAt string          `json:"generatedAt"`
}

type jsonStats struct {
	TotalMetrics      int     `json:"totalMetrics"`
	MetricsWithTrend  int     `json:"metricsWithTrend"`
	MetricsWithChange int     `json:"metricsWithChange"`
	AvgChangePercent  float64 `json:"avgChangePercent"`
}

type jsonDateRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type jsonExport struct {
	ExportedAt string         `json:"exportedAt"`
	Format     string         `json:"format"`
	Version    string         `json:"version"`
	TemplateID string         `json:"templateId"`
	Template   jsonTemplate   `json:"template"`
	DateRange  *jsonDateRange `json:"dateRange,omitempty"`
	Stats      jsonStats      `json:"stats"`
	Report     jsonReport     `json:"report"`
}

// SerializeRaw produces the minified, unwrapped form
func (s *JSONSerializer) SerializeRaw(data *domain.ReportData) (string, error) {
	out, err := json.Marshal(normalizeReport(data))
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(out), nil
}

// SerializeWrapped produces the metadata-wrapped form with derived stats
func (s *JSONSerializer) SerializeWrapped(data *domain.ReportData, dateRange *domain.DateRange) (string, error) {
	report := normalizeReport(data)

	wrapped := jsonExport{
		ExportedAt: s.now().UTC().Format(time.RFC3339),
		Format:     jsonExportFormat,
		Version:    jsonExportVersion,
		TemplateID: data.TemplateID,
		Template:   report.Template,
		Stats:      deriveStats(data),
		Report:     report,
	}
	if dateRange != nil {
		wrapped.DateRange = &jsonDateRange{
			Start: dateRange.Start.Format("2006-01-02"),
			End:   dateRange.End.Format("2006-01-02"),
		}
	}

	out, err := json.MarshalIndent(wrapped, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal wrapped export: %w", err)
	}
	return string(out), nil
}

// normalizeReport rebuilds the report into the fixed export field set,
// dropping anything the interchange contract does not name
func normalizeReport(data *domain.ReportData) jsonReport {
	points := make([]jsonDataPoint, len(data.DataPoints))
	for i, dp := range data.DataPoints {
		points[i] = jsonDataPoint{
			MetricID:      dp.MetricID,
			Value:         dp.Value,
			PreviousValue: dp.PreviousValue,
			Change:        dp.Change,
			ChangePercent: dp.ChangePercent,
			Trend:         dp.Trend,
		}
	}

	return jsonReport{
		TemplateID: data.TemplateID,
		Template: jsonTemplate{
			ID:          data.Template.ID,
			Name:        data.Template.Name,
			Description: data.Template.Description,
			Metrics:     data.Template.Metrics,
			IsDefault:   data.Template.IsDefault,
		},
		DataPoints:  points,
		GeneratedAt: data.GeneratedAt.UTC().Format(time.RFC3339),
	}
}

func deriveStats(data *domain.ReportData) jsonStats {
	stats := jsonStats{TotalMetrics: len(data.DataPoints)}

	var sum float64
	for _, dp := range data.DataPoints {
		if len(dp.Trend) > 0 {
			stats.MetricsWithTrend++
		}
		if dp.ChangePercent != nil {
			stats.MetricsWithChange++
			sum += *dp.ChangePercent
		}
	}
	if stats.MetricsWithChange > 0 {
		stats.AvgChangePercent = sum / float64(stats.MetricsWithChange)
	}
	return stats
}

// ValidationResult is the outcome of a round-trip check. It is returned, not
// raised, so callers can gate re-import on it.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// ValidateJSONExport parses a JSON export (wrapped or raw) and checks the
// structural contract of the source data model: templateId, a template with
// id, name and metrics, and data points each carrying a metricId and a
// numeric value. Never fails with an error of its own.
func ValidateJSONExport(payload []byte) ValidationResult {
	var doc map[string]any
	if err := json.Unmarshal(payload, &doc); err != nil {
		return ValidationResult{Errors: []string{fmt.Sprintf("invalid JSON: %v", err)}}
	}

	// Wrapped exports keep the report under a "report" key
	if inner, ok := doc["report"].(map[string]any); ok {
		doc = inner
	}

	var errs []string

	if id, ok := doc["templateId"].(string); !ok || id == "" {
		errs = append(errs, "missing templateId")
	}

	if tpl, ok := doc["template"].(map[string]any); !ok {
		errs = append(errs, "missing template")
	} else {
		if id, ok := tpl["id"].(string); !ok || id == "" {
			errs = append(errs, "template: missing id")
		}
		if name, ok := tpl["name"].(string); !ok || name == "" {
			errs = append(errs, "template: missing name")
		}
		if _, ok := tpl["metrics"].([]any); !ok {
			errs = append(errs, "template: metrics is not an array")
		}
	}

	if points, ok := doc["dataPoints"].([]any); !ok {
		errs = append(errs, "dataPoints is not an array")
	} else {
		for i, raw := range points {
			point, ok := raw.(map[string]any)
			if !ok {
				errs = append(errs, fmt.Sprintf("dataPoints[%d]: not an object", i))
				continue
			}
			if id, ok := point["metricId"].(string); !ok || id == "" {
				errs = append(errs, fmt.Sprintf("dataPoints[%d]: missing metricId", i))
			}
			if _, ok := point["value"].(float64); !ok {
				errs = append(errs, fmt.Sprintf("dataPoints[%d]: value is not a number", i))
			}
		}
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}
