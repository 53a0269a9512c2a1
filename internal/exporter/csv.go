package exporter

import (
	"encoding/json"
	"strconv"
	"strings"

	"reportkit/pkg/contracts/domain"
)

// CSVSerializer renders a report as a single delimited-text document with a
// commented header, a formatted summary table, per-metric trend detail and a
// raw-data table suitable for lossless re-ingestion.
type CSVSerializer struct {
	catalog domain.Catalog
}

// NewCSVSerializer creates a new CSV serializer
func NewCSVSerializer(catalog domain.Catalog) *CSVSerializer {
	return &CSVSerializer{catalog: catalog}
}

// Serialize builds the CSV document. Every cell passes through EscapeCSV.
func (s *CSVSerializer) Serialize(data *domain.ReportData, dateRange *domain.DateRange) string {
	var b strings.Builder

	b.WriteString("# Report: " + data.Template.Name + "\n")
	if data.Template.Description != "" {
		b.WriteString("# Description: " + data.Template.Description + "\n")
	}
	b.WriteString("# Generated: " + data.GeneratedAt.Format("2006-01-02 15:04:05") + "\n")
	if dateRange != nil {
		b.WriteString("# Date Range: " + dateRange.Start.Format("2006-01-02") + " to " + dateRange.End.Format("2006-01-02") + "\n")
	}
	b.WriteString("\n")

	s.writeSummary(&b, data)
	s.writeDetails(&b, data)
	s.writeRawData(&b, data)

	return b.String()
}

func (s *CSVSerializer) writeSummary(b *strings.Builder, data *domain.ReportData) {
	b.WriteString("Summary Metrics\n")
	writeRow(b, "Metric", "Value", "Previous Value", "Change", "Change %")

	for _, dp := range data.DataPoints {
		def := s.catalog.Resolve(dp.MetricID)
		writeRow(b,
			def.Name,
			FormatValue(dp.Value, def.Unit),
			FormatOptional(dp.PreviousValue, def.Unit),
			FormatOptionalSigned(dp.Change),
			FormatOptionalSignedPercent(dp.ChangePercent),
		)
	}
	b.WriteString("\n")
}

func (s *CSVSerializer) writeDetails(b *strings.Builder, data *domain.ReportData) {
	b.WriteString("Detailed Metrics\n\n")

	for _, dp := range data.DataPoints {
		def := s.catalog.Resolve(dp.MetricID)
		b.WriteString(EscapeCSV(def.Name) + "\n")
		writeRow(b, "Period", "Value")
		for _, tp := range dp.Trend {
			writeRow(b, tp.Period, FormatValue(tp.Value, def.Unit))
		}
		b.WriteString("\n")
	}
}

func (s *CSVSerializer) writeRawData(b *strings.Builder, data *domain.ReportData) {
	b.WriteString("Raw Data\n")
	writeRow(b, "Metric ID", "Metric Name", "Value", "Previous Value", "Change", "Change %", "Trend")

	for _, dp := range data.DataPoints {
		def := s.catalog.Resolve(dp.MetricID)
		writeRow(b,
			dp.MetricID,
			def.Name,
			rawNumber(dp.Value),
			rawOptional(dp.PreviousValue),
			rawOptional(dp.Change),
			rawOptional(dp.ChangePercent),
			rawTrend(dp.Trend),
		)
	}
}

func writeRow(b *strings.Builder, cells ...string) {
	escaped := make([]string, len(cells))
	for i, c := range cells {
		escaped[i] = EscapeCSV(c)
	}
	b.WriteString(strings.Join(escaped, ",") + "\n")
}

func rawNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func rawOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return rawNumber(*v)
}

// rawTrend serializes the trend as embedded JSON so re-ingestion loses
// nothing. json.Marshal on this shape cannot fail.
func rawTrend(trend []domain.TrendPoint) string {
	if len(trend) == 0 {
		return "[]"
	}
	out, err := json.Marshal(trend)
	if err != nil {
		return "[]"
	}
	return string(out)
}
