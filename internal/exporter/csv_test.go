package exporter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportkit/pkg/contracts/domain"
)

func TestCSVSerializeStructure(t *testing.T) {
	s := NewCSVSerializer(domain.DefaultCatalog())
	out := s.Serialize(executiveOverview(), nil)

	assert.True(t, strings.HasPrefix(out, "# Report: Executive Overview\n"))
	assert.Contains(t, out, "# Description: Month-over-month topline metrics\n")
	assert.Contains(t, out, "# Generated: 2026-03-15 09:30:00\n")

	assert.Contains(t, out, "Summary Metrics\n")
	assert.Contains(t, out, "Metric,Value,Previous Value,Change,Change %\n")
	assert.Contains(t, out, "Total Revenue,\"$128,000.00\",\"$115,000.00\",\"+13,000.00\",+11.3%\n")

	assert.Contains(t, out, "Detailed Metrics\n")
	assert.Contains(t, out, "Period,Value\n")
	assert.Contains(t, out, "Week 1,\"$24,000.00\"\n")

	assert.Contains(t, out, "Raw Data\n")
	assert.Contains(t, out, "Metric ID,Metric Name,Value,Previous Value,Change,Change %,Trend\n")
}

func TestCSVSerializeDateRange(t *testing.T) {
	s := NewCSVSerializer(domain.DefaultCatalog())
	dr := &domain.DateRange{
		Start: fixedGeneratedAt.AddDate(0, -1, 0),
		End:   fixedGeneratedAt,
	}
	out := s.Serialize(executiveOverview(), dr)
	assert.Contains(t, out, "# Date Range: 2026-02-15 to 2026-03-15\n")
}

// The raw-data table stores unformatted values and the trend as embedded
// JSON so a consumer can re-ingest the export without loss
func TestCSVRawDataRoundTrippable(t *testing.T) {
	s := NewCSVSerializer(domain.DefaultCatalog())
	out := s.Serialize(executiveOverview(), nil)

	rawSection := out[strings.Index(out, "Raw Data"):]
	require.Contains(t, rawSection, "totalRevenue,Total Revenue,128000,115000,13000,11.3043,")
	// Embedded JSON survives field quoting with doubled quotes
	assert.Contains(t, rawSection, `""period"":""Week 1""`)
}

func TestCSVMissingOptionalFields(t *testing.T) {
	data := executiveOverview()
	data.DataPoints[1].PreviousValue = nil
	data.DataPoints[1].Change = nil
	data.DataPoints[1].ChangePercent = nil
	data.DataPoints[1].Trend = nil

	s := NewCSVSerializer(domain.DefaultCatalog())
	out := s.Serialize(data, nil)

	assert.Contains(t, out, "Conversion Rate,3.4%,N/A,N/A,N/A\n")
	// Raw data renders absence as empty fields and an empty trend array
	assert.Contains(t, out, "conversionRate,Conversion Rate,3.4,,,,[]\n")
}

func TestCSVEscapesEveryCell(t *testing.T) {
	data := executiveOverview()
	data.Template.Name = `Quarterly "Board" Report, FY26`

	s := NewCSVSerializer(domain.DefaultCatalog())
	out := s.Serialize(data, nil)

	// The header comment is raw text, not a CSV row
	assert.Contains(t, out, `# Report: Quarterly "Board" Report, FY26`)
}
