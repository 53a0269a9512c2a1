package exporter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportkit/pkg/contracts/domain"
)

func TestExcelWorkbookStructure(t *testing.T) {
	s := NewExcelSerializer(domain.DefaultCatalog())
	out := s.Serialize(executiveOverview(), nil)

	assert.True(t, strings.HasPrefix(out, `<?xml version="1.0"?>`))
	assert.Contains(t, out, `<?mso-application progid="Excel.Sheet"?>`)
	for _, sheet := range []string{"Summary", "Metrics Data", "Trends", "Template Info"} {
		assert.Contains(t, out, `<Worksheet ss:Name="`+sheet+`">`, "missing worksheet %s", sheet)
	}
}

func TestExcelSummaryCounts(t *testing.T) {
	s := NewExcelSerializer(domain.DefaultCatalog())
	out := s.Serialize(mixedChanges(), nil)

	// +12 and +3 improved; -1 and -8 declined; 0 counts as neither
	assert.Contains(t, out, `<Cell ss:StyleID="Positive"><Data ss:Type="Number">2</Data></Cell>`)
	assert.Contains(t, out, `<Cell ss:StyleID="Negative"><Data ss:Type="Number">2</Data></Cell>`)
}

func TestExcelNumericCellsTyped(t *testing.T) {
	s := NewExcelSerializer(domain.DefaultCatalog())
	out := s.Serialize(executiveOverview(), nil)

	assert.Contains(t, out, `<Data ss:Type="Number">128000</Data>`)
	assert.Contains(t, out, `<Data ss:Type="Number">115000</Data>`)
	// Positive changes carry the positive style
	assert.Contains(t, out, `<Cell ss:StyleID="Positive"><Data ss:Type="Number">13000</Data></Cell>`)
}

// With metrics of differing trend lengths the header spans the longest trend
// and shorter rows are padded with empty cells, never truncated or shifted
func TestExcelTrendsPadding(t *testing.T) {
	data := executiveOverview() // trends of length 4 and 2
	s := NewExcelSerializer(domain.DefaultCatalog())
	out := s.Serialize(data, nil)

	trendsStart := strings.Index(out, `<Worksheet ss:Name="Trends">`)
	require.GreaterOrEqual(t, trendsStart, 0)
	trends := out[trendsStart:]
	trends = trends[:strings.Index(trends, "</Worksheet>")]

	// Header: metric column plus one per longest trend
	assert.Contains(t, trends, ">Period 4<")
	assert.NotContains(t, trends, ">Period 5<")

	// The shorter row ends with two padding cells
	rows := strings.Split(trends, "<Row>")
	require.Len(t, rows, 4) // sheet preamble + header + 2 metric rows

	shortRow := rows[3]
	assert.Contains(t, shortRow, ">Conversion Rate<")
	assert.Equal(t, 2, strings.Count(shortRow, `<Data ss:Type="String"></Data>`),
		"short trend row must be padded to header width")
}

func TestExcelTextCellsEscaped(t *testing.T) {
	data := executiveOverview()
	data.Template.Name = `Q1 <Draft> & "Final"`

	s := NewExcelSerializer(domain.DefaultCatalog())
	out := s.Serialize(data, nil)

	assert.Contains(t, out, "Q1 &lt;Draft&gt; &amp; &quot;Final&quot;")
	assert.NotContains(t, out, `<Data ss:Type="String">Q1 <Draft>`)
}

func TestExcelColumnWidthsClamped(t *testing.T) {
	widths := columnWidths([][]sheetCell{
		{textCell("x"), textCell(strings.Repeat("y", 200))},
	})
	require.Len(t, widths, 2)
	assert.Equal(t, 8*6, widths[0], "narrow columns clamp up to the minimum")
	assert.Equal(t, 50*6, widths[1], "degenerate columns clamp down to the maximum")
}

func TestExcelTemplateInfoDump(t *testing.T) {
	s := NewExcelSerializer(domain.DefaultCatalog())
	out := s.Serialize(executiveOverview(), nil)

	infoStart := strings.Index(out, `<Worksheet ss:Name="Template Info">`)
	require.GreaterOrEqual(t, infoStart, 0)
	info := out[infoStart:]

	assert.Contains(t, info, ">totalRevenue<")
	assert.Contains(t, info, ">full<")
	assert.Contains(t, info, ">half<")
	assert.Contains(t, info, ">analytics-admin<")
}
