package exporter

import (
	"fmt"
	"strconv"
	"strings"

	"reportkit/pkg/contracts/domain"
)

// ExcelSerializer renders a report as a SpreadsheetML 2003 XML workbook with
// four worksheets: Summary, Metrics Data, Trends and Template Info. Excel
// opens the document directly; no OOXML zip packaging is involved.
type ExcelSerializer struct {
	catalog domain.Catalog
}

// NewExcelSerializer creates a new SpreadsheetML serializer
func NewExcelSerializer(catalog domain.Catalog) *ExcelSerializer {
	return &ExcelSerializer{catalog: catalog}
}

type sheetCell struct {
	value   string
	numeric bool
	style   string
}

type worksheet struct {
	name string
	rows [][]sheetCell
}

func textCell(v string) sheetCell              { return sheetCell{value: v} }
func styledCell(v, style string) sheetCell     { return sheetCell{value: v, style: style} }
func numberCell(v float64) sheetCell           { return sheetCell{value: rawNumber(v), numeric: true} }
func numberCellStyled(v float64, style string) sheetCell {
	return sheetCell{value: rawNumber(v), numeric: true, style: style}
}

// Serialize builds the workbook XML
func (s *ExcelSerializer) Serialize(data *domain.ReportData, dateRange *domain.DateRange) string {
	sheets := []worksheet{
		s.summarySheet(data, dateRange),
		s.metricsSheet(data),
		s.trendsSheet(data),
		s.templateSheet(data),
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0"?>` + "\n")
	b.WriteString(`<?mso-application progid="Excel.Sheet"?>` + "\n")
	b.WriteString(`<Workbook xmlns="urn:schemas-microsoft-com:office:spreadsheet"` + "\n")
	b.WriteString(` xmlns:ss="urn:schemas-microsoft-com:office:spreadsheet">` + "\n")
	writeStyles(&b)
	for _, sheet := range sheets {
		writeWorksheet(&b, sheet)
	}
	b.WriteString(`</Workbook>` + "\n")
	return b.String()
}

func (s *ExcelSerializer) summarySheet(data *domain.ReportData, dateRange *domain.DateRange) worksheet {
	improved, declined := 0, 0
	for _, dp := range data.DataPoints {
		if dp.ChangePercent == nil {
			continue
		}
		switch {
		case *dp.ChangePercent > 0:
			improved++
		case *dp.ChangePercent < 0:
			declined++
		}
	}

	rows := [][]sheetCell{
		{styledCell("Report Summary", "Title")},
		{},
		{styledCell("Template", "Header"), textCell(data.Template.Name)},
		{styledCell("Description", "Header"), textCell(data.Template.Description)},
		{styledCell("Generated", "Header"), textCell(data.GeneratedAt.Format("2006-01-02 15:04:05"))},
	}
	if dateRange != nil {
		rows = append(rows, []sheetCell{
			styledCell("Date Range", "Header"),
			textCell(dateRange.Start.Format("2006-01-02") + " to " + dateRange.End.Format("2006-01-02")),
		})
	}
	rows = append(rows,
		[]sheetCell{styledCell("Total Metrics", "Header"), numberCell(float64(len(data.DataPoints)))},
		[]sheetCell{styledCell("Improved Metrics", "Header"), numberCellStyled(float64(improved), "Positive")},
		[]sheetCell{styledCell("Declined Metrics", "Header"), numberCellStyled(float64(declined), "Negative")},
	)

	return worksheet{name: "Summary", rows: rows}
}

func (s *ExcelSerializer) metricsSheet(data *domain.ReportData) worksheet {
	rows := [][]sheetCell{{
		styledCell("Metric", "Header"),
		styledCell("Current Value", "Header"),
		styledCell("Previous Value", "Header"),
		styledCell("Change", "Header"),
		styledCell("Change %", "Header"),
	}}

	for _, dp := range data.DataPoints {
		def := s.catalog.Resolve(dp.MetricID)
		row := []sheetCell{textCell(def.Name), numberCell(dp.Value)}

		if dp.PreviousValue != nil {
			row = append(row, numberCell(*dp.PreviousValue))
		} else {
			row = append(row, textCell(NotAvailable))
		}

		row = append(row, changeCell(dp.Change), changeCell(dp.ChangePercent))
		rows = append(rows, row)
	}

	return worksheet{name: "Metrics Data", rows: rows}
}

// changeCell types the value as a Number and picks the positive or negative
// style so Excel colors gains and losses
func changeCell(v *float64) sheetCell {
	if v == nil {
		return textCell(NotAvailable)
	}
	switch {
	case *v > 0:
		return numberCellStyled(*v, "Positive")
	case *v < 0:
		return numberCellStyled(*v, "Negative")
	default:
		return numberCell(*v)
	}
}

// trendsSheet lays out one row per metric and one column per trend period.
// The header spans the longest trend across all metrics; shorter rows are
// padded with empty cells, never truncated or shifted.
func (s *ExcelSerializer) trendsSheet(data *domain.ReportData) worksheet {
	maxLen := 0
	for _, dp := range data.DataPoints {
		if len(dp.Trend) > maxLen {
			maxLen = len(dp.Trend)
		}
	}

	header := []sheetCell{styledCell("Metric", "Header")}
	for i := 1; i <= maxLen; i++ {
		header = append(header, styledCell(fmt.Sprintf("Period %d", i), "Header"))
	}
	rows := [][]sheetCell{header}

	for _, dp := range data.DataPoints {
		def := s.catalog.Resolve(dp.MetricID)
		row := []sheetCell{textCell(def.Name)}
		for _, tp := range dp.Trend {
			row = append(row, numberCell(tp.Value))
		}
		for i := len(dp.Trend); i < maxLen; i++ {
			row = append(row, textCell(""))
		}
		rows = append(rows, row)
	}

	return worksheet{name: "Trends", rows: rows}
}

func (s *ExcelSerializer) templateSheet(data *domain.ReportData) worksheet {
	t := data.Template
	rows := [][]sheetCell{
		{styledCell("Template Info", "Title")},
		{},
		{styledCell("ID", "Header"), textCell(t.ID)},
		{styledCell("Name", "Header"), textCell(t.Name)},
		{styledCell("Description", "Header"), textCell(t.Description)},
		{styledCell("Created By", "Header"), textCell(t.CreatedBy)},
		{styledCell("Created At", "Header"), textCell(t.CreatedAt.Format("2006-01-02 15:04:05"))},
		{styledCell("Default", "Header"), textCell(strconv.FormatBool(t.IsDefault))},
		{},
		{
			styledCell("Metric ID", "Header"),
			styledCell("Order", "Header"),
			styledCell("Width", "Header"),
			styledCell("Chart Type", "Header"),
		},
	}

	for _, m := range t.Metrics {
		rows = append(rows, []sheetCell{
			textCell(m.MetricID),
			numberCell(float64(m.Order)),
			textCell(string(m.Width)),
			textCell(m.ChartType),
		})
	}

	return worksheet{name: "Template Info", rows: rows}
}

func writeStyles(b *strings.Builder) {
	b.WriteString(` <Styles>` + "\n")
	b.WriteString(`  <Style ss:ID="Title"><Font ss:Bold="1" ss:Size="14"/></Style>` + "\n")
	b.WriteString(`  <Style ss:ID="Header"><Font ss:Bold="1"/><Interior ss:Color="#D9E1F2" ss:Pattern="Solid"/></Style>` + "\n")
	b.WriteString(`  <Style ss:ID="Positive"><Font ss:Color="#107C41"/></Style>` + "\n")
	b.WriteString(`  <Style ss:ID="Negative"><Font ss:Color="#C00000"/></Style>` + "\n")
	b.WriteString(` </Styles>` + "\n")
}

func writeWorksheet(b *strings.Builder, sheet worksheet) {
	b.WriteString(` <Worksheet ss:Name="` + EscapeXML(sheet.name) + `">` + "\n")
	b.WriteString(`  <Table>` + "\n")

	for _, w := range columnWidths(sheet.rows) {
		b.WriteString(fmt.Sprintf(`   <Column ss:Width="%d"/>`+"\n", w))
	}

	for _, row := range sheet.rows {
		b.WriteString(`   <Row>` + "\n")
		for _, cell := range row {
			writeCell(b, cell)
		}
		b.WriteString(`   </Row>` + "\n")
	}

	b.WriteString(`  </Table>` + "\n")
	b.WriteString(` </Worksheet>` + "\n")
}

func writeCell(b *strings.Builder, cell sheetCell) {
	open := `    <Cell>`
	if cell.style != "" {
		open = `    <Cell ss:StyleID="` + cell.style + `">`
	}
	if cell.numeric {
		// Number cells carry plain digits and are never entity-escaped
		b.WriteString(open + `<Data ss:Type="Number">` + cell.value + `</Data></Cell>` + "\n")
		return
	}
	b.WriteString(open + `<Data ss:Type="String">` + EscapeXML(cell.value) + `</Data></Cell>` + "\n")
}

// columnWidths derives each column's width from the longest stringified cell
// in that column, clamped so empty or pathological columns stay readable
func columnWidths(rows [][]sheetCell) []int {
	cols := 0
	for _, row := range rows {
		if len(row) > cols {
			cols = len(row)
		}
	}

	widths := make([]int, cols)
	for _, row := range rows {
		for i, cell := range row {
			if n := len(cell.value); n > widths[i] {
				widths[i] = n
			}
		}
	}

	for i, chars := range widths {
		if chars < 8 {
			chars = 8
		}
		if chars > 50 {
			chars = 50
		}
		widths[i] = chars * 6
	}
	return widths
}
