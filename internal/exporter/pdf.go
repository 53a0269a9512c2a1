package exporter

import (
	"fmt"
	"html/template"
	"strings"

	"reportkit/pkg/contracts/domain"
)

// PDFSerializer renders a report as a self-contained, print-styled HTML
// document. The document feeds a headless-Chrome print when that capability
// is present; without one it is still a valid, fully downloadable artifact.
type PDFSerializer struct {
	catalog domain.Catalog
	tmpl    *template.Template
}

// NewPDFSerializer creates a new PDF/HTML serializer
func NewPDFSerializer(catalog domain.Catalog) *PDFSerializer {
	return &PDFSerializer{
		catalog: catalog,
		tmpl:    template.Must(template.New("report").Parse(pdfTemplate)),
	}
}

type pdfCard struct {
	Name      string
	Value     string
	Change    string
	Direction string
}

type pdfRow struct {
	Name          string
	Value         string
	Previous      string
	Change        string
	ChangePercent string
	Direction     string
}

type pdfBar struct {
	Label     string
	HeightPct int
	Value     string
}

type pdfChart struct {
	Name string
	Bars []pdfBar
}

type pdfInfoRow struct {
	Label string
	Value string
}

type pdfView struct {
	Title       string
	Description string
	Generated   string
	DateRange   string
	Cards       []pdfCard
	Rows        []pdfRow
	Charts      []pdfChart
	Info        []pdfInfoRow
}

// SerializeHTML builds the print-styled HTML document
func (s *PDFSerializer) SerializeHTML(data *domain.ReportData, dateRange *domain.DateRange, includeCharts bool) (string, error) {
	view := pdfView{
		Title:       data.Template.Name,
		Description: data.Template.Description,
		Generated:   data.GeneratedAt.Format("2006-01-02 15:04:05"),
	}
	if dateRange != nil {
		view.DateRange = dateRange.Start.Format("2006-01-02") + " to " + dateRange.End.Format("2006-01-02")
	}

	for i, dp := range data.DataPoints {
		def := s.catalog.Resolve(dp.MetricID)

		if i < 4 {
			card := pdfCard{
				Name:  def.Name,
				Value: FormatValue(dp.Value, def.Unit),
			}
			if dp.ChangePercent != nil {
				card.Change = FormatSignedPercent(*dp.ChangePercent)
				card.Direction = direction(*dp.ChangePercent)
			}
			view.Cards = append(view.Cards, card)
		}

		row := pdfRow{
			Name:          def.Name,
			Value:         FormatValue(dp.Value, def.Unit),
			Previous:      FormatOptional(dp.PreviousValue, def.Unit),
			Change:        FormatOptionalSigned(dp.Change),
			ChangePercent: FormatOptionalSignedPercent(dp.ChangePercent),
		}
		if dp.ChangePercent != nil {
			row.Direction = direction(*dp.ChangePercent)
		}
		view.Rows = append(view.Rows, row)

		if includeCharts && len(dp.Trend) > 0 {
			view.Charts = append(view.Charts, trendChart(def, dp.Trend))
		}
	}

	view.Info = []pdfInfoRow{
		{Label: "Template ID", Value: data.Template.ID},
		{Label: "Template", Value: data.Template.Name},
		{Label: "Metrics", Value: fmt.Sprintf("%d", len(data.DataPoints))},
		{Label: "Generated", Value: view.Generated},
	}
	if view.DateRange != "" {
		view.Info = append(view.Info, pdfInfoRow{Label: "Date Range", Value: view.DateRange})
	}

	var b strings.Builder
	if err := s.tmpl.Execute(&b, view); err != nil {
		return "", fmt.Errorf("render report HTML: %w", err)
	}
	return b.String(), nil
}

func direction(changePercent float64) string {
	switch {
	case changePercent > 0:
		return "positive"
	case changePercent < 0:
		return "negative"
	default:
		return ""
	}
}

// trendChart scales each bar against this metric's own trend maximum, never
// a scale shared across metrics
func trendChart(def domain.MetricDefinition, trend []domain.TrendPoint) pdfChart {
	max := 0.0
	for _, tp := range trend {
		if tp.Value > max {
			max = tp.Value
		}
	}

	chart := pdfChart{Name: def.Name}
	for _, tp := range trend {
		pct := 0
		if max > 0 && tp.Value > 0 {
			pct = int(tp.Value / max * 100)
		}
		chart.Bars = append(chart.Bars, pdfBar{
			Label:     tp.Period,
			HeightPct: pct,
			Value:     FormatValue(tp.Value, def.Unit),
		})
	}
	return chart
}

const pdfTemplate = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
  body { font-family: 'Segoe UI', Arial, sans-serif; color: #1a1a2e; margin: 32px; }
  h1 { font-size: 24px; margin-bottom: 4px; }
  h2 { font-size: 16px; margin-top: 28px; border-bottom: 1px solid #d0d4dc; padding-bottom: 4px; }
  .meta { color: #5a6072; font-size: 12px; margin-bottom: 24px; }
  .cards { display: flex; gap: 12px; flex-wrap: wrap; }
  .card { flex: 1 1 160px; border: 1px solid #d0d4dc; border-radius: 6px; padding: 12px; }
  .card .name { font-size: 11px; color: #5a6072; text-transform: uppercase; }
  .card .value { font-size: 20px; font-weight: 600; margin: 4px 0; }
  .positive { color: #107c41; }
  .negative { color: #c00000; }
  table { width: 100%; border-collapse: collapse; font-size: 12px; margin-top: 8px; }
  th { text-align: left; background: #f0f2f6; padding: 6px 8px; border-bottom: 2px solid #d0d4dc; }
  td { padding: 6px 8px; border-bottom: 1px solid #e4e7ee; }
  .chart { margin: 16px 0; }
  .chart .bars { display: flex; align-items: flex-end; gap: 6px; height: 80px; }
  .chart .bar { flex: 1; background: #4472c4; min-height: 2px; }
  .chart .labels { display: flex; gap: 6px; font-size: 10px; color: #5a6072; }
  .chart .labels span { flex: 1; text-align: center; }
  @media print {
    body { margin: 12mm; }
    h2 { page-break-after: avoid; }
    .chart, table { page-break-inside: avoid; }
  }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{if .Description}}<p class="meta">{{.Description}}</p>{{end}}
<p class="meta">Generated {{.Generated}}{{if .DateRange}} &middot; {{.DateRange}}{{end}}</p>

<h2>Key Metrics Overview</h2>
<div class="cards">
{{range .Cards}}  <div class="card">
    <div class="name">{{.Name}}</div>
    <div class="value">{{.Value}}</div>
    {{if .Change}}<div class="{{.Direction}}">{{.Change}}</div>{{end}}
  </div>
{{end}}</div>

<h2>All Metrics</h2>
<table>
  <tr><th>Metric</th><th>Value</th><th>Previous</th><th>Change</th><th>Change %</th></tr>
{{range .Rows}}  <tr>
    <td>{{.Name}}</td><td>{{.Value}}</td><td>{{.Previous}}</td>
    <td class="{{.Direction}}">{{.Change}}</td><td class="{{.Direction}}">{{.ChangePercent}}</td>
  </tr>
{{end}}</table>

{{if .Charts}}<h2>Trends</h2>
{{range .Charts}}<div class="chart">
  <strong>{{.Name}}</strong>
  <div class="bars">
{{range .Bars}}    <div class="bar" style="height: {{.HeightPct}}%" title="{{.Value}}"></div>
{{end}}  </div>
  <div class="labels">
{{range .Bars}}    <span>{{.Label}}</span>
{{end}}  </div>
</div>
{{end}}{{end}}

<h2>Report Information</h2>
<table>
{{range .Info}}  <tr><th>{{.Label}}</th><td>{{.Value}}</td></tr>
{{end}}</table>
</body>
</html>
`
