package exporter

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"reportkit/pkg/contracts/domain"
)

const highlightLimit = 3

var sparkLevels = []rune("▁▂▃▄▅▆▇")

// MarkdownSerializer renders a report as a human-readable Markdown document
// with summary counts, a metrics table, performance highlights, per-metric
// detail with sparklines, a wide trend table and template metadata.
type MarkdownSerializer struct {
	catalog domain.Catalog
}

// NewMarkdownSerializer creates a new Markdown serializer
func NewMarkdownSerializer(catalog domain.Catalog) *MarkdownSerializer {
	return &MarkdownSerializer{catalog: catalog}
}

// Serialize builds the Markdown document
func (s *MarkdownSerializer) Serialize(data *domain.ReportData, dateRange *domain.DateRange) string {
	var b strings.Builder

	b.WriteString("# " + data.Template.Name + "\n\n")
	if data.Template.Description != "" {
		b.WriteString("> " + data.Template.Description + "\n\n")
	}
	b.WriteString("**Generated:** " + data.GeneratedAt.Format("2006-01-02 15:04:05") + "\n")
	if dateRange != nil {
		b.WriteString("**Date Range:** " + dateRange.Start.Format("2006-01-02") + " to " + dateRange.End.Format("2006-01-02") + "\n")
	}
	b.WriteString("\n")

	s.writeSummary(&b, data)
	s.writeMetricsTable(&b, data)
	s.writeHighlights(&b, data)
	s.writeDetails(&b, data)
	s.writeTrendTable(&b, data)
	s.writeTemplateInfo(&b, data)

	b.WriteString("---\n\n")
	b.WriteString("_Report exported " + data.GeneratedAt.Format("2006-01-02 15:04:05") + "_\n")
	return b.String()
}

func (s *MarkdownSerializer) writeSummary(b *strings.Builder, data *domain.ReportData) {
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
	unchanged := len(data.DataPoints) - improved - declined

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(b, "- **Total Metrics:** %d\n", len(data.DataPoints))
	fmt.Fprintf(b, "- **Improved:** %d\n", improved)
	fmt.Fprintf(b, "- **Declined:** %d\n", declined)
	fmt.Fprintf(b, "- **Unchanged:** %d\n\n", unchanged)
}

func (s *MarkdownSerializer) writeMetricsTable(b *strings.Builder, data *domain.ReportData) {
	b.WriteString("## Metrics\n\n")
	b.WriteString("| Metric | Value | Previous | Change | Change % |\n")
	b.WriteString("| --- | --- | --- | --- | --- |\n")

	for _, dp := range data.DataPoints {
		def := s.catalog.Resolve(dp.MetricID)
		prev := NotAvailable
		if dp.PreviousValue != nil {
			prev = FormatTableNumber(*dp.PreviousValue)
		}
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s |\n",
			def.Name,
			FormatTableNumber(dp.Value),
			prev,
			FormatOptionalSigned(dp.Change),
			FormatOptionalSignedPercent(dp.ChangePercent),
		)
	}
	b.WriteString("\n")
}

type highlight struct {
	name    string
	percent float64
}

// writeHighlights lists the top positive and bottom negative movers. Either
// section is omitted entirely when no entry qualifies for it.
func (s *MarkdownSerializer) writeHighlights(b *strings.Builder, data *domain.ReportData) {
	var movers []highlight
	for _, dp := range data.DataPoints {
		if dp.ChangePercent == nil {
			continue
		}
		def := s.catalog.Resolve(dp.MetricID)
		movers = append(movers, highlight{name: def.Name, percent: *dp.ChangePercent})
	}
	if len(movers) == 0 {
		return
	}

	sort.SliceStable(movers, func(i, j int) bool { return movers[i].percent > movers[j].percent })

	var top, bottom []highlight
	for _, m := range movers {
		if m.percent > 0 && len(top) < highlightLimit {
			top = append(top, m)
		}
	}
	for i := len(movers) - 1; i >= 0; i-- {
		if movers[i].percent < 0 && len(bottom) < highlightLimit {
			bottom = append(bottom, movers[i])
		}
	}
	if len(top) == 0 && len(bottom) == 0 {
		return
	}

	b.WriteString("## Performance Highlights\n\n")
	if len(top) > 0 {
		b.WriteString("### Top Performers\n\n")
		for i, m := range top {
			fmt.Fprintf(b, "%d. **%s**: %s\n", i+1, m.name, FormatSignedPercent(m.percent))
		}
		b.WriteString("\n")
	}
	if len(bottom) > 0 {
		b.WriteString("### Needs Attention\n\n")
		for i, m := range bottom {
			fmt.Fprintf(b, "%d. **%s**: %s\n", i+1, m.name, FormatSignedPercent(m.percent))
		}
		b.WriteString("\n")
	}
}

func (s *MarkdownSerializer) writeDetails(b *strings.Builder, data *domain.ReportData) {
	b.WriteString("## Metric Details\n\n")

	for _, dp := range data.DataPoints {
		def := s.catalog.Resolve(dp.MetricID)
		b.WriteString("### " + def.Name + "\n\n")
		if def.Description != "" {
			b.WriteString(def.Description + "\n\n")
		}
		fmt.Fprintf(b, "- **Category:** %s\n", def.Category)
		fmt.Fprintf(b, "- **Current:** %s\n", FormatValue(dp.Value, def.Unit))
		if dp.PreviousValue != nil {
			fmt.Fprintf(b, "- **Previous:** %s\n", FormatValue(*dp.PreviousValue, def.Unit))
		}
		if dp.Change != nil || dp.ChangePercent != nil {
			fmt.Fprintf(b, "- **Change:** %s (%s)\n",
				FormatOptionalSigned(dp.Change), FormatOptionalSignedPercent(dp.ChangePercent))
		}
		if len(dp.Trend) > 0 {
			b.WriteString("\nTrend: `" + sparkline(dp.Trend) + "`\n")
		}
		b.WriteString("\n")
	}
}

func (s *MarkdownSerializer) writeTrendTable(b *strings.Builder, data *domain.ReportData) {
	maxLen := 0
	for _, dp := range data.DataPoints {
		if len(dp.Trend) > maxLen {
			maxLen = len(dp.Trend)
		}
	}
	if maxLen == 0 {
		return
	}

	b.WriteString("## Trends\n\n")
	b.WriteString("| Metric |")
	for i := 1; i <= maxLen; i++ {
		fmt.Fprintf(b, " Period %d |", i)
	}
	b.WriteString("\n|" + strings.Repeat(" --- |", maxLen+1) + "\n")

	for _, dp := range data.DataPoints {
		def := s.catalog.Resolve(dp.MetricID)
		b.WriteString("| " + def.Name + " |")
		for _, tp := range dp.Trend {
			b.WriteString(" " + FormatValue(tp.Value, def.Unit) + " |")
		}
		for i := len(dp.Trend); i < maxLen; i++ {
			b.WriteString("  |")
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func (s *MarkdownSerializer) writeTemplateInfo(b *strings.Builder, data *domain.ReportData) {
	t := data.Template
	b.WriteString("## Template\n\n")
	fmt.Fprintf(b, "- **ID:** %s\n", t.ID)
	fmt.Fprintf(b, "- **Name:** %s\n", t.Name)
	if t.CreatedBy != "" {
		fmt.Fprintf(b, "- **Created By:** %s\n", t.CreatedBy)
	}
	fmt.Fprintf(b, "- **Created At:** %s\n", t.CreatedAt.Format("2006-01-02"))
	fmt.Fprintf(b, "- **Default:** %s\n\n", strconv.FormatBool(t.IsDefault))
}

// sparkline buckets a metric's trend into 7 levels against that metric's own
// min and max, most-recent-last
func sparkline(trend []domain.TrendPoint) string {
	min, max := trend[0].Value, trend[0].Value
	for _, tp := range trend[1:] {
		if tp.Value < min {
			min = tp.Value
		}
		if tp.Value > max {
			max = tp.Value
		}
	}

	runes := make([]rune, len(trend))
	for i, tp := range trend {
		if max == min {
			runes[i] = sparkLevels[3]
			continue
		}
		level := int((tp.Value-min)/(max-min)*float64(len(sparkLevels)-1) + 0.5)
		if level > len(sparkLevels)-1 {
			level = len(sparkLevels) - 1
		}
		runes[i] = sparkLevels[level]
	}
	return string(runes)
}
