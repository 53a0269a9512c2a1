package exporter

import (
	"time"

	"reportkit/pkg/contracts/domain"
)

func ptr(v float64) *float64 { return &v }

var fixedGeneratedAt = time.Date(2026, 3, 15, 9, 30, 0, 0, time.UTC)

// executiveOverview builds the well-formed report used across serializer
// tests: two revenue/conversion metrics with previous values and trends.
func executiveOverview() *domain.ReportData {
	return &domain.ReportData{
		TemplateID: "tpl-exec-overview",
		Template: domain.ReportTemplate{
			ID:          "tpl-exec-overview",
			Name:        "Executive Overview",
			Description: "Month-over-month topline metrics",
			Metrics: []domain.ReportMetric{
				{MetricID: "totalRevenue", Order: 0, Width: domain.WidthFull, ChartType: "bar"},
				{MetricID: "conversionRate", Order: 1, Width: domain.WidthHalf, ChartType: "line"},
			},
			CreatedAt: time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
			CreatedBy: "analytics-admin",
		},
		DataPoints: []domain.ReportDataPoint{
			{
				MetricID:      "totalRevenue",
				Value:         128000,
				PreviousValue: ptr(115000),
				Change:        ptr(13000),
				ChangePercent: ptr(11.3043),
				Trend: []domain.TrendPoint{
					{Period: "Week 1", Value: 24000},
					{Period: "Week 2", Value: 30000},
					{Period: "Week 3", Value: 34000},
					{Period: "Week 4", Value: 40000},
				},
			},
			{
				MetricID:      "conversionRate",
				Value:         3.4,
				PreviousValue: ptr(3.1),
				Change:        ptr(0.3),
				ChangePercent: ptr(9.6774),
				Trend: []domain.TrendPoint{
					{Period: "Week 1", Value: 3.0},
					{Period: "Week 2", Value: 3.4},
				},
			},
		},
		GeneratedAt: fixedGeneratedAt,
	}
}

// mixedChanges builds a report whose change percentages are
// [+12, +3, -1, -8, 0], exercising highlight selection and ordering
func mixedChanges() *domain.ReportData {
	metrics := make([]domain.ReportMetric, 0, 5)
	points := make([]domain.ReportDataPoint, 0, 5)

	ids := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	changes := []float64{12, 3, -1, -8, 0}
	for i, id := range ids {
		metrics = append(metrics, domain.ReportMetric{MetricID: id, Order: i, Width: domain.WidthThird})
		points = append(points, domain.ReportDataPoint{
			MetricID:      id,
			Value:         float64(100 + i),
			ChangePercent: ptr(changes[i]),
		})
	}

	return &domain.ReportData{
		TemplateID: "tpl-mixed",
		Template: domain.ReportTemplate{
			ID:      "tpl-mixed",
			Name:    "Mixed Changes",
			Metrics: metrics,
		},
		DataPoints:  points,
		GeneratedAt: fixedGeneratedAt,
	}
}
