package domain

import (
	"time"
)

// MetricUnit defines how a metric's values are rendered
type MetricUnit string

const (
	UnitNumber     MetricUnit = "number"
	UnitCurrency   MetricUnit = "currency"
	UnitPercentage MetricUnit = "percentage"
	UnitDuration   MetricUnit = "duration"
)

// MetricCategory groups related metrics in the catalog
type MetricCategory string

const (
	CategoryRevenue     MetricCategory = "revenue"
	CategoryAudience    MetricCategory = "audience"
	CategoryEngagement  MetricCategory = "engagement"
	CategoryConversion  MetricCategory = "conversion"
	CategoryPerformance MetricCategory = "performance"
)

// Aggregation defines how raw samples collapse into a metric value
type Aggregation string

const (
	AggregationSum     Aggregation = "sum"
	AggregationAverage Aggregation = "average"
	AggregationLatest  Aggregation = "latest"
	AggregationMin     Aggregation = "min"
	AggregationMax     Aggregation = "max"
)

// WidthClass controls how much horizontal space a metric occupies in a layout
type WidthClass string

const (
	WidthFull  WidthClass = "full"
	WidthHalf  WidthClass = "half"
	WidthThird WidthClass = "third"
)

// ExportFormat defines the target encoding of an export
type ExportFormat string

const (
	FormatCSV      ExportFormat = "csv"
	FormatExcel    ExportFormat = "excel"
	FormatPDF      ExportFormat = "pdf"
	FormatMarkdown ExportFormat = "markdown"
	FormatJSON     ExportFormat = "json"
	FormatPNG      ExportFormat = "png"
)

// MetricDefinition is an immutable catalog entry describing one metric
type MetricDefinition struct {
	ID          string         `json:"id" validate:"required"`
	Name        string         `json:"name" validate:"required"`
	Category    MetricCategory `json:"category" validate:"required,oneof=revenue audience engagement conversion performance"`
	Description string         `json:"description,omitempty"`
	Unit        MetricUnit     `json:"unit" validate:"required,oneof=number currency percentage duration"`
	Aggregation Aggregation    `json:"aggregation" validate:"required,oneof=sum average latest min max"`
	// Synthetic marks a definition substituted for an unknown metric ID.
	// Synthetic definitions are always typed as plain numbers.
	Synthetic bool `json:"synthetic,omitempty"`
}

// ReportMetric is one metric slot inside a template
type ReportMetric struct {
	MetricID  string     `json:"metricId" validate:"required"`
	Order     int        `json:"order" validate:"min=0"`
	Width     WidthClass `json:"width" validate:"required,oneof=full half third"`
	ChartType string     `json:"chartType,omitempty"`
}

// ReportTemplate is a saved, reusable configuration of which metrics to
// display and how. Default templates are immutable and non-deletable.
type ReportTemplate struct {
	ID          string         `json:"id" validate:"required"`
	Name        string         `json:"name" validate:"required,min=1,max=200"`
	Description string         `json:"description,omitempty"`
	Metrics     []ReportMetric `json:"metrics" validate:"required,min=1,dive"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
	CreatedBy   string         `json:"createdBy,omitempty"`
	IsDefault   bool           `json:"isDefault"`
}

// TrendPoint is one sample in a metric's recent history
type TrendPoint struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// ReportDataPoint holds one metric's computed values for a single report
// generation. PreviousValue, Change, ChangePercent and Trend are optional;
// serializers render their absence as "N/A" or omit the section.
type ReportDataPoint struct {
	MetricID      string       `json:"metricId" validate:"required"`
	Value         float64      `json:"value"`
	PreviousValue *float64     `json:"previousValue,omitempty"`
	Change        *float64     `json:"change,omitempty"`
	ChangePercent *float64     `json:"changePercent,omitempty"`
	Trend         []TrendPoint `json:"trend,omitempty" validate:"max=7"`
}

// ReportData is the exporter's sole input: a denormalized template snapshot
// plus one data point per template metric, in template order. Immutable for
// the duration of one export call.
type ReportData struct {
	TemplateID  string            `json:"templateId" validate:"required"`
	Template    ReportTemplate    `json:"template" validate:"required"`
	DataPoints  []ReportDataPoint `json:"dataPoints" validate:"required,dive"`
	GeneratedAt time.Time         `json:"generatedAt"`
}

// DateRange bounds the period a report covers
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Catalog maps metric IDs to their definitions
type Catalog map[string]MetricDefinition

// Resolve returns the definition for id. Unknown IDs get a synthetic
// number-typed definition flagged Synthetic, never a silent mis-type.
func (c Catalog) Resolve(id string) MetricDefinition {
	if def, ok := c[id]; ok {
		return def
	}
	return MetricDefinition{
		ID:          id,
		Name:        id,
		Category:    CategoryPerformance,
		Unit:        UnitNumber,
		Aggregation: AggregationLatest,
		Synthetic:   true,
	}
}

// DefaultCatalog returns the built-in metric catalog
func DefaultCatalog() Catalog {
	defs := []MetricDefinition{
		{ID: "totalRevenue", Name: "Total Revenue", Category: CategoryRevenue, Description: "Gross revenue across all channels", Unit: UnitCurrency, Aggregation: AggregationSum},
		{ID: "recurringRevenue", Name: "Recurring Revenue", Category: CategoryRevenue, Description: "Revenue from active subscriptions", Unit: UnitCurrency, Aggregation: AggregationLatest},
		{ID: "avgOrderValue", Name: "Average Order Value", Category: CategoryRevenue, Description: "Mean revenue per completed order", Unit: UnitCurrency, Aggregation: AggregationAverage},
		{ID: "activeUsers", Name: "Active Users", Category: CategoryAudience, Description: "Users active in the period", Unit: UnitNumber, Aggregation: AggregationLatest},
		{ID: "newUsers", Name: "New Users", Category: CategoryAudience, Description: "First-time users in the period", Unit: UnitNumber, Aggregation: AggregationSum},
		{ID: "sessions", Name: "Sessions", Category: CategoryEngagement, Description: "Total user sessions", Unit: UnitNumber, Aggregation: AggregationSum},
		{ID: "pageViews", Name: "Page Views", Category: CategoryEngagement, Description: "Total page views", Unit: UnitNumber, Aggregation: AggregationSum},
		{ID: "avgSessionDuration", Name: "Avg Session Duration", Category: CategoryEngagement, Description: "Mean session length", Unit: UnitDuration, Aggregation: AggregationAverage},
		{ID: "bounceRate", Name: "Bounce Rate", Category: CategoryEngagement, Description: "Single-page session share", Unit: UnitPercentage, Aggregation: AggregationAverage},
		{ID: "conversionRate", Name: "Conversion Rate", Category: CategoryConversion, Description: "Visitors completing the goal action", Unit: UnitPercentage, Aggregation: AggregationAverage},
		{ID: "cartAbandonment", Name: "Cart Abandonment", Category: CategoryConversion, Description: "Carts created but not checked out", Unit: UnitPercentage, Aggregation: AggregationAverage},
		{ID: "avgLoadTime", Name: "Avg Load Time", Category: CategoryPerformance, Description: "Mean page load time", Unit: UnitDuration, Aggregation: AggregationAverage},
		{ID: "errorRate", Name: "Error Rate", Category: CategoryPerformance, Description: "Requests ending in an error", Unit: UnitPercentage, Aggregation: AggregationAverage},
	}

	catalog := make(Catalog, len(defs))
	for _, def := range defs {
		catalog[def.ID] = def
	}
	return catalog
}
