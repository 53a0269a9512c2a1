package validation

import (
	"fmt"
	"log/slog"

	"github.com/go-playground/validator/v10"

	"reportkit/pkg/contracts/domain"
)

// InputShapeError reports malformed ReportData. Exports abort on it; no
// partial artifact is produced.
type InputShapeError struct {
	Field  string
	Reason string
}

func (e *InputShapeError) Error() string {
	return fmt.Sprintf("invalid report data: %s: %s", e.Field, e.Reason)
}

// ReportValidator checks the structural shape of incoming ReportData before
// any serializer runs
type ReportValidator struct {
	validate *validator.Validate
	logger   *slog.Logger
}

// NewReportValidator creates a new report validator
func NewReportValidator(logger *slog.Logger) *ReportValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportValidator{
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger,
	}
}

// ValidateReportData verifies that data satisfies the exporter's input
// contract: a template with at least one metric, unique display orders, and
// data points that reference metrics present in the owning template.
// Optional per-point fields (previousValue, change, trend) are never required.
func (v *ReportValidator) ValidateReportData(data *domain.ReportData) error {
	if data == nil {
		return &InputShapeError{Field: "reportData", Reason: "missing"}
	}

	if err := v.validate.Struct(data); err != nil {
		shapeErr := shapeErrorFromValidator(err)
		v.logger.Warn("report data failed shape validation",
			slog.String("template_id", data.TemplateID),
			slog.String("field", shapeErr.Field),
			slog.String("reason", shapeErr.Reason))
		return shapeErr
	}

	seenOrder := make(map[int]string, len(data.Template.Metrics))
	templateMetrics := make(map[string]bool, len(data.Template.Metrics))
	for i, m := range data.Template.Metrics {
		if prev, dup := seenOrder[m.Order]; dup {
			return &InputShapeError{
				Field:  fmt.Sprintf("template.metrics[%d].order", i),
				Reason: fmt.Sprintf("display order %d already used by metric %q", m.Order, prev),
			}
		}
		seenOrder[m.Order] = m.MetricID
		templateMetrics[m.MetricID] = true
	}

	for i, dp := range data.DataPoints {
		if !templateMetrics[dp.MetricID] {
			return &InputShapeError{
				Field:  fmt.Sprintf("dataPoints[%d].metricId", i),
				Reason: fmt.Sprintf("metric %q is not part of template %q", dp.MetricID, data.Template.ID),
			}
		}
	}

	return nil
}

func shapeErrorFromValidator(err error) *InputShapeError {
	if fieldErrs, ok := err.(validator.ValidationErrors); ok && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &InputShapeError{
			Field:  fe.Namespace(),
			Reason: fmt.Sprintf("failed %q constraint", fe.Tag()),
		}
	}
	return &InputShapeError{Field: "reportData", Reason: err.Error()}
}
