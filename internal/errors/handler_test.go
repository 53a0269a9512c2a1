package errors

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reportkit/internal/capture"
	"reportkit/internal/exporter"
	"reportkit/internal/shared/testutil"
	"reportkit/internal/validation"
	"reportkit/pkg/contracts/domain"
)

func handleAndDecode(t *testing.T, err error) (int, map[string]any) {
	t.Helper()
	logger, _ := testutil.NewTestLogger(t)
	h := NewErrorHandler(logger, false)

	req := httptest.NewRequest(http.MethodPost, "/api/export", nil)
	rec := httptest.NewRecorder()
	h.HandleError(rec, req, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec.Code, body
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		status      int
		problemType string
	}{
		{
			name:        "input shape error",
			err:         &validation.InputShapeError{Field: "dataPoints[0].metricId", Reason: "missing"},
			status:      http.StatusBadRequest,
			problemType: TypeReportDataInvalid,
		},
		{
			name:        "wrapped input shape error",
			err:         fmt.Errorf("export: %w", &validation.InputShapeError{Field: "templateId", Reason: "missing"}),
			status:      http.StatusBadRequest,
			problemType: TypeReportDataInvalid,
		},
		{
			name:        "unsupported operation",
			err:         exporter.NewUnsupportedOperationError(domain.FormatPNG, "export without element reference"),
			status:      http.StatusUnprocessableEntity,
			problemType: TypeUnsupportedOperation,
		},
		{
			name:        "renderer unavailable",
			err:         fmt.Errorf("render PDF: %w", capture.ErrRendererUnavailable),
			status:      http.StatusServiceUnavailable,
			problemType: TypeRendererUnavailable,
		},
		{
			name:        "deadline exceeded",
			err:         context.DeadlineExceeded,
			status:      http.StatusGatewayTimeout,
			problemType: TypeTimeout,
		},
		{
			name:        "api error",
			err:         ErrRateLimitExceeded,
			status:      http.StatusTooManyRequests,
			problemType: TypeRateLimit,
		},
		{
			name:        "unknown error",
			err:         fmt.Errorf("disk on fire"),
			status:      http.StatusInternalServerError,
			problemType: TypeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := handleAndDecode(t, tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.problemType, body["type"])
			assert.Equal(t, float64(tt.status), body["status"])
			assert.Equal(t, "/api/export", body["instance"])
		})
	}
}

func TestHandleErrorCarriesField(t *testing.T) {
	_, body := handleAndDecode(t, &validation.InputShapeError{Field: "template.metrics", Reason: "empty"})
	assert.Equal(t, "template.metrics", body["field"])
}

func TestProblemDetailsMarshalFlattensExtensions(t *testing.T) {
	pd := NewProblemDetails(http.StatusBadRequest, TypeValidation, "Bad", "detail", "/x").
		WithExtension("field", "name")

	raw, err := json.Marshal(pd)
	require.NoError(t, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	assert.Equal(t, "name", body["field"])
	assert.Equal(t, "Bad", body["title"])
}

func TestAPIErrorPredefined(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, ErrInvalidReportData.StatusCode)
	assert.Equal(t, "INVALID_REPORT_DATA", ErrInvalidReportData.ErrorCode)
	assert.Equal(t, http.StatusUnprocessableEntity, ErrUnsupportedOperation.StatusCode)
	assert.Equal(t, http.StatusServiceUnavailable, ErrRendererUnavailable.StatusCode)
}
