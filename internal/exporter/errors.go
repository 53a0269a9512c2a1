package exporter

import (
	"fmt"

	"reportkit/pkg/contracts/domain"
)

// UnsupportedOperationError reports a request the dispatcher refuses up
// front: an unknown format, a raw-string export of a binary format, or a PNG
// export without an element reference. No fallback artifact is produced.
type UnsupportedOperationError struct {
	Format    domain.ExportFormat
	Operation string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operation %q for format %q", e.Operation, e.Format)
}

// NewUnsupportedOperationError creates an UnsupportedOperationError
func NewUnsupportedOperationError(format domain.ExportFormat, operation string) *UnsupportedOperationError {
	return &UnsupportedOperationError{Format: format, Operation: operation}
}
