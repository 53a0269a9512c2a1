package exporter

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"reportkit/pkg/contracts/domain"
)

// NotAvailable is rendered for values that are missing or not a number
const NotAvailable = "N/A"

// FormatValue renders a scalar according to its metric unit. It is a pure
// function: identical input always yields identical output, with no locale
// state involved.
//
// number: grouped digits with at most 2 fractional digits. currency: "$" with
// grouping and exactly 2 fractional digits. percentage: the input is already
// on a 0-100 scale, rendered with exactly 1 fractional digit plus "%".
// duration: the input is in seconds; below a minute it renders as "12.3s",
// otherwise as an h/m/s decomposition with zero components omitted.
func FormatValue(v float64, unit domain.MetricUnit) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}

	switch unit {
	case domain.UnitCurrency:
		return formatCurrency(v)
	case domain.UnitPercentage:
		return fmt.Sprintf("%.1f%%", v)
	case domain.UnitDuration:
		return formatDuration(v)
	default:
		return formatGrouped(v, 2, true)
	}
}

// FormatOptional renders an optional scalar, mapping absence to "N/A"
func FormatOptional(v *float64, unit domain.MetricUnit) string {
	if v == nil {
		return NotAvailable
	}
	return FormatValue(*v, unit)
}

// FormatTableNumber renders a value for tabular columns: grouped digits with
// exactly 2 fractional digits, unit-agnostic.
func FormatTableNumber(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return formatGrouped(v, 2, false)
}

// FormatSigned renders a change value with an explicit sign, grouped digits
// and exactly 2 fractional digits, e.g. "+13,000.00".
func FormatSigned(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	if v < 0 {
		return "-" + formatGrouped(-v, 2, false)
	}
	return "+" + formatGrouped(v, 2, false)
}

// FormatSignedPercent renders a change percentage with an explicit sign and
// exactly 1 fractional digit, e.g. "+11.3%".
func FormatSignedPercent(v float64) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return NotAvailable
	}
	return fmt.Sprintf("%+.1f%%", v)
}

// FormatOptionalSigned renders an optional change value, "N/A" when absent
func FormatOptionalSigned(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return FormatSigned(*v)
}

// FormatOptionalSignedPercent renders an optional change percentage
func FormatOptionalSignedPercent(v *float64) string {
	if v == nil {
		return NotAvailable
	}
	return FormatSignedPercent(*v)
}

func formatCurrency(v float64) string {
	if v < 0 {
		return "-$" + formatGrouped(-v, 2, false)
	}
	return "$" + formatGrouped(v, 2, false)
}

func formatDuration(v float64) string {
	if v < 60 {
		return fmt.Sprintf("%.1fs", v)
	}

	total := int(v)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if seconds > 0 {
		parts = append(parts, fmt.Sprintf("%ds", seconds))
	}
	if len(parts) == 0 {
		return "0s"
	}
	return strings.Join(parts, " ")
}

// formatGrouped renders v with the given fractional digit count and
// comma-grouped thousands. trimZeros drops trailing fractional zeros.
func formatGrouped(v float64, decimals int, trimZeros bool) string {
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, fracPart, _ := strings.Cut(s, ".")
	if trimZeros {
		fracPart = strings.TrimRight(fracPart, "0")
	}

	out := groupThousands(intPart)
	if fracPart != "" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return out
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
