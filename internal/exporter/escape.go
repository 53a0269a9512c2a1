package exporter

import (
	"fmt"
	"strings"
)

var xmlEntities = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#39;",
)

// EscapeCSV renders a value as a CSV field. Fields containing a comma, quote
// or newline are wrapped in double quotes with internal quotes doubled; all
// other fields pass through unchanged. Nil renders as an empty field.
// Non-string values are stringified first. Never fails.
func EscapeCSV(value any) string {
	s, ok := stringify(value)
	if !ok {
		return ""
	}
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// EscapeXML substitutes the five XML-significant characters with named
// entities, exactly once. Applies to element text and attribute values alike.
// Nil renders as an empty string; non-strings are stringified first.
func EscapeXML(value any) string {
	s, ok := stringify(value)
	if !ok {
		return ""
	}
	return xmlEntities.Replace(s)
}

func stringify(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", false
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	default:
		return fmt.Sprint(v), true
	}
}
