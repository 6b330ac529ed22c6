package tui

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/schemata/pkg/schema"
)

// SchemaMarkdown documents a schema as a Markdown table, one row per field.
func SchemaMarkdown(s *schema.Schema, extends string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", s.Name()))
	if extends != "" {
		sb.WriteString(fmt.Sprintf("Extends **%s**.\n\n", extends))
	}

	sb.WriteString("| Field | Type | Required | Writable | Readable | Constraints |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, name := range s.Fields() {
		f, ok := s.Field(name)
		if !ok {
			continue
		}
		sb.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s | %s | %s |\n",
			name, f.Type, yesNo(f.Required), yesNo(f.Writable), yesNo(f.Readable), constraints(f)))
	}
	return sb.String()
}

func constraints(f *schema.Field) string {
	var parts []string
	if f.Enum != nil {
		values := make([]string, len(f.Enum))
		for i, v := range f.Enum {
			values[i] = fmt.Sprint(v)
		}
		parts = append(parts, "one of "+strings.Join(values, ", "))
	}
	if f.Min != nil {
		parts = append(parts, fmt.Sprintf("≥ %g", *f.Min))
	}
	if f.Max != nil {
		parts = append(parts, fmt.Sprintf("≤ %g", *f.Max))
	}
	if f.MinLength != nil {
		parts = append(parts, fmt.Sprintf("length ≥ %d", *f.MinLength))
	}
	if f.MaxLength != nil {
		parts = append(parts, fmt.Sprintf("length ≤ %d", *f.MaxLength))
	}
	if f.HasLength != nil {
		parts = append(parts, fmt.Sprintf("length = %d", *f.HasLength))
	}
	switch m := f.Matches.(type) {
	case nil:
	case *regexp.Regexp:
		parts = append(parts, fmt.Sprintf("matches `%s`", m))
	default:
		parts = append(parts, fmt.Sprintf("equals `%v`", m))
	}
	if n := len(f.Validate); n > 0 {
		parts = append(parts, fmt.Sprintf("%d custom", n))
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "; ")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
