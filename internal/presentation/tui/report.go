package tui

import (
	"fmt"
	"slices"
	"strings"

	"github.com/aretw0/schemata/pkg/validation"
	"github.com/muesli/termenv"
)

// Outcome is the validation of one record.
type Outcome struct {
	Source string
	Result *validation.Result
	Err    error // set when the record could not be validated at all
}

// Failed reports whether the outcome counts as a failure.
func (o Outcome) Failed() bool {
	return o.Err != nil || o.Result == nil || !o.Result.Valid
}

// PrintReport writes one line per outcome, followed by the failed fields and
// codes, and a summary. It returns the number of failed outcomes.
func PrintReport(out *termenv.Output, schemaName string, outcomes []Outcome) int {
	ok := out.Color("#34d399")
	bad := out.Color("#fb7185")
	dim := out.Color("#a78bfa")

	failed := 0
	for _, o := range outcomes {
		if !o.Failed() {
			fmt.Fprintf(out, "%s %s\n", out.String("✔").Foreground(ok), o.Source)
			continue
		}
		failed++
		fmt.Fprintf(out, "%s %s\n", out.String("✘").Foreground(bad).Bold(), o.Source)
		if o.Err != nil {
			fmt.Fprintf(out, "    %s\n", out.String(o.Err.Error()).Foreground(bad))
			continue
		}
		writeFieldErrors(out, o.Result.Errors, dim)
	}

	summary := fmt.Sprintf("%d record(s) checked against %s, %d failed", len(outcomes), schemaName, failed)
	style := out.String(summary).Foreground(ok)
	if failed > 0 {
		style = out.String(summary).Foreground(bad)
	}
	fmt.Fprintf(out, "\n%s\n", style)
	return failed
}

func writeFieldErrors(out *termenv.Output, errs map[string][]string, color termenv.Color) {
	fields := make([]string, 0, len(errs))
	for f := range errs {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	for _, f := range fields {
		fmt.Fprintf(out, "    %s: %s\n", out.String(f).Foreground(color), strings.Join(errs[f], ", "))
	}
}
