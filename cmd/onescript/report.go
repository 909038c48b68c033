package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dhamidi/onescript/onescript/parser"
	"github.com/muesli/termenv"
)

var (
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorSuccess = lipgloss.Color("#10B981")
	colorMuted   = lipgloss.Color("#6B7280")
)

// reporter prints diagnostics in the file:line:col form editors pick up.
type reporter struct {
	w io.Writer

	location lipgloss.Style
	err      lipgloss.Style
	warning  lipgloss.Style
	ok       lipgloss.Style
	muted    lipgloss.Style
}

func newReporter(w io.Writer, noColor bool) *reporter {
	r := lipgloss.NewRenderer(w)
	if noColor {
		r.SetColorProfile(termenv.Ascii)
	}
	return &reporter{
		w:        w,
		location: r.NewStyle().Bold(true),
		err:      r.NewStyle().Foreground(colorError).Bold(true),
		warning:  r.NewStyle().Foreground(colorWarning).Bold(true),
		ok:       r.NewStyle().Foreground(colorSuccess),
		muted:    r.NewStyle().Foreground(colorMuted).Italic(true),
	}
}

func (r *reporter) file(path string, diags []parser.Diagnostic) {
	for _, d := range diags {
		pos := d.Span.Start
		if path != "" {
			pos.File = path
		}

		severity := r.err
		if d.Severity == parser.SeverityWarning {
			severity = r.warning
		}
		fmt.Fprintf(r.w, "%s %s %s\n",
			r.location.Render(pos.String()+":"),
			severity.Render(d.Severity.String()+"["+d.Kind.String()+"]:"),
			d.Message)
		if len(d.Expected) > 0 {
			fmt.Fprintf(r.w, "    %s\n", r.muted.Render("expected "+strings.Join(d.Expected, ", ")))
		}
	}
}

func (r *reporter) clean(path string) {
	fmt.Fprintf(r.w, "%s %s\n", r.ok.Render("ok"), path)
}

func (r *reporter) removed(path string) {
	fmt.Fprintf(r.w, "%s %s\n", r.muted.Render("removed"), path)
}

func (r *reporter) summary(files, problems int) {
	if problems == 0 {
		fmt.Fprintln(r.w, r.ok.Render(fmt.Sprintf("%d files, no problems", files)))
		return
	}
	fmt.Fprintln(r.w, r.err.Render(fmt.Sprintf("%d files, %d problems", files, problems)))
}

func printError(w io.Writer, err error) {
	style := lipgloss.NewRenderer(w).NewStyle().Foreground(colorError).Bold(true)
	fmt.Fprintf(w, "%s %v\n", style.Render("error:"), err)
}
