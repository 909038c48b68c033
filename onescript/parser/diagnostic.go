package parser

import (
	"fmt"
	"sort"
	"strings"
)

type Severity int

const (
	SeverityError Severity = iota + 1
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// DiagnosticKind classifies where a problem was detected.
type DiagnosticKind int

const (
	// Lexical: unterminated literals, illegal characters.
	Lexical DiagnosticKind = iota
	// Syntax: an unexpected token or a missing keyword.
	Syntax
	// Structural: declarations out of order.
	Structural
)

func (k DiagnosticKind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Structural:
		return "structural"
	default:
		return "syntax"
	}
}

type Diagnostic struct {
	Severity Severity
	Kind     DiagnosticKind
	Message  string
	Span     Span
	Expected []string
}

func (d Diagnostic) Error() string {
	return fmt.Sprintf("%s: %s error: %s", d.Span.Start, d.Kind, d.Message)
}

// ErrorList is returned by Parser.Err when a parse produced diagnostics.
type ErrorList []Diagnostic

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	var b strings.Builder
	b.WriteString(l[0].Error())
	fmt.Fprintf(&b, " (and %d more errors)", len(l)-1)
	return b.String()
}

func sortDiagnostics(diags []Diagnostic) {
	sort.SliceStable(diags, func(i, j int) bool {
		return diags[i].Span.Start.Offset < diags[j].Span.Start.Offset
	})
}
