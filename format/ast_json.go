package format

import (
	"encoding/json"
	"io"

	"github.com/dhamidi/onescript/onescript/parser"
)

type ASTJSONEncoder struct {
	w           io.Writer
	diagnostics []parser.Diagnostic
	withDiags   bool
}

func NewASTJSONEncoder(w io.Writer) *ASTJSONEncoder {
	return &ASTJSONEncoder{w: w}
}

// WithDiagnostics makes the encoder wrap the tree in an object that also
// lists diags.
func (e *ASTJSONEncoder) WithDiagnostics(diags []parser.Diagnostic) *ASTJSONEncoder {
	e.diagnostics = diags
	e.withDiags = true
	return e
}

func (e *ASTJSONEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	if _, err := e.w.Write(text); err != nil {
		return err
	}
	_, err = io.WriteString(e.w, "\n")
	return err
}

func (e *ASTJSONEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	if !e.withDiags {
		return json.MarshalIndent(node, "", "  ")
	}
	diags := e.diagnostics
	if diags == nil {
		diags = []parser.Diagnostic{}
	}
	return json.MarshalIndent(astJSONResult{Tree: node, Diagnostics: diags}, "", "  ")
}

type astJSONResult struct {
	Tree        *parser.Node        `json:"tree"`
	Diagnostics []parser.Diagnostic `json:"diagnostics"`
}
