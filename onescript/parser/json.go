package parser

import "encoding/json"

type jsonNode struct {
	Kind     string      `json:"kind"`
	Field    string      `json:"field,omitempty"`
	Keyword  string      `json:"keyword,omitempty"`
	Span     *jsonSpan   `json:"span,omitempty"`
	Token    string      `json:"token,omitempty"`
	Error    *jsonError  `json:"error,omitempty"`
	Children []*jsonNode `json:"children,omitempty"`
}

type jsonSpan struct {
	Start jsonPosition `json:"start"`
	End   jsonPosition `json:"end"`
}

type jsonPosition struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

type jsonError struct {
	Message  string   `json:"message"`
	Expected []string `json:"expected,omitempty"`
	Got      string   `json:"got,omitempty"`
}

func (n *Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.toJSON())
}

func (n *Node) toJSON() *jsonNode {
	jn := &jsonNode{
		Kind:  n.Kind.String(),
		Field: n.Field,
	}

	if n.Keyword != KeywordNone {
		jn.Keyword = n.Keyword.String()
	}

	if n.Span.Start.Line != 0 || n.Span.End.Line != 0 {
		jn.Span = &jsonSpan{
			Start: jsonPosition{Offset: n.Span.Start.Offset, Line: n.Span.Start.Line, Column: n.Span.Start.Column},
			End:   jsonPosition{Offset: n.Span.End.Offset, Line: n.Span.End.Line, Column: n.Span.End.Column},
		}
	}

	if n.Token != nil {
		jn.Token = n.Token.Literal
	}

	if n.Error != nil {
		jn.Error = &jsonError{
			Message:  n.Error.Message,
			Expected: n.Error.Expected,
		}
		if n.Error.Got != nil {
			jn.Error.Got = n.Error.Got.Literal
		}
	}

	if len(n.Children) > 0 {
		jn.Children = make([]*jsonNode, len(n.Children))
		for i, child := range n.Children {
			jn.Children[i] = child.toJSON()
		}
	}

	return jn
}

type jsonDiagnostic struct {
	Severity string    `json:"severity"`
	Kind     string    `json:"kind"`
	Message  string    `json:"message"`
	Span     *jsonSpan `json:"span"`
	Expected []string  `json:"expected,omitempty"`
}

func (d Diagnostic) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonDiagnostic{
		Severity: d.Severity.String(),
		Kind:     d.Kind.String(),
		Message:  d.Message,
		Span: &jsonSpan{
			Start: jsonPosition{Offset: d.Span.Start.Offset, Line: d.Span.Start.Line, Column: d.Span.Start.Column},
			End:   jsonPosition{Offset: d.Span.End.Offset, Line: d.Span.End.Line, Column: d.Span.End.Column},
		},
		Expected: d.Expected,
	})
}
