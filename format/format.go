package format

import (
	"fmt"
	"io"

	"github.com/dhamidi/onescript/onescript/parser"
)

type Encoder interface {
	Encode(node *parser.Node) error
	MarshalText(node *parser.Node) ([]byte, error)
}

// Names lists the output formats accepted by NewEncoder.
var Names = []string{"tree", "sexpr", "json", "onescript"}

// NewEncoder returns the encoder for a named output format.
func NewEncoder(name string, w io.Writer, positions bool) (Encoder, error) {
	switch name {
	case "tree":
		return &TreeEncoder{w: w, positions: positions}, nil
	case "sexpr":
		return &SExprEncoder{w: w}, nil
	case "json":
		return NewASTJSONEncoder(w), nil
	case "onescript":
		return NewOneScriptEncoder(w), nil
	}
	return nil, fmt.Errorf("unknown format: %s", name)
}

// TreeEncoder writes the indented outline of Node.String.
type TreeEncoder struct {
	w         io.Writer
	positions bool
}

func (e *TreeEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *TreeEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	if e.positions {
		return []byte(node.StringWithPositions()), nil
	}
	return []byte(node.String()), nil
}

// SExprEncoder writes the tree as a single s-expression line.
type SExprEncoder struct {
	w io.Writer
}

func (e *SExprEncoder) Encode(node *parser.Node) error {
	text, err := e.MarshalText(node)
	if err != nil {
		return err
	}
	_, err = e.w.Write(text)
	return err
}

func (e *SExprEncoder) MarshalText(node *parser.Node) ([]byte, error) {
	return []byte(node.SExpr() + "\n"), nil
}
