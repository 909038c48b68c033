package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/dhamidi/onescript/format"
	"github.com/dhamidi/onescript/onescript/parser"
	"github.com/spf13/cobra"
)

func newParseCmd() *cobra.Command {
	var outputFormat string
	var includeComments bool
	var includePositions bool
	var expression bool

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a OneScript file and dump the syntax tree",
		Long: `Parse a OneScript module and print its syntax tree.

Reads from stdin when no file is given. With --expression the input is
parsed as a single expression instead of a module.

The tree is printed even when the source has errors; the diagnostics go
to stderr and the command fails.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readSource(args)
			if err != nil {
				return err
			}

			var opts []parser.Option
			if filename != "" {
				opts = append(opts, parser.WithFile(filename))
			}
			if includeComments {
				opts = append(opts, parser.WithComments())
			}
			if includePositions {
				opts = append(opts, parser.WithPositions())
			}

			var p *parser.Parser
			if expression {
				p = parser.ParseExpression(bytes.NewReader(source), opts...)
			} else {
				p = parser.ParseSourceFile(bytes.NewReader(source), opts...)
			}
			node := p.Finish()
			if node == nil {
				return fmt.Errorf("parse: no input")
			}

			var encoder format.Encoder
			if outputFormat == "json" {
				encoder = format.NewASTJSONEncoder(os.Stdout).WithDiagnostics(p.Diagnostics())
			} else {
				encoder, err = format.NewEncoder(outputFormat, os.Stdout, includePositions)
				if err != nil {
					return err
				}
			}
			if err := encoder.Encode(node); err != nil {
				return fmt.Errorf("encode %s: %w", outputFormat, err)
			}

			if diags := p.Diagnostics(); len(diags) > 0 {
				newReporter(os.Stderr, false).file(filename, diags)
				return fmt.Errorf("%d problems", len(diags))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputFormat, "format", "f", "tree", "output format ("+strings.Join(format.Names, ", ")+")")
	cmd.Flags().BoolVar(&includeComments, "comments", false, "attach comments to the parser result")
	cmd.Flags().BoolVar(&includePositions, "positions", false, "include source positions in the tree output")
	cmd.Flags().BoolVarP(&expression, "expression", "e", false, "parse the input as a single expression")

	return cmd
}
