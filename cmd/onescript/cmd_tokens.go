package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/onescript/onescript/parser"
	"github.com/spf13/cobra"
)

func newTokensCmd() *cobra.Command {
	var showKeywords bool

	cmd := &cobra.Command{
		Use:   "tokens [file]",
		Short: "Print the significant tokens of a OneScript file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, filename, err := readSource(args)
			if err != nil {
				return err
			}

			bad := 0
			for _, tok := range parser.Tokenize(source, filename) {
				line := fmt.Sprintf("%s\t%s\t%q", tok.Span.Start, tok.Kind, tok.Literal)
				if showKeywords && tok.Kind == parser.TokenIdent {
					for _, kw := range parser.Lookup(tok.Literal) {
						line += "\t" + kw.String()
					}
				}
				if tok.Kind == parser.TokenError {
					bad++
					line += "\t" + tok.Message
				}
				fmt.Fprintln(os.Stdout, line)
			}

			if bad > 0 {
				return fmt.Errorf("%d invalid tokens", bad)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&showKeywords, "keywords", "k", false, "show the keywords an identifier can spell")

	return cmd
}
