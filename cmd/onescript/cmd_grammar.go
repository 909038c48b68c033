package main

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/dhamidi/onescript/onescript/grammar"
	"github.com/spf13/cobra"
)

func newGrammarCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grammar",
		Short: "Print and query the EBNF grammar of OneScript",
		Long: `Print the EBNF grammar the parser implements.

The grammar uses the notation of golang.org/x/exp/ebnf. Productions with
a lowercase name describe single lexemes and can be tested against text
with "grammar match".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := os.Stdout.Write(grammar.Source())
			return err
		},
	}

	cmd.AddCommand(newGrammarCheckCmd())
	cmd.AddCommand(newGrammarListCmd())
	cmd.AddCommand(newGrammarMatchCmd())

	return cmd
}

func newGrammarCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check [file]",
		Short: "Parse and verify an EBNF grammar file",
		Long: `Parse and verify an EBNF grammar file starting at SourceFile.
Without a file the built-in grammar is checked.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			filename := "onescript.ebnf"
			src := grammar.Source()
			if len(args) > 0 {
				filename = args[0]
				data, err := os.ReadFile(filename)
				if err != nil {
					return fmt.Errorf("open file: %w", err)
				}
				src = data
			}

			g, err := grammar.Parse(filename, src)
			if err != nil {
				printErrors(err)
				return errors.New("grammar is invalid")
			}
			fmt.Printf("%s: %d productions\n", filename, len(g))
			return nil
		},
	}
}

func newGrammarListCmd() *cobra.Command {
	var keywordsOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the productions of the grammar",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Load()
			if err != nil {
				return err
			}

			if keywordsOnly {
				keywords := grammar.Keywords(g)
				for _, name := range grammar.Productions(g) {
					if spellings, ok := keywords[name]; ok {
						fmt.Printf("%s\t%s\n", name, strings.Join(spellings, " | "))
					}
				}
				return nil
			}

			for _, name := range grammar.Productions(g) {
				kind := "syntax"
				if grammar.IsLexical(name) {
					kind = "lexical"
				}
				fmt.Printf("%s\t%s\n", name, kind)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&keywordsOnly, "keywords", "k", false, "list keyword productions with their spellings")

	return cmd
}

func newGrammarMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <production> <text>",
		Short: "Test whether text is a lexeme of a lexical production",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := grammar.Load()
			if err != nil {
				return err
			}

			ok, err := grammar.NewMatcher(g).Match(args[0], args[1])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%q does not match %s", args[1], args[0])
			}
			fmt.Printf("%q matches %s\n", args[1], args[0])
			return nil
		},
	}
}

// printErrors prints each error of an ebnf error list on its own line.
func printErrors(err error) {
	if inner := errors.Unwrap(err); inner != nil {
		err = inner
	}
	v := reflect.ValueOf(err)
	if v.Kind() == reflect.Slice {
		for i := 0; i < v.Len(); i++ {
			fmt.Fprintln(os.Stderr, v.Index(i).Interface())
		}
	} else {
		fmt.Fprintln(os.Stderr, err)
	}
}
