package main

import (
	"fmt"
	"os"

	"github.com/dhamidi/onescript/format"
	"github.com/dhamidi/onescript/project"
	"github.com/spf13/cobra"
)

func newFmtCmd() *cobra.Command {
	var fmtOverwrite bool
	var language string
	var indent string

	cmd := &cobra.Command{
		Use:   "fmt [file]",
		Short: "Pretty-print a OneScript file, preserving comments",
		Long: `Pretty-print a OneScript module to stdout.

If no file is provided, reads OneScript source from stdin.

Keywords are written in one language: --language en or ru converts
them, keep uses whichever language most keywords of the file use.
Without flags the [format] section of the project file applies.

Files with syntax errors are not formatted.
Use -w to overwrite the file in place (requires a file argument).`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 && fmtOverwrite {
				return fmt.Errorf("-w requires a file argument")
			}

			proj, err := project.Load()
			if err != nil {
				return err
			}
			if len(args) > 0 && !proj.IsSource(args[0]) {
				return fmt.Errorf("expected one of %v, got %s", proj.Config.Extensions, args[0])
			}
			if !cmd.Flags().Changed("language") {
				language = proj.Config.Format.Language
			}
			if !cmd.Flags().Changed("indent") {
				indent = proj.Config.Format.Indent
			}
			lang, err := format.ParseLanguage(language)
			if err != nil {
				return err
			}

			source, filename, err := readSource(args)
			if err != nil {
				return err
			}

			output, err := format.PrettyPrintFile(source, filename,
				format.WithLanguage(lang),
				format.WithIndent(indent))
			if err != nil {
				return fmt.Errorf("format: %w", err)
			}

			if fmtOverwrite {
				return os.WriteFile(filename, output, 0644)
			}
			_, err = os.Stdout.Write(output)
			return err
		},
	}

	cmd.Flags().BoolVarP(&fmtOverwrite, "write", "w", false, "overwrite the file in place")
	cmd.Flags().StringVarP(&language, "language", "l", "keep", "keyword language (en, ru, keep)")
	cmd.Flags().StringVar(&indent, "indent", "\t", "indentation of nested blocks")

	return cmd
}
