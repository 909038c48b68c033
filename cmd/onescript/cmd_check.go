package main

import (
	"context"
	"fmt"
	"os"

	"github.com/dhamidi/onescript/onescript/codebase"
	"github.com/dhamidi/onescript/project"
	"github.com/spf13/cobra"
)

func newCheckCmd() *cobra.Command {
	var noColor bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "check [file...]",
		Short: "Report the diagnostics of OneScript files",
		Long: `Parse OneScript files and report every diagnostic.

Without arguments every source file of the project in the current
directory is checked, as configured by onescript.toml or onescript.yaml.
Directories given as arguments are searched for source files.

The command fails when any file has a problem.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Load()
			if err != nil {
				return err
			}
			cb := codebase.New(proj)

			if len(args) == 0 {
				if err := cb.ScanAll(cmd.Context()); err != nil {
					return err
				}
			} else if err := scanArgs(cmd.Context(), cb, args); err != nil {
				return err
			}

			out := newReporter(os.Stdout, noColor)
			problems := 0
			paths := cb.Files()
			for _, path := range paths {
				info := cb.GetFile(path)
				if !info.HasErrors() {
					if !quiet {
						out.clean(path)
					}
					continue
				}
				problems += len(info.Diagnostics)
				out.file(path, info.Diagnostics)
			}
			out.summary(len(paths), problems)

			if problems > 0 {
				return fmt.Errorf("%d problems in %d files", problems, len(paths))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "only print files with problems")

	return cmd
}

// scanArgs parses the named files and the source files below the named
// directories.
func scanArgs(ctx context.Context, cb *codebase.Codebase, args []string) error {
	for _, arg := range args {
		if err := ctx.Err(); err != nil {
			return err
		}
		info, err := os.Stat(arg)
		if err != nil {
			return err
		}
		if !info.IsDir() {
			if _, err := cb.ScanFile(arg); err != nil {
				return err
			}
			continue
		}

		sub, err := project.LoadFrom(arg)
		if err != nil {
			return err
		}
		paths, err := sub.SourceFiles()
		if err != nil {
			return err
		}
		for _, path := range paths {
			if _, err := cb.ScanFile(path); err != nil {
				return err
			}
		}
	}
	return nil
}
