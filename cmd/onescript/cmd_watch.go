package main

import (
	"os"

	"github.com/dhamidi/onescript/onescript/codebase"
	"github.com/dhamidi/onescript/project"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var noColor bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Check the project's files again whenever they change",
		Long: `Parse every source file of the project in the current directory, then
watch the project tree and report the diagnostics of each file that is
written, created or removed. Stop with Ctrl-C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := project.Load()
			if err != nil {
				return err
			}
			cb := codebase.New(proj)
			out := newReporter(os.Stdout, noColor)

			if err := cb.ScanAll(cmd.Context()); err != nil {
				return err
			}
			for _, path := range cb.Files() {
				if info := cb.GetFile(path); info.HasErrors() {
					out.file(path, info.Diagnostics)
				}
			}
			out.summary(len(cb.Files()), cb.DiagnosticCount())

			watcher, err := codebase.NewFileWatcher(cb, func(path string, info *codebase.FileInfo) {
				switch {
				case info == nil:
					out.removed(path)
				case info.HasErrors():
					out.file(path, info.Diagnostics)
				default:
					out.clean(path)
				}
			})
			if err != nil {
				return err
			}

			return watcher.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "disable colored output")

	return cmd
}
