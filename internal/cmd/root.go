package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/Digital-Shane/semv/internal/provider"
	"github.com/Digital-Shane/semv/internal/ui/theme"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	verbose bool
	noLog   bool
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   "semv",
		Short: "Look up movie, series and Google Drive posts and generate download buttons",
		Long: `semv resolves a movie or series post ID, or a Google Drive file or folder link,
into its title and the list of Drive files behind it. File names and sizes are
fetched from the Google Drive API, and the download links can be turned into a
block-editor button snippet and copied to the clipboard.

API keys are read from ~/.semv/config.json or the SEMV_*_API_KEY environment
variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log requests and timings to stderr")
	root.PersistentFlags().BoolVar(&opts.noLog, "no-log", false, "Do not record this run in the lookup history")

	root.AddCommand(
		newLookupCmd(opts, provider.ContentMovie),
		newLookupCmd(opts, provider.ContentSeries),
		newLookupCmd(opts, provider.ContentDrive),
		newSnippetCmd(opts),
		newHistoryCmd(),
		newConfigCmd(),
	)

	return root
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, renderError(theme.Default(), err))
		os.Exit(1)
	}
}

// newLogger writes text logs to w. Verbose mode lowers the level to debug.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
