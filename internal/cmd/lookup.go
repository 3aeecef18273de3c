package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"

	semvlog "github.com/Digital-Shane/semv/internal/log"
	"github.com/Digital-Shane/semv/internal/provider"
	"github.com/Digital-Shane/semv/internal/snippet"
	"github.com/Digital-Shane/semv/internal/ui/theme"
	"github.com/spf13/cobra"
)

// autoStyle picks the snippet style from the content type.
const autoStyle = "auto"

type lookupOptions struct {
	copyStyle string
	class     string
	json      bool
	noFiles   bool
}

func newLookupCmd(global *globalOptions, ct provider.ContentType) *cobra.Command {
	opts := &lookupOptions{}

	cmd := &cobra.Command{
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLookup(cmd, global, opts, ct, args[0])
		},
	}

	switch ct {
	case provider.ContentMovie:
		cmd.Use = "movie <post-id>"
		cmd.Short = "Look up a movie post and list its Drive files"
	case provider.ContentSeries:
		cmd.Use = "series <post-id>"
		cmd.Short = "Look up a series post and list its Drive files"
	default:
		cmd.Use = "drive <url-or-id>"
		cmd.Short = "Resolve a Google Drive file or folder link"
		cmd.Long = `Resolve a Google Drive file or folder. The argument may be a bare ID or any
Drive URL; the first 25+ character ID in the URL is used. Folders are listed
one level deep.`
	}

	cmd.Flags().StringVar(&opts.copyStyle, "copy", "", "Copy a button snippet to the clipboard (server, episode or zip)")
	cmd.Flags().Lookup("copy").NoOptDefVal = autoStyle
	cmd.Flags().StringVar(&opts.class, "class", "", "CSS class for the snippet buttons")
	cmd.Flags().BoolVar(&opts.json, "json", false, "Print the result as JSON")
	if ct != provider.ContentDrive {
		cmd.Flags().BoolVar(&opts.noFiles, "no-files", false, "Skip fetching Drive file names and sizes")
	}

	return cmd
}

func runLookup(cmd *cobra.Command, global *globalOptions, opts *lookupOptions, ct provider.ContentType, input string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	style, err := resolveStyle(opts.copyStyle, ct, cfg.DefaultStyle)
	if err != nil {
		return err
	}

	recordHistory := cfg.EnableLogging && !global.noLog
	semvlog.Initialize(recordHistory, cfg.LogRetentionDays)
	if err := semvlog.StartSession(string(ct), []string{input}); err != nil {
		return err
	}
	defer semvlog.EndSession()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	logger := newLogger(cmd.ErrOrStderr(), global.verbose)
	a, err := newApp(ctx, cfg, logger, recordHistory, opts.noFiles)
	if err != nil {
		return err
	}
	defer a.close()

	out, err := a.session.Run(ctx, provider.LookupRequest{ContentType: ct, RawInput: input})
	if err != nil {
		return err
	}

	th := theme.Default()
	var markup string
	if opts.copyStyle != "" || opts.json {
		markup = snippet.Generate(out.Result.FileIDs, style, opts.class)
	}

	if opts.json {
		if err := renderJSON(cmd.OutOrStdout(), out, markup); err != nil {
			return err
		}
	} else {
		fmt.Fprintln(cmd.OutOrStdout(), renderOutcome(th, out))
	}

	if opts.copyStyle != "" {
		return copySnippet(cmd, th, markup, style, len(out.Result.FileIDs), opts.json)
	}
	return nil
}

// resolveStyle turns the --copy value into a snippet style.
func resolveStyle(flag string, ct provider.ContentType, fallback string) (snippet.Style, error) {
	flag = strings.TrimSpace(flag)
	if flag != "" && flag != autoStyle {
		return snippet.ParseStyle(flag)
	}
	switch ct {
	case provider.ContentMovie:
		return snippet.StyleServer, nil
	case provider.ContentSeries:
		return snippet.StyleEpisode, nil
	}
	if style, err := snippet.ParseStyle(fallback); err == nil {
		return style, nil
	}
	return snippet.StyleServer, nil
}

// copySnippet writes markup to the clipboard. When no clipboard is available
// the snippet is printed instead.
func copySnippet(cmd *cobra.Command, th theme.Theme, markup string, style snippet.Style, count int, quiet bool) error {
	if err := writeClipboard(markup); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), th.ErrorStyle().Render(th.Icon("error")+" clipboard unavailable: "+err.Error()))
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), markup)
		}
		return nil
	}
	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), th.SuccessStyle().Render(
			fmt.Sprintf("%s Copied %d %s button(s) to the clipboard", th.Icon("success"), count, style)))
	}
	return nil
}
