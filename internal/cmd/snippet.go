package cmd

import (
	"fmt"
	"time"

	"github.com/Digital-Shane/semv/internal/ident"
	semvlog "github.com/Digital-Shane/semv/internal/log"
	"github.com/Digital-Shane/semv/internal/snippet"
	"github.com/Digital-Shane/semv/internal/ui/theme"
	"github.com/spf13/cobra"
)

type snippetOptions struct {
	style string
	class string
	copy  bool
}

func newSnippetCmd(global *globalOptions) *cobra.Command {
	opts := &snippetOptions{}

	cmd := &cobra.Command{
		Use:   "snippet <id-or-url>...",
		Short: "Generate download buttons for Drive file IDs",
		Long: `Generate block-editor button markup for the given Drive file IDs or links.
Buttons are numbered in argument order.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSnippet(cmd, global, opts, args)
		},
	}

	cmd.Flags().StringVarP(&opts.style, "style", "s", "", "Button style: server, episode or zip (default from config)")
	cmd.Flags().StringVar(&opts.class, "class", "", "CSS class for the buttons")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the snippet to the clipboard instead of printing it")

	return cmd
}

func runSnippet(cmd *cobra.Command, global *globalOptions, opts *snippetOptions, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	styleName := opts.style
	if styleName == "" {
		styleName = cfg.DefaultStyle
	}
	style, err := snippet.ParseStyle(styleName)
	if err != nil {
		return err
	}

	ids := make([]string, 0, len(args))
	for _, arg := range args {
		id, ok := ident.ExtractID(arg)
		if !ok {
			return fmt.Errorf("no Drive ID found in %q", arg)
		}
		ids = append(ids, id)
	}

	start := time.Now()
	markup := snippet.Generate(ids, style, opts.class)

	recordHistory := cfg.EnableLogging && !global.noLog
	semvlog.Initialize(recordHistory, cfg.LogRetentionDays)
	if err := semvlog.StartSession("snippet", args); err == nil {
		semvlog.RecordLookup(semvlog.LookupLog{
			Kind:       semvlog.KindSnippet,
			Input:      string(style),
			FileIDs:    ids,
			FilesFound: len(ids),
			DurationMS: time.Since(start).Milliseconds(),
			Success:    true,
		})
		defer semvlog.EndSession()
	}

	if !opts.copy {
		fmt.Fprintln(cmd.OutOrStdout(), markup)
		return nil
	}
	return copySnippet(cmd, theme.Default(), markup, style, len(ids), false)
}
