package cmd

import (
	"fmt"
	"strings"

	semvlog "github.com/Digital-Shane/semv/internal/log"
	"github.com/Digital-Shane/semv/internal/ui/theme"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent lookups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sessions, err := semvlog.ReadSessions(limit)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderHistory(theme.Default(), sessions))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of sessions to show (0 for all)")
	return cmd
}

func renderHistory(th theme.Theme, sessions []*semvlog.LogSession) string {
	if len(sessions) == 0 {
		return th.MutedStyle().Render("No lookups recorded yet.") + "\n"
	}

	var b strings.Builder
	for _, s := range sessions {
		header := fmt.Sprintf("%s %s  %s", th.Icon("history"),
			humanize.Time(s.Metadata.Timestamp), strings.Join(s.Metadata.CommandArgs, " "))
		b.WriteString(th.TitleStyle().Render(header) + "\n")

		for _, l := range s.Lookups {
			status := th.BadgeStyle(theme.BadgeSuccess).Render("ok")
			detail := l.Title
			if !l.Success {
				status = th.BadgeStyle(theme.BadgeError).Render("failed")
				detail = l.Error
			}
			detail = runewidth.Truncate(detail, maxNameWidth, "…")
			b.WriteString(fmt.Sprintf("  %s %-7s %-28s %s %s\n",
				status, l.Kind, runewidth.Truncate(l.Input, 28, "…"), detail,
				th.MutedStyle().Render(fmt.Sprintf("%d file(s), %dms", l.FilesFound, l.DurationMS))))
		}
	}
	return b.String()
}
