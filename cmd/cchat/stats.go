package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-chat/internal/app"
	"github.com/Zuo-Peng/claude-chat/internal/render"
	"github.com/Zuo-Peng/claude-chat/internal/stats"
)

var statsViews = []string{"overview", "project", "model", "date", "hour", "models", "days"}

func statsCmd(g *globals) *cobra.Command {
	var (
		project string
		session string
		by      string
		top     int
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Token usage and activity statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !lo.Contains(statsViews, by) {
				return fmt.Errorf("invalid --by %q (want one of %s)", by, strings.Join(statsViews, ", "))
			}
			a, err := g.app()
			if err != nil {
				return err
			}
			rep, err := a.Stats(stats.Scope{ProjectDir: project, SessionID: session})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if g.json {
				return writeJSON(out, rep)
			}
			width := terminalWidth(out) - 40
			return printStats(out, rep, by, top, width)
		},
	}

	f := cmd.Flags()
	f.StringVar(&project, "project", "", "Only count one project directory")
	f.StringVar(&session, "session", "", "Only count one session (id or prefix)")
	f.StringVar(&by, "by", "overview", "View: "+strings.Join(statsViews, "|"))
	f.IntVar(&top, "top", 10, "Entries shown for project and model views")
	return cmd
}

func printStats(w io.Writer, rep *app.Report, by string, top, width int) error {
	switch by {
	case "project":
		return render.Bars(w, groupBars(stats.Top(rep.ByProject, top)), width)
	case "model":
		return render.Bars(w, groupBars(stats.Top(rep.ByModel, top)), width)
	case "date":
		return render.Bars(w, groupBars(rep.ByDate), width)
	case "hour":
		return render.Bars(w, lo.Map(rep.Hourly, func(h stats.HourCount, _ int) render.Bar {
			return render.Bar{Label: fmt.Sprintf("%02d:00", h.Hour), Value: int64(h.Count)}
		}), width)
	case "models":
		return render.Bars(w, countBars(rep.ModelShare), width)
	case "days":
		return render.Bars(w, countBars(rep.SessionsPerDay), width)
	}

	o := rep.Overview
	fmt.Fprintf(w, "Sessions:     %s\n", humanize.Comma(int64(o.Sessions)))
	fmt.Fprintf(w, "Messages:     %s\n", humanize.Comma(int64(o.Messages)))
	fmt.Fprintf(w, "Tokens:       %s\n", stats.FormatTokens(o.TotalTokens))
	fmt.Fprintf(w, "Active days:  %d\n", o.ActiveDays)
	if len(rep.ByModel) > 0 {
		fmt.Fprintln(w, "\nTop models:")
		for _, grp := range stats.Top(rep.ByModel, 3) {
			fmt.Fprintf(w, "  %-30s %s\n", grp.Key, stats.FormatTokens(grp.Total()))
		}
	}
	if len(rep.ByProject) > 0 && rep.Scope.IsZero() {
		fmt.Fprintln(w, "\nTop projects:")
		for _, grp := range stats.Top(rep.ByProject, 3) {
			fmt.Fprintf(w, "  %-30s %s\n", grp.Key, stats.FormatTokens(grp.Total()))
		}
	}
	return nil
}

func groupBars(groups []stats.Group) []render.Bar {
	return lo.Map(groups, func(grp stats.Group, _ int) render.Bar {
		return render.Bar{Label: grp.Key, Value: grp.Total(), Text: stats.FormatTokens(grp.Total())}
	})
}

func countBars(counts []stats.Count) []render.Bar {
	return lo.Map(counts, func(c stats.Count, _ int) render.Bar {
		return render.Bar{Label: c.Key, Value: int64(c.Count)}
	})
}
