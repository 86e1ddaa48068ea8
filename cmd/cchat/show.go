package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-chat/internal/render"
)

const showMaxChars = 500

func showCmd(g *globals) *cobra.Command {
	var full bool
	var query string
	var context int

	cmd := &cobra.Command{
		Use:   "show <session-id>",
		Short: "Show a session's messages (id or unique prefix)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app()
			if err != nil {
				return err
			}
			det, err := a.Sessions.Detail(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if det == nil {
				fmt.Fprintf(out, "Session %s not found.\n", args[0])
				return nil
			}
			if g.json {
				return writeJSON(out, det)
			}

			fmt.Fprintf(out, "Session:  %s\n", det.Title)
			fmt.Fprintf(out, "ID:       %s\n", det.SessionID)
			fmt.Fprintf(out, "Project:  %s\n", det.Project)
			fmt.Fprintf(out, "Model:    %s\n", orDash(det.Model))
			fmt.Fprintf(out, "Messages: %d\n", det.MessageCount)
			fmt.Fprintf(out, "Path:     %s\n\n", det.FilePath)

			opts := render.Options{
				HitIndex: -1,
				Width:    terminalWidth(out),
				Query:    query,
				NoColor:  !stdoutTTY(out),
			}
			if !full {
				opts.MaxChars = showMaxChars
			}
			if query != "" {
				opts.HitIndex = render.FirstMatch(det.Messages, query)
				opts.Context = context
			}
			text, _ := render.Session(det, opts)
			fmt.Fprint(out, text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&full, "full", false, "Do not truncate long messages")
	cmd.Flags().StringVarP(&query, "query", "q", "", "Highlight a keyword and mark its first message")
	cmd.Flags().IntVar(&context, "context", 0, "With --query, messages to show around the hit (0 = all)")
	return cmd
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
