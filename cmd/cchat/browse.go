package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-chat/internal/tui"
)

func browseCmd(g *globals) *cobra.Command {
	var (
		project string
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "browse [query]",
		Short: "Interactive session browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app()
			if err != nil {
				return err
			}
			return tui.Run(a, tui.Options{
				Query:   strings.Join(args, " "),
				Project: project,
				Watch:   watch,
			})
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Restrict to one project directory")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Reload when session files change")
	return cmd
}
