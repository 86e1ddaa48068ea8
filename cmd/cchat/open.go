package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-chat/internal/open"
)

func openCmd(g *globals) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "open <session-id>",
		Short: "Open a session file in $EDITOR",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app()
			if err != nil {
				return err
			}
			found, err := open.Session(a.Sessions, args[0], query)
			if !found && err == nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Session %s not found.\n", args[0])
			}
			return err
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Jump to the first line containing this keyword")
	return cmd
}
