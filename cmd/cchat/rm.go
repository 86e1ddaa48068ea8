package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-chat/internal/sessions"
)

var errNeedYes = errors.New("stdin is not a terminal; pass -y to delete without confirmation")

// mayPrompt reports whether a confirmation can be asked. Tests feed
// their own input and are always allowed to.
func mayPrompt(cmd *cobra.Command) bool {
	in := cmd.InOrStdin()
	f, ok := in.(*os.File)
	return !ok || isTerminal(f)
}

func rmCmd(g *globals) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm <session-id>",
		Short: "Delete a session and its companion directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			loc, err := a.Sessions.Resolve(args[0])
			if err != nil {
				return err
			}
			if loc == nil {
				fmt.Fprintf(out, "Session %s not found.\n", args[0])
				return nil
			}
			if !yes {
				if !mayPrompt(cmd) {
					return errNeedYes
				}
				det, err := a.Sessions.Load(loc)
				if err != nil {
					return err
				}
				title := ""
				if det != nil {
					title = det.Title
				}
				fmt.Fprintf(out, "About to delete: %s (%s) in %s\n", sessions.ShortID(loc.SessionID), title, loc.ProjectDir)
				if !confirm(cmd.InOrStdin(), out, "Delete?") {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			ok, err := a.Delete(loc.SessionID)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintf(out, "Session %s not found.\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "Deleted session %s\n", sessions.ShortID(loc.SessionID))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}

func rmProjectCmd(g *globals) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "rm-project [--] <project-dir>",
		Short: "Delete a whole project directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if !yes {
				if !mayPrompt(cmd) {
					return errNeedYes
				}
				list, err := a.Sessions.ListSessions(args[0])
				if err != nil {
					return err
				}
				if len(list) == 0 {
					fmt.Fprintf(out, "No sessions found in %s.\n", args[0])
					return nil
				}
				prompt := fmt.Sprintf("Delete project %s with %d sessions?", args[0], len(list))
				if !confirm(cmd.InOrStdin(), out, prompt) {
					fmt.Fprintln(out, "Cancelled.")
					return nil
				}
			}

			n, err := a.DeleteProject(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Deleted %d sessions from %s\n", n, args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation")
	return cmd
}
