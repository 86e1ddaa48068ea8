package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-chat/internal/sessions"
)

func projectsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "projects",
		Short: "List all projects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app()
			if err != nil {
				return err
			}
			projects, err := a.Sessions.ListProjects()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if g.json {
				return writeJSON(out, projects)
			}
			if len(projects) == 0 {
				fmt.Fprintln(out, "No projects found.")
				return nil
			}
			fmt.Fprintf(out, "%s %s %s\n", cell("PROJECT", 40), cell("DIRECTORY", 30), "SESSIONS")
			for _, p := range projects {
				fmt.Fprintf(out, "%s %s %8s\n",
					cell(p.DisplayName, 40), cell(p.DirName, 30), humanize.Comma(int64(p.SessionCount)))
			}
			return nil
		},
	}
}

func lsCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:     "ls [--] [project-dir]",
		Short:   "List sessions, newest first within each project",
		Example: "  cchat ls\n  cchat ls -- -Users-me-work-app",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app()
			if err != nil {
				return err
			}
			project := ""
			if len(args) == 1 {
				project = args[0]
			}
			list, err := a.Sessions.ListSessions(project)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if g.json {
				return writeJSON(out, list)
			}
			if len(list) == 0 {
				fmt.Fprintln(out, "No sessions found.")
				return nil
			}
			fmt.Fprintf(out, "%s %s %s %s %s\n",
				cell("ID", 8), cell("PROJECT", 25), cell("TITLE", 35), cell("SIZE", 8), "MODIFIED")
			for _, s := range list {
				fmt.Fprintf(out, "%s %s %s %s %s\n",
					cell(sessions.ShortID(s.SessionID), 8),
					cell(tail(s.Project, 25), 25),
					cell(s.Title, 35),
					cell(humanize.Bytes(uint64(s.Size)), 8),
					humanize.Time(s.Modified),
				)
			}
			return nil
		},
	}
}
