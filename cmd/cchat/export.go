package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func exportCmd(g *globals) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export <session-id>",
		Short: "Export a session as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app()
			if err != nil {
				return err
			}
			path, err := a.Export(args[0], dir)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if path == "" {
				fmt.Fprintf(out, "Session %s not found.\n", args[0])
				return nil
			}
			fmt.Fprintf(out, "Exported: %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "output", "o", "", "Output directory (default from config)")
	return cmd
}

func exportProjectCmd(g *globals) *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "export-project [--] <project-dir>",
		Short: "Export every session of a project as Markdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app()
			if err != nil {
				return err
			}
			paths, err := a.ExportProject(args[0], dir)
			out := cmd.OutOrStdout()
			for _, p := range paths {
				fmt.Fprintf(out, "Exported: %s\n", p)
			}
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				fmt.Fprintf(out, "No sessions found in %s.\n", args[0])
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&dir, "output", "o", "", "Output directory (default from config)")
	return cmd
}
