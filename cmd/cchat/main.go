package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-chat/internal/app"
	"github.com/Zuo-Peng/claude-chat/internal/config"
)

var version = "dev"

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	claudeDir string
	debug     bool
	json      bool
}

func (g *globals) app() (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if g.claudeDir != "" {
		cfg = cfg.WithClaudeDir(g.claudeDir)
	}
	slog.Debug("config loaded", "projects", cfg.ProjectsDir, "history", cfg.HistoryFile)
	return app.New(cfg), nil
}

func newRootCmd() *cobra.Command {
	g := &globals{}
	rootCmd := &cobra.Command{
		Use:           "cchat",
		Short:         "Browse, search and analyse local Claude Code and Codex session logs",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if g.debug {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&g.claudeDir, "claude-dir", "", "Root of the Claude data directory (default ~/.claude)")
	pf.BoolVar(&g.debug, "debug", false, "Enable debug logging")
	pf.BoolVar(&g.json, "json", false, "Print JSON instead of tables")

	rootCmd.AddCommand(projectsCmd(g))
	rootCmd.AddCommand(lsCmd(g))
	rootCmd.AddCommand(showCmd(g))
	rootCmd.AddCommand(searchCmd(g))
	rootCmd.AddCommand(exportCmd(g))
	rootCmd.AddCommand(exportProjectCmd(g))
	rootCmd.AddCommand(rmCmd(g))
	rootCmd.AddCommand(rmProjectCmd(g))
	rootCmd.AddCommand(statsCmd(g))
	rootCmd.AddCommand(browseCmd(g))
	rootCmd.AddCommand(openCmd(g))
	rootCmd.AddCommand(doctorCmd(g))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
