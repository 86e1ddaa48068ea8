package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-chat/internal/index"
	"github.com/Zuo-Peng/claude-chat/internal/scan"
)

func doctorCmd(g *globals) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Self-check: verify roots, count files and time the caches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			out := cmd.OutOrStdout()
			cfg := a.Config

			fmt.Fprintln(out, "=== Roots ===")
			checkDir(out, "Claude", cfg.ClaudeDir)
			checkDir(out, "Projects", cfg.ProjectsDir)
			checkFile(out, "History", cfg.HistoryFile)

			fmt.Fprintln(out, "\n=== File Scan ===")
			dirs, err := scan.ProjectDirs(cfg.ProjectsDir)
			if err != nil {
				fmt.Fprintf(out, "  scan error: %v\n", err)
			} else {
				files := 0
				var size int64
				for _, d := range dirs {
					list, err := scan.SessionFiles(d)
					if err != nil {
						fmt.Fprintf(out, "  %s: %v\n", d, err)
						continue
					}
					files += len(list)
					for _, f := range list {
						size += f.Size
					}
				}
				fmt.Fprintf(out, "  Project dirs:  %d\n", len(dirs))
				fmt.Fprintf(out, "  Session files: %d (%s)\n", files, humanize.Bytes(uint64(size)))
			}

			fmt.Fprintln(out, "\n=== Caches ===")
			timeBuild(out, index.KindProjects, func() (int, error) {
				m, err := a.Cache.SessionProjects()
				return len(m), err
			})
			timeBuild(out, index.KindFirstMessages, func() (int, error) {
				m, err := a.Cache.FirstMessages()
				return len(m), err
			})
			timeBuild(out, index.KindUsage, func() (int, error) {
				es, err := a.Cache.UsageEvents()
				return len(es), err
			})
			timeBuild(out, index.KindActivity, func() (int, error) {
				es, err := a.Cache.ActivityEvents()
				return len(es), err
			})
			return nil
		},
	}
}

func timeBuild(w io.Writer, kind index.Kind, build func() (int, error)) {
	start := time.Now()
	n, err := build()
	if err != nil {
		fmt.Fprintf(w, "  %-16s error: %v\n", kind, err)
		return
	}
	fmt.Fprintf(w, "  %-16s %8d entries  %v\n", kind, n, time.Since(start).Round(time.Millisecond))
}

func checkDir(w io.Writer, name, path string) {
	if info, err := os.Stat(path); err != nil {
		fmt.Fprintf(w, "  %s: %s (NOT FOUND)\n", name, path)
	} else if !info.IsDir() {
		fmt.Fprintf(w, "  %s: %s (NOT A DIRECTORY)\n", name, path)
	} else {
		fmt.Fprintf(w, "  %s: %s (OK)\n", name, path)
	}
}

func checkFile(w io.Writer, name, path string) {
	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(w, "  %s: %s (NOT FOUND)\n", name, path)
		return
	}
	fmt.Fprintf(w, "  %s: %s (OK, %s)\n", name, path, humanize.Bytes(uint64(info.Size())))
}
