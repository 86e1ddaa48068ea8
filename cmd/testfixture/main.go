// Command testfixture writes a synthetic Claude data directory
// (projects tree plus history log) for trying cchat by hand.
package main

import (
	"fmt"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-chat/internal/testjsonl"
)

var (
	projects = []string{"/work/api", "/work/web", "/work/infra"}
	models   = []string{"claude-opus-4", "claude-sonnet-4", "claude-haiku-4"}
	prompts  = []string{
		"fix the flaky integration test",
		"add pagination to the list endpoint",
		"why does the deploy script hang",
		"refactor the config loader",
		"write release notes for 1.4",
		"explain this stack trace",
	}
)

type options struct {
	out      string
	sessions int
	turns    int
	codex    int
	seed     uint64
}

func main() {
	var o options
	cmd := &cobra.Command{
		Use:          "testfixture",
		Short:        "Write a synthetic Claude data directory",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := generate(o); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %d sessions to %s\n", o.sessions+o.codex, o.out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&o.out, "out", "o", "testdata/claude", "Output directory")
	f.IntVar(&o.sessions, "sessions", 12, "Claude sessions to write")
	f.IntVar(&o.codex, "codex", 3, "Codex sessions to write")
	f.IntVar(&o.turns, "turns", 4, "User/assistant turns per session")
	f.Uint64Var(&o.seed, "seed", 1, "Random seed")

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func generate(o options) error {
	rng := rand.New(rand.NewPCG(o.seed, o.seed))
	base := time.Date(2025, 1, 6, 9, 0, 0, 0, time.Local)
	var history []string

	for i := range o.sessions + o.codex {
		codex := i >= o.sessions
		id := uuid.NewSHA1(uuid.NameSpaceOID, fmt.Appendf(nil, "%d/%d", o.seed, i)).String()
		project := projects[rng.IntN(len(projects))]
		model := models[rng.IntN(len(models))]
		start := base.Add(time.Duration(rng.IntN(30*24)) * time.Hour)
		prompt := prompts[rng.IntN(len(prompts))]

		var lines []string
		if codex {
			id = "rollout-" + start.Format("2006-01-02T15-04-05") + "-" + id
			lines = append(lines,
				testjsonl.CodexSessionMetaJSON(id, project, iso(start)),
				testjsonl.CodexTurnContextJSON("gpt-5-codex", iso(start)),
			)
		}
		at := start
		for turn := range o.turns {
			text := prompt
			if turn > 0 {
				text = fmt.Sprintf("follow-up %d on %s", turn, prompt)
			}
			reply := fmt.Sprintf("Done: %s. %s", text, strings.Repeat("Details follow. ", 1+rng.IntN(8)))
			if codex {
				lines = append(lines,
					testjsonl.CodexEventJSON("user_message", text, iso(at)),
					testjsonl.CodexEventJSON("agent_message", reply, iso(at.Add(20*time.Second))),
					testjsonl.CodexTokenCountJSON(int64(500+rng.IntN(5000)), 0, int64(50+rng.IntN(800)), iso(at.Add(21*time.Second))),
				)
				history = append(history, testjsonl.CodexHistoryJSON(id, text, iso(at)))
			} else {
				lines = append(lines,
					testjsonl.ClaudeUserJSON(uuid.NewString(), text, iso(at)),
					testjsonl.ClaudeAssistantUsageJSON(uuid.NewString(), fmt.Sprintf("msg_%d_%d", i, turn),
						[]any{testjsonl.TextBlock(reply)}, model, iso(at.Add(20*time.Second)),
						int64(500+rng.IntN(5000)), int64(50+rng.IntN(800))),
				)
				history = append(history, testjsonl.HistoryJSON(id, project, text, at))
			}
			at = at.Add(time.Duration(1+rng.IntN(10)) * time.Minute)
		}

		dir := filepath.Join(o.out, "projects", strings.ReplaceAll(project, "/", "-"))
		if err := writeJSONL(filepath.Join(dir, id+".jsonl"), lines); err != nil {
			return err
		}
		if err := os.Chtimes(filepath.Join(dir, id+".jsonl"), at, at); err != nil {
			return err
		}
	}
	return writeJSONL(filepath.Join(o.out, "history.jsonl"), history)
}

func writeJSONL(path string, lines []string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(testjsonl.JoinJSONL(lines...)), 0o644)
}

func iso(t time.Time) string { return t.UTC().Format(time.RFC3339) }
