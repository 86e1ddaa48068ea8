package main

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/Zuo-Peng/claude-chat/internal/parse"
	"github.com/Zuo-Peng/claude-chat/internal/search"
	"github.com/Zuo-Peng/claude-chat/internal/sessions"
)

const (
	sColorReset   = "\033[0m"
	sColorBoldRed = "\033[1;31m"
	sColorBlue    = "\033[1;34m"
	sColorGreen   = "\033[1;32m"
)

func searchCmd(g *globals) *cobra.Command {
	var role, project string
	var limit int
	var dedupe bool

	cmd := &cobra.Command{
		Use:   "search <keyword>",
		Short: "Case-insensitive search across every message of every session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := g.app()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("limit") {
				limit = a.Config.SearchLimit
			}
			switch parse.Role(role) {
			case "", parse.RoleUser, parse.RoleAssistant:
			default:
				return fmt.Errorf("invalid --role %q (want user or assistant)", role)
			}

			results, err := a.Search.Search(search.Options{
				Keyword:      args[0],
				Role:         parse.Role(role),
				Project:      project,
				ContextChars: a.Config.ContextChars,
			})
			if err != nil {
				return err
			}
			if dedupe {
				results = search.Dedupe(results)
			}
			total := len(results)
			if limit > 0 && len(results) > limit {
				results = results[:limit]
			}

			out := cmd.OutOrStdout()
			if g.json {
				return writeJSON(out, results)
			}
			if total == 0 {
				fmt.Fprintln(out, "No matches found.")
				return nil
			}

			color := stdoutTTY(out)
			fmt.Fprintf(out, "Found %d matches (showing %d):\n\n", total, len(results))
			for _, r := range results {
				fmt.Fprintf(out, "[%s] %s (%s):\n", r.Project, sessions.ShortID(r.SessionID), roleLabel(r.Role, color))
				preview := strings.ReplaceAll(r.Preview, "\n", " ")
				if color {
					preview = colorizeMatch(preview, args[0])
				}
				fmt.Fprintf(out, "  %s\n\n", preview)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Max results (0 = no limit)")
	cmd.Flags().StringVar(&role, "role", "", "Filter by role (user/assistant)")
	cmd.Flags().StringVar(&project, "project", "", "Restrict to one project directory")
	cmd.Flags().BoolVar(&dedupe, "dedupe", false, "Show only the first match of each session")
	return cmd
}

func roleLabel(r parse.Role, color bool) string {
	label, c := "Claude", sColorGreen
	if r == parse.RoleUser {
		label, c = "User", sColorBlue
	}
	if !color {
		return label
	}
	return c + label + sColorReset
}

// colorizeMatch marks the first case-insensitive occurrence of keyword.
func colorizeMatch(s, keyword string) string {
	lowered := strings.Map(unicode.ToLower, s)
	i := strings.Index(lowered, strings.Map(unicode.ToLower, keyword))
	if i < 0 {
		return s
	}
	rs := []rune(s)
	start := utf8.RuneCountInString(lowered[:i])
	end := start + utf8.RuneCountInString(keyword)
	return string(rs[:start]) + sColorBoldRed + string(rs[start:end]) + sColorReset + string(rs[end:])
}
