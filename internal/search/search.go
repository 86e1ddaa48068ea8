package search

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/Zuo-Peng/claude-chat/internal/index"
	"github.com/Zuo-Peng/claude-chat/internal/parse"
	"github.com/Zuo-Peng/claude-chat/internal/scan"
)

const (
	DefaultContextChars = 80
	// fallbackChars is the preview length used when the keyword cannot
	// be located in the content.
	fallbackChars = 150
)

type Result struct {
	SessionID  string     `json:"session_id"`
	Project    string     `json:"project"`
	ProjectDir string     `json:"project_dirname"`
	Role       parse.Role `json:"role"`
	Content    string     `json:"content"`
	Preview    string     `json:"match_preview"`
	Timestamp  time.Time  `json:"timestamp,omitzero"`
}

type Options struct {
	Keyword      string
	Limit        int        // 0 = unlimited
	Role         parse.Role // "" = all
	Project      string     // project directory name, "" = all
	ContextChars int        // 0 = DefaultContextChars
}

// Engine scans every session file on each call. Nothing is indexed
// ahead of time; only project display names come from the cache.
type Engine struct {
	cache *index.Cache
}

func New(cache *index.Cache) *Engine {
	return &Engine{cache: cache}
}

// Search returns one result per message whose text contains the
// keyword, ignoring case. Projects are visited by name and sessions
// newest first; messages keep file order.
func (e *Engine) Search(opts Options) ([]Result, error) {
	if opts.Keyword == "" {
		return nil, nil
	}
	if opts.Project != "" && !scan.IsProjectDir(opts.Project) {
		return nil, nil
	}
	if opts.ContextChars <= 0 {
		opts.ContextChars = DefaultContextChars
	}
	needle := lower(opts.Keyword)

	root := e.cache.ProjectsDir()
	dirs := []string{opts.Project}
	if opts.Project == "" {
		var err error
		if dirs, err = scan.ProjectDirs(root); err != nil {
			return nil, fmt.Errorf("list projects: %w", err)
		}
	}
	mapping, err := e.cache.SessionProjects()
	if err != nil {
		return nil, err
	}

	var results []Result
	for _, dir := range dirs {
		files, err := scan.SessionFiles(filepath.Join(root, dir))
		if err != nil {
			slog.Warn("skipping project directory", "dir", dir, "err", err)
			continue
		}
		for _, f := range files {
			sess, err := parse.ParseFile(f.Path)
			if err != nil {
				if !errors.Is(err, fs.ErrNotExist) {
					slog.Warn("skipping session file", "path", f.Path, "err", err)
				}
				continue
			}
			project := mapping[f.Name]
			if project == "" {
				project = dir
			}
			for _, m := range sess.Messages {
				if opts.Role != "" && m.Role != opts.Role {
					continue
				}
				pos := runeIndex(m.Content, needle)
				if pos < 0 {
					continue
				}
				results = append(results, Result{
					SessionID:  f.Name,
					Project:    project,
					ProjectDir: dir,
					Role:       m.Role,
					Content:    m.Content,
					Preview:    preview(m.Content, pos, utf8.RuneCountInString(needle), opts.ContextChars),
					Timestamp:  m.Timestamp,
				})
				if opts.Limit > 0 && len(results) >= opts.Limit {
					return results, nil
				}
			}
		}
	}
	return results, nil
}

// Dedupe keeps the first result of each session.
func Dedupe(results []Result) []Result {
	seen := make(map[string]bool)
	var out []Result
	for _, r := range results {
		if seen[r.SessionID] {
			continue
		}
		seen[r.SessionID] = true
		out = append(out, r)
	}
	return out
}

// Preview extracts contextChars runes on each side of the first
// case-insensitive occurrence of keyword, marking cut ends with "...".
func Preview(text, keyword string, contextChars int) string {
	needle := lower(keyword)
	return preview(text, runeIndex(text, needle), utf8.RuneCountInString(needle), contextChars)
}

func preview(text string, pos, n, contextChars int) string {
	runes := []rune(text)
	if pos < 0 {
		if len(runes) > fallbackChars {
			return string(runes[:fallbackChars])
		}
		return text
	}

	start := max(0, pos-contextChars)
	end := min(len(runes), pos+n+contextChars)
	snippet := string(runes[start:end])
	if start > 0 {
		snippet = "..." + snippet
	}
	if end < len(runes) {
		snippet += "..."
	}
	return snippet
}

// runeIndex returns the rune offset of needle, already lowered, in
// text, or -1. Lowering maps rune to rune, so offsets in the lowered
// text are offsets in text.
func runeIndex(text, needle string) int {
	if needle == "" {
		return -1
	}
	l := lower(text)
	i := strings.Index(l, needle)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(l[:i])
}

func lower(s string) string {
	return strings.Map(unicode.ToLower, s)
}
