package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/Zuo-Peng/claude-chat/internal/parse"
	"github.com/Zuo-Peng/claude-chat/internal/sessions"
)

const illegalChars = `<>:"/\|?*`

// Markdown renders a session as a heading, a quoted metadata block
// and one section per message separated by horizontal rules.
func Markdown(det *sessions.Detail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", det.Title)
	fmt.Fprintf(&b, "> Project: %s\n", orUnknown(det.Project))
	fmt.Fprintf(&b, "> Model: %s\n", orUnknown(det.Model))
	fmt.Fprintf(&b, "> Messages: %d\n\n---\n", len(det.Messages))

	for _, m := range det.Messages {
		fmt.Fprintf(&b, "\n## %s\n\n%s\n\n---\n", roleLabel(m.Role), m.Content)
	}
	return b.String()
}

// Filename derives the export file name from the session id and title.
func Filename(det *sessions.Detail) string {
	name := sessions.ShortID(det.SessionID) + "_" + det.Title + ".md"
	return strings.Map(func(r rune) rune {
		if strings.ContainsRune(illegalChars, r) || unicode.IsControl(r) {
			return '_'
		}
		return r
	}, name)
}

// Write renders det into dir, creating dir if needed, and returns the
// path of the written file.
func Write(dir string, det *sessions.Detail) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create export dir: %w", err)
	}
	path := filepath.Join(dir, Filename(det))
	if err := os.WriteFile(path, []byte(Markdown(det)), 0o644); err != nil {
		return "", fmt.Errorf("write export: %w", err)
	}
	return path, nil
}

func roleLabel(r parse.Role) string {
	if r == parse.RoleUser {
		return "User"
	}
	return "Assistant"
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
