package render

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/claude-chat/internal/parse"
	"github.com/Zuo-Peng/claude-chat/internal/sessions"
)

type palette struct {
	reset, user, assist, dim, hit, keyword string
}

var (
	ansi = palette{
		reset:   "\033[0m",
		user:    "\033[1;34m", // bold blue
		assist:  "\033[1;32m", // bold green
		dim:     "\033[2m",
		hit:     "\033[43m",   // yellow background
		keyword: "\033[1;31m", // bold red
	}
	plain = palette{}
)

type Options struct {
	HitIndex int    // message to mark, -1 for none
	Context  int    // messages shown around HitIndex; 0 shows all
	Width    int    // wrap width (0 = no wrap)
	Query    string // keyword to highlight
	MaxChars int    // truncate message text to this many runes (0 = full)
	NoColor  bool
}

// highlightKeyword wraps case-insensitive matches of keyword. Matching
// is done on runes so that case folding never shifts offsets.
func highlightKeyword(text, keyword string, p palette) string {
	if keyword == "" || p.keyword == "" {
		return text
	}
	src := []rune(text)
	lowered := []rune(strings.Map(unicode.ToLower, text))
	needle := []rune(strings.Map(unicode.ToLower, keyword))

	var b strings.Builder
	last := 0
	for i := 0; i+len(needle) <= len(lowered); {
		if !runesEqual(lowered[i:i+len(needle)], needle) {
			i++
			continue
		}
		b.WriteString(string(src[last:i]))
		b.WriteString(p.keyword + string(src[i:i+len(needle)]) + p.reset)
		i += len(needle)
		last = i
	}
	b.WriteString(string(src[last:]))
	return b.String()
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// indentLines prepends each line of text with the given prefix.
func indentLines(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

// wrapLine breaks a single line into multiple lines that fit within maxWidth
// visible columns, correctly skipping ANSI escape sequences when measuring width.
func wrapLine(line string, maxWidth int) []string {
	if maxWidth <= 0 {
		return []string{line}
	}

	var result []string
	var cur strings.Builder
	visW := 0

	i := 0
	for i < len(line) {
		// ESC[ ... m
		if i+1 < len(line) && line[i] == '\033' && line[i+1] == '[' {
			j := i + 2
			for j < len(line) && line[j] != 'm' {
				j++
			}
			if j < len(line) {
				j++
			}
			cur.WriteString(line[i:j])
			i = j
			continue
		}

		r, size := utf8.DecodeRuneInString(line[i:])
		rw := runewidth.RuneWidth(r)

		if visW+rw > maxWidth {
			result = append(result, cur.String())
			cur.Reset()
			visW = 0
		}

		cur.WriteRune(r)
		visW += rw
		i += size
	}

	if cur.Len() > 0 {
		result = append(result, cur.String())
	}

	if len(result) == 0 {
		return []string{""}
	}
	return result
}

// Session renders a session for the terminal and returns the text
// and the 0-based line of the hit message header (-1 without a hit).
func Session(det *sessions.Detail, opts Options) (string, int) {
	p := ansi
	if opts.NoColor {
		p = plain
	}
	msgs := det.Messages
	if len(msgs) == 0 {
		return "(empty session)\n", -1
	}

	start, end := 0, len(msgs)
	if opts.Context > 0 && opts.HitIndex >= 0 && opts.HitIndex < len(msgs) {
		start = max(0, opts.HitIndex-opts.Context)
		end = min(len(msgs), opts.HitIndex+opts.Context+1)
	}

	var b strings.Builder
	hitLine := -1
	lineCount := 0
	separator := p.dim + strings.Repeat("-", 50) + p.reset

	writeLine := func(s string) {
		for _, wl := range wrapLine(s, opts.Width) {
			b.WriteString(wl)
			b.WriteString("\n")
			lineCount++
		}
	}

	writeLine(header(det, p))
	if start > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages before) ...%s", p.dim, start, p.reset))
	}

	for i := start; i < end; i++ {
		m := msgs[i]
		if i > start {
			writeLine(separator)
		}

		roleColor, roleLabel := p.assist, "ASST"
		if m.Role == parse.RoleUser {
			roleColor, roleLabel = p.user, "USER"
		}
		ts := ""
		if !m.Timestamp.IsZero() {
			ts = m.Timestamp.Local().Format("2006-01-02 15:04:05")
		}
		if i == opts.HitIndex {
			hitLine = lineCount
			writeLine(fmt.Sprintf("%s>> %s > %s <<%s", p.hit, roleLabel, ts, p.reset))
		} else {
			writeLine(fmt.Sprintf("%s%s >%s %s%s%s", roleColor, roleLabel, p.reset, p.dim, ts, p.reset))
		}

		text := Truncate(m.Content, opts.MaxChars)
		text = highlightKeyword(text, opts.Query, p)
		for _, tl := range strings.Split(indentLines(text, "  "), "\n") {
			writeLine(tl)
		}
		writeLine("")
	}

	if after := len(msgs) - end; after > 0 {
		writeLine(fmt.Sprintf("%s... (%d messages after) ...%s", p.dim, after, p.reset))
	}
	return b.String(), hitLine
}

// header is the one-line summary printed above a rendered session.
func header(det *sessions.Detail, p palette) string {
	model := det.Model
	if model == "" {
		model = "unknown"
	}
	return fmt.Sprintf("%s--- %s [%s] %s (%d messages) ---%s",
		p.dim, det.Title, model, det.Project, len(det.Messages), p.reset)
}

// Truncate shortens text to limit runes and notes the full length.
func Truncate(text string, limit int) string {
	n := utf8.RuneCountInString(text)
	if limit <= 0 || n <= limit {
		return text
	}
	return string([]rune(text)[:limit]) + fmt.Sprintf("\n... (%d chars total)", n)
}

// FirstMatch is the index of the first message containing query,
// ignoring case, or -1.
func FirstMatch(msgs []parse.Message, query string) int {
	if query == "" {
		return -1
	}
	needle := strings.Map(unicode.ToLower, query)
	for i, m := range msgs {
		if strings.Contains(strings.Map(unicode.ToLower, m.Content), needle) {
			return i
		}
	}
	return -1
}
