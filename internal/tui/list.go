package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/Zuo-Peng/claude-chat/internal/app"
	"github.com/Zuo-Peng/claude-chat/internal/parse"
	"github.com/Zuo-Peng/claude-chat/internal/scan"
	"github.com/Zuo-Peng/claude-chat/internal/search"
	"github.com/Zuo-Peng/claude-chat/internal/sessions"
)

// linesPerItem is the number of terminal lines each entry occupies.
const linesPerItem = 2

// item is one row of the left panel: a session from the listing or
// the first hit of a session from a search.
type item struct {
	loc      sessions.Location
	project  string
	title    string
	modified time.Time
	snippet  string
}

func listItems(metas []parse.SessionMeta) []item {
	items := make([]item, len(metas))
	for i, s := range metas {
		items[i] = item{
			loc:      sessions.Location{ProjectDir: s.ProjectDir, SessionID: s.SessionID, Path: s.FilePath},
			project:  s.Project,
			title:    s.Title,
			modified: s.Modified,
		}
	}
	return items
}

func searchItems(a *app.App, results []search.Result) ([]item, error) {
	firsts, err := a.Cache.FirstMessages()
	if err != nil {
		return nil, err
	}
	results = search.Dedupe(results)
	items := make([]item, len(results))
	for i, r := range results {
		items[i] = item{
			loc: sessions.Location{
				ProjectDir: r.ProjectDir,
				SessionID:  r.SessionID,
				Path:       filepath.Join(a.Sessions.Root(), r.ProjectDir, r.SessionID+scan.Ext),
			},
			project:  r.Project,
			title:    sessions.Title(firsts[r.SessionID], r.SessionID),
			modified: r.Timestamp,
			snippet:  r.Preview,
		}
	}
	return items, nil
}

// renderList renders the left panel with scrolling.
func (m model) renderList(width, height int) string {
	if len(m.items) == 0 {
		return styleListDim.
			Width(width).
			Height(height).
			Align(lipgloss.Center, lipgloss.Center).
			Render("No sessions")
	}

	var lines []string
	for i, it := range m.items {
		if i < m.listOffset {
			continue
		}
		if len(lines)+linesPerItem > height {
			break
		}
		lines = append(lines, formatItem(it, width, i == m.cursor)...)
	}

	for len(lines) < height {
		lines = append(lines, strings.Repeat(" ", width))
	}
	return strings.Join(lines, "\n")
}

// formatItem formats one entry as two lines:
//
//	line 1: [>] MM-DD  title
//	line 2:    snippet or project (dimmed)
func formatItem(it item, width int, selected bool) []string {
	date := "     "
	if !it.modified.IsZero() {
		date = it.modified.Local().Format("01-02")
	}

	title := oneLine(it.title)
	titleMax := max(0, width-2-len(date)-1)
	if runewidth.StringWidth(title) > titleMax {
		title = runewidth.Truncate(title, titleMax, "")
	}

	line1 := fmt.Sprintf("%s %s", styleListDate.Render(date), title)
	if selected {
		line1 = styleListSelected.Render("> ") + line1
	} else {
		line1 = "  " + line1
	}

	second := it.snippet
	if second == "" {
		second = it.project
	}
	second = oneLine(second)
	secondMax := max(0, width-4)
	if runewidth.StringWidth(second) > secondMax {
		second = runewidth.Truncate(second, secondMax, "")
	}
	line2 := "    " + styleListDim.Render(second)

	return []string{line1, line2}
}

func oneLine(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\t", " ")
}

// adjustListScroll keeps the cursor visible within the list viewport.
func (m *model) adjustListScroll(listHeight int) {
	visibleItems := max(1, listHeight/linesPerItem)
	if m.cursor < m.listOffset {
		m.listOffset = m.cursor
	}
	if m.cursor >= m.listOffset+visibleItems {
		m.listOffset = m.cursor - visibleItems + 1
	}
}
