package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/Zuo-Peng/claude-chat/internal/app"
	"github.com/Zuo-Peng/claude-chat/internal/search"
	"github.com/Zuo-Peng/claude-chat/internal/sessions"
	"github.com/Zuo-Peng/claude-chat/internal/watch"
)

const (
	debounceDelay = 200 * time.Millisecond
	watchDebounce = 500 * time.Millisecond
)

type Options struct {
	Query   string // initial filter
	Project string // restrict to one project directory
	Watch   bool   // reload when files change on disk
}

// message types

type itemsMsg struct {
	query string
	items []item
	err   error
}

type debounceTickMsg struct {
	query string
}

type deletedMsg struct {
	sessionID string
	ok        bool
	err       error
}

// changedMsg is sent by the file watcher after the cache was dropped.
type changedMsg struct{}

type model struct {
	app         *app.App
	opts        Options
	query       string
	items       []item
	cursor      int
	listOffset  int
	filterInput textinput.Model
	preview     viewport.Model
	previewKey  string // "sessionID\x00query" of the rendered preview
	current     *sessions.Detail
	pendingDel  string // session id awaiting a second delete press
	status      string
	width       int
	height      int
	ready       bool
	quitting    bool
	chosen      *sessions.Detail
}

func initialModel(a *app.App, opts Options) model {
	ti := textinput.New()
	ti.Placeholder = "Filter..."
	ti.Focus()
	ti.SetValue(opts.Query)
	ti.Prompt = "> "
	ti.PromptStyle = styleInputPrompt
	ti.TextStyle = styleInput
	ti.CharLimit = 256

	return model{
		app:         a,
		opts:        opts,
		query:       opts.Query,
		filterInput: ti,
		preview:     viewport.New(0, 0),
	}
}

// Run starts the browser and blocks until it exits. When the user
// picks a session its resume command is copied to the clipboard.
func Run(a *app.App, opts Options) error {
	p := tea.NewProgram(initialModel(a, opts), tea.WithAltScreen(), tea.WithMouseCellMotion())

	if opts.Watch {
		w, err := startWatcher(a, p)
		if err != nil {
			return err
		}
		defer w.Stop()
	}

	finalModel, err := p.Run()
	if err != nil {
		return fmt.Errorf("tui: %w", err)
	}

	fm := finalModel.(model)
	if fm.chosen != nil {
		copyResumeCommand(fm.chosen)
	}
	return nil
}

func startWatcher(a *app.App, p *tea.Program) (*watch.Watcher, error) {
	w, err := watch.New(watchDebounce, func(paths []string) {
		a.Refresh()
		p.Send(changedMsg{})
	})
	if err != nil {
		return nil, err
	}
	if _, _, err := w.WatchRecursive(a.Config.ProjectsDir); err != nil {
		slog.Warn("watch projects", "dir", a.Config.ProjectsDir, "err", err)
	}
	if err := w.Watch(a.Config.HistoryFile); err != nil {
		slog.Debug("watch history", "file", a.Config.HistoryFile, "err", err)
	}
	w.Start()
	return w, nil
}

// ResumeCommand is the shell command that reopens a session in the
// agent that wrote it, run from the session's working directory.
func ResumeCommand(det *sessions.Detail) string {
	var resume string
	if strings.HasPrefix(det.SessionID, "rollout-") {
		resume = "codex resume " + extractUUID(det.SessionID)
	} else {
		resume = "claude --resume " + det.SessionID
	}
	if det.Cwd != "" {
		return fmt.Sprintf("cd %s && %s", det.Cwd, resume)
	}
	return resume
}

func copyResumeCommand(det *sessions.Detail) {
	cmd := ResumeCommand(det)
	if err := clipboard.WriteAll(cmd); err != nil {
		fmt.Println(cmd)
		return
	}
	fmt.Printf("Copied to clipboard: %s\n", cmd)
}

// extractUUID returns the UUID that ends a Codex rollout name, or s
// unchanged when it does not end in one.
func extractUUID(s string) string {
	if len(s) < 36 {
		return s
	}
	if id, err := uuid.Parse(s[len(s)-36:]); err == nil {
		return id.String()
	}
	return s
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.doLoad(m.query))
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.preview = newViewport(m.previewWidth(), m.panelHeight())
		m.previewKey = ""
		cmds = append(cmds, m.loadCurrentPreview())
		return m, tea.Batch(cmds...)

	case tea.KeyMsg:
		if m.pendingDel != "" && !key.Matches(msg, keys.Delete) {
			m.pendingDel = ""
			m.status = ""
		}
		switch {
		case key.Matches(msg, keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.Enter):
			if m.current != nil && m.selected() != nil && m.current.SessionID == m.selected().loc.SessionID {
				m.chosen = m.current
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, keys.Refresh):
			m.app.Refresh()
			m.previewKey = ""
			m.status = "refreshed"
			return m, m.doLoad(m.query)

		case key.Matches(msg, keys.Delete):
			it := m.selected()
			if it == nil {
				return m, nil
			}
			if m.pendingDel != it.loc.SessionID {
				m.pendingDel = it.loc.SessionID
				m.status = fmt.Sprintf("press C-x again to delete %s", sessions.ShortID(it.loc.SessionID))
				return m, nil
			}
			m.pendingDel = ""
			return m, m.doDelete(it.loc.SessionID)

		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, keys.PreviewUp):
			m.preview.LineUp(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PreviewDn):
			m.preview.LineDown(m.panelHeight() / 2)
			return m, nil

		case key.Matches(msg, keys.PageUp):
			m.preview.LineUp(m.panelHeight())
			return m, nil

		case key.Matches(msg, keys.PageDown):
			m.preview.LineDown(m.panelHeight())
			return m, nil
		}

		var tiCmd tea.Cmd
		m.filterInput, tiCmd = m.filterInput.Update(msg)
		cmds = append(cmds, tiCmd)

		if q := m.filterInput.Value(); q != m.query {
			m.query = q
			cmds = append(cmds, scheduleDebouncedLoad(q))
		}
		return m, tea.Batch(cmds...)

	case tea.MouseMsg:
		if !m.ready || len(m.items) == 0 {
			return m, nil
		}
		region, itemIdx := m.hitTest(msg.X, msg.Y)

		switch {
		case region == regionList && msg.Button == tea.MouseButtonWheelUp:
			if m.listOffset > 0 {
				m.listOffset--
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonWheelDown:
			maxOffset := max(0, len(m.items)-m.panelHeight()/linesPerItem)
			if m.listOffset < maxOffset {
				m.listOffset++
			}
			return m, nil

		case region == regionList && msg.Button == tea.MouseButtonLeft && msg.Action == tea.MouseActionPress:
			if itemIdx >= 0 && itemIdx < len(m.items) && m.cursor != itemIdx {
				m.cursor = itemIdx
				m.adjustListScroll(m.panelHeight())
				cmds = append(cmds, m.loadCurrentPreview())
			}
			return m, tea.Batch(cmds...)

		case region == regionPreview && (msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown):
			var vpCmd tea.Cmd
			m.preview, vpCmd = m.preview.Update(msg)
			return m, vpCmd
		}
		return m, nil

	case debounceTickMsg:
		// Only load if the query hasn't changed since the tick was scheduled.
		if msg.query == m.query {
			return m, m.doLoad(msg.query)
		}
		return m, nil

	case changedMsg:
		m.previewKey = ""
		return m, m.doLoad(m.query)

	case deletedMsg:
		switch {
		case msg.err != nil:
			m.status = "delete failed: " + msg.err.Error()
		case !msg.ok:
			m.status = "session already gone"
		default:
			m.status = "deleted " + sessions.ShortID(msg.sessionID)
		}
		m.previewKey = ""
		return m, m.doLoad(m.query)

	case itemsMsg:
		if msg.query != m.query {
			return m, nil
		}
		if msg.err != nil {
			m.items = nil
			m.cursor = 0
			m.listOffset = 0
			m.current = nil
			m.preview.SetContent("Error: " + msg.err.Error())
			m.previewKey = ""
			return m, nil
		}
		m.items = msg.items
		m.cursor = min(m.cursor, max(0, len(m.items)-1))
		m.adjustListScroll(m.panelHeight())
		if len(m.items) == 0 {
			m.current = nil
			m.preview.SetContent("")
			m.previewKey = ""
			return m, nil
		}
		return m, m.loadCurrentPreview()

	case previewRenderedMsg:
		k := previewCacheKey(msg.sessionID, msg.query)
		it := m.selected()
		if it == nil || k != previewCacheKey(it.loc.SessionID, m.query) {
			return m, nil // stale preview
		}
		if msg.err != nil {
			m.preview.SetContent("Preview error: " + msg.err.Error())
		} else {
			m.preview.SetContent(msg.content)
			if msg.hitLine > 0 {
				m.preview.SetYOffset(msg.hitLine)
			} else {
				m.preview.GotoTop()
			}
		}
		m.current = msg.detail
		m.previewKey = k
		return m, nil
	}

	return m, tea.Batch(cmds...)
}

func (m model) View() string {
	if m.quitting || !m.ready {
		return ""
	}

	listW := m.listWidth()
	previewW := m.previewWidth()
	panelH := m.panelHeight()

	listPanel := stylePanelBorder.
		Width(listW).
		Height(panelH).
		Render(m.renderList(listW, panelH))

	m.preview.Width = previewW
	m.preview.Height = panelH
	previewPanel := styleActiveBorder.
		Width(previewW).
		Height(panelH).
		Render(m.preview.View())

	panels := lipgloss.JoinHorizontal(lipgloss.Top, listPanel, previewPanel)
	return lipgloss.JoinVertical(lipgloss.Left, m.filterInput.View(), panels, m.statusBar())
}

// helper methods

func (m model) selected() *item {
	if m.cursor < 0 || m.cursor >= len(m.items) {
		return nil
	}
	return &m.items[m.cursor]
}

func (m model) listWidth() int {
	if m.width <= 0 {
		return 40
	}
	// 40% for list, minus border padding
	return max(20, m.width*40/100-4)
}

func (m model) previewWidth() int {
	if m.width <= 0 {
		return 60
	}
	// 60% for preview, minus border padding
	return max(20, m.width*60/100-4)
}

func (m model) panelHeight() int {
	if m.height <= 0 {
		return 20
	}
	// Subtract input row (1) + status bar (1) + borders (4)
	return max(5, m.height-6)
}

type mouseRegion int

const (
	regionNone mouseRegion = iota
	regionList
	regionPreview
)

// hitTest maps terminal coordinates to a panel region and list item index.
func (m model) hitTest(x, y int) (mouseRegion, int) {
	contentYStart := 2 // input row (1) + top border (1)
	contentYEnd := contentYStart + m.panelHeight() - 1
	if y < contentYStart || y > contentYEnd {
		return regionNone, -1
	}
	relY := y - contentYStart

	lw := m.listWidth()
	listBoxRight := lw + 1 // col 0=border, 1..lw=content, lw+1=border

	if x >= 1 && x <= lw {
		return regionList, m.listOffset + relY/linesPerItem
	}
	if x > listBoxRight+1 {
		return regionPreview, -1
	}
	return regionNone, -1
}

func (m model) statusBar() string {
	if m.pendingDel != "" {
		return styleStatusAlert.Render(m.status)
	}
	parts := []string{fmt.Sprintf("%d sessions", len(m.items))}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	parts = append(parts, keys.hints()...)
	return styleStatusBar.Render(strings.Join(parts, " | "))
}

// doLoad lists sessions for an empty filter and searches message
// content otherwise.
func (m model) doLoad(query string) tea.Cmd {
	a := m.app
	opts := m.opts
	return func() tea.Msg {
		if query == "" {
			list, err := a.Sessions.ListSessions(opts.Project)
			return itemsMsg{query: query, items: listItems(list), err: err}
		}
		results, err := a.Search.Search(search.Options{
			Keyword:      query,
			Project:      opts.Project,
			ContextChars: a.Config.ContextChars,
		})
		if err != nil {
			return itemsMsg{query: query, err: err}
		}
		items, err := searchItems(a, results)
		return itemsMsg{query: query, items: items, err: err}
	}
}

func (m model) doDelete(id string) tea.Cmd {
	a := m.app
	return func() tea.Msg {
		ok, err := a.Delete(id)
		return deletedMsg{sessionID: id, ok: ok, err: err}
	}
}

func scheduleDebouncedLoad(query string) tea.Cmd {
	return tea.Tick(debounceDelay, func(time.Time) tea.Msg {
		return debounceTickMsg{query: query}
	})
}

func (m model) loadCurrentPreview() tea.Cmd {
	it := m.selected()
	if it == nil {
		return nil
	}
	if previewCacheKey(it.loc.SessionID, m.query) == m.previewKey {
		return nil
	}
	return loadPreviewCmd(m.app, it.loc, m.query, m.previewWidth())
}

func previewCacheKey(sessionID, query string) string {
	return sessionID + "\x00" + query
}
