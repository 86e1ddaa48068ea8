package tui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Zuo-Peng/claude-chat/internal/app"
	"github.com/Zuo-Peng/claude-chat/internal/render"
	"github.com/Zuo-Peng/claude-chat/internal/sessions"
)

// previewRenderedMsg is sent when an async preview render completes.
type previewRenderedMsg struct {
	sessionID string
	query     string
	detail    *sessions.Detail
	content   string
	hitLine   int
	err       error
}

// loadPreviewCmd loads and renders a session in the background.
func loadPreviewCmd(a *app.App, loc sessions.Location, query string, width int) tea.Cmd {
	return func() tea.Msg {
		msg := previewRenderedMsg{sessionID: loc.SessionID, query: query, hitLine: -1}
		det, err := a.Sessions.Load(&loc)
		if err != nil {
			msg.err = err
			return msg
		}
		if det == nil {
			msg.content = "(session no longer exists)"
			return msg
		}
		msg.detail = det
		msg.content, msg.hitLine = render.Session(det, render.Options{
			HitIndex: render.FirstMatch(det.Messages, query),
			Width:    width,
			Query:    query,
		})
		return msg
	}
}

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.Style = stylePanelBorder
	return vp
}
