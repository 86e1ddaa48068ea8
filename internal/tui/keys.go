package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up        key.Binding
	Down      key.Binding
	Enter     key.Binding
	Quit      key.Binding
	PreviewUp key.Binding
	PreviewDn key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Refresh   key.Binding
	Delete    key.Binding
}

func bind(help, desc string, ks ...string) key.Binding {
	return key.NewBinding(key.WithKeys(ks...), key.WithHelp(help, desc))
}

var keys = keyMap{
	Up:        bind("up", "navigate", "up", "ctrl+k"),
	Down:      bind("dn", "navigate", "down", "ctrl+j"),
	Enter:     bind("Enter", "copy resume cmd", "enter"),
	Quit:      bind("Esc", "quit", "esc", "ctrl+c"),
	PreviewUp: bind("C-u", "preview", "ctrl+u"),
	PreviewDn: bind("C-d", "preview", "ctrl+d"),
	PageUp:    bind("pgup", "page", "pgup"),
	PageDown:  bind("pgdn", "page", "pgdown"),
	Refresh:   bind("C-r", "refresh", "ctrl+r"),
	Delete:    bind("C-x", "delete", "ctrl+x"),
}

// hints renders the status-bar key legend. Bindings sharing a
// description are folded into one entry ("up/dn navigate").
func (k keyMap) hints() []string {
	groups := [][]key.Binding{
		{k.Up, k.Down},
		{k.PreviewUp, k.PreviewDn},
		{k.Enter},
		{k.Refresh},
		{k.Delete},
		{k.Quit},
	}
	out := make([]string, 0, len(groups))
	for _, g := range groups {
		var ks string
		for i, b := range g {
			if i > 0 {
				ks += "/"
			}
			ks += b.Help().Key
		}
		out = append(out, ks+" "+g[0].Help().Desc)
	}
	return out
}
