package tui

import "github.com/charmbracelet/lipgloss"

// Colours adapt to light and dark terminals.
var (
	accent  = lipgloss.AdaptiveColor{Light: "26", Dark: "12"}
	dateFg  = lipgloss.AdaptiveColor{Light: "28", Dark: "10"}
	mutedFg = lipgloss.AdaptiveColor{Light: "245", Dark: "240"}
	focusFg = lipgloss.AdaptiveColor{Light: "130", Dark: "11"}
	frameFg = lipgloss.AdaptiveColor{Light: "250", Dark: "238"}
	alertFg = lipgloss.AdaptiveColor{Light: "160", Dark: "9"}
)

var (
	styleInput       = lipgloss.NewStyle().Foreground(accent).Bold(true)
	styleInputPrompt = styleInput

	styleListSelected = lipgloss.NewStyle().Foreground(focusFg).Bold(true)
	styleListDate     = lipgloss.NewStyle().Foreground(dateFg)
	styleListDim      = lipgloss.NewStyle().Foreground(mutedFg)

	stylePanelBorder  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(frameFg)
	styleActiveBorder = stylePanelBorder.BorderForeground(accent)

	styleStatusBar   = lipgloss.NewStyle().Foreground(mutedFg).Padding(0, 1)
	styleStatusAlert = styleStatusBar.Foreground(alertFg).Bold(true)
)
