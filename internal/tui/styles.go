package tui

import "github.com/charmbracelet/lipgloss"

// Semantic color palette.
var (
	colorPrimary     = lipgloss.Color("#00BFFF") // Cyan: primary accent
	colorAccent      = lipgloss.Color("#FFD700") // Gold: selection
	colorMuted       = lipgloss.Color("#636363") // Gray: de-emphasized
	colorMutedLight  = lipgloss.Color("#8C8C8C") // Lighter gray: normal text
	colorBrightWhite = lipgloss.Color("#FFFFFF") // Pure white: emphatic text
)

// Selection indicator prepended to the active row.
const selectionIndicator = "▎"

var (
	styleTitle = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true).
			MarginBottom(1)

	styleRowSelected = lipgloss.NewStyle().
				Foreground(colorBrightWhite).
				Bold(true)

	styleRowNormal = lipgloss.NewStyle().
			Foreground(colorMutedLight)

	styleIndicator = lipgloss.NewStyle().
			Foreground(colorAccent)

	styleDetail = lipgloss.NewStyle().
			Foreground(colorMuted)
)

// Footer styles.
var (
	styleFooter = lipgloss.NewStyle().
			Foreground(colorMuted).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(colorMuted).
			MarginTop(1)

	styleFooterKey = lipgloss.NewStyle().
			Foreground(colorPrimary).
			Bold(true)

	styleFooterDesc = lipgloss.NewStyle().
			Foreground(colorMutedLight)
)
