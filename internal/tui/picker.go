package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Item is one selectable row.
type Item struct {
	Label  string
	Detail string // Optional dimmed suffix.
}

// PickerModel is a single-choice list. Digits jump straight to a row.
type PickerModel struct {
	Title  string
	Items  []Item
	Cursor int
	Keys   KeyMap
	Width  int

	// Chosen is set when the user confirms a row; Canceled when they quit.
	Chosen   bool
	Canceled bool
}

// NewPicker returns a picker with the cursor on def.
func NewPicker(title string, items []Item, def int) PickerModel {
	if def < 0 || def >= len(items) {
		def = 0
	}
	return PickerModel{
		Title:  title,
		Items:  items,
		Cursor: def,
		Keys:   DefaultKeyMap(),
	}
}

// Init implements tea.Model.
func (m PickerModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m PickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m PickerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.Keys.Quit):
		m.Canceled = true
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Enter):
		if len(m.Items) == 0 {
			m.Canceled = true
		} else {
			m.Chosen = true
		}
		return m, tea.Quit
	case key.Matches(msg, m.Keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.Keys.Down):
		if m.Cursor < len(m.Items)-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.Keys.Top):
		m.Cursor = 0
	case key.Matches(msg, m.Keys.Bottom):
		if len(m.Items) > 0 {
			m.Cursor = len(m.Items) - 1
		}
	default:
		if s := msg.String(); len(s) == 1 && s[0] >= '0' && s[0] <= '9' {
			if i := int(s[0] - '0'); i < len(m.Items) {
				m.Cursor = i
			}
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m PickerModel) View() string {
	if m.Chosen || m.Canceled {
		return ""
	}

	var b strings.Builder
	if m.Title != "" {
		b.WriteString(styleTitle.Render(m.Title))
		b.WriteString("\n")
	}

	for i, it := range m.Items {
		label := fmt.Sprintf("[%d] %s", i, it.Label)
		if i == m.Cursor {
			b.WriteString(styleIndicator.Render(selectionIndicator))
			b.WriteString(styleRowSelected.Render(" " + label))
		} else {
			b.WriteString(styleRowNormal.Render("  " + label))
		}
		if it.Detail != "" {
			b.WriteString(styleDetail.Render("  " + it.Detail))
		}
		b.WriteString("\n")
	}

	b.WriteString(m.footer())
	return b.String()
}

func (m PickerModel) footer() string {
	var parts []string
	for _, k := range m.Keys.ShortHelp() {
		h := k.Help()
		parts = append(parts, styleFooterKey.Render(h.Key)+" "+styleFooterDesc.Render(h.Desc))
	}
	style := styleFooter
	if m.Width > 0 {
		style = style.Width(m.Width)
	}
	return style.Render(strings.Join(parts, "  "))
}
