// Package ui provides the interactive media picker shown when more
// than one variant is available for a post.
package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"snapgrab/internal/media"
)

// ErrCancelled is returned when the user quits the picker without
// confirming a selection.
var ErrCancelled = errors.New("selection cancelled")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	checkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	uncheckStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	qualityStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("135"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	containerPane = lipgloss.NewStyle().Padding(1, 2)
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Toggle  key.Binding
	Confirm key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space/x", "toggle"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "download"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

type pickerModel struct {
	title     string
	items     []media.Descriptor
	cursor    int
	selected  map[int]bool
	confirmed bool
	keys      keyMap
	width     int
	height    int
}

func newPickerModel(title string, items []media.Descriptor) pickerModel {
	return pickerModel{
		title:    title,
		items:    items,
		selected: make(map[int]bool),
		keys:     defaultKeyMap(),
	}
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}

		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}

		case key.Matches(msg, m.keys.Toggle):
			m.selected[m.cursor] = !m.selected[m.cursor]

		case key.Matches(msg, m.keys.Confirm):
			// Enter with nothing toggled downloads the current row.
			if len(m.selectedIndices()) == 0 {
				m.selected[m.cursor] = true
			}
			m.confirmed = true
			return m, tea.Quit
		}
	}

	return m, nil
}

func (m pickerModel) View() string {
	var b strings.Builder

	title := m.title
	if title == "" {
		title = "Available media"
	}
	b.WriteString(fmt.Sprintf("  %s\n\n", titleStyle.Render(title)))

	for i, item := range m.items {
		cursor := "  "
		if i == m.cursor {
			cursor = cursorStyle.Render("> ")
		}

		checkbox := uncheckStyle.Render("[ ]")
		if m.selected[i] {
			checkbox = checkStyle.Render("[x]")
		}

		label := itemLabel(item)
		if i == m.cursor {
			label = cursorStyle.Render(label)
		}

		b.WriteString(fmt.Sprintf("%s%s %s\n", cursor, checkbox, label))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  ↑/↓ move · space toggle · enter download · q quit"))
	b.WriteString("\n")

	content := containerPane.Render(b.String())
	if m.width > 0 && m.height > 0 {
		content = lipgloss.Place(m.width, m.height, lipgloss.Left, lipgloss.Top, content)
	}
	return content
}

func itemLabel(d media.Descriptor) string {
	var parts []string
	if d.Resolution != "" {
		parts = append(parts, qualityStyle.Render(fmt.Sprintf("[%s]", d.Resolution)))
	}
	parts = append(parts, string(d.Type))
	if d.ShouldRender {
		parts = append(parts, dimStyle.Render("(render)"))
	}
	return strings.Join(parts, " ")
}

func (m pickerModel) selectedIndices() []int {
	var out []int
	for i := range m.items {
		if m.selected[i] {
			out = append(out, i)
		}
	}
	return out
}

// PickMedia shows an interactive picker over the extracted variants and
// returns the ones the user chose. A single variant is returned without
// prompting.
func PickMedia(title string, items []media.Descriptor) ([]media.Descriptor, error) {
	if len(items) == 0 {
		return nil, errors.New("nothing to pick from")
	}
	if len(items) == 1 {
		return items, nil
	}

	p := tea.NewProgram(newPickerModel(title, items))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("running picker: %w", err)
	}

	m := final.(pickerModel)
	if !m.confirmed {
		return nil, ErrCancelled
	}

	var chosen []media.Descriptor
	for _, i := range m.selectedIndices() {
		chosen = append(chosen, m.items[i])
	}
	return chosen, nil
}
