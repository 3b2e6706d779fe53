package archive

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/oversight/internal/models"
)

type ShowEntryMsg struct {
	Entry models.Entry
}

type DeleteEntryMsg struct {
	Entry models.Entry
}

type Item struct {
	Entry models.Entry
}

func (i Item) Title() string {
	return i.Entry.Day.Format("Mon Jan 2, 2006")
}

func (i Item) Description() string {
	photo := "no photo"
	if p, ok := i.Entry.Photo.Get(); ok {
		photo = "📷 " + humanize.Bytes(uint64(p.Size()))
	}
	return fmt.Sprintf("%s | %s", photo, i.Entry.Question)
}

func (i Item) FilterValue() string {
	return i.Entry.DayKey() + " " + i.Entry.Question + " " + i.Entry.ReflectionText()
}

type KeyMap struct {
	Show   key.Binding
	Delete key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Show: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "open"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
	}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(entries []models.Entry, width, height int) Model {
	l := list.New(items(entries), list.NewDefaultDelegate(), width, height)
	l.Title = "Archive"
	l.SetShowTitle(false)
	l.SetShowHelp(false) // We handle help globally in the main model

	keys := DefaultKeyMap()
	l.AdditionalShortHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Show, keys.Delete}
	}
	l.AdditionalFullHelpKeys = func() []key.Binding {
		return []key.Binding{keys.Show, keys.Delete}
	}

	return Model{list: l, keys: keys}
}

func items(entries []models.Entry) []list.Item {
	out := make([]list.Item, len(entries))
	for i, e := range entries {
		out[i] = Item{Entry: e}
	}
	return out
}

func (m *Model) SetEntries(entries []models.Entry) {
	m.list.SetItems(items(entries))
}

// Len returns the number of entries shown.
func (m Model) Len() int {
	return len(m.list.Items())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.Show):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return ShowEntryMsg(i) }
			}
		case key.Matches(msg, m.keys.Delete):
			if i, ok := m.list.SelectedItem().(Item); ok {
				return m, func() tea.Msg { return DeleteEntryMsg(i) }
			}
		}
	}

	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 && m.list.FilterState() != list.Filtering {
		return "\n  No entries yet.\n  Answer today's question from the Today tab."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}

// Filtering reports whether the list is capturing filter input.
func (m Model) Filtering() bool {
	return m.list.FilterState() == list.Filtering
}
