package today

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/oversight/internal/journal"
	"github.com/julianstephens/oversight/internal/models"
)

var (
	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	questionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			MarginTop(1).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(12)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true).
			MarginTop(1)
)

// Model renders one day: the question and the state of its entry. The same
// view serves the Today tab and the archive detail screen.
type Model struct {
	viewport viewport.Model
	day      journal.Today
	hint     string
	width    int
	height   int
}

func New(width, height int) Model {
	return Model{viewport: viewport.New(width, height)}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetDay replaces the day shown. hint is printed under the entry.
func (m *Model) SetDay(day journal.Today, hint string) {
	m.day = day
	m.hint = hint
	m.Render()
}

func (m *Model) Render() {
	var b strings.Builder
	b.WriteString(dateStyle.Render(m.day.Day.Format("Monday, January 2, 2006")))
	b.WriteString("\n")

	question := m.day.Question
	if question == "" {
		question = "No questions configured."
	}
	b.WriteString(questionStyle.Width(max(m.width-4, 20)).Render(question))
	b.WriteString("\n")

	b.WriteString(row("Photo", photoLine(m.day.Entry)))
	b.WriteString(row("Reflection", reflectionLine(m.day.Entry)))
	if m.day.Entry != nil {
		b.WriteString(row("Updated", humanize.Time(m.day.Entry.UpdatedAt)))
	}

	if m.hint != "" {
		b.WriteString(hintStyle.Render(m.hint))
	}
	m.viewport.SetContent(b.String())
}

func row(label, value string) string {
	return fmt.Sprintf("%s %s\n", labelStyle.Render(label+":"), valueStyle.Render(value))
}

func photoLine(e *models.Entry) string {
	if e == nil {
		return "not captured"
	}
	p, ok := e.Photo.Get()
	if !ok {
		return "not captured"
	}
	return fmt.Sprintf("%s, %s (%s)", p.ContentType, humanize.Bytes(uint64(p.Size())), p.Source)
}

func reflectionLine(e *models.Entry) string {
	if e == nil {
		return "none"
	}
	text, ok := e.Reflection.Get()
	switch {
	case !ok:
		return "none"
	case text == "":
		return "(empty)"
	}
	return text
}
