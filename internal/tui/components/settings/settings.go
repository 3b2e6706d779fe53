package settings

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/oversight/internal/camera"
	"github.com/julianstephens/oversight/internal/models"
)

type EditSettingsMsg struct{}

type Model struct {
	settings   models.Settings
	permission camera.Permission
	configFile string
	width      int
	height     int
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Width(25)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Bold(true)

	sectionStyle = lipgloss.NewStyle().
			MarginTop(1).
			MarginBottom(1)
)

func New(settings models.Settings, permission camera.Permission, configFile string, width, height int) Model {
	return Model{
		settings:   settings,
		permission: permission,
		configFile: configFile,
		width:      width,
		height:     height,
	}
}

func (m *Model) SetSettings(settings models.Settings, permission camera.Permission) {
	m.settings = settings
	m.permission = permission
}

func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "e":
			return m, func() tea.Msg { return EditSettingsMsg{} }
		}
	}
	return m, nil
}

func (m Model) View() string {
	if m.width == 0 {
		return ""
	}

	line := func(label, value string) string {
		return fmt.Sprintf("%s %s", labelStyle.Render(label), valueStyle.Render(value))
	}

	var sections []string

	generalTitle := titleStyle.Render("General Settings")
	generalContent := lipgloss.JoinVertical(
		lipgloss.Left,
		line("Timezone:", m.settings.Timezone),
		line("Camera Access:", m.permission.String()),
	)
	sections = append(sections, sectionStyle.Render(generalTitle+"\n"+generalContent))

	reminderTitle := titleStyle.Render("Reminder Settings")
	reminderContent := lipgloss.JoinVertical(
		lipgloss.Left,
		line("Reminders Enabled:", fmt.Sprintf("%v", m.settings.RemindersEnabled)),
		line("Remind After:", m.settings.ReminderAfter),
	)
	sections = append(sections, sectionStyle.Render(reminderTitle+"\n"+reminderContent))

	if m.configFile != "" {
		sections = append(sections, sectionStyle.Render(line("Config File:", m.configFile)))
	}

	sections = append(sections, lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Render("Press 'e' to edit settings"))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
