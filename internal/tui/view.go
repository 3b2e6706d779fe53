package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string

	switch m.state {
	case constants.StateToday:
		content = docStyle.Render(m.todayModel.View())
	case constants.StateArchive:
		content = docStyle.Render(m.archiveModel.View())
	case constants.StateEntryDetail:
		content = docStyle.Render(m.detailModel.View())
	case constants.StateSettings:
		content = docStyle.Render(m.settingsModel.View())
	case constants.StatePermission, constants.StateConfirm, constants.StateReflect, constants.StateEditSettings:
		if m.form != nil {
			content = docStyle.Render(m.form.View())
		}
	case constants.StateConfirmDelete:
		content = m.viewConfirmDelete()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		content,
		m.viewStatus(),
		m.help.View(m.keys),
	)
}

func (m Model) viewTabs() string {
	active := m.state
	switch active {
	case constants.StateEntryDetail:
		active = constants.StateArchive
	case constants.StateConfirmDelete, constants.StatePermission, constants.StateConfirm, constants.StateReflect, constants.StateEditSettings:
		active = m.previousState
	}

	titles := map[constants.SessionState]string{
		constants.StateToday:    "Today",
		constants.StateArchive:  "Archive",
		constants.StateSettings: "Settings",
	}
	var rendered []string
	for _, s := range tabs {
		if s == active {
			rendered = append(rendered, activeTabStyle.Render(titles[s]))
		} else {
			rendered = append(rendered, inactiveTabStyle.Render(titles[s]))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, rendered...)
}

func (m Model) viewStatus() string {
	switch {
	case m.err != nil:
		return warningStyle.Render("  " + m.err.Error())
	case m.status != "":
		return statusStyle.Render("  " + m.status)
	}
	return ""
}

func (m Model) viewConfirmDelete() string {
	return lipgloss.Place(m.width, max(m.height-4, 5),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center,
			dangerStyle.Render(fmt.Sprintf("Delete the entry for %s?", utils.DayKey(m.deleteDay, m.svc.Location()))),
			"The photo and reflection are removed permanently.",
			"",
			"[y] Yes",
			"[n] No",
		),
	)
}
