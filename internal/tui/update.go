package tui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/oversight/internal/camera"
	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/journal"
	"github.com/julianstephens/oversight/internal/logger"
	"github.com/julianstephens/oversight/internal/models"
	"github.com/julianstephens/oversight/internal/tui/components/archive"
	"github.com/julianstephens/oversight/internal/tui/components/settings"
)

type capturedMsg struct {
	photo models.Photo
	err   error
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.WindowSizeMsg); ok {
		m.setSize(msg.Width, msg.Height)
		return m, nil
	}

	if msg, ok := msg.(capturedMsg); ok {
		return m.handleCaptured(msg)
	}

	switch m.state {
	case constants.StatePermission, constants.StateConfirm, constants.StateReflect, constants.StateEditSettings:
		return m.updateForm(msg)
	case constants.StateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	if m.capturing {
		if msg, ok := msg.(tea.KeyMsg); ok {
			switch {
			case key.Matches(msg, m.keys.Back):
				m.cancelCapture()
			case msg.String() == "ctrl+c":
				m.cancelCapture()
				m.quitting = true
				return m, tea.Quit
			}
		}
		return m, nil
	}

	switch msg := msg.(type) {
	case archive.ShowEntryMsg:
		entry := msg.Entry
		m.detail = &entry
		m.detailModel.SetDay(journal.Today{Day: entry.Day, Question: entry.Question, Entry: &entry}, detailHint)
		m.state = constants.StateEntryDetail
		return m, nil

	case archive.DeleteEntryMsg:
		return m.confirmDelete(msg.Entry)

	case settings.EditSettingsMsg:
		return m.showSettingsForm()

	case tea.KeyMsg:
		// Let the archive filter consume typed text.
		if m.state == constants.StateArchive && m.archiveModel.Filtering() {
			break
		}

		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.Back):
			if m.state == constants.StateEntryDetail {
				m.detail = nil
				m.state = constants.StateArchive
				return m, nil
			}
			m.status, m.err = "", nil
			return m, nil
		case key.Matches(msg, m.keys.Tab):
			m.state = m.nextTab(1)
			return m, nil
		case key.Matches(msg, m.keys.ShiftTab):
			m.state = m.nextTab(-1)
			return m, nil
		}

		switch m.state {
		case constants.StateToday:
			switch {
			case key.Matches(msg, m.keys.Capture):
				m.status, m.err = "", nil
				return m.startCapture()
			case key.Matches(msg, m.keys.Reflect):
				return m.showReflectForm()
			case key.Matches(msg, m.keys.Delete):
				if m.today.Entry == nil {
					m.status = "Nothing to delete today"
					return m, nil
				}
				return m.confirmDelete(*m.today.Entry)
			}
		case constants.StateEntryDetail:
			if key.Matches(msg, m.keys.Delete) && m.detail != nil {
				return m.confirmDelete(*m.detail)
			}
		}
	}

	var cmd tea.Cmd
	switch m.state {
	case constants.StateToday:
		m.todayModel, cmd = m.todayModel.Update(msg)
	case constants.StateArchive:
		m.archiveModel, cmd = m.archiveModel.Update(msg)
	case constants.StateEntryDetail:
		m.detailModel, cmd = m.detailModel.Update(msg)
	case constants.StateSettings:
		m.settingsModel, cmd = m.settingsModel.Update(msg)
	}
	return m, cmd
}

func (m Model) nextTab(step int) constants.SessionState {
	current := m.state
	if current == constants.StateEntryDetail {
		current = constants.StateArchive
	}
	for i, s := range tabs {
		if s == current {
			return tabs[(i+step+len(tabs))%len(tabs)]
		}
	}
	return constants.StateToday
}

// startCapture checks the camera permission and, when authorized, runs the
// capture as a command. Esc cancels a capture in progress.
func (m Model) startCapture() (Model, tea.Cmd) {
	m.refresh()
	switch status := m.permission(); status {
	case camera.Authorized:
	case camera.NotDetermined:
		return m.showPermissionForm()
	default:
		m.err = &camera.PermissionError{Permission: status}
		return m, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	m.cancelCapture = cancel
	m.capturing = true
	m.status = "Waiting for a photo… (esc to cancel)"

	capability := m.capability
	return m, func() tea.Msg {
		photo, err := capability.Acquire(ctx)
		return capturedMsg{photo: photo, err: err}
	}
}

func (m Model) handleCaptured(msg capturedMsg) (Model, tea.Cmd) {
	if m.cancelCapture != nil {
		m.cancelCapture()
		m.cancelCapture = nil
	}
	m.capturing = false
	m.status = ""

	if msg.err != nil {
		if errors.Is(msg.err, camera.ErrCancelled) || errors.Is(msg.err, context.Canceled) {
			m.status = "Capture cancelled"
			return m, nil
		}
		logger.Error("Capture failed", "error", msg.err)
		m.err = msg.err
		return m, nil
	}

	photo := msg.photo
	m.pendingPhoto = &photo
	// A watch capture can outlast the day it started on.
	m.refresh()
	return m.showConfirmForm()
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.Type == tea.KeyEsc {
		return m.closeForm(), nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		return m.completeForm()
	case huh.StateAborted:
		return m.closeForm(), nil
	}
	return m, cmd
}

// closeForm leaves the current form without saving anything.
func (m Model) closeForm() Model {
	switch m.state {
	case constants.StateConfirm:
		m.status = "Photo discarded"
	case constants.StatePermission:
		m.status = "Camera access not decided"
	}
	m.state = m.previousState
	m.form = nil
	m.pendingPhoto = nil
	return m
}

func (m Model) completeForm() (Model, tea.Cmd) {
	state := m.state
	m.state = m.previousState
	m.form = nil

	switch state {
	case constants.StatePermission:
		return m.recordPermission(m.permissionForm.Allow)
	case constants.StateConfirm:
		if m.confirmForm.Save {
			m.saveCapture(m.confirmForm.Reflection)
		} else {
			m.status = "Photo discarded"
		}
		m.pendingPhoto = nil
	case constants.StateReflect:
		m.saveReflection(m.reflectForm.Reflection)
	case constants.StateEditSettings:
		m.saveSettings(*m.settingsForm)
	}
	return m, nil
}

func (m Model) recordPermission(allow bool) (Model, tea.Cmd) {
	if err := m.capability.Auth.Record(context.Background(), allow); err != nil {
		m.err = err
		return m, nil
	}
	m.refresh()
	if !allow {
		m.err = &camera.PermissionError{Permission: camera.Denied}
		return m, nil
	}
	return m.startCapture()
}

// saveCapture stores the pending photo. On failure the previous entry stays
// on screen.
func (m *Model) saveCapture(reflection string) {
	if m.pendingPhoto == nil {
		return
	}
	if _, err := m.svc.Confirm(*m.pendingPhoto, journal.ReflectionFrom(reflection, m.today.Entry)); err != nil {
		m.err = err
		return
	}
	m.status = "Entry saved"
	m.refresh()
}

func (m *Model) saveReflection(text string) {
	reflection, ok := journal.ReflectionFrom(text, m.today.Entry).Get()
	if !ok {
		m.status = "Nothing to save"
		return
	}
	if _, err := m.svc.SetReflection(m.today.Day, reflection); err != nil {
		m.err = err
		return
	}
	m.status = "Reflection saved"
	m.refresh()
}

func (m *Model) saveSettings(form SettingsFormModel) {
	s, err := m.store.GetSettings()
	if err != nil {
		m.err = err
		return
	}
	timezoneChanged := s.Timezone != form.Timezone

	s.Timezone = form.Timezone
	s.CameraPermission = form.CameraAccess
	s.RemindersEnabled = form.RemindersEnabled
	s.ReminderAfter = form.ReminderAfter
	if err := m.store.SaveSettings(s); err != nil {
		logger.Error("Failed to save settings", "error", err)
		m.err = err
		return
	}

	m.status = "Settings saved"
	if timezoneChanged {
		m.status = "Settings saved; the new timezone applies on next start"
	}
	m.refresh()
}

func (m Model) confirmDelete(e models.Entry) (Model, tea.Cmd) {
	m.previousState = m.state
	m.deleteDay = e.Day
	m.state = constants.StateConfirmDelete
	return m, nil
}

func (m Model) updateConfirmDelete(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "y", "Y":
		if err := m.svc.Delete(m.deleteDay); err != nil {
			m.err = err
			m.state = m.previousState
			return m, nil
		}
		m.status = "Entry deleted"
		m.refresh()
		m.state = m.previousState
		if m.state == constants.StateEntryDetail {
			m.detail = nil
			m.state = constants.StateArchive
		}
	case "n", "N", "esc", "q":
		m.state = m.previousState
	}
	return m, nil
}
