package tui

import (
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/dustin/go-humanize"

	"github.com/julianstephens/oversight/internal/camera"
	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/utils"
)

var cameraAccessOptions = []huh.Option[string]{
	huh.NewOption("Allow", camera.Authorized.String()),
	huh.NewOption("Deny", camera.Denied.String()),
	huh.NewOption("Ask next time", camera.NotDetermined.String()),
}

func (m Model) showForm(state constants.SessionState, form *huh.Form) (Model, tea.Cmd) {
	m.previousState = m.state
	m.state = state
	m.form = form.WithTheme(huh.ThemeDracula()).WithWidth(max(m.width-4, 40))
	m.err = nil
	return m, m.form.Init()
}

func (m Model) showPermissionForm() (Model, tea.Cmd) {
	m.permissionForm = &PermissionFormModel{Allow: true}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Allow oversight to capture photos?").
				Description("Photos are stored in your local journal database.").
				Affirmative("Allow").
				Negative("Don't Allow").
				Value(&m.permissionForm.Allow),
		),
	)
	return m.showForm(constants.StatePermission, form)
}

func (m Model) showConfirmForm() (Model, tea.Cmd) {
	m.confirmForm = &ConfirmFormModel{Save: true}
	if m.today.Entry != nil {
		m.confirmForm.Reflection = m.today.Entry.ReflectionText()
	}

	title := "Save this photo?"
	if m.today.Entry != nil && m.today.Entry.HasPhoto() {
		title = "Replace today's photo?"
	}

	photo := m.pendingPhoto
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Today's question").
				Description(fmt.Sprintf("%s\n\n%s, %s from %s", m.today.Question, photo.ContentType, humanize.Bytes(uint64(photo.Size())), photo.Source)),
			huh.NewText().
				Title("Reflection").
				Placeholder("Optional").
				CharLimit(2000).
				Value(&m.confirmForm.Reflection),
			huh.NewConfirm().
				Title(title).
				Affirmative("Save").
				Negative("Discard").
				Value(&m.confirmForm.Save),
		),
	)
	return m.showForm(constants.StateConfirm, form)
}

func (m Model) showReflectForm() (Model, tea.Cmd) {
	m.refresh()
	m.reflectForm = &ReflectFormModel{}
	if m.today.Entry != nil {
		m.reflectForm.Reflection = m.today.Entry.ReflectionText()
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Today's question").
				Description(m.today.Question),
			huh.NewText().
				Title("Reflection").
				CharLimit(2000).
				Value(&m.reflectForm.Reflection),
		),
	)
	return m.showForm(constants.StateReflect, form)
}

func (m Model) showSettingsForm() (Model, tea.Cmd) {
	s, err := m.store.GetSettings()
	if err != nil {
		m.err = fmt.Errorf("failed to load settings: %w", err)
		return m, nil
	}
	access := s.CameraPermission
	if _, err := camera.ParsePermission(access); err != nil || access == "" || access == camera.Restricted.String() {
		access = camera.NotDetermined.String()
	}
	m.settingsForm = &SettingsFormModel{
		Timezone:         s.Timezone,
		CameraAccess:     access,
		RemindersEnabled: s.RemindersEnabled,
		ReminderAfter:    s.ReminderAfter,
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Timezone").
				Description("IANA name, e.g. Europe/Berlin, or Local").
				Value(&m.settingsForm.Timezone).
				Validate(func(s string) error {
					if !utils.ValidateTimezone(s) {
						return errors.New("unknown timezone")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Camera Access").
				Options(cameraAccessOptions...).
				Value(&m.settingsForm.CameraAccess),
		),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Reminders").
				Affirmative("On").
				Negative("Off").
				Value(&m.settingsForm.RemindersEnabled),
			huh.NewInput().
				Title("Remind After (HH:MM)").
				Value(&m.settingsForm.ReminderAfter).
				Validate(func(s string) error {
					if !utils.ValidateTimeFormat(s) {
						return errors.New("expected HH:MM")
					}
					return nil
				}),
		),
	)
	return m.showForm(constants.StateEditSettings, form)
}
