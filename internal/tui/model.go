package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/oversight/internal/camera"
	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/journal"
	"github.com/julianstephens/oversight/internal/logger"
	"github.com/julianstephens/oversight/internal/models"
	"github.com/julianstephens/oversight/internal/storage"
	"github.com/julianstephens/oversight/internal/tui/components/archive"
	"github.com/julianstephens/oversight/internal/tui/components/settings"
	"github.com/julianstephens/oversight/internal/tui/components/today"
)

const (
	todayHint  = "c capture • r reflect • d delete"
	detailHint = "esc back • d delete"
)

// tabs in display order; tab navigation cycles through these states only.
var tabs = []constants.SessionState{constants.StateToday, constants.StateArchive, constants.StateSettings}

type ConfirmFormModel struct {
	Reflection string
	Save       bool
}

type ReflectFormModel struct {
	Reflection string
}

type PermissionFormModel struct {
	Allow bool
}

type SettingsFormModel struct {
	Timezone         string
	CameraAccess     string
	RemindersEnabled bool
	ReminderAfter    string
}

type Model struct {
	svc        *journal.Service
	store      storage.Provider
	capability camera.Capability
	configFile string

	state         constants.SessionState
	previousState constants.SessionState
	keys          KeyMap
	help          help.Model

	todayModel    today.Model
	detailModel   today.Model
	archiveModel  archive.Model
	settingsModel settings.Model

	form           *huh.Form
	confirmForm    *ConfirmFormModel
	reflectForm    *ReflectFormModel
	permissionForm *PermissionFormModel
	settingsForm   *SettingsFormModel

	today         journal.Today
	detail        *models.Entry
	pendingPhoto  *models.Photo
	deleteDay     time.Time
	capturing     bool
	cancelCapture context.CancelFunc

	status   string
	err      error
	width    int
	height   int
	quitting bool
}

func NewModel(svc *journal.Service, store storage.Provider, capability camera.Capability, configFile string) Model {
	m := Model{
		svc:           svc,
		store:         store,
		capability:    capability,
		configFile:    configFile,
		state:         constants.StateToday,
		keys:          DefaultKeyMap(),
		help:          help.New(),
		todayModel:    today.New(0, 0),
		detailModel:   today.New(0, 0),
		archiveModel:  archive.New(nil, 0, 0),
		settingsModel: settings.New(models.DefaultSettings(), camera.NotDetermined, configFile, 0, 0),
	}
	m.refresh()
	return m
}

func (m Model) Init() tea.Cmd {
	return nil
}

// refresh reloads every tab from the store. Load failures are logged by the
// journal service and leave the affected tab empty.
func (m *Model) refresh() {
	m.today = m.svc.Today()
	m.todayModel.SetDay(m.today, todayHint)
	m.archiveModel.SetEntries(m.svc.Archive())

	s, err := m.store.GetSettings()
	if err != nil {
		logger.Error("Failed to load settings", "error", err)
		return
	}
	m.settingsModel.SetSettings(s, m.permission())
}

func (m Model) permission() camera.Permission {
	if m.capability.Auth == nil {
		return camera.Restricted
	}
	p, err := m.capability.Auth.Status(context.Background())
	if err != nil {
		logger.Error("Failed to read camera permission", "error", err)
		return camera.NotDetermined
	}
	return p
}

func (m *Model) setSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width

	contentHeight := max(height-6, 1)
	contentWidth := max(width-4, 1)
	m.todayModel.SetSize(contentWidth, contentHeight)
	m.detailModel.SetSize(contentWidth, contentHeight)
	m.archiveModel.SetSize(contentWidth, contentHeight)
	m.settingsModel.SetSize(contentWidth, contentHeight)
}
