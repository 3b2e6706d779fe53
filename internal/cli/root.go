package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/oversight/internal/backup"
	"github.com/julianstephens/oversight/internal/camera"
	"github.com/julianstephens/oversight/internal/clock"
	"github.com/julianstephens/oversight/internal/config"
	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/journal"
	"github.com/julianstephens/oversight/internal/logger"
	"github.com/julianstephens/oversight/internal/questions"
	"github.com/julianstephens/oversight/internal/storage"
	"github.com/julianstephens/oversight/internal/storage/sqlite"
	"github.com/julianstephens/oversight/internal/utils"
)

// Notifier delivers a desktop notification.
type Notifier interface {
	Notify(ctx context.Context, title, text string) error
}

type Context struct {
	Store      storage.Provider
	Config     *config.Config
	ConfigFile string
	Clock      clock.Clock
	IDs        clock.IDGenerator
	// Prompter answers every yes/no question the commands ask.
	Prompter camera.Prompter
	Notifier Notifier

	service *journal.Service
}

// Now returns the current time from the injected clock.
func (c *Context) Now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}
	return c.Clock.Now()
}

func (c *Context) prompter() camera.Prompter {
	if c.Prompter == nil {
		return camera.DefaultPrompter()
	}
	return c.Prompter
}

// Interactive reports whether prompts are shown on a terminal.
func (c *Context) Interactive() bool {
	_, ok := c.prompter().(camera.HuhPrompter)
	return ok
}

// Confirm asks a yes/no question. Cancelling counts as no.
func (c *Context) Confirm(ctx context.Context, title, description string) bool {
	ok, err := c.prompter().Confirm(ctx, title, description)
	if err != nil {
		return false
	}
	return ok
}

func (c *Context) config() *config.Config {
	if c.Config == nil {
		c.Config = config.Default()
	}
	return c.Config
}

// Journal builds the journal service on first use. The store must be loaded
// because the timezone comes from settings.
func (c *Context) Journal() (*journal.Service, error) {
	if c.service != nil {
		return c.service, nil
	}
	settings, err := c.Store.GetSettings()
	if err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	selector := questions.NewSelector(questions.Bank(c.config().Questions), settings.Location(), c.Clock)
	c.service = journal.NewService(c.Store, selector, c.Clock, c.IDs)
	return c.service, nil
}

// ResetJournal drops the cached service so the next call picks up changed
// settings.
func (c *Context) ResetJournal() {
	c.service = nil
}

// ParseDay resolves a --day flag. Empty and "today" mean the current day.
func (c *Context) ParseDay(s string) (time.Time, error) {
	svc, err := c.Journal()
	if err != nil {
		return time.Time{}, err
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "today":
		return svc.Day(c.Now()), nil
	case "yesterday":
		return svc.Day(c.Now()).AddDate(0, 0, -1), nil
	}
	day, err := utils.ParseDay(s, svc.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid day %q (expected YYYY-MM-DD, today or yesterday): %w", s, err)
	}
	return day, nil
}

// Device builds the capture device. file, when set, overrides the
// configured device; kind overrides the configured device type.
func (c *Context) Device(kind, file string) (camera.Device, error) {
	if file != "" {
		return camera.FileDevice{Path: file}, nil
	}

	cam := c.config().Camera
	if kind == "" {
		kind = cam.Device
	}
	switch constants.CameraDeviceType(kind) {
	case constants.CameraDeviceInbox:
		return camera.InboxDevice{Dir: cam.InboxDir, Patterns: cam.Patterns}, nil
	case constants.CameraDeviceWatch:
		inbox := camera.InboxDevice{Dir: cam.InboxDir, Patterns: cam.Patterns, Since: c.Now()}
		return camera.WatchDevice{Inbox: inbox}, nil
	case constants.CameraDeviceCommand:
		return camera.CommandDevice{Command: cam.Command}, nil
	}
	return nil, fmt.Errorf("unknown camera device %q (expected inbox, watch or command)", kind)
}

// Authorizer returns the settings-backed camera permission gate.
func (c *Context) Authorizer() *camera.SettingsAuthorizer {
	return camera.NewSettingsAuthorizer(c.Store, c.prompter(), c.CameraEnabled())
}

// CameraEnabled reports whether config.toml allows capture at all.
func (c *Context) CameraEnabled() bool {
	return c.config().Camera.IsEnabled()
}

// Capability pairs the permission gate with device.
func (c *Context) Capability(device camera.Device) camera.Capability {
	return camera.Capability{Auth: c.Authorizer(), Device: device}
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		logger.Debug("Skipping automatic backup for non-SQLite store")
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if c.Clock != nil {
		mgr.WithClock(c.Clock)
	}
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}
