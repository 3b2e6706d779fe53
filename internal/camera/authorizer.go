package camera

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	"github.com/julianstephens/oversight/internal/logger"
	"github.com/julianstephens/oversight/internal/models"
)

// Authorizer answers whether capture is allowed and asks the user when it
// has not been decided yet.
type Authorizer interface {
	Status(ctx context.Context) (Permission, error)
	// Request prompts for access when undecided and reports whether it was granted.
	Request(ctx context.Context) (bool, error)
	Record(ctx context.Context, granted bool) error
}

// SettingsStore is the slice of storage.Provider the authorizer needs.
type SettingsStore interface {
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error
}

// Prompter asks a yes/no question.
type Prompter interface {
	Confirm(ctx context.Context, title, description string) (bool, error)
}

// SettingsAuthorizer keeps the permission in the settings table.
type SettingsAuthorizer struct {
	store    SettingsStore
	prompter Prompter
	enabled  bool
}

func NewSettingsAuthorizer(store SettingsStore, prompter Prompter, enabled bool) *SettingsAuthorizer {
	if prompter == nil {
		prompter = NonInteractive{}
	}
	return &SettingsAuthorizer{store: store, prompter: prompter, enabled: enabled}
}

func (a *SettingsAuthorizer) Status(ctx context.Context) (Permission, error) {
	if !a.enabled {
		return Restricted, nil
	}
	settings, err := a.store.GetSettings()
	if err != nil {
		return NotDetermined, err
	}
	p, err := ParsePermission(settings.CameraPermission)
	if err != nil {
		logger.Warn("Ignoring stored camera permission", "error", err)
		return NotDetermined, nil
	}
	return p, nil
}

func (a *SettingsAuthorizer) Request(ctx context.Context) (bool, error) {
	status, err := a.Status(ctx)
	if err != nil {
		return false, err
	}
	if status != NotDetermined {
		return status == Authorized, nil
	}

	granted, err := a.prompter.Confirm(ctx,
		"Allow oversight to capture photos?",
		"Photos are stored in your local journal database.")
	if err != nil {
		if errors.Is(err, ErrCancelled) {
			// Dismissing the prompt leaves the decision open.
			return false, nil
		}
		return false, err
	}
	if err := a.Record(ctx, granted); err != nil {
		return false, err
	}
	return granted, nil
}

func (a *SettingsAuthorizer) Record(ctx context.Context, granted bool) error {
	p := Denied
	if granted {
		p = Authorized
	}
	return a.Set(ctx, p)
}

// Set stores p directly, e.g. from `oversight settings --camera-access`.
func (a *SettingsAuthorizer) Set(_ context.Context, p Permission) error {
	settings, err := a.store.GetSettings()
	if err != nil {
		return err
	}
	settings.CameraPermission = p.String()
	if err := a.store.SaveSettings(settings); err != nil {
		return fmt.Errorf("failed to save camera permission: %w", err)
	}
	logger.Info("Camera permission updated", "permission", p)
	return nil
}

// HuhPrompter asks on the terminal with a huh confirm field.
type HuhPrompter struct{}

func (HuhPrompter) Confirm(ctx context.Context, title, description string) (bool, error) {
	var ok bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.RunWithContext(ctx); err != nil {
		if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
			return false, ErrCancelled
		}
		return false, err
	}
	return ok, nil
}

// NonInteractive never grants access. Used when stdin is not a terminal.
type NonInteractive struct{}

func (NonInteractive) Confirm(context.Context, string, string) (bool, error) {
	return false, ErrCancelled
}

// DefaultPrompter returns HuhPrompter when stdin is a terminal.
func DefaultPrompter() Prompter {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return HuhPrompter{}
	}
	return NonInteractive{}
}
