package settings

import (
	"context"
	"fmt"

	"github.com/julianstephens/oversight/internal/camera"
	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/utils"
)

type SettingsCmd struct {
	List bool `help:"List current settings."`

	Timezone         *string `help:"IANA timezone days are counted in, or Local."`
	CameraAccess     string  `help:"Camera access: allow, deny or ask." enum:",allow,deny,ask" default:""`
	RemindersEnabled *bool   `help:"Enable or disable reminder notifications."`
	ReminderAfter    *string `help:"Time of day (HH:MM) after which reminders are sent."`
}

var cameraAccess = map[string]camera.Permission{
	"allow": camera.Authorized,
	"deny":  camera.Denied,
	"ask":   camera.NotDetermined,
}

func (c *SettingsCmd) Run(ctx *cli.Context) error {
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	if c.List {
		status, err := ctx.Authorizer().Status(context.Background())
		if err != nil {
			return err
		}
		fmt.Println("Current Settings:")
		fmt.Printf("  Timezone:              %s\n", settings.Timezone)
		fmt.Printf("  Camera Access:         %s\n", status)
		fmt.Println("\nReminder Settings:")
		fmt.Printf("  Reminders Enabled:     %v\n", settings.RemindersEnabled)
		fmt.Printf("  Remind After:          %s\n", settings.ReminderAfter)
		return nil
	}

	updated := false
	if c.Timezone != nil {
		if !utils.ValidateTimezone(*c.Timezone) {
			return fmt.Errorf("invalid timezone %q", *c.Timezone)
		}
		settings.Timezone = *c.Timezone
		updated = true
	}
	if c.RemindersEnabled != nil {
		settings.RemindersEnabled = *c.RemindersEnabled
		updated = true
	}
	if c.ReminderAfter != nil {
		if !utils.ValidateTimeFormat(*c.ReminderAfter) {
			return fmt.Errorf("invalid reminder time %q (expected HH:MM)", *c.ReminderAfter)
		}
		settings.ReminderAfter = *c.ReminderAfter
		updated = true
	}

	if updated {
		if err := ctx.Store.SaveSettings(settings); err != nil {
			return fmt.Errorf("failed to save settings: %w", err)
		}
		ctx.ResetJournal()
	}

	// Saved after the other fields so SaveSettings above cannot overwrite it.
	if c.CameraAccess != "" {
		if err := ctx.Authorizer().Set(context.Background(), cameraAccess[c.CameraAccess]); err != nil {
			return err
		}
		updated = true
	}

	if updated {
		fmt.Println("Settings updated successfully.")
	} else {
		fmt.Println("No changes specified. Use --list to view settings or flags to update them.")
	}

	return nil
}
