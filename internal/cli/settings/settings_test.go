package settings

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/oversight/internal/camera"
	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/config"
	"github.com/julianstephens/oversight/internal/storage/sqlite"
	"github.com/julianstephens/oversight/internal/testutil"
)

func setupTestDB(t *testing.T) (*cli.Context, func()) {
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "test.db")

	store := sqlite.NewStore(dbPath)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}

	ctx := &cli.Context{
		Store:    store,
		Config:   config.Default(),
		Clock:    testutil.FixedClock(),
		Prompter: camera.NonInteractive{},
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}

	return ctx, cleanup
}

func TestSettingsCmd_List(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	cmd := &SettingsCmd{
		List: true,
	}

	err := cmd.Run(ctx)
	if err != nil {
		t.Errorf("settings list failed: %v", err)
	}
}

func TestSettingsCmd_Update(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	tz := "Asia/Tokyo"
	after := "20:30"
	off := false
	cmd := &SettingsCmd{
		Timezone:         &tz,
		ReminderAfter:    &after,
		RemindersEnabled: &off,
		CameraAccess:     "allow",
	}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("settings update failed: %v", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	if settings.Timezone != tz {
		t.Errorf("expected timezone %s, got %s", tz, settings.Timezone)
	}
	if settings.ReminderAfter != after {
		t.Errorf("expected reminder time %s, got %s", after, settings.ReminderAfter)
	}
	if settings.RemindersEnabled {
		t.Error("expected reminders to be disabled")
	}
	if settings.CameraPermission != camera.Authorized.String() {
		t.Errorf("expected camera permission authorized, got %s", settings.CameraPermission)
	}

	svc, err := ctx.Journal()
	if err != nil {
		t.Fatalf("Journal failed: %v", err)
	}
	if svc.Location().String() != tz {
		t.Errorf("journal should use the new timezone, got %s", svc.Location())
	}
}

func TestSettingsCmd_CameraAccess(t *testing.T) {
	tests := []struct {
		access string
		want   camera.Permission
	}{
		{"allow", camera.Authorized},
		{"deny", camera.Denied},
		{"ask", camera.NotDetermined},
	}

	for _, tt := range tests {
		t.Run(tt.access, func(t *testing.T) {
			ctx, cleanup := setupTestDB(t)
			defer cleanup()

			if err := (&SettingsCmd{CameraAccess: tt.access}).Run(ctx); err != nil {
				t.Fatalf("settings update failed: %v", err)
			}
			settings, _ := ctx.Store.GetSettings()
			if settings.CameraPermission != tt.want.String() {
				t.Errorf("expected %s, got %s", tt.want, settings.CameraPermission)
			}
		})
	}
}

func TestSettingsCmd_Invalid(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	badTZ := "Mars/Olympus"
	if err := (&SettingsCmd{Timezone: &badTZ}).Run(ctx); err == nil {
		t.Error("expected error for invalid timezone")
	}
	badTime := "25:99"
	if err := (&SettingsCmd{ReminderAfter: &badTime}).Run(ctx); err == nil {
		t.Error("expected error for invalid reminder time")
	}

	settings, _ := ctx.Store.GetSettings()
	if settings.Timezone == badTZ || settings.ReminderAfter == badTime {
		t.Error("invalid values must not be saved")
	}
}

func TestSettingsCmd_NoChanges(t *testing.T) {
	ctx, cleanup := setupTestDB(t)
	defer cleanup()

	if err := (&SettingsCmd{}).Run(ctx); err != nil {
		t.Errorf("settings with no flags failed: %v", err)
	}
}
