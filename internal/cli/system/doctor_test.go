package system

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/oversight/internal/storage/sqlite"
)

func TestDoctorCmd_Healthy(t *testing.T) {
	ctx := setupTestDB(t)
	addEntry(t, ctx, "fine")

	if err := (&DoctorCmd{}).Run(ctx); err != nil {
		t.Errorf("doctor failed on a healthy database: %v", err)
	}
}

func TestDoctorCmd_Uninitialized(t *testing.T) {
	ctx, _ := setupTestContext(t)

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail without a database")
	}
}

func TestDoctorCmd_BadConfig(t *testing.T) {
	ctx := setupTestDB(t)
	ctx.ConfigFile = filepath.Join(t.TempDir(), "config.toml")
	writeFile(t, ctx.ConfigFile, "questions = [unterminated\n")

	if err := (&DoctorCmd{}).Run(ctx); err == nil {
		t.Error("expected doctor to fail on an unreadable config file")
	}
}

func TestCheckEntryIntegrity(t *testing.T) {
	tests := []struct {
		name    string
		corrupt string
		wantErr bool
	}{
		{name: "clean", wantErr: false},
		{name: "bad day", corrupt: `UPDATE entries SET day = '15/01/2024'`, wantErr: true},
		{name: "missing photo type", corrupt: `UPDATE entries SET photo_type = NULL`, wantErr: true},
		{name: "empty photo", corrupt: `UPDATE entries SET photo = X''`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := setupTestDB(t)
			addEntry(t, ctx, "")

			if tt.corrupt != "" {
				db := ctx.Store.(*sqlite.Store).GetDB()
				if _, err := db.Exec(tt.corrupt); err != nil {
					t.Fatalf("failed to corrupt entry: %v", err)
				}
			}

			err := checkEntryIntegrity(ctx)
			if (err != nil) != tt.wantErr {
				t.Errorf("checkEntryIntegrity() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckSettings(t *testing.T) {
	ctx := setupTestDB(t)
	if err := checkSettings(ctx); err != nil {
		t.Fatalf("checkSettings failed on defaults: %v", err)
	}

	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	settings.CameraPermission = "sometimes"
	if err := ctx.Store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	if err := checkSettings(ctx); err == nil {
		t.Error("expected error for unknown camera permission")
	}
}
