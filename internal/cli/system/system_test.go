package system

import (
	"path/filepath"
	"testing"

	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/config"
	"github.com/julianstephens/oversight/internal/models"
	"github.com/julianstephens/oversight/internal/storage/sqlite"
	"github.com/julianstephens/oversight/internal/testutil"
)

var testPhoto = models.Photo{
	Data:        append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 16)...),
	ContentType: "image/png",
	Source:      "test",
}

// setupTestContext returns a context around an uninitialized SQLite store.
func setupTestContext(t *testing.T) (*cli.Context, string) {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	store := sqlite.NewStore(dbPath)
	t.Cleanup(func() { store.Close() })

	clk := testutil.FixedClock()
	store.WithClock(clk)

	cfg := config.Default()
	cfg.Questions = []string{"Q0", "Q1", "Q2"}
	cfg.Camera.InboxDir = filepath.Join(t.TempDir(), "inbox")

	return &cli.Context{
		Store:  store,
		Config: cfg,
		Clock:  clk,
		IDs:    testutil.NewStubIDGenerator(),
	}, dbPath
}

// setupTestDB returns a context around an initialized store with UTC days.
func setupTestDB(t *testing.T) *cli.Context {
	t.Helper()
	ctx, _ := setupTestContext(t)
	if err := ctx.Store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	settings, err := ctx.Store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	settings.Timezone = "UTC"
	if err := ctx.Store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}
	return ctx
}

func addEntry(t *testing.T, ctx *cli.Context, reflection string) models.Entry {
	t.Helper()
	svc, err := ctx.Journal()
	if err != nil {
		t.Fatalf("Journal failed: %v", err)
	}
	entry, err := svc.Confirm(testPhoto, models.Some(reflection))
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	return entry
}
