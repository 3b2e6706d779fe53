package sqlite

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/oversight/internal/errors"
	"github.com/julianstephens/oversight/internal/models"
	"github.com/julianstephens/oversight/internal/storage"
	"github.com/julianstephens/oversight/internal/storage/storagetest"
	"github.com/julianstephens/oversight/internal/testutil"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	store := NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	store.SetLocation(time.UTC)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreContract(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Provider {
		return setupTestStore(t)
	})
}

func TestLoadUninitialized(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	err := store.Load()
	if err == nil {
		t.Fatal("expected Load to fail for a missing database")
	}
	if !errors.IsStorage(err) {
		t.Errorf("expected a StorageError, got %T", err)
	}
	if !strings.Contains(err.Error(), "init") {
		t.Errorf("expected hint to run init, got %v", err)
	}
}

func TestLoadAfterInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	first := NewStore(path)
	if err := first.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	first.SetLocation(time.UTC)
	e := models.NewEntry("id-1", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.UTC, "Q", time.Now())
	if err := first.Upsert(e); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	first.Close()

	second := NewStore(path)
	if err := second.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	defer second.Close()
	second.SetLocation(time.UTC)

	got, err := second.Fetch(e.Day)
	if err != nil || got == nil {
		t.Fatalf("Fetch() = %v, %v", got, err)
	}
	if got.ID != "id-1" {
		t.Errorf("ID = %q, want id-1", got.ID)
	}
}

func TestInitKeepsExistingSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	store := NewStore(path)
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	settings := models.DefaultSettings()
	settings.Timezone = "Europe/Paris"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("SaveSettings failed: %v", err)
	}
	store.Close()

	again := NewStore(path)
	if err := again.Init(); err != nil {
		t.Fatalf("second Init failed: %v", err)
	}
	defer again.Close()
	got, err := again.GetSettings()
	if err != nil {
		t.Fatalf("GetSettings failed: %v", err)
	}
	if got.Timezone != "Europe/Paris" {
		t.Errorf("Timezone = %q, want Europe/Paris", got.Timezone)
	}
}

func TestUpsertUsesStoreClockForMissingTimestamps(t *testing.T) {
	store := setupTestStore(t)
	clk := testutil.FixedClock()
	store.WithClock(clk)

	e := models.Entry{ID: "id-1", Day: time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC), Question: "Q"}
	if err := store.Upsert(e); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	got, err := store.Fetch(e.Day)
	if err != nil || got == nil {
		t.Fatalf("Fetch() = %v, %v", got, err)
	}
	if !got.CreatedAt.Equal(clk.Now()) || !got.UpdatedAt.Equal(clk.Now()) {
		t.Errorf("timestamps = (%v, %v), want %v", got.CreatedAt, got.UpdatedAt, clk.Now())
	}
}

func TestUpsertRejectsMissingID(t *testing.T) {
	store := setupTestStore(t)
	err := store.Upsert(models.Entry{Day: time.Now(), Question: "Q"})
	if !errors.IsStorage(err) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	all, _ := store.FetchAll()
	if len(all) != 0 {
		t.Errorf("expected nothing written, got %d entries", len(all))
	}
}

func TestFailedUpsertLeavesNoTrace(t *testing.T) {
	store := setupTestStore(t)
	e := models.NewEntry("id-1", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), time.UTC, "Q", time.Now())
	if err := store.Upsert(e); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	// A second row with the same id on another day violates the primary key.
	clash := models.NewEntry("id-1", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), time.UTC, "Q", time.Now())
	err := store.Upsert(clash)
	if !errors.IsStorage(err) {
		t.Fatalf("expected StorageError, got %v", err)
	}

	all, err := store.FetchAll()
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("FetchAll() returned %d entries, want 1", len(all))
	}
}

func TestClosedStoreReturnsStorageError(t *testing.T) {
	store := setupTestStore(t)
	db := store.GetDB()
	db.Close()

	_, err := store.FetchAll()
	if !errors.IsStorage(err) {
		t.Fatalf("expected StorageError, got %v", err)
	}
	if err := store.DeleteDay(time.Now()); !errors.IsStorage(err) {
		t.Errorf("expected StorageError from DeleteDay, got %v", err)
	}
}

func TestDayKeyIsPersistedInStoreLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	store := setupTestStore(t)
	store.SetLocation(tokyo)

	// 20:00 UTC on Jan 1 is Jan 2 in Tokyo.
	instant := time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)
	e := models.NewEntry("id-1", instant, tokyo, "Q", instant)
	if err := store.Upsert(e); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}

	var key string
	if err := store.GetDB().QueryRow("SELECT day FROM entries").Scan(&key); err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if key != "2024-01-02" {
		t.Errorf("day = %q, want 2024-01-02", key)
	}
}
