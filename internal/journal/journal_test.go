package journal

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/oversight/internal/camera"
	storeerrors "github.com/julianstephens/oversight/internal/errors"
	"github.com/julianstephens/oversight/internal/models"
	"github.com/julianstephens/oversight/internal/questions"
	"github.com/julianstephens/oversight/internal/storage"
	"github.com/julianstephens/oversight/internal/storage/sqlite"
	"github.com/julianstephens/oversight/internal/testutil"
)

var testBank = []string{"Q0", "Q1", "Q2"}

var jpeg = models.Photo{Data: []byte("\xFF\xD8\xFF\xE0"), ContentType: "image/jpeg", Source: "test"}

func setupService(t *testing.T) (*Service, *sqlite.Store, *testutil.StubClock) {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	clk := testutil.FixedClock()
	store.WithClock(clk)
	selector := questions.NewSelector(testBank, time.UTC, clk)
	return NewService(store, selector, clk, testutil.NewStubIDGenerator()), store, clk
}

// brokenStore fails every entry read and write.
type brokenStore struct {
	storage.Provider
	err error
}

func (b brokenStore) SetLocation(*time.Location)             {}
func (b brokenStore) FetchAll() ([]models.Entry, error)      { return nil, b.err }
func (b brokenStore) Fetch(time.Time) (*models.Entry, error) { return nil, b.err }
func (b brokenStore) Upsert(models.Entry) error              { return b.err }
func (b brokenStore) DeleteDay(time.Time) error              { return b.err }
func (b brokenStore) Delete(models.Entry) error              { return b.err }
func (b brokenStore) GetSettings() (models.Settings, error)  { return models.Settings{}, b.err }
func (b brokenStore) SaveSettings(models.Settings) error     { return b.err }

func newBrokenService() *Service {
	clk := testutil.FixedClock()
	err := storeerrors.Storage("fetch", errors.New("disk on fire"))
	return NewService(brokenStore{err: err}, questions.NewSelector(testBank, time.UTC, clk), clk, testutil.NewStubIDGenerator())
}

type fakeDevice struct {
	photo models.Photo
	err   error
}

func (d fakeDevice) Available() bool { return true }
func (d fakeDevice) Capture(context.Context) (models.Photo, error) {
	return d.photo, d.err
}

type grantAll struct{}

func (grantAll) Status(context.Context) (camera.Permission, error) { return camera.Authorized, nil }
func (grantAll) Request(context.Context) (bool, error)             { return true, nil }
func (grantAll) Record(context.Context, bool) error                { return nil }

func TestToday(t *testing.T) {
	svc, _, clk := setupService(t)

	today := svc.Today()
	if today.Entry != nil {
		t.Errorf("expected no entry, got %+v", today.Entry)
	}
	if today.Question != svc.QuestionFor(clk.Now()) {
		t.Errorf("Question = %q, want selector's question", today.Question)
	}
	if !today.Day.Equal(time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Day = %v", today.Day)
	}
	if today.Answered() {
		t.Error("expected unanswered day")
	}

	if _, err := svc.Confirm(jpeg, models.None[string]()); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	today = svc.Today()
	if today.Entry == nil || !today.Answered() {
		t.Fatal("expected today to be answered after Confirm")
	}
}

func TestTodayDegradesOnStoreFailure(t *testing.T) {
	svc := newBrokenService()
	today := svc.Today()
	if today.Entry != nil {
		t.Errorf("expected nil entry on failure, got %+v", today.Entry)
	}
	if today.Question == "" {
		t.Error("expected the question even when the store fails")
	}
	if got := svc.Archive(); got == nil || len(got) != 0 {
		t.Errorf("Archive() = %v, want empty slice", got)
	}
}

func TestConfirmCreatesEntryWithTodaysQuestion(t *testing.T) {
	svc, store, clk := setupService(t)

	entry, err := svc.Confirm(jpeg, models.Some("it was quiet"))
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if entry.ID != "id-1" {
		t.Errorf("ID = %q, want id-1", entry.ID)
	}
	if entry.Question != svc.QuestionFor(clk.Now()) {
		t.Errorf("Question = %q", entry.Question)
	}

	stored, err := store.Fetch(clk.Now())
	if err != nil || stored == nil {
		t.Fatalf("Fetch() = %v, %v", stored, err)
	}
	if stored.ReflectionText() != "it was quiet" || !stored.HasPhoto() {
		t.Errorf("stored entry = %+v", stored)
	}
}

func TestConfirmReplacesKeepingQuestion(t *testing.T) {
	svc, store, clk := setupService(t)

	first, err := svc.Confirm(jpeg, models.Some("first"))
	if err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}

	// Swap the bank so today's question changes; the saved entry must not.
	svc.selector = questions.NewSelector([]string{"other"}, time.UTC, clk)
	clk.Advance(2 * time.Hour)

	replacement := models.Photo{Data: []byte("\x89PNG\r\n\x1a\n"), ContentType: "image/png"}
	second, err := svc.Confirm(replacement, models.None[string]())
	if err != nil {
		t.Fatalf("second Confirm failed: %v", err)
	}
	if second.ID != first.ID || second.Question != first.Question {
		t.Errorf("replacement = (%s, %q), want (%s, %q)", second.ID, second.Question, first.ID, first.Question)
	}

	all, err := store.FetchAll()
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected one entry, got %d", len(all))
	}
	photo, _ := all[0].Photo.Get()
	if photo.ContentType != "image/png" {
		t.Errorf("photo not replaced: %+v", photo)
	}
	if all[0].Reflection.IsPresent() {
		t.Errorf("reflection = %q, want absent after replacing with none", all[0].ReflectionText())
	}
	if !all[0].CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("CreatedAt changed: %v -> %v", first.CreatedAt, all[0].CreatedAt)
	}
}

func TestConfirmFailureReturnsError(t *testing.T) {
	svc := newBrokenService()
	if _, err := svc.Confirm(jpeg, models.None[string]()); !storeerrors.IsStorage(err) {
		t.Errorf("Confirm() error = %v, want StorageError", err)
	}
}

func TestSetReflection(t *testing.T) {
	svc, _, clk := setupService(t)
	yesterday := clk.Now().AddDate(0, 0, -1)

	entry, err := svc.SetReflection(yesterday, "late thought")
	if err != nil {
		t.Fatalf("SetReflection failed: %v", err)
	}
	if entry.HasPhoto() {
		t.Error("expected entry without photo")
	}
	if entry.Question != svc.QuestionFor(yesterday) {
		t.Errorf("Question = %q, want yesterday's question %q", entry.Question, svc.QuestionFor(yesterday))
	}

	updated, err := svc.SetReflection(yesterday, "")
	if err != nil {
		t.Fatalf("SetReflection failed: %v", err)
	}
	if updated.ID != entry.ID {
		t.Errorf("ID changed: %s -> %s", entry.ID, updated.ID)
	}
	if r, ok := updated.Reflection.Get(); !ok || r != "" {
		t.Errorf("Reflection = (%q, %v), want present and empty", r, ok)
	}
}

func TestClearPhoto(t *testing.T) {
	svc, store, clk := setupService(t)

	if _, err := svc.ClearPhoto(clk.Now()); !errors.Is(err, ErrNoEntry) {
		t.Errorf("ClearPhoto on empty day error = %v, want ErrNoEntry", err)
	}

	if _, err := svc.Confirm(jpeg, models.Some("keep me")); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if _, err := svc.ClearPhoto(clk.Now()); err != nil {
		t.Fatalf("ClearPhoto failed: %v", err)
	}
	stored, _ := store.Fetch(clk.Now())
	if stored == nil || stored.HasPhoto() || stored.ReflectionText() != "keep me" {
		t.Errorf("stored entry after ClearPhoto = %+v", stored)
	}
}

func TestDelete(t *testing.T) {
	svc, store, clk := setupService(t)

	if err := svc.Delete(clk.Now()); err != nil {
		t.Fatalf("Delete on empty day failed: %v", err)
	}
	if _, err := svc.Confirm(jpeg, models.None[string]()); err != nil {
		t.Fatalf("Confirm failed: %v", err)
	}
	if err := svc.Delete(clk.Now()); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if all, _ := store.FetchAll(); len(all) != 0 {
		t.Errorf("expected empty store, got %d entries", len(all))
	}
}

func TestArchiveNewestFirst(t *testing.T) {
	svc, _, clk := setupService(t)
	for i := 0; i < 3; i++ {
		if _, err := svc.Confirm(jpeg, models.None[string]()); err != nil {
			t.Fatalf("Confirm failed: %v", err)
		}
		clk.Advance(24 * time.Hour)
	}

	archive := svc.Archive()
	if len(archive) != 3 {
		t.Fatalf("Archive() returned %d entries, want 3", len(archive))
	}
	for i := 1; i < len(archive); i++ {
		if !archive[i-1].Day.After(archive[i].Day) {
			t.Errorf("archive not newest first at %d", i)
		}
	}
}

func TestCapture(t *testing.T) {
	ctx := context.Background()

	t.Run("confirmed capture is saved", func(t *testing.T) {
		svc, store, clk := setupService(t)
		capability := camera.Capability{Auth: grantAll{}, Device: fakeDevice{photo: jpeg}}

		var seenQuestion string
		entry, err := svc.Capture(ctx, capability, func(_ context.Context, q string, p models.Photo, existing *models.Entry) (models.Optional[string], bool, error) {
			seenQuestion = q
			if existing != nil {
				t.Errorf("expected no existing entry, got %+v", existing)
			}
			return models.Some("caught the light"), true, nil
		})
		if err != nil {
			t.Fatalf("Capture failed: %v", err)
		}
		if seenQuestion != svc.QuestionFor(clk.Now()) {
			t.Errorf("confirm saw question %q", seenQuestion)
		}
		if entry == nil || entry.ReflectionText() != "caught the light" {
			t.Errorf("Capture() = %+v", entry)
		}
		if stored, _ := store.Fetch(clk.Now()); stored == nil {
			t.Error("expected entry to be stored")
		}
	})

	t.Run("discarded capture writes nothing", func(t *testing.T) {
		svc, store, _ := setupService(t)
		capability := camera.Capability{Auth: grantAll{}, Device: fakeDevice{photo: jpeg}}

		_, err := svc.Capture(ctx, capability, func(context.Context, string, models.Photo, *models.Entry) (models.Optional[string], bool, error) {
			return models.None[string](), false, nil
		})
		if !errors.Is(err, camera.ErrCancelled) {
			t.Errorf("Capture() error = %v, want ErrCancelled", err)
		}
		if all, _ := store.FetchAll(); len(all) != 0 {
			t.Errorf("expected no writes, got %d entries", len(all))
		}
	})

	t.Run("dismissed camera writes nothing", func(t *testing.T) {
		svc, store, _ := setupService(t)
		capability := camera.Capability{Auth: grantAll{}, Device: fakeDevice{err: camera.ErrCancelled}}

		if _, err := svc.Capture(ctx, capability, nil); !errors.Is(err, camera.ErrCancelled) {
			t.Errorf("Capture() error = %v, want ErrCancelled", err)
		}
		if all, _ := store.FetchAll(); len(all) != 0 {
			t.Errorf("expected no writes, got %d entries", len(all))
		}
	})

	t.Run("denied permission", func(t *testing.T) {
		svc, store, _ := setupService(t)
		auth := camera.NewSettingsAuthorizer(store, nil, true)
		if err := auth.Record(ctx, false); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
		capability := camera.Capability{Auth: auth, Device: fakeDevice{photo: jpeg}}

		if _, err := svc.Capture(ctx, capability, nil); !camera.IsPermissionError(err) {
			t.Errorf("Capture() error = %v, want PermissionError", err)
		}
	})
}

func TestReflectionFrom(t *testing.T) {
	withReflection := models.Entry{Reflection: models.Some("before")}

	tests := []struct {
		name     string
		text     string
		existing *models.Entry
		want     models.Optional[string]
	}{
		{"blank without entry stays absent", "  ", nil, models.None[string]()},
		{"blank on entry without reflection stays absent", "", &models.Entry{}, models.None[string]()},
		{"blank clears existing reflection", " ", &withReflection, models.Some("")},
		{"text is trimmed", "  sunny  ", nil, models.Some("sunny")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ReflectionFrom(tt.text, tt.existing)
			gotText, gotOK := got.Get()
			wantText, wantOK := tt.want.Get()
			if gotText != wantText || gotOK != wantOK {
				t.Errorf("ReflectionFrom(%q) = (%q, %v), want (%q, %v)", tt.text, gotText, gotOK, wantText, wantOK)
			}
		})
	}
}
