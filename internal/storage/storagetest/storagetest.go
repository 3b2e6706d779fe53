// Package storagetest holds the behaviour every storage.Provider must share.
// Backend packages call Run from their own tests.
package storagetest

import (
	"bytes"
	"testing"
	"time"

	"github.com/julianstephens/oversight/internal/models"
	"github.com/julianstephens/oversight/internal/storage"
)

// Open returns an initialized, empty provider. Cleanup is the caller's job.
type Open func(t *testing.T) storage.Provider

var base = time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)

func day(n int) time.Time {
	return base.AddDate(0, 0, n)
}

func entry(id string, d time.Time, question string) models.Entry {
	return models.NewEntry(id, d, time.UTC, question, d.Add(9*time.Hour))
}

func mustUpsert(t *testing.T, s storage.Provider, e models.Entry) {
	t.Helper()
	if err := s.Upsert(e); err != nil {
		t.Fatalf("Upsert(%s) failed: %v", e.DayKey(), err)
	}
}

func mustFetchAll(t *testing.T, s storage.Provider) []models.Entry {
	t.Helper()
	entries, err := s.FetchAll()
	if err != nil {
		t.Fatalf("FetchAll failed: %v", err)
	}
	return entries
}

// Run exercises open's provider against the shared entry store contract.
func Run(t *testing.T, open Open) {
	t.Run("EmptyStore", func(t *testing.T) {
		s := open(t)
		if got := mustFetchAll(t, s); len(got) != 0 {
			t.Errorf("FetchAll() returned %d entries, want 0", len(got))
		}
		e, err := s.Fetch(day(0))
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if e != nil {
			t.Errorf("Fetch() = %+v, want nil", e)
		}
	})

	t.Run("InsertAndFetch", func(t *testing.T) {
		s := open(t)
		e := entry("id-1", day(0), "What appears to be waiting?")
		e.SetPhoto(models.Photo{Data: []byte{0xFF, 0xD8, 0xFF}, ContentType: "image/jpeg", Source: "inbox"}, e.CreatedAt)
		e.SetReflection("", e.CreatedAt)
		mustUpsert(t, s, e)

		got, err := s.Fetch(day(0).Add(15 * time.Hour))
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if got == nil {
			t.Fatal("Fetch() returned nil for a stored day")
		}
		if got.ID != "id-1" || got.Question != e.Question {
			t.Errorf("Fetch() = (%s, %q), want (id-1, %q)", got.ID, got.Question, e.Question)
		}
		if !got.Day.Equal(day(0)) {
			t.Errorf("Day = %v, want %v", got.Day, day(0))
		}
		photo, ok := got.Photo.Get()
		if !ok || !bytes.Equal(photo.Data, []byte{0xFF, 0xD8, 0xFF}) || photo.ContentType != "image/jpeg" || photo.Source != "inbox" {
			t.Errorf("Photo = %+v (present %v)", photo, ok)
		}
		if r, ok := got.Reflection.Get(); !ok || r != "" {
			t.Errorf("Reflection = (%q, %v), want present empty string", r, ok)
		}
		if !got.CreatedAt.Equal(e.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, e.CreatedAt)
		}
	})

	t.Run("AbsentOptionalsStayAbsent", func(t *testing.T) {
		s := open(t)
		mustUpsert(t, s, entry("id-1", day(0), "Q"))

		got, err := s.Fetch(day(0))
		if err != nil || got == nil {
			t.Fatalf("Fetch() = %v, %v", got, err)
		}
		if got.HasPhoto() {
			t.Error("expected no photo")
		}
		if got.Reflection.IsPresent() {
			t.Error("expected reflection to be absent")
		}
	})

	t.Run("UpsertSameDayReplaces", func(t *testing.T) {
		s := open(t)
		first := entry("id-1", day(0), "Q1")
		first.SetReflection("a", first.CreatedAt)
		mustUpsert(t, s, first)

		second := entry("id-2", day(0).Add(20*time.Hour), "Q2")
		second.SetReflection("b", first.CreatedAt.Add(time.Hour))
		mustUpsert(t, s, second)

		all := mustFetchAll(t, s)
		if len(all) != 1 {
			t.Fatalf("FetchAll() returned %d entries, want 1", len(all))
		}
		got := all[0]
		if got.ReflectionText() != "b" {
			t.Errorf("Reflection = %q, want b", got.ReflectionText())
		}
		if got.Question != "Q2" {
			t.Errorf("Question = %q, want Q2", got.Question)
		}
		if got.ID != "id-1" {
			t.Errorf("ID = %q, want original id-1", got.ID)
		}
		if !got.CreatedAt.Equal(first.CreatedAt) {
			t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, first.CreatedAt)
		}
		if !got.UpdatedAt.After(first.UpdatedAt) {
			t.Errorf("UpdatedAt = %v, want after %v", got.UpdatedAt, first.UpdatedAt)
		}
	})

	t.Run("UpsertRefreshesStaleUpdatedAt", func(t *testing.T) {
		s := open(t)
		e := entry("id-1", day(0), "Q")
		mustUpsert(t, s, e)

		// Same timestamps again: the store still has to move updated_at forward.
		mustUpsert(t, s, e)
		got, err := s.Fetch(day(0))
		if err != nil || got == nil {
			t.Fatalf("Fetch() = %v, %v", got, err)
		}
		if !got.UpdatedAt.After(e.UpdatedAt) {
			t.Errorf("UpdatedAt = %v, want after %v", got.UpdatedAt, e.UpdatedAt)
		}
	})

	t.Run("ClearingPhoto", func(t *testing.T) {
		s := open(t)
		e := entry("id-1", day(0), "Q")
		e.SetPhoto(models.Photo{Data: []byte("png"), ContentType: "image/png"}, e.CreatedAt)
		mustUpsert(t, s, e)

		e.ClearPhoto(e.CreatedAt.Add(time.Minute))
		mustUpsert(t, s, e)

		got, err := s.Fetch(day(0))
		if err != nil || got == nil {
			t.Fatalf("Fetch() = %v, %v", got, err)
		}
		if got.HasPhoto() {
			t.Error("expected photo to be cleared")
		}
	})

	t.Run("FetchAllNewestFirst", func(t *testing.T) {
		s := open(t)
		for i, offset := range []int{3, -40, 0, 12, -1} {
			mustUpsert(t, s, entry(string(rune('a'+i)), day(offset), "Q"))
		}

		all := mustFetchAll(t, s)
		if len(all) != 5 {
			t.Fatalf("FetchAll() returned %d entries, want 5", len(all))
		}
		for i := 1; i < len(all); i++ {
			if !all[i-1].Day.After(all[i].Day) {
				t.Errorf("entries not strictly descending at %d: %v then %v", i, all[i-1].Day, all[i].Day)
			}
		}
	})

	t.Run("DeleteMissingIsNoop", func(t *testing.T) {
		s := open(t)
		mustUpsert(t, s, entry("id-1", day(0), "Q"))

		if err := s.DeleteDay(day(5)); err != nil {
			t.Fatalf("DeleteDay on a missing day failed: %v", err)
		}
		if got := mustFetchAll(t, s); len(got) != 1 {
			t.Errorf("FetchAll() returned %d entries, want 1", len(got))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := open(t)
		keep := entry("id-1", day(0), "Q")
		drop := entry("id-2", day(1), "Q")
		mustUpsert(t, s, keep)
		mustUpsert(t, s, drop)

		if err := s.Delete(drop); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		got, err := s.Fetch(day(1))
		if err != nil {
			t.Fatalf("Fetch failed: %v", err)
		}
		if got != nil {
			t.Error("expected deleted day to be absent")
		}

		if err := s.DeleteDay(day(0).Add(23 * time.Hour)); err != nil {
			t.Fatalf("DeleteDay failed: %v", err)
		}
		if got := mustFetchAll(t, s); len(got) != 0 {
			t.Errorf("FetchAll() returned %d entries, want 0", len(got))
		}
	})

	t.Run("Settings", func(t *testing.T) {
		s := open(t)
		settings, err := s.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings failed: %v", err)
		}
		if settings != models.DefaultSettings() {
			t.Errorf("GetSettings() = %+v, want defaults", settings)
		}

		settings.Timezone = "America/New_York"
		settings.CameraPermission = "authorized"
		settings.RemindersEnabled = false
		if err := s.SaveSettings(settings); err != nil {
			t.Fatalf("SaveSettings failed: %v", err)
		}
		got, err := s.GetSettings()
		if err != nil {
			t.Fatalf("GetSettings failed: %v", err)
		}
		if got != settings {
			t.Errorf("GetSettings() = %+v, want %+v", got, settings)
		}
	})

	t.Run("SchemaStatus", func(t *testing.T) {
		s := open(t)
		current, latest, err := s.SchemaStatus()
		if err != nil {
			t.Fatalf("SchemaStatus failed: %v", err)
		}
		if current != latest || current < 1 {
			t.Errorf("SchemaStatus() = (%d, %d), want an up to date schema", current, latest)
		}
	})
}
