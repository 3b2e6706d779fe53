package entries

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/oversight/internal/camera"
	"github.com/julianstephens/oversight/internal/cli"
	"github.com/julianstephens/oversight/internal/config"
	"github.com/julianstephens/oversight/internal/export"
	"github.com/julianstephens/oversight/internal/models"
	"github.com/julianstephens/oversight/internal/storage/sqlite"
	"github.com/julianstephens/oversight/internal/testutil"
)

var pngData = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

// stubPrompter answers every question with answer.
type stubPrompter struct {
	answer bool
	titles []string
}

func (p *stubPrompter) Confirm(_ context.Context, title, _ string) (bool, error) {
	p.titles = append(p.titles, title)
	return p.answer, nil
}

func setupTestDB(t *testing.T) (*cli.Context, *stubPrompter) {
	t.Helper()
	tempDir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(tempDir, "test.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("failed to init store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	settings, err := store.GetSettings()
	if err != nil {
		t.Fatalf("failed to get settings: %v", err)
	}
	settings.Timezone = "UTC"
	if err := store.SaveSettings(settings); err != nil {
		t.Fatalf("failed to save settings: %v", err)
	}

	cfg := config.Default()
	cfg.Questions = []string{"Q0", "Q1", "Q2"}
	cfg.Camera.InboxDir = filepath.Join(tempDir, "inbox")

	clk := testutil.FixedClock()
	store.WithClock(clk)
	prompter := &stubPrompter{answer: true}
	return &cli.Context{
		Store:    store,
		Config:   cfg,
		Clock:    clk,
		IDs:      testutil.NewStubIDGenerator(),
		Prompter: prompter,
	}, prompter
}

func writeImage(t *testing.T, dir, name string) string {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, pngData, 0o644); err != nil {
		t.Fatalf("failed to write image: %v", err)
	}
	return path
}

func todayEntry(t *testing.T, ctx *cli.Context) *models.Entry {
	t.Helper()
	entry, err := ctx.Store.Fetch(ctx.Now())
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	return entry
}

func TestTodayCmd(t *testing.T) {
	ctx, _ := setupTestDB(t)
	cmd := &TodayCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("today failed: %v", err)
	}

	capture := &CaptureCmd{File: writeImage(t, t.TempDir(), "a.png"), Yes: true}
	if err := capture.Run(ctx); err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("today after capture failed: %v", err)
	}
}

func TestCaptureCmd_File(t *testing.T) {
	ctx, prompter := setupTestDB(t)

	cmd := &CaptureCmd{File: writeImage(t, t.TempDir(), "a.png"), Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("capture failed: %v", err)
	}

	entry := todayEntry(t, ctx)
	if entry == nil || !entry.HasPhoto() {
		t.Fatal("expected today's entry with a photo")
	}
	photo, _ := entry.Photo.Get()
	if photo.ContentType != "image/png" || photo.Source != "file:a.png" {
		t.Errorf("unexpected photo: %s from %s", photo.ContentType, photo.Source)
	}
	if entry.Reflection.IsPresent() {
		t.Error("expected no reflection")
	}
	if len(prompter.titles) != 1 {
		t.Errorf("expected only the permission prompt, got %v", prompter.titles)
	}

	settings, _ := ctx.Store.GetSettings()
	if settings.CameraPermission != camera.Authorized.String() {
		t.Errorf("expected permission to be recorded, got %q", settings.CameraPermission)
	}
}

func TestCaptureCmd_PermissionDenied(t *testing.T) {
	ctx, prompter := setupTestDB(t)
	prompter.answer = false

	cmd := &CaptureCmd{File: writeImage(t, t.TempDir(), "a.png"), Yes: true}
	err := cmd.Run(ctx)
	if !camera.IsPermissionError(err) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if todayEntry(t, ctx) != nil {
		t.Error("denied capture must not write an entry")
	}

	// A second attempt does not prompt again.
	if err := cmd.Run(ctx); !camera.IsPermissionError(err) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if len(prompter.titles) != 1 {
		t.Errorf("expected a single prompt, got %d", len(prompter.titles))
	}
}

func TestCaptureCmd_Restricted(t *testing.T) {
	ctx, prompter := setupTestDB(t)
	disabled := false
	ctx.Config.Camera.Enabled = &disabled

	cmd := &CaptureCmd{File: writeImage(t, t.TempDir(), "a.png"), Yes: true}
	if err := cmd.Run(ctx); !camera.IsPermissionError(err) {
		t.Fatalf("expected permission error, got %v", err)
	}
	if len(prompter.titles) != 0 {
		t.Errorf("restricted capture should not prompt, got %v", prompter.titles)
	}
}

func TestCaptureCmd_Inbox(t *testing.T) {
	ctx, _ := setupTestDB(t)
	writeImage(t, ctx.Config.Camera.InboxDir, "IMG_0001.png")

	cmd := &CaptureCmd{Yes: true}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	entry := todayEntry(t, ctx)
	if entry == nil {
		t.Fatal("expected an entry")
	}
	if photo, _ := entry.Photo.Get(); photo.Source != "inbox:IMG_0001.png" {
		t.Errorf("unexpected source %q", photo.Source)
	}
}

func TestCaptureCmd_WatchInterrupted(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := ctx.Authorizer().Set(context.Background(), camera.Authorized); err != nil {
		t.Fatalf("failed to set permission: %v", err)
	}
	if err := os.MkdirAll(ctx.Config.Camera.InboxDir, 0o755); err != nil {
		t.Fatalf("failed to create inbox: %v", err)
	}

	interrupted, cancel := context.WithCancel(context.Background())
	cancel()

	cmd := &CaptureCmd{Device: "watch", Yes: true}
	if err := cmd.run(interrupted, ctx); err != nil {
		t.Fatalf("interrupted capture should not error: %v", err)
	}
	if todayEntry(t, ctx) != nil {
		t.Error("interrupted capture must not write an entry")
	}
}

func TestCaptureCmd_ConfirmDeclined(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := ctx.Authorizer().Set(context.Background(), camera.Authorized); err != nil {
		t.Fatalf("failed to set permission: %v", err)
	}
	ctx.Prompter = &stubPrompter{answer: false}

	reflection := "hello"
	cmd := &CaptureCmd{File: writeImage(t, t.TempDir(), "a.png"), Reflection: &reflection}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("declined capture should not error: %v", err)
	}
	if todayEntry(t, ctx) != nil {
		t.Error("declined capture must not write an entry")
	}
}

func TestCaptureCmd_ReplaceKeepsReflection(t *testing.T) {
	ctx, _ := setupTestDB(t)
	dir := t.TempDir()

	reflection := "first"
	first := &CaptureCmd{File: writeImage(t, dir, "a.png"), Reflection: &reflection}
	if err := first.Run(ctx); err != nil {
		t.Fatalf("first capture failed: %v", err)
	}
	before := todayEntry(t, ctx)

	second := &CaptureCmd{File: writeImage(t, dir, "b.png"), Yes: true}
	if err := second.Run(ctx); err != nil {
		t.Fatalf("second capture failed: %v", err)
	}
	after := todayEntry(t, ctx)

	if after.ID != before.ID {
		t.Errorf("replacement changed id: %s -> %s", before.ID, after.ID)
	}
	if after.ReflectionText() != "first" {
		t.Errorf("expected reflection to survive, got %q", after.ReflectionText())
	}
	if photo, _ := after.Photo.Get(); photo.Source != "file:b.png" {
		t.Errorf("expected replaced photo, got %q", photo.Source)
	}
}

func TestReflectCmd(t *testing.T) {
	ctx, _ := setupTestDB(t)

	cmd := &ReflectCmd{Day: "yesterday", Text: "  quiet day  "}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("reflect failed: %v", err)
	}

	entry, err := ctx.Store.Fetch(ctx.Now().AddDate(0, 0, -1))
	if err != nil || entry == nil {
		t.Fatalf("expected yesterday's entry, got %v (err %v)", entry, err)
	}
	if entry.ReflectionText() != "quiet day" {
		t.Errorf("unexpected reflection %q", entry.ReflectionText())
	}
	svc, _ := ctx.Journal()
	if entry.Question != svc.QuestionFor(entry.Day) {
		t.Errorf("expected yesterday's question, got %q", entry.Question)
	}
	if entry.HasPhoto() {
		t.Error("reflection alone must not add a photo")
	}

	if err := (&ReflectCmd{Day: "15/01/2024", Text: "x"}).Run(ctx); err == nil {
		t.Error("expected error for malformed day")
	}
}

func TestArchiveCmd(t *testing.T) {
	ctx, _ := setupTestDB(t)
	cmd := &ArchiveCmd{}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("archive on empty store failed: %v", err)
	}

	for _, day := range []string{"2024-01-13", "2024-01-14"} {
		if err := (&ReflectCmd{Day: day, Text: "r"}).Run(ctx); err != nil {
			t.Fatalf("reflect failed: %v", err)
		}
	}
	cmd.Limit = 1
	if err := cmd.Run(ctx); err != nil {
		t.Errorf("archive failed: %v", err)
	}
}

func TestShowCmd(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := (&ShowCmd{Day: "2024-01-10"}).Run(ctx); err != nil {
		t.Errorf("show missing day failed: %v", err)
	}
	if err := (&ReflectCmd{Day: "today", Text: "r"}).Run(ctx); err != nil {
		t.Fatalf("reflect failed: %v", err)
	}
	if err := (&ShowCmd{Day: "today"}).Run(ctx); err != nil {
		t.Errorf("show failed: %v", err)
	}
}

func TestDeleteCmd(t *testing.T) {
	tests := []struct {
		name      string
		answer    bool
		force     bool
		photo     bool
		wantEntry bool
		wantPhoto bool
	}{
		{name: "confirmed", answer: true, wantEntry: false},
		{name: "declined", answer: false, wantEntry: true, wantPhoto: true},
		{name: "forced", answer: false, force: true, wantEntry: false},
		{name: "photo only", answer: true, photo: true, wantEntry: true, wantPhoto: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, prompter := setupTestDB(t)
			capture := &CaptureCmd{File: writeImage(t, t.TempDir(), "a.png"), Yes: true}
			if err := capture.Run(ctx); err != nil {
				t.Fatalf("capture failed: %v", err)
			}
			prompter.answer = tt.answer

			cmd := &DeleteCmd{Day: "today", Force: tt.force, Photo: tt.photo}
			if err := cmd.Run(ctx); err != nil {
				t.Fatalf("delete failed: %v", err)
			}

			entry := todayEntry(t, ctx)
			if (entry != nil) != tt.wantEntry {
				t.Fatalf("entry present = %v, want %v", entry != nil, tt.wantEntry)
			}
			if entry != nil && entry.HasPhoto() != tt.wantPhoto {
				t.Errorf("photo present = %v, want %v", entry.HasPhoto(), tt.wantPhoto)
			}
		})
	}
}

func TestDeleteCmd_MissingDay(t *testing.T) {
	ctx, prompter := setupTestDB(t)
	if err := (&DeleteCmd{Day: "2020-01-01"}).Run(ctx); err != nil {
		t.Errorf("deleting a missing day should be a no-op: %v", err)
	}
	if len(prompter.titles) != 0 {
		t.Error("should not prompt for a missing day")
	}
}

func TestExportCmd(t *testing.T) {
	ctx, _ := setupTestDB(t)
	capture := &CaptureCmd{File: writeImage(t, t.TempDir(), "a.png"), Yes: true}
	if err := capture.Run(ctx); err != nil {
		t.Fatalf("capture failed: %v", err)
	}

	out := filepath.Join(t.TempDir(), "export")
	if err := (&ExportCmd{Out: out}).Run(ctx); err != nil {
		t.Fatalf("export failed: %v", err)
	}
	index, err := export.ReadIndex(out)
	if err != nil {
		t.Fatalf("ReadIndex failed: %v", err)
	}
	if len(index.Entries) != 1 || index.Entries[0].Photo != "2024-01-15.png" {
		t.Errorf("unexpected index: %+v", index.Entries)
	}
}

func TestPhotoExportCmd(t *testing.T) {
	ctx, _ := setupTestDB(t)
	out := t.TempDir()

	if err := (&PhotoExportCmd{Day: "today", Out: out}).Run(ctx); err == nil {
		t.Error("expected error when the day has no entry")
	}

	capture := &CaptureCmd{File: writeImage(t, t.TempDir(), "a.png"), Yes: true}
	if err := capture.Run(ctx); err != nil {
		t.Fatalf("capture failed: %v", err)
	}
	if err := (&PhotoExportCmd{Day: "today", Out: out}).Run(ctx); err != nil {
		t.Fatalf("photo export failed: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(out, "2024-01-15.png"))
	if err != nil {
		t.Fatalf("expected exported photo: %v", err)
	}
	if len(data) != len(pngData) {
		t.Errorf("exported %d bytes, want %d", len(data), len(pngData))
	}
}

func TestQuestionsCmd(t *testing.T) {
	ctx, _ := setupTestDB(t)
	if err := (&QuestionsCmd{}).Run(ctx); err != nil {
		t.Errorf("questions failed: %v", err)
	}
	if err := (&QuestionsCmd{Day: "2001-01-02"}).Run(ctx); err != nil {
		t.Errorf("questions --day failed: %v", err)
	}
	if err := (&QuestionsCmd{Day: "nope"}).Run(ctx); err == nil {
		t.Error("expected error for invalid day")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 8, "this is…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.in, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
	}
}

func TestParseDayUsesClock(t *testing.T) {
	ctx, _ := setupTestDB(t)
	day, err := ctx.ParseDay("yesterday")
	if err != nil {
		t.Fatalf("ParseDay failed: %v", err)
	}
	want := time.Date(2024, 1, 14, 0, 0, 0, 0, time.UTC)
	if !day.Equal(want) {
		t.Errorf("ParseDay(yesterday) = %v, want %v", day, want)
	}
}
