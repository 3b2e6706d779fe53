// Package journal is the view-model layer shared by the CLI and the TUI. It
// ties the question selector, the entry store and camera capture together.
package journal

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/oversight/internal/camera"
	"github.com/julianstephens/oversight/internal/clock"
	"github.com/julianstephens/oversight/internal/logger"
	"github.com/julianstephens/oversight/internal/models"
	"github.com/julianstephens/oversight/internal/questions"
	"github.com/julianstephens/oversight/internal/storage"
	"github.com/julianstephens/oversight/internal/utils"
)

// ErrNoEntry is returned when an operation needs an existing entry for a day.
var ErrNoEntry = errors.New("no entry for that day")

// Today is what the Today screen shows.
type Today struct {
	Day      time.Time
	Question string
	Entry    *models.Entry
}

// Answered reports whether today's question has a photo.
func (t Today) Answered() bool {
	return t.Entry != nil && t.Entry.HasPhoto()
}

// ConfirmFunc shows the captured photo with the question and collects an
// optional reflection. ok is false when the user discards the photo.
type ConfirmFunc func(ctx context.Context, question string, photo models.Photo, existing *models.Entry) (reflection models.Optional[string], ok bool, err error)

type Service struct {
	store    storage.Provider
	selector *questions.Selector
	clock    clock.Clock
	ids      clock.IDGenerator
}

func NewService(store storage.Provider, selector *questions.Selector, clk clock.Clock, ids clock.IDGenerator) *Service {
	if clk == nil {
		clk = clock.RealClock{}
	}
	if ids == nil {
		ids = clock.UUIDGenerator{}
	}
	store.SetLocation(selector.Location())
	return &Service{store: store, selector: selector, clock: clk, ids: ids}
}

// Location is the timezone days are counted in.
func (s *Service) Location() *time.Location {
	return s.selector.Location()
}

// Day returns the start of the day containing t.
func (s *Service) Day(t time.Time) time.Time {
	return utils.StartOfDay(t, s.Location())
}

// QuestionFor returns the question assigned to the day containing t.
func (s *Service) QuestionFor(t time.Time) string {
	return s.selector.QuestionFor(t)
}

// Questions returns the question bank in rotation order.
func (s *Service) Questions() []string {
	return s.selector.Questions()
}

// QuestionIndex returns the bank index for the day containing t, or -1
// when the bank is empty.
func (s *Service) QuestionIndex(t time.Time) int {
	return s.selector.IndexFor(t)
}

// Today loads today's question and entry. A failed fetch is logged and
// reported as no entry.
func (s *Service) Today() Today {
	now := s.clock.Now()
	today := Today{
		Day:      s.Day(now),
		Question: s.selector.QuestionFor(now),
	}
	entry, err := s.store.Fetch(now)
	if err != nil {
		logger.Error("Failed to fetch today's entry", "error", err)
		return today
	}
	today.Entry = entry
	return today
}

// Archive returns every entry, newest first. A failed fetch is logged and
// reported as an empty archive.
func (s *Service) Archive() []models.Entry {
	entries, err := s.store.FetchAll()
	if err != nil {
		logger.Error("Failed to fetch archive", "error", err)
		return []models.Entry{}
	}
	return entries
}

// Entry returns the entry for the day containing day, or nil.
func (s *Service) Entry(day time.Time) (*models.Entry, error) {
	return s.store.Fetch(day)
}

// Confirm saves photo and reflection as today's answer. An existing entry
// keeps its id and question; otherwise a new entry gets today's question.
func (s *Service) Confirm(photo models.Photo, reflection models.Optional[string]) (models.Entry, error) {
	now := s.clock.Now()
	existing, err := s.store.Fetch(now)
	if err != nil {
		logger.Error("Failed to load today's entry before saving", "error", err)
		return models.Entry{}, err
	}

	var entry models.Entry
	if existing != nil {
		entry = *existing
	} else {
		entry = models.NewEntry(s.ids.New(), now, s.Location(), s.selector.QuestionFor(now), now)
	}
	entry.SetPhoto(photo, now)
	entry.Reflection = reflection

	if err := s.store.Upsert(entry); err != nil {
		logger.Error("Failed to save entry", "day", entry.DayKey(), "error", err)
		return models.Entry{}, err
	}
	logger.Info("Entry saved", "day", entry.DayKey(), "replaced", existing != nil, "bytes", photo.Size())
	return entry, nil
}

// SetReflection writes text as the reflection for day, creating an entry
// without a photo when the day has none.
func (s *Service) SetReflection(day time.Time, text string) (models.Entry, error) {
	now := s.clock.Now()
	existing, err := s.store.Fetch(day)
	if err != nil {
		logger.Error("Failed to load entry", "error", err)
		return models.Entry{}, err
	}

	var entry models.Entry
	if existing != nil {
		entry = *existing
	} else {
		entry = models.NewEntry(s.ids.New(), day, s.Location(), s.selector.QuestionFor(day), now)
	}
	entry.SetReflection(text, now)

	if err := s.store.Upsert(entry); err != nil {
		logger.Error("Failed to save reflection", "day", entry.DayKey(), "error", err)
		return models.Entry{}, err
	}
	return entry, nil
}

// ClearPhoto removes the photo from day's entry, keeping the entry itself.
func (s *Service) ClearPhoto(day time.Time) (models.Entry, error) {
	existing, err := s.store.Fetch(day)
	if err != nil {
		logger.Error("Failed to load entry", "error", err)
		return models.Entry{}, err
	}
	if existing == nil {
		return models.Entry{}, fmt.Errorf("%w: %s", ErrNoEntry, utils.DayKey(day, s.Location()))
	}

	entry := *existing
	entry.ClearPhoto(s.clock.Now())
	if err := s.store.Upsert(entry); err != nil {
		logger.Error("Failed to clear photo", "day", entry.DayKey(), "error", err)
		return models.Entry{}, err
	}
	return entry, nil
}

// Delete removes day's entry. Deleting a day with no entry is a no-op.
func (s *Service) Delete(day time.Time) error {
	if err := s.store.DeleteDay(day); err != nil {
		logger.Error("Failed to delete entry", "day", utils.DayKey(day, s.Location()), "error", err)
		return err
	}
	logger.Info("Entry deleted", "day", utils.DayKey(day, s.Location()))
	return nil
}

// Capture runs the gated capture flow: permission, capture, confirmation,
// save. Nothing is written unless confirm accepts the photo; a dismissal
// anywhere returns camera.ErrCancelled.
func (s *Service) Capture(ctx context.Context, capability camera.Capability, confirm ConfirmFunc) (*models.Entry, error) {
	photo, err := capability.Acquire(ctx)
	if err != nil {
		if !errors.Is(err, camera.ErrCancelled) && !camera.IsPermissionError(err) {
			logger.Error("Capture failed", "error", err)
		}
		return nil, err
	}

	today := s.Today()
	reflection := models.None[string]()
	if confirm != nil {
		var ok bool
		reflection, ok, err = confirm(ctx, today.Question, photo, today.Entry)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, camera.ErrCancelled
		}
	}

	entry, err := s.Confirm(photo, reflection)
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ReflectionFrom turns form input into a reflection. Blank input on an entry
// that never had a reflection stays absent.
func ReflectionFrom(text string, existing *models.Entry) models.Optional[string] {
	text = strings.TrimSpace(text)
	if text == "" && (existing == nil || !existing.Reflection.IsPresent()) {
		return models.None[string]()
	}
	return models.Some(text)
}
