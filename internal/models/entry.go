package models

import (
	"time"

	"github.com/julianstephens/oversight/internal/utils"
)

// Photo is a captured image payload.
type Photo struct {
	Data        []byte `json:"-" yaml:"-"`
	ContentType string `json:"content_type" yaml:"content_type"`
	Source      string `json:"source,omitempty" yaml:"source,omitempty"`
}

// Size returns the payload length in bytes.
func (p Photo) Size() int {
	return len(p.Data)
}

// Entry is the single journal record for one calendar day.
type Entry struct {
	ID         string
	Day        time.Time // always the start of the day
	Question   string
	Photo      Optional[Photo]
	Reflection Optional[string]
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// NewEntry builds an entry for the day containing day, normalized in loc.
func NewEntry(id string, day time.Time, loc *time.Location, question string, now time.Time) Entry {
	return Entry{
		ID:        id,
		Day:       utils.StartOfDay(day, loc),
		Question:  question,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// DayKey returns the persisted YYYY-MM-DD key for the entry.
func (e Entry) DayKey() string {
	return utils.DayKey(e.Day, e.Day.Location())
}

// HasPhoto reports whether a photo has been captured.
func (e Entry) HasPhoto() bool {
	return e.Photo.IsPresent()
}

// ReflectionText returns the reflection, or "" if none was written.
func (e Entry) ReflectionText() string {
	return e.Reflection.ValueOr("")
}

// SetPhoto replaces the photo and touches UpdatedAt.
func (e *Entry) SetPhoto(p Photo, now time.Time) {
	e.Photo = Some(p)
	e.UpdatedAt = now
}

// ClearPhoto removes the photo and touches UpdatedAt.
func (e *Entry) ClearPhoto(now time.Time) {
	e.Photo = None[Photo]()
	e.UpdatedAt = now
}

// SetReflection replaces the reflection and touches UpdatedAt.
func (e *Entry) SetReflection(text string, now time.Time) {
	e.Reflection = Some(text)
	e.UpdatedAt = now
}
