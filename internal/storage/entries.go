package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/julianstephens/oversight/internal/models"
	"github.com/julianstephens/oversight/internal/utils"
)

// TimestampLayout is the layout created_at and updated_at are stored in.
const TimestampLayout = time.RFC3339Nano

// EntryColumns lists the entries columns in the order ScanEntry expects.
const EntryColumns = "id, day, question, photo, photo_type, photo_source, reflection, created_at, updated_at"

// RowScanner is satisfied by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

// ScanEntry reads one entries row, parsing the day key in loc.
func ScanEntry(row RowScanner, loc *time.Location) (models.Entry, error) {
	var (
		e                    models.Entry
		dayKey               string
		photo                []byte
		photoType, source    sql.NullString
		reflection           sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&e.ID, &dayKey, &e.Question, &photo, &photoType, &source, &reflection, &createdAt, &updatedAt); err != nil {
		return models.Entry{}, err
	}

	day, err := utils.ParseDay(dayKey, loc)
	if err != nil {
		return models.Entry{}, fmt.Errorf("entry %s: %w", e.ID, err)
	}
	e.Day = day

	if len(photo) > 0 {
		e.Photo = models.Some(models.Photo{
			Data:        photo,
			ContentType: photoType.String,
			Source:      source.String,
		})
	}
	if reflection.Valid {
		e.Reflection = models.Some(reflection.String)
	}

	if e.CreatedAt, err = time.Parse(TimestampLayout, createdAt); err != nil {
		return models.Entry{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if e.UpdatedAt, err = time.Parse(TimestampLayout, updatedAt); err != nil {
		return models.Entry{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return e, nil
}

// EntryValues holds the column values written for an entry.
type EntryValues struct {
	DayKey      string
	Question    string
	Photo       []byte
	PhotoType   sql.NullString
	PhotoSource sql.NullString
	Reflection  sql.NullString
	CreatedAt   string
	UpdatedAt   string
}

// ValuesFor normalizes e's day in loc and converts optional fields to
// nullable columns. Zero timestamps are replaced with now. A photo with no
// bytes is written as NULL.
func ValuesFor(e models.Entry, loc *time.Location, now time.Time) EntryValues {
	v := EntryValues{
		DayKey:   utils.DayKey(e.Day, loc),
		Question: e.Question,
	}
	if p, ok := e.Photo.Get(); ok && len(p.Data) > 0 {
		v.Photo = p.Data
		v.PhotoType = sql.NullString{String: p.ContentType, Valid: true}
		v.PhotoSource = sql.NullString{String: p.Source, Valid: p.Source != ""}
	}
	if r, ok := e.Reflection.Get(); ok {
		v.Reflection = sql.NullString{String: r, Valid: true}
	}

	created, updated := e.CreatedAt, e.UpdatedAt
	if created.IsZero() {
		created = now
	}
	if updated.IsZero() || updated.Before(created) {
		updated = now
	}
	v.CreatedAt = created.UTC().Format(TimestampLayout)
	v.UpdatedAt = updated.UTC().Format(TimestampLayout)
	return v
}

// RefreshUpdatedAt guarantees UpdatedAt moves forward past prev, the
// updated_at of the row being overwritten.
func (v *EntryValues) RefreshUpdatedAt(prev string, now time.Time) {
	prevTime, err := time.Parse(TimestampLayout, prev)
	if err != nil {
		return
	}
	current, err := time.Parse(TimestampLayout, v.UpdatedAt)
	if err == nil && current.After(prevTime) {
		return
	}
	next := now
	if !next.After(prevTime) {
		next = prevTime.Add(time.Millisecond)
	}
	v.UpdatedAt = next.UTC().Format(TimestampLayout)
}

// DayKey normalizes t in loc and returns its persisted key.
func DayKey(t time.Time, loc *time.Location) string {
	return utils.DayKey(t, loc)
}
