package sqlite

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/julianstephens/oversight/internal/errors"
	"github.com/julianstephens/oversight/internal/models"
	"github.com/julianstephens/oversight/internal/storage"
)

func (s *Store) FetchAll() ([]models.Entry, error) {
	rows, err := s.db.Query("SELECT " + storage.EntryColumns + " FROM entries ORDER BY day DESC")
	if err != nil {
		return nil, errors.Storage("fetch all", err)
	}
	defer rows.Close()

	entries := []models.Entry{}
	for rows.Next() {
		e, err := storage.ScanEntry(rows, s.loc)
		if err != nil {
			return nil, errors.Storage("fetch all", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage("fetch all", err)
	}
	return entries, nil
}

func (s *Store) Fetch(day time.Time) (*models.Entry, error) {
	row := s.db.QueryRow("SELECT "+storage.EntryColumns+" FROM entries WHERE day = ?", storage.DayKey(day, s.loc))
	e, err := storage.ScanEntry(row, s.loc)
	if err != nil {
		if stderrors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, errors.Storage("fetch", err)
	}
	return &e, nil
}

// Upsert writes e as the entry for its day. An existing row keeps its id and
// created_at; everything else is overwritten.
func (s *Store) Upsert(e models.Entry) error {
	now := s.clock.Now()
	v := storage.ValuesFor(e, s.loc, now)

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Storage("upsert", err)
	}
	defer tx.Rollback()

	var existingID, existingUpdated string
	err = tx.QueryRow("SELECT id, updated_at FROM entries WHERE day = ?", v.DayKey).Scan(&existingID, &existingUpdated)
	switch {
	case err == nil:
		v.RefreshUpdatedAt(existingUpdated, now)
		_, err = tx.Exec(`
			UPDATE entries
			SET question = ?, photo = ?, photo_type = ?, photo_source = ?, reflection = ?, updated_at = ?
			WHERE id = ?`,
			v.Question, v.Photo, v.PhotoType, v.PhotoSource, v.Reflection, v.UpdatedAt, existingID)
		if err != nil {
			return errors.Storage("upsert", fmt.Errorf("failed to update entry %s: %w", v.DayKey, err))
		}
	case stderrors.Is(err, sql.ErrNoRows):
		if e.ID == "" {
			return errors.Storage("upsert", fmt.Errorf("entry for %s has no id", v.DayKey))
		}
		_, err = tx.Exec(`
			INSERT INTO entries (`+storage.EntryColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, v.DayKey, v.Question, v.Photo, v.PhotoType, v.PhotoSource, v.Reflection, v.CreatedAt, v.UpdatedAt)
		if err != nil {
			return errors.Storage("upsert", fmt.Errorf("failed to insert entry %s: %w", v.DayKey, err))
		}
	default:
		return errors.Storage("upsert", err)
	}

	return errors.Storage("upsert", tx.Commit())
}

func (s *Store) Delete(e models.Entry) error {
	return s.DeleteDay(e.Day)
}

// DeleteDay removes the entry for the day containing day. A missing entry is not an error.
func (s *Store) DeleteDay(day time.Time) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Storage("delete", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM entries WHERE day = ?", storage.DayKey(day, s.loc)); err != nil {
		return errors.Storage("delete", err)
	}
	return errors.Storage("delete", tx.Commit())
}
