package postgres

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
	return entries, errors.Storage("fetch all", rows.Err())
}

func (s *Store) Fetch(day time.Time) (*models.Entry, error) {
	row := s.db.QueryRow("SELECT "+storage.EntryColumns+" FROM entries WHERE day = $1", storage.DayKey(day, s.loc))
	e, err := storage.ScanEntry(row, s.loc)
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Storage("fetch", err)
	}
	return &e, nil
}

func (s *Store) Upsert(e models.Entry) error {
	now := s.clock.Now()
	v := storage.ValuesFor(e, s.loc, now)

	tx, err := s.db.Begin()
	if err != nil {
		return errors.Storage("upsert", err)
	}
	defer tx.Rollback()

	// Row lock so a concurrent writer cannot slip an insert in between.
	var existingID, existingUpdated string
	err = tx.QueryRow("SELECT id, updated_at FROM entries WHERE day = $1 FOR UPDATE", v.DayKey).Scan(&existingID, &existingUpdated)
	switch {
	case err == nil:
		v.RefreshUpdatedAt(existingUpdated, now)
		_, err = tx.Exec(`
			UPDATE entries
			SET question = $1, photo = $2, photo_type = $3, photo_source = $4, reflection = $5, updated_at = $6
			WHERE id = $7`,
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
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
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

func (s *Store) DeleteDay(day time.Time) error {
	_, err := s.db.Exec("DELETE FROM entries WHERE day = $1", storage.DayKey(day, s.loc))
	return errors.Storage("delete", err)
}
