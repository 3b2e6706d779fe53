package sqlite

import (
	"fmt"

	"github.com/julianstephens/oversight/internal/errors"
	"github.com/julianstephens/oversight/internal/models"
)

func (s *Store) GetSettings() (models.Settings, error) {
	rows, err := s.db.Query("SELECT key, value FROM settings")
	if err != nil {
		return models.Settings{}, errors.Storage("get settings", err)
	}
	defer rows.Close()

	data := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.Settings{}, errors.Storage("get settings", err)
		}
		data[key] = value
	}
	if err := rows.Err(); err != nil {
		return models.Settings{}, errors.Storage("get settings", err)
	}
	if len(data) == 0 {
		return models.Settings{}, errors.Storage("get settings", fmt.Errorf("settings not found"))
	}

	settings, err := models.MapToSettings(data)
	if err != nil {
		return models.Settings{}, errors.Storage("get settings", err)
	}
	return settings, nil
}

func (s *Store) SaveSettings(settings models.Settings) error {
	tx, err := s.db.Begin()
	if err != nil {
		return errors.Storage("save settings", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)")
	if err != nil {
		return errors.Storage("save settings", err)
	}
	defer stmt.Close()

	for key, value := range models.SettingsToMap(settings) {
		if _, err := stmt.Exec(key, value); err != nil {
			return errors.Storage("save settings", fmt.Errorf("%s: %w", key, err))
		}
	}

	return errors.Storage("save settings", tx.Commit())
}
