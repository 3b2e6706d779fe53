package sqlite

import (
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/julianstephens/oversight/internal/clock"
	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/errors"
	"github.com/julianstephens/oversight/internal/logger"
	"github.com/julianstephens/oversight/internal/migration"
	"github.com/julianstephens/oversight/internal/models"
	"github.com/julianstephens/oversight/migrations"
)

type Store struct {
	path  string
	db    *sql.DB
	loc   *time.Location
	clock clock.Clock
}

func NewStore(path string) *Store {
	return &Store{
		path:  path,
		loc:   time.Local,
		clock: clock.RealClock{},
	}
}

// WithClock replaces the clock used for timestamps the store fills in.
func (s *Store) WithClock(c clock.Clock) *Store {
	s.clock = c
	return s
}

func (s *Store) SetLocation(loc *time.Location) {
	if loc == nil {
		loc = time.Local
	}
	s.loc = loc
}

func (s *Store) Init() error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return errors.Storage("init", fmt.Errorf("failed to create config directory: %w", err))
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.runMigrations(); err != nil {
		return errors.Storage("init", fmt.Errorf("failed to run migrations: %w", err))
	}

	// Fill in any settings keys that are missing.
	settings, err := s.GetSettings()
	if err != nil {
		logger.Debug("No readable settings, writing defaults", "error", err)
		settings = models.DefaultSettings()
	}
	models.ApplyDefaultSettings(&settings)
	if err := s.SaveSettings(settings); err != nil {
		return errors.Storage("init", fmt.Errorf("failed to save default settings: %w", err))
	}

	return nil
}

func (s *Store) Load() error {
	if s.db != nil {
		return nil
	}

	if _, err := os.Stat(s.path); os.IsNotExist(err) {
		return errors.Storage("load", fmt.Errorf("storage not initialized, run '%s init' first", constants.AppName))
	}

	if err := s.open(); err != nil {
		return err
	}

	if err := s.runner().ValidateVersion(); err != nil {
		return errors.Storage("load", err)
	}
	return nil
}

func (s *Store) open() error {
	db, err := sql.Open("sqlite", s.path)
	if err != nil {
		return errors.Storage("open", fmt.Errorf("failed to open database: %w", err))
	}
	// One writer; keeps each upsert serialized with its lookup.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON; PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return errors.Storage("open", fmt.Errorf("failed to configure database: %w", err))
	}
	s.db = db
	return nil
}

func (s *Store) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return errors.Storage("close", err)
	}
	return nil
}

func (s *Store) runner() *migration.Runner {
	// The embedded tree always contains the sqlite directory.
	subFS, _ := fs.Sub(migrations.FS, "sqlite")
	return migration.NewRunner(s.db, subFS, migration.SQLite)
}

func (s *Store) runMigrations() error {
	_, err := s.runner().ApplyMigrations(func(msg string) {
		logger.Info(msg)
	})
	return err
}

// Migrate applies pending migrations and returns how many ran.
func (s *Store) Migrate(logFn func(string)) (int, error) {
	if s.db == nil {
		if _, err := os.Stat(s.path); err != nil {
			return 0, errors.Storage("migrate", err)
		}
		if err := s.open(); err != nil {
			return 0, err
		}
	}
	n, err := s.runner().ApplyMigrations(logFn)
	return n, errors.Storage("migrate", err)
}

func (s *Store) SchemaStatus() (int, int, error) {
	if s.db == nil {
		return 0, 0, errors.Storage("schema status", fmt.Errorf("database not loaded"))
	}
	current, latest, err := s.runner().Status()
	return current, latest, errors.Storage("schema status", err)
}

func (s *Store) GetConfigPath() string {
	return s.path
}

// GetDB returns the underlying database connection, or nil before Init/Load.
func (s *Store) GetDB() *sql.DB {
	return s.db
}
