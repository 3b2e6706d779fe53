package postgres

import (
	"database/sql"
	"fmt"
	"io/fs"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/julianstephens/oversight/internal/clock"
	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/errors"
	"github.com/julianstephens/oversight/internal/logger"
	"github.com/julianstephens/oversight/internal/migration"
	"github.com/julianstephens/oversight/internal/models"
	"github.com/julianstephens/oversight/migrations"
)

type Store struct {
	connStr string
	db      *sql.DB
	loc     *time.Location
	clock   clock.Clock
}

func New(connStr string) *Store {
	return &Store{
		connStr: withSearchPath(connStr),
		loc:     time.Local,
		clock:   clock.RealClock{},
	}
}

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

func (s *Store) connect() error {
	db, err := sql.Open("postgres", s.connStr)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		if strings.Contains(err.Error(), "SSL is not enabled on the server") && !hasParam(s.connStr, "sslmode") {
			return fmt.Errorf("failed to connect to database: %w (hint: try adding ?sslmode=disable to your connection string)", err)
		}
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) Init() error {
	if err := s.connect(); err != nil {
		return errors.Storage("init", err)
	}

	if _, err := s.db.Exec("CREATE SCHEMA IF NOT EXISTS " + constants.AppName); err != nil {
		return errors.Storage("init", fmt.Errorf("failed to create schema: %w", err))
	}

	if _, err := s.runner().ApplyMigrations(func(msg string) { logger.Info(msg) }); err != nil {
		return errors.Storage("init", fmt.Errorf("failed to run migrations: %w", err))
	}

	settings, err := s.GetSettings()
	if err != nil {
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
	if err := s.connect(); err != nil {
		return errors.Storage("load", err)
	}
	return errors.Storage("load", s.runner().ValidateVersion())
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	s.db = nil
	return errors.Storage("close", err)
}

func (s *Store) runner() *migration.Runner {
	subFS, _ := fs.Sub(migrations.FS, "postgres")
	return migration.NewRunner(s.db, subFS, migration.Postgres)
}

// Migrate applies pending migrations and returns how many ran.
func (s *Store) Migrate(logFn func(string)) (int, error) {
	if s.db == nil {
		if err := s.connect(); err != nil {
			return 0, errors.Storage("migrate", err)
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

// GetConfigPath returns a non-sensitive identifier instead of the connection string.
func (s *Store) GetConfigPath() string {
	return "postgresql"
}
