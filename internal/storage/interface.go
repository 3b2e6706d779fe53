package storage

import (
	"time"

	"github.com/julianstephens/oversight/internal/models"
)

// Provider is the journal store. Every method that touches the database
// returns a *errors.StorageError on failure.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Settings
	GetSettings() (models.Settings, error)
	SaveSettings(models.Settings) error

	// SetLocation sets the timezone entry days are normalized in.
	SetLocation(loc *time.Location)

	// Entries
	FetchAll() ([]models.Entry, error)
	Fetch(day time.Time) (*models.Entry, error)
	Upsert(models.Entry) error
	Delete(models.Entry) error
	DeleteDay(day time.Time) error

	// Schema
	SchemaStatus() (current, latest int, err error)

	// Utils
	GetConfigPath() string
}
