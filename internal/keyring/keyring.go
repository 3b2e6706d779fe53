package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/oversight/internal/constants"
)

var (
	// ErrNotFound is returned when no connection string is stored.
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring cannot be reached.
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// GetConnectionString returns the PostgreSQL connection string saved with
// `oversight keyring set`.
func GetConnectionString() (string, error) {
	connStr, err := keyring.Get(constants.AppName, constants.DefaultKeyringUser)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return connStr, nil
}

func SetConnectionString(connStr string) error {
	if connStr == "" {
		return errors.New("connection string cannot be empty")
	}
	if err := keyring.Set(constants.AppName, constants.DefaultKeyringUser, connStr); err != nil {
		return fmt.Errorf("failed to store credentials in keyring: %w", err)
	}
	return nil
}

func DeleteConnectionString() error {
	if err := keyring.Delete(constants.AppName, constants.DefaultKeyringUser); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete credentials from keyring: %w", err)
	}
	return nil
}

// IsAvailable probes the keyring with a read. A not-found answer still
// means the keyring works.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "availability-probe")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
