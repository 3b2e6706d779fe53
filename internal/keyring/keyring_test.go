package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestConnectionStringLifecycle(t *testing.T) {
	gokeyring.MockInit()

	const connStr = "postgres://journal@localhost:5432/oversight?sslmode=disable"

	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetConnectionString() on empty keyring error = %v, want ErrNotFound", err)
	}

	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString failed: %v", err)
	}
	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString failed: %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want %q", got, connStr)
	}

	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString failed: %v", err)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteConnectionString() error = %v, want ErrNotFound", err)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()
	if err := SetConnectionString(""); err == nil {
		t.Error("SetConnectionString(\"\") should return an error")
	}
}

func TestKeyringUnavailable(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("dbus not running"))
	t.Cleanup(gokeyring.MockInit)

	if IsAvailable() {
		t.Error("expected keyring to be unavailable")
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetConnectionString() error = %v, want ErrKeyringUnavailable", err)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()
	if !IsAvailable() {
		t.Error("expected mock keyring to be available")
	}
}
