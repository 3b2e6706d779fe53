package errors

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/julianstephens/oversight/internal/logger"
)

// StorageError reports a failed read, write or commit against the journal store.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// Storage wraps err as a StorageError for op. It returns nil for a nil err and
// leaves an existing StorageError untouched.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	var se *StorageError
	if stderrors.As(err, &se) {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

// IsStorage reports whether err is, or wraps, a StorageError.
func IsStorage(err error) bool {
	var se *StorageError
	return stderrors.As(err, &se)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
