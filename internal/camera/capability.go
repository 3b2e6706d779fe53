package camera

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/models"
)

var (
	// ErrCancelled means the user dismissed the prompt or the capture.
	ErrCancelled   = errors.New("capture cancelled")
	ErrUnavailable = errors.New("no camera device available")
	ErrNoPhoto     = errors.New("no photo found")
	ErrNotImage    = errors.New("file is not a supported image")
	ErrTooLarge    = fmt.Errorf("photo exceeds %d MiB", constants.MaxPhotoBytes>>20)
)

// PermissionError is returned when capture is blocked by the stored permission.
type PermissionError struct {
	Permission Permission
}

func (e *PermissionError) Error() string {
	switch e.Permission {
	case Restricted:
		return "camera capture is disabled in config.toml ([camera] enabled = false)"
	case NotDetermined:
		return fmt.Sprintf("camera access has not been granted; run `%s settings --camera-access=allow` to enable it", constants.AppName)
	}
	return fmt.Sprintf("camera access is %s; run `%s settings --camera-access=allow` to enable it", e.Permission, constants.AppName)
}

// Device produces a photo.
type Device interface {
	Available() bool
	Capture(ctx context.Context) (models.Photo, error)
}

// Capability pairs an authorizer with a device. Both are injected per use.
type Capability struct {
	Auth   Authorizer
	Device Device
}

// Acquire checks permission, requesting it if undecided, then captures.
func (c Capability) Acquire(ctx context.Context) (models.Photo, error) {
	status, err := c.Auth.Status(ctx)
	if err != nil {
		return models.Photo{}, fmt.Errorf("failed to read camera permission: %w", err)
	}

	switch status {
	case Authorized:
	case NotDetermined:
		granted, err := c.Auth.Request(ctx)
		if err != nil {
			return models.Photo{}, fmt.Errorf("failed to request camera permission: %w", err)
		}
		if !granted {
			if status, err = c.Auth.Status(ctx); err != nil || status == Authorized {
				status = Denied
			}
			return models.Photo{}, &PermissionError{Permission: status}
		}
	default:
		return models.Photo{}, &PermissionError{Permission: status}
	}

	if c.Device == nil || !c.Device.Available() {
		return models.Photo{}, ErrUnavailable
	}
	return c.Device.Capture(ctx)
}

// IsPermissionError reports whether err was caused by a missing grant.
func IsPermissionError(err error) bool {
	var pe *PermissionError
	return errors.As(err, &pe)
}
