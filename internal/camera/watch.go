package camera

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/julianstephens/oversight/internal/logger"
	"github.com/julianstephens/oversight/internal/models"
)

const defaultSettleDelay = 500 * time.Millisecond

// WatchDevice waits for a new image to land in an inbox directory. It blocks
// until one arrives or ctx is cancelled.
type WatchDevice struct {
	Inbox InboxDevice
	// SettleDelay is how long a file must go without writes before it is read.
	SettleDelay time.Duration
	// Ready, when set, is closed once the watch is registered.
	Ready chan<- struct{}
}

func (d WatchDevice) Available() bool {
	return d.Inbox.Available()
}

func (d WatchDevice) Capture(ctx context.Context) (models.Photo, error) {
	settle := d.SettleDelay
	if settle <= 0 {
		settle = defaultSettleDelay
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return models.Photo{}, fmt.Errorf("failed to create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(d.Inbox.Dir); err != nil {
		return models.Photo{}, fmt.Errorf("failed to watch %s: %w", d.Inbox.Dir, err)
	}
	logger.Debug("Waiting for a photo", "dir", d.Inbox.Dir)
	if d.Ready != nil {
		close(d.Ready)
	}

	ticker := time.NewTicker(settle / 2)
	defer ticker.Stop()

	// path -> time of the most recent write
	pending := map[string]time.Time{}

	for {
		select {
		case <-ctx.Done():
			return models.Photo{}, ErrCancelled

		case event, ok := <-fsw.Events:
			if !ok {
				return models.Photo{}, ErrCancelled
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
				continue
			}
			rel, err := filepath.Rel(d.Inbox.Dir, event.Name)
			if err != nil || !d.Inbox.Matches(rel) {
				continue
			}
			pending[event.Name] = time.Now()

		case err, ok := <-fsw.Errors:
			if !ok {
				return models.Photo{}, ErrCancelled
			}
			logger.Warn("Watcher error", "error", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < settle {
					continue
				}
				delete(pending, path)
				photo, err := ReadPhoto(path, "watch:"+filepath.Base(path))
				if err != nil {
					if errors.Is(err, ErrNotImage) || errors.Is(err, ErrNoPhoto) {
						logger.Warn("Ignoring file in inbox", "path", path, "error", err)
						continue
					}
					return models.Photo{}, err
				}
				return photo, nil
			}
		}
	}
}
