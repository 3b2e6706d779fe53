package camera

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/logger"
	"github.com/julianstephens/oversight/internal/models"
)

// InboxDevice picks the newest image in a directory that another tool
// (a phone sync folder, a screenshot directory) drops photos into.
type InboxDevice struct {
	Dir      string
	Patterns []string
	// Since ignores files modified before it when non-zero.
	Since time.Time
}

func (d InboxDevice) patterns() []string {
	if len(d.Patterns) == 0 {
		return constants.DefaultInboxPatterns
	}
	return d.Patterns
}

func (d InboxDevice) Available() bool {
	info, err := os.Stat(d.Dir)
	return err == nil && info.IsDir()
}

// Matches reports whether name, relative to the inbox, matches a pattern.
func (d InboxDevice) Matches(name string) bool {
	for _, pattern := range d.patterns() {
		if ok, err := doublestar.Match(pattern, filepath.ToSlash(name)); err == nil && ok {
			return true
		}
	}
	return false
}

// Newest returns the path of the most recently modified matching file.
func (d InboxDevice) Newest() (string, error) {
	fsys := os.DirFS(d.Dir)
	var (
		newest     string
		newestTime time.Time
	)
	for _, pattern := range d.patterns() {
		matches, err := doublestar.Glob(fsys, pattern, doublestar.WithFilesOnly())
		if err != nil {
			return "", fmt.Errorf("invalid inbox pattern %q: %w", pattern, err)
		}
		for _, name := range matches {
			info, err := fs.Stat(fsys, name)
			if err != nil {
				logger.Debug("Skipping inbox file", "name", name, "error", err)
				continue
			}
			if !d.Since.IsZero() && info.ModTime().Before(d.Since) {
				continue
			}
			if newest == "" || info.ModTime().After(newestTime) {
				newest, newestTime = name, info.ModTime()
			}
		}
	}
	if newest == "" {
		return "", fmt.Errorf("%w in %s", ErrNoPhoto, d.Dir)
	}
	return filepath.Join(d.Dir, filepath.FromSlash(newest)), nil
}

func (d InboxDevice) Capture(ctx context.Context) (models.Photo, error) {
	if ctx.Err() != nil {
		return models.Photo{}, ErrCancelled
	}
	path, err := d.Newest()
	if err != nil {
		return models.Photo{}, err
	}
	return ReadPhoto(path, "inbox:"+filepath.Base(path))
}
