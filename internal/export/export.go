// Package export writes the journal archive to a directory: one file per
// photo plus an index.yaml describing every entry.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/oversight/internal/camera"
	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/models"
)

const IndexFile = constants.ExportIndexName

// Record is one entry as listed in index.yaml.
type Record struct {
	Day         string    `yaml:"day"`
	Question    string    `yaml:"question"`
	Reflection  *string   `yaml:"reflection,omitempty"`
	Photo       string    `yaml:"photo,omitempty"`
	ContentType string    `yaml:"content_type,omitempty"`
	Source      string    `yaml:"source,omitempty"`
	Size        string    `yaml:"size,omitempty"`
	CreatedAt   time.Time `yaml:"created_at"`
	UpdatedAt   time.Time `yaml:"updated_at"`
}

type Index struct {
	ExportedAt time.Time `yaml:"exported_at"`
	Entries    []Record  `yaml:"entries"`
}

// Result summarizes an export run.
type Result struct {
	Dir        string
	Entries    int
	Photos     int
	PhotoBytes int64
}

func (r Result) String() string {
	return fmt.Sprintf("%d entries, %d photos (%s) exported to %s",
		r.Entries, r.Photos, humanize.Bytes(uint64(r.PhotoBytes)), r.Dir)
}

// PhotoName is the file name a day's photo is exported as.
func PhotoName(e models.Entry) string {
	p, ok := e.Photo.Get()
	if !ok {
		return ""
	}
	return e.DayKey() + camera.Extension(p.ContentType)
}

// WritePhoto writes the entry's photo to path.
func WritePhoto(e models.Entry, path string) error {
	p, ok := e.Photo.Get()
	if !ok {
		return fmt.Errorf("entry for %s has no photo", e.DayKey())
	}
	if err := os.WriteFile(path, p.Data, 0o600); err != nil {
		return fmt.Errorf("failed to write photo: %w", err)
	}
	return nil
}

// Export writes entries into dir, creating it if needed. Existing files
// with the same names are overwritten.
func Export(entries []models.Entry, dir string, now time.Time) (Result, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	res := Result{Dir: dir, Entries: len(entries)}
	index := Index{ExportedAt: now.UTC(), Entries: make([]Record, 0, len(entries))}
	for _, e := range entries {
		rec := Record{
			Day:       e.DayKey(),
			Question:  e.Question,
			CreatedAt: e.CreatedAt.UTC(),
			UpdatedAt: e.UpdatedAt.UTC(),
		}
		if text, ok := e.Reflection.Get(); ok {
			rec.Reflection = &text
		}
		if p, ok := e.Photo.Get(); ok {
			rec.Photo = PhotoName(e)
			rec.ContentType = p.ContentType
			rec.Source = p.Source
			rec.Size = humanize.Bytes(uint64(p.Size()))
			if err := WritePhoto(e, filepath.Join(dir, rec.Photo)); err != nil {
				return res, err
			}
			res.Photos++
			res.PhotoBytes += int64(p.Size())
		}
		index.Entries = append(index.Entries, rec)
	}

	data, err := yaml.Marshal(index)
	if err != nil {
		return res, fmt.Errorf("failed to encode index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, IndexFile), data, 0o644); err != nil {
		return res, fmt.Errorf("failed to write index: %w", err)
	}
	return res, nil
}

// ReadIndex loads an index.yaml written by Export.
func ReadIndex(dir string) (Index, error) {
	var index Index
	data, err := os.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		return index, err
	}
	if err := yaml.Unmarshal(data, &index); err != nil {
		return index, fmt.Errorf("failed to parse %s: %w", IndexFile, err)
	}
	return index, nil
}
