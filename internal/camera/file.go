package camera

import (
	"context"
	"os"
	"path/filepath"

	"github.com/julianstephens/oversight/internal/models"
)

// FileDevice imports one image file chosen by the user.
type FileDevice struct {
	Path string
}

func (d FileDevice) Available() bool {
	info, err := os.Stat(d.Path)
	return err == nil && !info.IsDir()
}

func (d FileDevice) Capture(ctx context.Context) (models.Photo, error) {
	if ctx.Err() != nil {
		return models.Photo{}, ErrCancelled
	}
	return ReadPhoto(d.Path, "file:"+filepath.Base(d.Path))
}
