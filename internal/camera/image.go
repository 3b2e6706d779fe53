package camera

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/julianstephens/oversight/internal/constants"
	"github.com/julianstephens/oversight/internal/models"
)

var heifBrands = [][]byte{[]byte("heic"), []byte("heix"), []byte("mif1"), []byte("msf1"), []byte("heif")}

// DetectImage returns the MIME type of data, or ErrNotImage.
func DetectImage(data []byte) (string, error) {
	if len(data) >= 12 && bytes.Equal(data[4:8], []byte("ftyp")) {
		for _, brand := range heifBrands {
			if bytes.Equal(data[8:12], brand) {
				return "image/heic", nil
			}
		}
	}
	ct := http.DetectContentType(data)
	if !strings.HasPrefix(ct, "image/") {
		return "", fmt.Errorf("%w (detected %s)", ErrNotImage, ct)
	}
	return ct, nil
}

// NewPhoto validates data and wraps it as a Photo captured from source.
func NewPhoto(data []byte, source string) (models.Photo, error) {
	if len(data) == 0 {
		return models.Photo{}, ErrNoPhoto
	}
	if len(data) > constants.MaxPhotoBytes {
		return models.Photo{}, ErrTooLarge
	}
	ct, err := DetectImage(data)
	if err != nil {
		return models.Photo{}, err
	}
	return models.Photo{Data: data, ContentType: ct, Source: source}, nil
}

// ReadPhoto loads an image file, refusing anything over the size ceiling
// before reading it.
func ReadPhoto(path, source string) (models.Photo, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.Photo{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return models.Photo{}, err
	}
	if info.IsDir() {
		return models.Photo{}, fmt.Errorf("%s is a directory", path)
	}
	if info.Size() > constants.MaxPhotoBytes {
		return models.Photo{}, ErrTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f, constants.MaxPhotoBytes+1))
	if err != nil {
		return models.Photo{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return NewPhoto(data, source)
}

// Extension returns a file extension for a photo content type.
func Extension(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	case "image/bmp":
		return ".bmp"
	}
	return ".img"
}
