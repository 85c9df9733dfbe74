package images

import (
	"bytes"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"github.com/nickcheng/taskapp-backend/internal/apperr"
)

// AllowedExt reports whether the uploaded filename has an accepted image
// extension. Checked before any decoding happens.
func AllowedExt(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}

// Thumbnail decodes data, crops/scales it to a size x size square and
// re-encodes as PNG.
func Thumbnail(data []byte, size int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Validation("file must be an image")
	}
	thumb := imaging.Fill(img, size, size, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, thumb, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ToPNG re-encodes data as PNG at its original dimensions.
func ToPNG(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, apperr.Validation("file must be an image")
	}
	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
