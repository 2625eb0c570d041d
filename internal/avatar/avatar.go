// Package avatar normalizes uploaded profile images to a fixed-size PNG.
package avatar

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	_ "image/jpeg"
)

const (
	// Side is the width and height every stored avatar is scaled to.
	Side = 250

	// MaxUploadBytes caps accepted upload size.
	MaxUploadBytes = 1_000_000
)

var ErrUnsupportedFormat = errors.New("Please upload an image file!")

var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// AllowedFilename reports whether the upload's filename carries one of the
// accepted image extensions.
func AllowedFilename(filename string) bool {
	return allowedExtensions[strings.ToLower(filepath.Ext(filename))]
}

// Normalize decodes the uploaded image and re-encodes it as a 250x250 PNG.
func Normalize(r io.Reader) ([]byte, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, ErrUnsupportedFormat
	}

	dst := image.NewRGBA(image.Rect(0, 0, Side, Side))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
