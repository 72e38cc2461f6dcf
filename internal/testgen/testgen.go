// Package testgen generates small fixture images and fake origin trees for
// tests.
package testgen

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/pkg/errors"
)

// GenerateImage returns a small solid-color image encoded as the given MIME
// type ("image/jpeg" or "image/png").
func GenerateImage(t *testing.T, mimeType string) []byte {
	t.Helper()

	data, err := EncodeImage(mimeType)
	if err != nil {
		t.Fatalf("failed to encode fixture image: %v", err)
	}
	return data
}

// EncodeImage encodes a 100x100 solid-color image as the given MIME type.
func EncodeImage(mimeType string) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	blue := color.RGBA{0, 100, 200, 255}
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			img.Set(x, y, blue)
		}
	}

	var buf bytes.Buffer
	switch mimeType {
	case "image/jpeg":
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return nil, errors.WithStack(err)
		}
	default: // image/png
		if err := png.Encode(&buf, img); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	return buf.Bytes(), nil
}
