// Package imaging normalizes uploaded photos before storage. Lost item,
// road update and profile photos all pass through the same pipeline: the
// format is sniffed from the bytes, the image is capped to a phone-screen
// friendly size, and the result is stored as JPEG so the photo endpoints
// serve one predictable format.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"io"
	"net/http"

	_ "image/png"

	"golang.org/x/image/draw"
)

// MaxDimension is the longest edge, in pixels, of a stored photo.
const MaxDimension = 1024

// jpegQuality balances upload size against visible artifacts on photos of
// items and road scenes.
const jpegQuality = 85

// AllowedMIME lists the accepted upload MIME types. Matatu Connect clients
// send camera output, which is JPEG or PNG in practice.
var AllowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// ProcessResult is a normalized photo ready for storage.
type ProcessResult struct {
	Data []byte
	MIME string
}

// Process normalizes an uploaded photo. The MIME type is sniffed from the
// bytes rather than trusted from the client, the image is downscaled if
// either edge exceeds MaxDimension, and the output is always JPEG.
func Process(r io.Reader) (*ProcessResult, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading photo data: %w", err)
	}

	detected := http.DetectContentType(data)
	if !AllowedMIME[detected] {
		return nil, fmt.Errorf("unsupported photo format %s: only JPEG and PNG accepted", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, fmt.Errorf("encoding photo: %w", err)
	}

	return &ProcessResult{
		Data: buf.Bytes(),
		MIME: "image/jpeg",
	}, nil
}

// downscale resizes img so neither edge exceeds maxDim, preserving aspect
// ratio with Catmull-Rom interpolation. Images already within bounds are
// returned untouched; photos are never upscaled.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	scale := float64(maxDim) / float64(w)
	if h > w {
		scale = float64(maxDim) / float64(h)
	}
	newW := max(int(float64(w)*scale), 1)
	newH := max(int(float64(h)*scale), 1)

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
