package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodeJPEG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{200, 120, 40, 255})
		}
	}
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		t.Fatalf("encoding test JPEG: %v", err)
	}
	return buf.Bytes()
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding test PNG: %v", err)
	}
	return buf.Bytes()
}

func TestProcessJPEG(t *testing.T) {
	result, err := Process(bytes.NewReader(encodeJPEG(t, 100, 100)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.MIME != "image/jpeg" {
		t.Errorf("MIME = %s, want image/jpeg", result.MIME)
	}
	if len(result.Data) == 0 {
		t.Error("expected non-empty data")
	}
}

func TestProcessPNGConvertsToJPEG(t *testing.T) {
	result, err := Process(bytes.NewReader(encodePNG(t, 100, 100)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if result.MIME != "image/jpeg" {
		t.Errorf("MIME = %s, want image/jpeg", result.MIME)
	}
}

func TestProcessRejectsNonImage(t *testing.T) {
	_, err := Process(strings.NewReader("definitely not an image"))
	if err == nil {
		t.Fatal("expected error for non-image data")
	}
}

func TestProcessDownscalesLargeImages(t *testing.T) {
	result, err := Process(bytes.NewReader(encodeJPEG(t, 2048, 1024)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != MaxDimension {
		t.Errorf("width = %d, want %d", bounds.Dx(), MaxDimension)
	}
	// Aspect ratio preserved.
	if bounds.Dy() != MaxDimension/2 {
		t.Errorf("height = %d, want %d", bounds.Dy(), MaxDimension/2)
	}
}

func TestProcessKeepsSmallImages(t *testing.T) {
	result, err := Process(bytes.NewReader(encodeJPEG(t, 320, 240)))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(result.Data))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 320 || bounds.Dy() != 240 {
		t.Errorf("got %dx%d, want 320x240", bounds.Dx(), bounds.Dy())
	}
}
