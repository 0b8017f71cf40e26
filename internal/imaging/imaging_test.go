package imaging

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"
)

func encodePNG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func encodeJPEG(t *testing.T, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encode jpeg: %v", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func decodeResult(t *testing.T, dataURL string) image.Image {
	t.Helper()
	const prefix = "data:image/jpeg;base64,"
	if !strings.HasPrefix(dataURL, prefix) {
		t.Fatalf("expected JPEG data URL, got %.40q", dataURL)
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, prefix))
	if err != nil {
		t.Fatalf("decode base64: %v", err)
	}
	img, err := jpeg.Decode(bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	return img
}

func TestNormalizeDataURL(t *testing.T) {
	t.Run("png converts to jpeg", func(t *testing.T) {
		out, err := NormalizeDataURL("data:image/png;base64," + encodePNG(t, 100, 60))
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}
		img := decodeResult(t, out)
		if img.Bounds().Dx() != 100 || img.Bounds().Dy() != 60 {
			t.Fatalf("small image resized: %v", img.Bounds())
		}
	})

	t.Run("bare base64 without data prefix", func(t *testing.T) {
		if _, err := NormalizeDataURL(encodeJPEG(t, 40, 40)); err != nil {
			t.Fatalf("normalize: %v", err)
		}
	})

	t.Run("oversized image is downscaled", func(t *testing.T) {
		out, err := NormalizeDataURL(encodeJPEG(t, 2000, 1000))
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}
		img := decodeResult(t, out)
		if img.Bounds().Dx() != MaxDimension {
			t.Fatalf("expected width %d, got %d", MaxDimension, img.Bounds().Dx())
		}
		if img.Bounds().Dy() != 400 {
			t.Fatalf("aspect ratio lost: height %d", img.Bounds().Dy())
		}
	})

	t.Run("tall image keeps aspect ratio", func(t *testing.T) {
		out, err := NormalizeDataURL(encodeJPEG(t, 500, 1600))
		if err != nil {
			t.Fatalf("normalize: %v", err)
		}
		img := decodeResult(t, out)
		if img.Bounds().Dy() != MaxDimension {
			t.Fatalf("expected height %d, got %d", MaxDimension, img.Bounds().Dy())
		}
		if img.Bounds().Dx() != 250 {
			t.Fatalf("aspect ratio lost: width %d", img.Bounds().Dx())
		}
	})

	t.Run("rejects invalid base64", func(t *testing.T) {
		if _, err := NormalizeDataURL("data:image/png;base64,not-base64!!"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("rejects malformed data url", func(t *testing.T) {
		if _, err := NormalizeDataURL("data:image/png;base64"); err == nil {
			t.Fatal("expected error")
		}
	})

	t.Run("rejects non-image payload", func(t *testing.T) {
		payload := base64.StdEncoding.EncodeToString([]byte("<html>not an image</html>"))
		_, err := NormalizeDataURL(payload)
		if err == nil || !strings.Contains(err.Error(), "unsupported image format") {
			t.Fatalf("expected unsupported format error, got %v", err)
		}
	})

	t.Run("rejects gif", func(t *testing.T) {
		// minimal GIF header so the sniffer sees image/gif
		payload := base64.StdEncoding.EncodeToString([]byte("GIF89a\x01\x00\x01\x00\x00\x00\x00"))
		_, err := NormalizeDataURL(payload)
		if err == nil || !strings.Contains(err.Error(), "unsupported image format") {
			t.Fatalf("expected unsupported format error, got %v", err)
		}
	})
}
