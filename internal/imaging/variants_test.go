package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode test png: %v", err)
	}
	return buf.Bytes()
}

func TestProcessProducesAllVariants(t *testing.T) {
	buf := encodeTestPNG(t, 2400, 1600)

	result := Process(buf, "image/png")

	if result.Original.Width != 2400 || result.Original.Height != 1600 {
		t.Fatalf("unexpected original dimensions %dx%d", result.Original.Width, result.Original.Height)
	}
	if result.Original.Format != "png" {
		t.Fatalf("expected png format, got %s", result.Original.Format)
	}
	if len(result.Variants) != 4 {
		t.Fatalf("expected 4 variants, got %d", len(result.Variants))
	}

	thumb, ok := result.Variants[VariantThumbnail]
	if !ok {
		t.Fatalf("missing thumbnail variant")
	}
	if thumb.Width != 300 || thumb.Height != 300 {
		t.Fatalf("thumbnail should be 300x300, got %dx%d", thumb.Width, thumb.Height)
	}

	medium := result.Variants[VariantMedium]
	if medium.Width > 800 || medium.Height > 600 {
		t.Fatalf("medium exceeds bounding box: %dx%d", medium.Width, medium.Height)
	}
	if medium.Width > 2400 || medium.Height > 1600 {
		t.Fatalf("medium exceeds source: %dx%d", medium.Width, medium.Height)
	}

	for _, name := range []string{VariantLarge, VariantWebP} {
		v := result.Variants[name]
		if v.Width > 1920 || v.Height > 1080 {
			t.Fatalf("%s exceeds bounding box: %dx%d", name, v.Width, v.Height)
		}
	}

	webp := result.Variants[VariantWebP]
	if webp.Format != "webp" {
		t.Fatalf("expected webp format, got %s", webp.Format)
	}
}

func TestProcessNeverUpscalesSmallSource(t *testing.T) {
	buf := encodeTestPNG(t, 400, 300)

	result := Process(buf, "image/png")

	medium := result.Variants[VariantMedium]
	if medium.Width != 400 || medium.Height != 300 {
		t.Fatalf("medium should keep source dimensions, got %dx%d", medium.Width, medium.Height)
	}
	large := result.Variants[VariantLarge]
	if large.Width != 400 || large.Height != 300 {
		t.Fatalf("large should keep source dimensions, got %dx%d", large.Width, large.Height)
	}
}

func TestProcessDegradesOnUndecodableInput(t *testing.T) {
	buf := []byte("this is definitely not an image")

	result := Process(buf, "image/jpeg")

	if len(result.Variants) != 0 {
		t.Fatalf("expected no variants for undecodable input, got %d", len(result.Variants))
	}
	if result.Original.Width != FallbackWidth || result.Original.Height != FallbackHeight {
		t.Fatalf("expected fallback dimensions, got %dx%d", result.Original.Width, result.Original.Height)
	}
	if result.Original.Format != "jpeg" {
		t.Fatalf("expected format from declared mime, got %s", result.Original.Format)
	}
	if !bytes.Equal(result.Original.Bytes, buf) {
		t.Fatalf("original bytes must pass through untouched")
	}

	sized := result.Original
	if sized.Size != len(buf) {
		t.Fatalf("expected size %d, got %d", len(buf), sized.Size)
	}
}

func TestProcessSquareSourceThumbnailCover(t *testing.T) {
	buf := encodeTestPNG(t, 500, 1000)

	result := Process(buf, "image/png")

	thumb := result.Variants[VariantThumbnail]
	if thumb.Width != 300 || thumb.Height != 300 {
		t.Fatalf("cover crop must always be 300x300, got %dx%d", thumb.Width, thumb.Height)
	}
	if thumb.Size <= 0 {
		t.Fatalf("thumbnail bytes missing")
	}
}
