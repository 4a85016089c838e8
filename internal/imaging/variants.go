// Package imaging derives the fixed set of gallery renditions from an
// uploaded original. It never fails a request: undecodable input degrades
// to an original-only result, and a failure while building one variant
// keeps whatever was finished before it.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"strings"

	_ "image/gif"
	_ "image/png"

	chaiwebp "github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Variant type names, shared with the persisted variant rows.
const (
	VariantThumbnail = "thumbnail"
	VariantMedium    = "medium"
	VariantLarge     = "large"
	VariantWebP      = "webp"
)

// Placeholder dimensions reported for originals that could not be decoded.
const (
	FallbackWidth  = 800
	FallbackHeight = 600
)

const (
	thumbnailSize  = 300
	mediumMaxW     = 800
	mediumMaxH     = 600
	largeMaxW      = 1920
	largeMaxH      = 1080
	thumbnailQual  = 80
	mediumQuality  = 85
	largeQuality   = 90
	webpQuality    = 85
)

// Descriptor describes one encoded artifact: the raw bytes plus the
// dimensions and format recorded for it.
type Descriptor struct {
	Bytes  []byte
	Width  int
	Height int
	Size   int
	Format string
}

// Result is the outcome of processing one upload. Variants may hold fewer
// than four entries (or none at all) and that is not an error.
type Result struct {
	Original Descriptor
	Variants map[string]Descriptor
}

// Process decodes the original and builds the thumbnail, medium, large and
// webp renditions. It returns a degraded original-only result when the
// buffer cannot be decoded, and a partial result when an individual
// variant fails to encode.
func Process(buf []byte, declaredMIME string) Result {
	src, format, err := image.Decode(bytes.NewReader(buf))
	if err != nil || src.Bounds().Dx() < 1 || src.Bounds().Dy() < 1 {
		return Result{
			Original: Descriptor{
				Bytes:  buf,
				Width:  FallbackWidth,
				Height: FallbackHeight,
				Size:   len(buf),
				Format: formatFromMIME(declaredMIME),
			},
			Variants: map[string]Descriptor{},
		}
	}

	srcW := src.Bounds().Dx()
	srcH := src.Bounds().Dy()

	result := Result{
		Original: Descriptor{
			Bytes:  buf,
			Width:  srcW,
			Height: srcH,
			Size:   len(buf),
			Format: format,
		},
		Variants: map[string]Descriptor{},
	}

	type variantSpec struct {
		name    string
		build   func() ([]byte, error)
		width   int
		height  int
		format  string
	}

	specs := []variantSpec{
		{
			name:   VariantThumbnail,
			build:  func() ([]byte, error) { return encodeJPEG(cropCover(src, thumbnailSize, thumbnailSize), thumbnailQual) },
			width:  thumbnailSize,
			height: thumbnailSize,
			format: "jpeg",
		},
		{
			name:   VariantMedium,
			build:  func() ([]byte, error) { return encodeJPEG(fitWithin(src, mediumMaxW, mediumMaxH), mediumQuality) },
			width:  min(srcW, mediumMaxW),
			height: min(srcH, mediumMaxH),
			format: "jpeg",
		},
		{
			name:   VariantLarge,
			build:  func() ([]byte, error) { return encodeJPEG(fitWithin(src, largeMaxW, largeMaxH), largeQuality) },
			width:  min(srcW, largeMaxW),
			height: min(srcH, largeMaxH),
			format: "jpeg",
		},
		{
			name:   VariantWebP,
			build:  func() ([]byte, error) { return encodeWebP(fitWithin(src, largeMaxW, largeMaxH), webpQuality) },
			width:  min(srcW, largeMaxW),
			height: min(srcH, largeMaxH),
			format: "webp",
		},
	}

	for _, spec := range specs {
		encoded, err := spec.build()
		if err != nil {
			// The missing rendition is simply absent from the map.
			continue
		}
		result.Variants[spec.name] = Descriptor{
			Bytes:  encoded,
			Width:  spec.width,
			Height: spec.height,
			Size:   len(encoded),
			Format: spec.format,
		}
	}

	return result
}

// fitWithin scales the image to fit inside maxW x maxH preserving aspect
// ratio, never enlarging beyond the source dimensions.
func fitWithin(src image.Image, maxW, maxH int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	scale := math.Min(float64(maxW)/float64(w), float64(maxH)/float64(h))
	if scale >= 1 {
		return src
	}

	dstW := int(math.Round(float64(w) * scale))
	dstH := int(math.Round(float64(h) * scale))
	if dstW < 1 {
		dstW = 1
	}
	if dstH < 1 {
		dstH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
	return dst
}

// cropCover scales the image so the target box is fully covered, then
// crops the centered window.
func cropCover(src image.Image, targetW, targetH int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	scale := math.Max(float64(targetW)/float64(w), float64(targetH)/float64(h))
	scaledW := int(math.Round(float64(w) * scale))
	scaledH := int(math.Round(float64(h) * scale))
	if scaledW < targetW {
		scaledW = targetW
	}
	if scaledH < targetH {
		scaledH = targetH
	}

	scaled := image.NewRGBA(image.Rect(0, 0, scaledW, scaledH))
	draw.CatmullRom.Scale(scaled, scaled.Bounds(), src, bounds, draw.Over, nil)

	offsetX := (scaledW - targetW) / 2
	offsetY := (scaledH - targetH) / 2

	dst := image.NewRGBA(image.Rect(0, 0, targetW, targetH))
	draw.Draw(dst, dst.Bounds(), scaled, image.Pt(offsetX, offsetY), draw.Src)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality float32) ([]byte, error) {
	var buf bytes.Buffer
	if err := chaiwebp.Encode(&buf, img, &chaiwebp.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// formatFromMIME extracts the subtype from a declared content type, so an
// undecodable upload still records something plausible.
func formatFromMIME(mimeType string) string {
	parts := strings.SplitN(strings.TrimSpace(mimeType), "/", 2)
	if len(parts) == 2 && parts[1] != "" {
		return parts[1]
	}
	return "jpeg"
}
