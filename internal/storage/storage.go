// Package storage holds the object-store adapter for gallery artifacts.
// Uploads go out under originals/ and variants/ prefixes with
// timestamped, sanitized names so concurrent uploads of files sharing a
// name never collide.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ObjectStore is the capability the ingestion pipeline needs from durable
// storage. Put returns the public URL of the written object. Delete is
// best-effort batch removal: it is used during error recovery and must not
// introduce a failure mode of its own.
type ObjectStore interface {
	Put(ctx context.Context, path string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, paths []string)
}

// OriginalPath builds the storage path for an original upload.
func OriginalPath(timestamp int64, baseName, format string) string {
	return fmt.Sprintf("originals/%d-%s.%s", timestamp, baseName, format)
}

// VariantPath builds the storage path for a derived rendition.
func VariantPath(timestamp int64, baseName, variantType, format string) string {
	return fmt.Sprintf("variants/%d-%s-%s.%s", timestamp, baseName, variantType, format)
}

// SanitizeBaseName strips the extension and every non-alphanumeric rune
// from a client-supplied filename.
func SanitizeBaseName(filename string) string {
	stem := filename
	if idx := strings.LastIndex(stem, "."); idx > 0 {
		stem = stem[:idx]
	}

	var b strings.Builder
	for _, r := range stem {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}

// NowMillis is the timestamp source for artifact paths. Swappable in tests.
var NowMillis = func() int64 {
	return time.Now().UnixMilli()
}

func contentTypeForFormat(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpg", "jpeg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	case "avif":
		return "image/avif"
	case "gif":
		return "image/gif"
	default:
		return "application/octet-stream"
	}
}
