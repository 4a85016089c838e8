package storage

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/maisoncms/backend/internal/imaging"
	"github.com/maisoncms/backend/internal/logger"
)

// Artifact records one stored object together with the metadata persisted
// for it.
type Artifact struct {
	Path   string
	URL    string
	Width  int
	Height int
	Size   int
	Format string
}

// UploadResult is what one ingestion wrote to storage. Variants holds only
// the renditions whose upload succeeded.
type UploadResult struct {
	Original Artifact
	Variants map[string]Artifact
}

// Paths lists every stored path in the result, original first. This is the
// exact set handed to Delete during compensation.
func (r UploadResult) Paths() []string {
	paths := make([]string, 0, len(r.Variants)+1)
	paths = append(paths, r.Original.Path)
	for _, v := range r.Variants {
		paths = append(paths, v.Path)
	}
	return paths
}

// Uploader pushes a processed image and its renditions to an ObjectStore.
type Uploader struct {
	store ObjectStore
	log   *logger.Logger
}

// NewUploader returns an Uploader writing through the given store.
func NewUploader(store ObjectStore, log *logger.Logger) *Uploader {
	return &Uploader{store: store, log: log}
}

// Upload writes the original first and fails outright if that write fails,
// since there is nothing to compensate yet. Variant uploads then run
// concurrently; an individual variant failure is logged and the variant is
// dropped from the result without aborting the others.
func (u *Uploader) Upload(ctx context.Context, processed imaging.Result, originalFilename string) (UploadResult, error) {
	timestamp := NowMillis()
	baseName := SanitizeBaseName(originalFilename)

	originalPath := OriginalPath(timestamp, baseName, processed.Original.Format)
	originalURL, err := u.store.Put(ctx, originalPath, processed.Original.Bytes, contentTypeForFormat(processed.Original.Format))
	if err != nil {
		return UploadResult{}, fmt.Errorf("upload original: %w", err)
	}

	result := UploadResult{
		Original: Artifact{
			Path:   originalPath,
			URL:    originalURL,
			Width:  processed.Original.Width,
			Height: processed.Original.Height,
			Size:   processed.Original.Size,
			Format: processed.Original.Format,
		},
		Variants: make(map[string]Artifact, len(processed.Variants)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for variantType, desc := range processed.Variants {
		variantType, desc := variantType, desc
		g.Go(func() error {
			path := VariantPath(timestamp, baseName, variantType, desc.Format)
			url, err := u.store.Put(gctx, path, desc.Bytes, contentTypeForFormat(desc.Format))
			if err != nil {
				u.log.Warn("variant upload failed, omitting from result",
					"variant", variantType, "path", path, "error", err)
				return nil
			}
			mu.Lock()
			result.Variants[variantType] = Artifact{
				Path:   path,
				URL:    url,
				Width:  desc.Width,
				Height: desc.Height,
				Size:   desc.Size,
				Format: desc.Format,
			}
			mu.Unlock()
			return nil
		})
	}

	// Goroutines never return errors, so this only waits.
	_ = g.Wait()

	return result, nil
}
