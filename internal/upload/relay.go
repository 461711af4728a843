package upload

import (
	"context"
	"fmt"
	"sync"

	"listing-marketplace/internal/imagehost"
	"listing-marketplace/internal/listingerrors"
	"listing-marketplace/internal/models"
	"listing-marketplace/utils"

	"golang.org/x/sync/errgroup"
)

// Relay validates files and forwards them to an image host
type Relay struct {
	host           imagehost.Host
	folder         string
	transformation imagehost.Transformation
}

// NewRelay creates a Relay. An empty folder falls back to imagehost.DefaultFolder.
func NewRelay(host imagehost.Host, folder string) *Relay {
	if folder == "" {
		folder = imagehost.DefaultFolder
	}
	return &Relay{
		host:           host,
		folder:         folder,
		transformation: imagehost.DefaultTransformation,
	}
}

// UploadOne validates and forwards a single file
func (r *Relay) UploadOne(ctx context.Context, f File) (models.Image, error) {
	if err := Validate(f); err != nil {
		return models.Image{}, err
	}
	return r.forward(ctx, f)
}

// UploadMany validates every file before forwarding any, then uploads them in parallel.
// The first failure cancels the rest; images already stored are logged, not removed.
func (r *Relay) UploadMany(ctx context.Context, files []File) ([]models.Image, error) {
	if len(files) == 0 {
		return nil, listingerrors.Validation(MsgNoFiles)
	}
	if len(files) > MaxFiles {
		return nil, listingerrors.Validation("Too many files. Maximum is %d", MaxFiles)
	}
	for _, f := range files {
		if err := Validate(f); err != nil {
			return nil, err
		}
	}

	images := make([]models.Image, len(files))
	var (
		mu     sync.Mutex
		stored []string
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			img, err := r.forward(gctx, f)
			if err != nil {
				return err
			}
			images[i] = img
			mu.Lock()
			stored = append(stored, img.PublicID)
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if len(stored) > 0 {
			utils.Warn("upload: batch failed, orphaned images left on host", map[string]any{
				"orphans": stored,
				"error":   err.Error(),
			})
		}
		return nil, err
	}
	return images, nil
}

func (r *Relay) forward(ctx context.Context, f File) (models.Image, error) {
	img, err := r.host.Upload(ctx, f.Content, imagehost.UploadOptions{
		Folder:         r.folder,
		Filename:       f.Filename,
		ContentType:    f.ContentType,
		Transformation: r.transformation,
	})
	if err != nil {
		return models.Image{}, fmt.Errorf("upload: %s: %w", f.Filename, err)
	}
	return img, nil
}
