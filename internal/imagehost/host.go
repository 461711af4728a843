// Package imagehost forwards validated image bytes to the storage backend
// that serves them publicly.
package imagehost

//go:generate mockgen -source=host.go -destination=mock_host.go -package=imagehost

import (
	"context"
	"fmt"
	"io"

	"listing-marketplace/internal/models"
)

// DefaultFolder is the remote folder uploads land in when none is configured
const DefaultFolder = "sitestate"

// Transformation is the incoming transformation applied to every upload
type Transformation struct {
	Width   int
	Height  int
	Crop    string
	Quality string
	Format  string
}

// DefaultTransformation limits images to 1200x1200 with automatic quality and format
var DefaultTransformation = Transformation{
	Width:   1200,
	Height:  1200,
	Crop:    "limit",
	Quality: "auto",
	Format:  "auto",
}

// String renders the transformation in Cloudinary's URL syntax
func (t Transformation) String() string {
	return fmt.Sprintf("c_%s,h_%d,w_%d,q_%s,f_%s", t.Crop, t.Height, t.Width, t.Quality, t.Format)
}

// UploadOptions describes a single upload
type UploadOptions struct {
	Folder         string
	Filename       string
	ContentType    string
	Transformation Transformation
}

// Host stores an image and returns its public location
type Host interface {
	Upload(ctx context.Context, r io.Reader, opts UploadOptions) (models.Image, error)
}
