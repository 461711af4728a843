package imagehost

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"listing-marketplace/internal/listingerrors"
	"listing-marketplace/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/gridfs"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const gridfsBucket = "images"

// FilePath is the route prefix GridFS images are served under
const FilePath = "/api/upload/file/"

// GridFSHost stores images in MongoDB GridFS and serves them through the API
type GridFSHost struct {
	db            *mongo.Database
	publicBaseURL string
}

// NewGridFSHost creates a GridFSHost. publicBaseURL prefixes the returned URLs.
func NewGridFSHost(db *mongo.Database, publicBaseURL string) *GridFSHost {
	return &GridFSHost{db: db, publicBaseURL: strings.TrimRight(publicBaseURL, "/")}
}

// bucket is opened per call so deadlines from ctx don't leak between requests
// The v1 gridfs upload and download calls take no context, so ctx reaches them only as bucket deadlines.
func (h *GridFSHost) bucket(ctx context.Context) (*gridfs.Bucket, error) {
	bucket, err := gridfs.NewBucket(h.db, options.GridFSBucket().SetName(gridfsBucket))
	if err != nil {
		return nil, err
	}
	if deadline, ok := ctx.Deadline(); ok {
		if err := bucket.SetReadDeadline(deadline); err != nil {
			return nil, err
		}
		if err := bucket.SetWriteDeadline(deadline); err != nil {
			return nil, err
		}
	}
	return bucket, nil
}

// Upload applies the transformation locally and stores the result
func (h *GridFSHost) Upload(ctx context.Context, r io.Reader, opts UploadOptions) (models.Image, error) {
	data, contentType, err := applyTransformation(r, opts.Transformation)
	if errors.Is(err, listingerrors.ErrValidation) {
		return models.Image{}, fmt.Errorf("gridfs: %w", err)
	}
	if err != nil {
		return models.Image{}, fmt.Errorf("gridfs: %w", listingerrors.ClassifyUpstream(0, err.Error()))
	}

	bucket, err := h.bucket(ctx)
	if err != nil {
		return models.Image{}, fmt.Errorf("gridfs: %w", listingerrors.ClassifyUpstream(0, err.Error()))
	}

	uploadOpts := options.GridFSUpload().SetMetadata(bson.M{
		"contentType": contentType,
		"folder":      opts.Folder,
		"uploadedAt":  time.Now().UTC(),
	})
	fileID, err := bucket.UploadFromStream(opts.Filename, bytes.NewReader(data), uploadOpts)
	if err != nil {
		return models.Image{}, fmt.Errorf("gridfs: %w", listingerrors.ClassifyUpstream(0, err.Error()))
	}

	id := fileID.Hex()
	publicID := id
	if opts.Folder != "" {
		publicID = opts.Folder + "/" + id
	}
	return models.Image{URL: h.publicBaseURL + FilePath + id, PublicID: publicID}, nil
}

// Open returns a stored image and its content type. The caller closes the reader.
func (h *GridFSHost) Open(ctx context.Context, id string) (io.ReadCloser, string, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, "", fmt.Errorf("gridfs: %w", listingerrors.NotFound("File not found"))
	}

	bucket, err := h.bucket(ctx)
	if err != nil {
		return nil, "", fmt.Errorf("gridfs: %w", err)
	}

	stream, err := bucket.OpenDownloadStream(objID)
	if err != nil {
		if errors.Is(err, gridfs.ErrFileNotFound) {
			return nil, "", fmt.Errorf("gridfs: %w", listingerrors.NotFound("File not found"))
		}
		return nil, "", fmt.Errorf("gridfs: failed to open file %s: %w", id, err)
	}

	contentType := "application/octet-stream"
	if file := stream.GetFile(); file != nil && file.Metadata != nil {
		if ct, ok := file.Metadata.Lookup("contentType").StringValueOK(); ok {
			contentType = ct
		}
	}
	return stream, contentType, nil
}
