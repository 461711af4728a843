package handler

//go:generate mockgen -source=upload_handler.go -destination=mock_upload_handler.go -package=handler

import (
	"context"
	"io"
	"net/http"

	model "listing-marketplace/internal/models"
	"listing-marketplace/internal/upload"
	listinghelpers "listing-marketplace/services/listing/helpers"
	"listing-marketplace/services/upload/helpers"
	"listing-marketplace/utils"

	"github.com/gin-gonic/gin"
)

type UploadRelayInterface interface {
	UploadOne(ctx context.Context, f upload.File) (model.Image, error)
	UploadMany(ctx context.Context, files []upload.File) ([]model.Image, error)
}

// FileStore serves images kept by a self-hosted image host
type FileStore interface {
	Open(ctx context.Context, id string) (io.ReadCloser, string, error)
}

type UploadHandler struct {
	relay UploadRelayInterface
	files FileStore
}

// NewUploadHandler creates an UploadHandler. files may be nil when images live on a remote host.
func NewUploadHandler(relay UploadRelayInterface, files FileStore) *UploadHandler {
	return &UploadHandler{relay: relay, files: files}
}

// SingleUploadHandler handles POST /api/upload/single
func (h *UploadHandler) SingleUploadHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, helpers.MaxSingleBody)

	fh, err := c.FormFile("image")
	if err != nil {
		listinghelpers.HandleServiceError(c, "SingleUploadHandler", "no file in request", helpers.FormError(err, upload.MsgNoFile), nil)
		return
	}

	file, closer, err := helpers.OpenFile(fh)
	if err != nil {
		listinghelpers.HandleServiceError(c, "SingleUploadHandler", "failed to open file", err, nil)
		return
	}
	defer closer.Close()

	img, err := h.relay.UploadOne(c.Request.Context(), file)
	if err != nil {
		listinghelpers.HandleServiceError(c, "SingleUploadHandler", "upload failed", err, map[string]any{
			"filename": fh.Filename,
			"size":     fh.Size,
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.SingleUploadResponse{
		Success:  true,
		URL:      img.URL,
		PublicID: img.PublicID,
	})
	listinghelpers.LogSuccess("SingleUploadHandler", "image uploaded", map[string]any{
		"public_id": img.PublicID,
		"size":      fh.Size,
	})
}

// MultipleUploadHandler handles POST /api/upload/multiple
func (h *UploadHandler) MultipleUploadHandler(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, helpers.MaxMultipleBody)

	form, err := c.MultipartForm()
	if err != nil {
		listinghelpers.HandleServiceError(c, "MultipleUploadHandler", "invalid form", helpers.FormError(err, upload.MsgNoFiles), nil)
		return
	}

	headers := form.File["images"]
	files := make([]upload.File, 0, len(headers))
	for _, fh := range headers {
		file, closer, err := helpers.OpenFile(fh)
		if err != nil {
			listinghelpers.HandleServiceError(c, "MultipleUploadHandler", "failed to open file", err, nil)
			return
		}
		defer closer.Close()
		files = append(files, file)
	}

	images, err := h.relay.UploadMany(c.Request.Context(), files)
	if err != nil {
		listinghelpers.HandleServiceError(c, "MultipleUploadHandler", "batch upload failed", err, map[string]any{
			"files": len(files),
		})
		return
	}

	utils.JSONResponse(c, http.StatusOK, helpers.NewMultipleUploadResponse(images))
	listinghelpers.LogSuccess("MultipleUploadHandler", "images uploaded", map[string]any{
		"count": len(images),
	})
}

// ServeFileHandler handles GET /api/upload/file/:id
func (h *UploadHandler) ServeFileHandler(c *gin.Context) {
	if h.files == nil {
		utils.JSONError(c, http.StatusNotFound, "File not found")
		return
	}

	id := c.Param("id")
	rc, contentType, err := h.files.Open(c.Request.Context(), id)
	if err != nil {
		listinghelpers.HandleServiceError(c, "ServeFileHandler", "failed to open file", err, map[string]any{"file_id": id})
		return
	}
	defer rc.Close()

	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Cache-Control": "public, max-age=31536000, immutable",
	})
}
