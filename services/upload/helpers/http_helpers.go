package helpers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"

	"listing-marketplace/internal/listingerrors"
	"listing-marketplace/internal/upload"
)

// MaxSingleBody and MaxMultipleBody bound request bodies, leaving room for multipart framing
const (
	formOverhead    = 1 << 20
	MaxSingleBody   = upload.MaxFileSize + formOverhead
	MaxMultipleBody = upload.MaxFiles*upload.MaxFileSize + formOverhead
)

// FormError converts a multipart parsing failure into a domain error
func FormError(err error, missingMessage string) error {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		return listingerrors.Validation(upload.MsgTooLarge)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return listingerrors.Validation(missingMessage)
	default:
		return fmt.Errorf("invalid multipart form: %w", listingerrors.Validation(missingMessage))
	}
}

// OpenFile opens a multipart part as an upload.File. The caller closes the returned file.
func OpenFile(fh *multipart.FileHeader) (upload.File, multipart.File, error) {
	f, err := fh.Open()
	if err != nil {
		return upload.File{}, nil, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	return upload.File{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     f,
	}, f, nil
}
