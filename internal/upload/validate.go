// Package upload validates image files and relays them to an image host.
package upload

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"listing-marketplace/internal/listingerrors"

	"github.com/gabriel-vasile/mimetype"
)

const (
	// MaxFileSize is the largest accepted image, in bytes
	MaxFileSize = 10 << 20
	// MaxFiles caps a multiple upload
	MaxFiles = 6
)

// Client-facing messages
const (
	MsgNoFile      = "No file uploaded"
	MsgNoFiles     = "No files uploaded"
	MsgTooLarge    = "File too large"
	MsgNotAnImage  = "Only image files are allowed!"
	MsgEmptyBuffer = "Empty buffer provided"
)

var allowedExtensions = map[string]bool{
	".jpeg": true,
	".jpg":  true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

var allowedMIMETypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// File is an uploaded image before it is forwarded
type File struct {
	Filename    string
	ContentType string
	Size        int64
	Content     io.ReadSeeker
}

// Validate checks size, extension, declared type and sniffed content, in that order.
// It leaves Content rewound to the start.
func Validate(f File) error {
	if f.Content == nil {
		return listingerrors.Validation(MsgNoFile)
	}
	if f.Size > MaxFileSize {
		return listingerrors.Validation(MsgTooLarge)
	}
	if f.Size == 0 {
		return listingerrors.Validation(MsgEmptyBuffer)
	}

	ext := strings.ToLower(filepath.Ext(f.Filename))
	if !allowedExtensions[ext] {
		return listingerrors.Validation(MsgNotAnImage)
	}
	if !allowedMIMETypes[baseMIME(f.ContentType)] {
		return listingerrors.Validation(MsgNotAnImage)
	}

	detected, err := mimetype.DetectReader(f.Content)
	if err != nil {
		return fmt.Errorf("upload: sniff %s: %w", f.Filename, err)
	}
	if _, err := f.Content.Seek(0, io.SeekStart); err != nil {
		return fmt.Errorf("upload: rewind %s: %w", f.Filename, err)
	}
	if !allowedMIMETypes[baseMIME(detected.String())] {
		return listingerrors.Validation(MsgNotAnImage)
	}
	return nil
}

func baseMIME(contentType string) string {
	if i := strings.IndexByte(contentType, ';'); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
