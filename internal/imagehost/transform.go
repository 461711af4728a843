package imagehost

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"listing-marketplace/internal/listingerrors"

	"github.com/nfnt/resize"
	_ "golang.org/x/image/webp"
)

const jpegQuality = 82

// MaxPixels bounds the decoded size of an image; the header is checked before decoding.
const MaxPixels = 50_000_000

// MsgTooManyPixels is returned when an image header declares more than MaxPixels
const MsgTooManyPixels = "Image dimensions too large"

// applyTransformation downsizes an image to fit within t and picks an output format.
// GIFs pass through untouched so animations survive. Images already inside the
// bounds keep their bytes unless the format has to change.
func applyTransformation(r io.Reader, t Transformation) ([]byte, string, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, "", fmt.Errorf("read image: %w", err)
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("decode image header: %w", err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > MaxPixels {
		return nil, "", listingerrors.Validation(MsgTooManyPixels)
	}
	if format == "gif" {
		return raw, "image/gif", nil
	}

	fits := (t.Width <= 0 || cfg.Width <= t.Width) && (t.Height <= 0 || cfg.Height <= t.Height)
	if fits && (format == "jpeg" || format == "png") {
		return raw, "image/" + format, nil
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, "", fmt.Errorf("decode image: %w", err)
	}
	if !fits {
		img = resize.Thumbnail(uint(t.Width), uint(t.Height), img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "image/png", nil
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return nil, "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", nil
}
