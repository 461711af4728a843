package imagehost

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"sort"
	"strconv"
	"strings"
	"time"

	"listing-marketplace/internal/listingerrors"
	"listing-marketplace/internal/models"
)

// DefaultCloudinaryURL is the public Cloudinary REST endpoint
const DefaultCloudinaryURL = "https://api.cloudinary.com"

// CloudinaryConfig holds the credentials of a Cloudinary account
type CloudinaryConfig struct {
	BaseURL   string
	CloudName string
	APIKey    string
	APISecret string
}

// CloudinaryHost uploads images with signed requests to the Cloudinary upload API
type CloudinaryHost struct {
	baseURL    string
	cloudName  string
	apiKey     string
	apiSecret  string
	httpClient *http.Client
	now        func() time.Time
}

// NewCloudinaryHost creates a CloudinaryHost. A nil client uses a 60s timeout.
func NewCloudinaryHost(cfg CloudinaryConfig, client *http.Client) *CloudinaryHost {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultCloudinaryURL
	}
	return &CloudinaryHost{
		baseURL:    baseURL,
		cloudName:  cfg.CloudName,
		apiKey:     cfg.APIKey,
		apiSecret:  cfg.APISecret,
		httpClient: client,
		now:        time.Now,
	}
}

type cloudinaryResponse struct {
	SecureURL string `json:"secure_url"`
	PublicID  string `json:"public_id"`
	Error     *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Upload streams r to Cloudinary as a multipart form
func (h *CloudinaryHost) Upload(ctx context.Context, r io.Reader, opts UploadOptions) (models.Image, error) {
	params := map[string]string{
		"timestamp":      strconv.FormatInt(h.now().Unix(), 10),
		"transformation": opts.Transformation.String(),
	}
	if opts.Folder != "" {
		params["folder"] = opts.Folder
	}
	params["signature"] = Sign(params, h.apiSecret)
	params["api_key"] = h.apiKey

	body, contentType := streamMultipart(r, params, opts)
	defer body.Close()

	endpoint := fmt.Sprintf("%s/v1_1/%s/image/upload", h.baseURL, h.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return models.Image{}, fmt.Errorf("cloudinary: failed to create upload request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return models.Image{}, fmt.Errorf("cloudinary: %w", listingerrors.ClassifyUpstream(0, err.Error()))
	}
	defer resp.Body.Close()

	var out cloudinaryResponse
	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return models.Image{}, fmt.Errorf("cloudinary: %w", listingerrors.ClassifyUpstream(resp.StatusCode, err.Error()))
	}
	decodeErr := json.Unmarshal(raw, &out)

	if resp.StatusCode != http.StatusOK {
		msg := strings.TrimSpace(string(raw))
		if decodeErr == nil && out.Error != nil {
			msg = out.Error.Message
		}
		return models.Image{}, fmt.Errorf("cloudinary: %w", listingerrors.ClassifyUpstream(resp.StatusCode, msg))
	}
	if decodeErr != nil {
		return models.Image{}, fmt.Errorf("cloudinary: %w", listingerrors.ClassifyUpstream(resp.StatusCode, "invalid response: "+decodeErr.Error()))
	}
	if out.SecureURL == "" {
		return models.Image{}, fmt.Errorf("cloudinary: %w", listingerrors.ClassifyUpstream(resp.StatusCode, "response has no url"))
	}

	return models.Image{URL: out.SecureURL, PublicID: out.PublicID}, nil
}

// Sign computes the Cloudinary request signature over params
func Sign(params map[string]string, secret string) string {
	keys := make([]string, 0, len(params))
	for k, v := range params {
		if v == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}

	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + secret))
	return hex.EncodeToString(sum[:])
}

// streamMultipart writes the form through a pipe so the file is never buffered whole
func streamMultipart(r io.Reader, params map[string]string, opts UploadOptions) (io.ReadCloser, string) {
	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	go func() {
		err := writeForm(mw, r, params, opts)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	return pr, mw.FormDataContentType()
}

func writeForm(mw *multipart.Writer, r io.Reader, params map[string]string, opts UploadOptions) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := mw.WriteField(k, params[k]); err != nil {
			return err
		}
	}

	filename := opts.Filename
	if filename == "" {
		filename = "upload"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filename))
	if opts.ContentType != "" {
		header.Set("Content-Type", opts.ContentType)
	} else {
		header.Set("Content-Type", "application/octet-stream")
	}

	part, err := mw.CreatePart(header)
	if err != nil {
		return err
	}
	_, err = io.Copy(part, r)
	return err
}
