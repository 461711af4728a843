package imagehost

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"listing-marketplace/internal/listingerrors"

	"github.com/stretchr/testify/require"
)

func TestTransformation_String(t *testing.T) {
	require.Equal(t, "c_limit,h_1200,w_1200,q_auto,f_auto", DefaultTransformation.String())
}

func TestSign(t *testing.T) {
	// Reference pair from Cloudinary's signature documentation
	params := map[string]string{
		"eager":     "w_400,h_300,c_pad|w_260,h_200,c_crop",
		"public_id": "sample_image",
		"timestamp": "1315060510",
	}
	require.Equal(t, "bfd09f95f331f558cbd1320e67aa8d488770583e", Sign(params, "abcd"))

	withEmpty := map[string]string{"timestamp": "1315060510", "folder": ""}
	require.Equal(t, Sign(map[string]string{"timestamp": "1315060510"}, "abcd"), Sign(withEmpty, "abcd"))
}

func TestCloudinaryHost_Upload(t *testing.T) {
	t.Parallel()

	fixed := time.Unix(1700000000, 0)

	tests := []struct {
		name        string
		status      int
		body        string
		wantImage   string
		wantKind    listingerrors.UpstreamKind
		wantMessage string
	}{
		{
			name:      "success",
			status:    http.StatusOK,
			body:      `{"secure_url":"https://res.example.com/sitestate/abc.jpg","public_id":"sitestate/abc"}`,
			wantImage: "https://res.example.com/sitestate/abc.jpg",
		},
		{
			name:        "bad_credentials",
			status:      http.StatusUnauthorized,
			body:        `{"error":{"message":"Invalid api_key"}}`,
			wantKind:    listingerrors.UpstreamAuth,
			wantMessage: "image host authentication failed. Please check your API credentials.",
		},
		{
			name:        "rejected_file",
			status:      http.StatusBadRequest,
			body:        `{"error":{"message":"Invalid image file"}}`,
			wantKind:    listingerrors.UpstreamBadRequest,
			wantMessage: "image host upload failed: Invalid image file",
		},
		{
			name:        "server_error",
			status:      http.StatusBadGateway,
			body:        `upstream down`,
			wantKind:    listingerrors.UpstreamUnknown,
			wantMessage: "image host error: upstream down",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				require.Equal(t, "/v1_1/demo/image/upload", r.URL.Path)
				require.NoError(t, r.ParseMultipartForm(1<<20))

				require.Equal(t, "key", r.FormValue("api_key"))
				require.Equal(t, "sitestate", r.FormValue("folder"))
				require.Equal(t, "1700000000", r.FormValue("timestamp"))
				require.Equal(t, DefaultTransformation.String(), r.FormValue("transformation"))
				require.Equal(t, Sign(map[string]string{
					"folder":         "sitestate",
					"timestamp":      "1700000000",
					"transformation": DefaultTransformation.String(),
				}, "secret"), r.FormValue("signature"))

				file, header, err := r.FormFile("file")
				require.NoError(t, err)
				defer file.Close()
				require.Equal(t, "house.jpg", header.Filename)
				content, err := io.ReadAll(file)
				require.NoError(t, err)
				require.Equal(t, "jpeg-bytes", string(content))

				w.WriteHeader(tc.status)
				_, _ = w.Write([]byte(tc.body))
			}))
			defer srv.Close()

			host := NewCloudinaryHost(CloudinaryConfig{
				BaseURL:   srv.URL,
				CloudName: "demo",
				APIKey:    "key",
				APISecret: "secret",
			}, srv.Client())
			host.now = func() time.Time { return fixed }

			img, err := host.Upload(context.Background(), strings.NewReader("jpeg-bytes"), UploadOptions{
				Folder:         "sitestate",
				Filename:       "house.jpg",
				ContentType:    "image/jpeg",
				Transformation: DefaultTransformation,
			})

			if tc.wantImage != "" {
				require.NoError(t, err)
				require.Equal(t, tc.wantImage, img.URL)
				require.Equal(t, "sitestate/abc", img.PublicID)
				return
			}

			require.ErrorIs(t, err, listingerrors.ErrUpstream)
			var upErr *listingerrors.UpstreamError
			require.True(t, errors.As(err, &upErr))
			require.Equal(t, tc.wantKind, upErr.Kind)
			require.Equal(t, tc.status, upErr.StatusCode)
			require.Equal(t, tc.wantMessage, upErr.Error())
		})
	}
}

func TestCloudinaryHost_UploadTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	host := NewCloudinaryHost(CloudinaryConfig{BaseURL: srv.URL, CloudName: "demo"}, nil)
	_, err := host.Upload(context.Background(), strings.NewReader("x"), UploadOptions{Transformation: DefaultTransformation})
	require.ErrorIs(t, err, listingerrors.ErrUpstream)
}
