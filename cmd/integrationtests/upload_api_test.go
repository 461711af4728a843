package integrationtests

import (
	"bytes"
	"image"
	"image/png"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func pngImage(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))))
	return buf.Bytes()
}

func TestUploadSingle(t *testing.T) {
	tests := []struct {
		name       string
		file       *UploadFile
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "Valid_PNG",
			file:       &UploadFile{"image", "front.png", "image/png", nil},
			wantStatus: http.StatusOK,
		},
		{
			name:       "No_File",
			file:       nil,
			wantStatus: http.StatusBadRequest,
			wantMsg:    "No file uploaded",
		},
		{
			name:       "Text_Renamed_PNG",
			file:       &UploadFile{"image", "notes.png", "image/png", []byte("these are my notes, not a picture")},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Only image files are allowed!",
		},
		{
			name:       "Wrong_Extension",
			file:       &UploadFile{"image", "front.bmp", "image/png", nil},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "Only image files are allowed!",
		},
		{
			name:       "Fifteen_MB_PNG",
			file:       &UploadFile{"image", "huge.png", "image/png", nil},
			wantStatus: http.StatusBadRequest,
			wantMsg:    "File too large",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := SetupTestEnv(t)

			var files []UploadFile
			if tt.file != nil {
				f := *tt.file
				if f.Content == nil {
					f.Content = pngImage(t)
				}
				if tt.name == "Fifteen_MB_PNG" {
					f.Content = append(pngImage(t), bytes.Repeat([]byte{0}, 15<<20)...)
				}
				files = append(files, f)
			}

			resp, w := ExecuteUpload(t, env.Router, "/api/upload/single", files...)
			require.Equal(t, tt.wantStatus, w.Code)

			if tt.wantStatus != http.StatusOK {
				require.Equal(t, false, resp["success"])
				require.Equal(t, tt.wantMsg, resp["message"])
				require.Zero(t, env.Uploaded.Load(), "rejected files must not reach the image host")
				return
			}

			require.Equal(t, true, resp["success"])
			require.True(t, strings.HasPrefix(resp["url"].(string), "https://res.cloudinary.test/"))
			require.Equal(t, "sitestate/img1", resp["public_id"])
		})
	}
}

func TestUploadMultiple(t *testing.T) {
	t.Run("Three_Images", func(t *testing.T) {
		env := SetupTestEnv(t)
		img := pngImage(t)

		resp, w := ExecuteUpload(t, env.Router, "/api/upload/multiple",
			UploadFile{"images", "1.png", "image/png", img},
			UploadFile{"images", "2.png", "image/png", img},
			UploadFile{"images", "3.png", "image/png", img},
		)
		require.Equal(t, http.StatusOK, w.Code)
		require.Equal(t, true, resp["success"])
		require.Len(t, resp["urls"], 3)
		require.Len(t, resp["files"], 3)
		require.Equal(t, int64(3), env.Uploaded.Load())
	})

	t.Run("Seven_Images", func(t *testing.T) {
		env := SetupTestEnv(t)
		img := pngImage(t)

		files := make([]UploadFile, 7)
		for i := range files {
			files[i] = UploadFile{"images", "x.png", "image/png", img}
		}
		resp, w := ExecuteUpload(t, env.Router, "/api/upload/multiple", files...)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, false, resp["success"])
		require.Zero(t, env.Uploaded.Load())
	})

	t.Run("No_Images", func(t *testing.T) {
		env := SetupTestEnv(t)
		resp, w := ExecuteUpload(t, env.Router, "/api/upload/multiple")
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "No files uploaded", resp["message"])
	})

	t.Run("One_Bad_File_Rejects_Batch", func(t *testing.T) {
		env := SetupTestEnv(t)
		resp, w := ExecuteUpload(t, env.Router, "/api/upload/multiple",
			UploadFile{"images", "1.png", "image/png", pngImage(t)},
			UploadFile{"images", "2.png", "image/png", []byte("plain text")},
		)
		require.Equal(t, http.StatusBadRequest, w.Code)
		require.Equal(t, "Only image files are allowed!", resp["message"])
		require.Zero(t, env.Uploaded.Load())
	})
}

func TestUploadUpstreamAuthFailure(t *testing.T) {
	env := setupTestEnvWithKey(t, "wrong-key")

	resp, w := ExecuteUpload(t, env.Router, "/api/upload/single",
		UploadFile{"image", "front.png", "image/png", pngImage(t)})
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.Equal(t, false, resp["success"])
	require.Equal(t, "image host authentication failed. Please check your API credentials.", resp["message"])
}

func TestUploadThenCreateListing(t *testing.T) {
	env := SetupTestEnv(t)

	resp, w := ExecuteUpload(t, env.Router, "/api/upload/single",
		UploadFile{"image", "front.png", "image/png", pngImage(t)})
	require.Equal(t, http.StatusOK, w.Code)

	id := CreateListing(t, env.Router, "user1", ListingBody(map[string]any{
		"imageUrls": []string{resp["url"].(string)},
	}))

	listing, w := ExecuteRequestAndParse(t, env.Router, http.MethodGet, "/api/listing/get/"+id, "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, []any{resp["url"]}, listing["imageUrls"])
}
