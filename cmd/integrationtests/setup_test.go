package integrationtests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync/atomic"
	"testing"
	"time"

	"listing-marketplace/internal/auth"
	"listing-marketplace/internal/imagehost"
	listing "listing-marketplace/internal/listingService"
	"listing-marketplace/internal/repository"
	"listing-marketplace/internal/server"
	"listing-marketplace/internal/upload"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	jwtSecret      = "integration-secret"
	cloudName      = "testcloud"
	cloudAPIKey    = "test-key"
	cloudAPISecret = "test-secret"
)

// TestEnv is a router backed by the memory store, a JWT verifier and a fake Cloudinary
type TestEnv struct {
	Router   *gin.Engine
	Repo     *repository.MemoryRepo
	Cloud    *httptest.Server
	Uploaded *atomic.Int64
}

// newFakeCloudinary accepts signed uploads and rejects a wrong api key with 401
func newFakeCloudinary(t *testing.T, uploaded *atomic.Int64) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"malformed form"}}`))
			return
		}
		if r.FormValue("api_key") != cloudAPIKey {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid api_key"}}`))
			return
		}
		expected := imagehost.Sign(map[string]string{
			"folder":         r.FormValue("folder"),
			"timestamp":      r.FormValue("timestamp"),
			"transformation": r.FormValue("transformation"),
		}, cloudAPISecret)
		if r.FormValue("signature") != expected {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":{"message":"Invalid Signature"}}`))
			return
		}
		if _, _, err := r.FormFile("file"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"Missing required parameter - file"}}`))
			return
		}

		n := uploaded.Add(1)
		publicID := fmt.Sprintf("%s/img%d", r.FormValue("folder"), n)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"public_id":  publicID,
			"secure_url": fmt.Sprintf("https://res.cloudinary.test/%s/image/upload/%s.jpg", cloudName, publicID),
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

// SetupTestEnv initializes the router with an in-memory repository for integration testing.
func SetupTestEnv(t *testing.T) *TestEnv {
	return setupTestEnvWithKey(t, cloudAPIKey)
}

func setupTestEnvWithKey(t *testing.T, apiKey string) *TestEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	uploaded := &atomic.Int64{}
	cloud := newFakeCloudinary(t, uploaded)
	host := imagehost.NewCloudinaryHost(imagehost.CloudinaryConfig{
		BaseURL:   cloud.URL,
		CloudName: cloudName,
		APIKey:    apiKey,
		APISecret: cloudAPISecret,
	}, cloud.Client())

	repo := repository.NewMemoryRepo()
	service := listing.NewListingService(repo)
	router := server.SetupRouter(server.Dependencies{
		Listings: service,
		Uploads:  upload.NewRelay(host, ""),
		Verifier: auth.NewJWTVerifier(jwtSecret, ""),
		Store:    service,
	})

	return &TestEnv{Router: router, Repo: repo, Cloud: cloud, Uploaded: uploaded}
}

// TokenFor issues a bearer token for userID
func TokenFor(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(jwtSecret))
	require.NoError(t, err)
	return token
}

// ExecuteRequestAndParse executes an HTTP request on the given router and parses the response.
// An empty user sends no Authorization header.
func ExecuteRequestAndParse(t *testing.T, router *gin.Engine, method, url, user string, body any) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var reqBody []byte
	var err error
	switch v := body.(type) {
	case nil:
	case []byte:
		reqBody = v
	case string:
		reqBody = []byte(v)
	default:
		reqBody, err = json.Marshal(v)
		if err != nil {
			t.Fatalf("failed to marshal body: %v", err)
		}
	}

	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, url, bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/json")
	if user != "" {
		req.Header.Set("Authorization", "Bearer "+TokenFor(t, user))
	}
	router.ServeHTTP(w, req)

	var resp map[string]any
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("failed to unmarshal response: %v", err)
		}
	}
	return resp, w
}

// UploadFile is one part of a multipart upload request
type UploadFile struct {
	Field       string
	Filename    string
	ContentType string
	Content     []byte
}

// ExecuteUpload posts files as multipart/form-data and parses the JSON response
func ExecuteUpload(t *testing.T, router *gin.Engine, url string, files ...UploadFile) (map[string]any, *httptest.ResponseRecorder) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, f := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, f.Field, f.Filename))
		h.Set("Content-Type", f.ContentType)
		part, err := mw.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(f.Content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, url, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	router.ServeHTTP(w, req)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp, w
}

// CreateListing creates a listing through the API and returns its id
func CreateListing(t *testing.T, router *gin.Engine, user string, body map[string]any) string {
	t.Helper()
	resp, w := ExecuteRequestAndParse(t, router, http.MethodPost, "/api/listing/create", user, body)
	require.Equal(t, http.StatusCreated, w.Code, "create failed: %v", resp)
	return resp["_id"].(string)
}

// ListingBody returns a valid create payload; overrides replace individual fields
func ListingBody(overrides map[string]any) map[string]any {
	body := map[string]any{
		"name":          "Sunny Apartment",
		"description":   "Bright two bedroom apartment",
		"address":       "1 Main Street",
		"type":          "rent",
		"bedrooms":      2,
		"bathrooms":     1,
		"regularPrice":  1500,
		"discountPrice": 0,
		"offer":         false,
		"parking":       false,
		"furnished":     false,
		"imageUrls":     []string{"https://res.cloudinary.test/a.jpg"},
	}
	for k, v := range overrides {
		body[k] = v
	}
	return body
}
