package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
)

type recordingPoster struct {
	tags     []string
	messages []map[string]any
}

func (r *recordingPoster) Post(tag string, message any) error {
	r.tags = append(r.tags, tag)
	r.messages = append(r.messages, message.(map[string]any))
	return nil
}

func TestFluentHook(t *testing.T) {
	poster := &recordingPoster{}
	hook := newFluentHook(poster, log.WarnLevel)

	require.ElementsMatch(t, []log.Level{log.PanicLevel, log.FatalLevel, log.ErrorLevel, log.WarnLevel}, hook.Levels())

	logger := log.New()
	logger.SetOutput(io.Discard)
	logger.AddHook(hook)

	logger.WithFields(log.Fields{"listing_id": "l1", "error": errors.New("boom")}).Warn("update failed")
	logger.Info("ignored")

	require.Equal(t, []string{"warning"}, poster.tags)
	msg := poster.messages[0]
	require.Equal(t, "update failed", msg["message"])
	require.Equal(t, "l1", msg["listing_id"])
	require.Equal(t, "boom", msg["error"])
	require.NotEmpty(t, msg["timestamp"])
}

func TestJSONError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	JSONError(c, http.StatusNotFound, "Listing not found!")

	require.Equal(t, http.StatusNotFound, w.Code)
	require.True(t, c.IsAborted())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, false, body["success"])
	require.Equal(t, float64(http.StatusNotFound), body["statusCode"])
	require.Equal(t, "Listing not found!", body["message"])
}

func TestJSONSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	JSONSuccess(c, http.StatusOK, gin.H{"message": "Listing has been deleted!"})

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, true, body["success"])
	require.Equal(t, "Listing has been deleted!", body["message"])
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	require.NotEqual(t, a, b)
	_, err := uuid.Parse(a)
	require.NoError(t, err)
}

func TestTraceID(t *testing.T) {
	testCases := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "Keeps_Valid", incoming: "trace-abc_1.2", keep: true},
		{name: "Replaces_Empty", incoming: ""},
		{name: "Replaces_Newline", incoming: "abc\ninjected"},
		{name: "Replaces_TooLong", incoming: strings.Repeat("a", 65)},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			got := TraceID(tc.incoming)
			if tc.keep {
				require.Equal(t, tc.incoming, got)
				return
			}
			_, err := uuid.Parse(got)
			require.NoError(t, err)
		})
	}
}

func TestConfigure(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() {
		log.SetOutput(os.Stdout)
		log.SetLevel(log.InfoLevel)
		base = log.NewEntry(log.StandardLogger())
	})

	Configure("debug", "listing-marketplace")
	require.Equal(t, log.DebugLevel, log.GetLevel())

	Debug("listing cached", map[string]any{"listing_id": "l1"})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "listing-marketplace", entry["service"])
	require.Equal(t, "l1", entry["listing_id"])
	require.Equal(t, "debug", entry["level"])

	Configure("loud", "")
	require.Equal(t, log.InfoLevel, log.GetLevel())
}
