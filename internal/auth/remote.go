package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// TraceIDHeader is forwarded to the identity provider when present on ctx
const TraceIDHeader = "X-Trace-ID"

type traceIDKey struct{}

// WithTraceID stores a request trace id on ctx
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns the trace id stored by WithTraceID
func TraceIDFromContext(ctx context.Context) string {
	traceID, _ := ctx.Value(traceIDKey{}).(string)
	return traceID
}

type validateTokenRequest struct {
	Token string `json:"token"`
}

type validateTokenResponse struct {
	UserID string `json:"user_id"`
	Sub    string `json:"sub"`
}

// RemoteVerifier delegates token checks to the identity provider's validate endpoint
type RemoteVerifier struct {
	validateURL string
	httpClient  *http.Client
}

// NewRemoteVerifier creates a RemoteVerifier. A nil client uses a 5s timeout.
func NewRemoteVerifier(validateURL string, client *http.Client) *RemoteVerifier {
	if client == nil {
		client = &http.Client{Timeout: 5 * time.Second}
	}
	return &RemoteVerifier{validateURL: validateURL, httpClient: client}
}

// Verify posts the token to the identity provider and returns the user id it reports
func (v *RemoteVerifier) Verify(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}

	reqBody, err := json.Marshal(validateTokenRequest{Token: token})
	if err != nil {
		return "", fmt.Errorf("failed to marshal validation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.validateURL, bytes.NewReader(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create validation request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if traceID := TraceIDFromContext(ctx); traceID != "" {
		req.Header.Set(TraceIDHeader, traceID)
	}

	resp, err := v.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send validation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
			return "", fmt.Errorf("%w: rejected by identity provider", ErrInvalidToken)
		}
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("identity provider returned status %d: %s", resp.StatusCode, string(body))
	}

	var out validateTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode validation response: %w", err)
	}

	userID := out.UserID
	if userID == "" {
		userID = out.Sub
	}
	if userID == "" {
		return "", fmt.Errorf("%w: identity provider returned no user id", ErrInvalidToken)
	}
	return userID, nil
}
