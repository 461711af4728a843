package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func signToken(t *testing.T, method jwt.SigningMethod, key any, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestJWTVerifier_Verify(t *testing.T) {
	t.Parallel()

	exp := time.Now().Add(time.Hour).Unix()
	verifier := NewJWTVerifier(testSecret, "")
	withIssuer := NewJWTVerifier(testSecret, "identity")

	tests := []struct {
		name     string
		verifier *JWTVerifier
		token    func(t *testing.T) string
		wantUser string
	}{
		{
			name:     "hs256_subject",
			verifier: verifier,
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "user1", "exp": exp})
			},
			wantUser: "user1",
		},
		{
			name:     "hs512_user_id_fallback",
			verifier: verifier,
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS512, []byte(testSecret), jwt.MapClaims{"user_id": "user2", "exp": exp})
			},
			wantUser: "user2",
		},
		{
			name:     "matching_issuer",
			verifier: withIssuer,
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS384, []byte(testSecret), jwt.MapClaims{"sub": "user3", "iss": "identity", "exp": exp})
			},
			wantUser: "user3",
		},
		{
			name:     "wrong_issuer",
			verifier: withIssuer,
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "user3", "iss": "other", "exp": exp})
			},
		},
		{
			name:     "wrong_secret",
			verifier: verifier,
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte("other"), jwt.MapClaims{"sub": "user1", "exp": exp})
			},
		},
		{
			name:     "expired",
			verifier: verifier,
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "user1", "exp": time.Now().Add(-time.Minute).Unix()})
			},
		},
		{
			name:     "no_expiry",
			verifier: verifier,
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"sub": "user1"})
			},
		},
		{
			name:     "no_subject",
			verifier: verifier,
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodHS256, []byte(testSecret), jwt.MapClaims{"exp": exp})
			},
		},
		{
			name:     "unsigned",
			verifier: verifier,
			token: func(t *testing.T) string {
				return signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, jwt.MapClaims{"sub": "user1", "exp": exp})
			},
		},
		{
			name:     "garbage",
			verifier: verifier,
			token:    func(t *testing.T) string { return "not.a.token" },
		},
		{
			name:     "empty",
			verifier: verifier,
			token:    func(t *testing.T) string { return "" },
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			userID, err := tc.verifier.Verify(context.Background(), tc.token(t))
			if tc.wantUser == "" {
				require.ErrorIs(t, err, ErrInvalidToken)
				require.Empty(t, userID)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantUser, userID)
		})
	}
}

func TestRemoteVerifier_Verify(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req validateTokenRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch req.Token {
		case "good":
			require.Equal(t, "trace-123", r.Header.Get(TraceIDHeader))
			_ = json.NewEncoder(w).Encode(map[string]string{"user_id": "user1", "email": "u@example.com"})
		case "sub-only":
			_ = json.NewEncoder(w).Encode(map[string]string{"sub": "user2"})
		case "anonymous":
			_ = json.NewEncoder(w).Encode(map[string]string{})
		case "broken":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer srv.Close()

	verifier := NewRemoteVerifier(srv.URL+"/api/v1/auth/validate", srv.Client())
	ctx := WithTraceID(context.Background(), "trace-123")

	userID, err := verifier.Verify(ctx, "good")
	require.NoError(t, err)
	require.Equal(t, "user1", userID)

	userID, err = verifier.Verify(ctx, "sub-only")
	require.NoError(t, err)
	require.Equal(t, "user2", userID)

	_, err = verifier.Verify(ctx, "anonymous")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = verifier.Verify(ctx, "revoked")
	require.ErrorIs(t, err, ErrInvalidToken)

	_, err = verifier.Verify(ctx, "broken")
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidToken)

	_, err = verifier.Verify(ctx, "")
	require.ErrorIs(t, err, ErrInvalidToken)
}
