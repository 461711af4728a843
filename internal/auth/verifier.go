// Package auth resolves bearer tokens to user ids.
package auth

//go:generate mockgen -source=verifier.go -destination=mock_verifier.go -package=auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for any token that cannot be trusted
var ErrInvalidToken = errors.New("invalid token")

// Verifier checks a bearer token and returns the user id it was issued to
type Verifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

// JWTVerifier verifies HMAC-signed tokens locally
type JWTVerifier struct {
	secret []byte
	issuer string
}

// NewJWTVerifier creates a JWTVerifier. An empty issuer skips the iss check.
func NewJWTVerifier(secret, issuer string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret), issuer: issuer}
}

// Verify parses the token, checks signature, expiry and issuer, and reads the user id
// from "sub", falling back to "user_id".
func (v *JWTVerifier) Verify(_ context.Context, tokenStr string) (string, error) {
	if tokenStr == "" {
		return "", ErrInvalidToken
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if v.issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.issuer))
	}

	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return "", fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		return sub, nil
	}
	if userID, ok := claims["user_id"].(string); ok && userID != "" {
		return userID, nil
	}
	return "", fmt.Errorf("%w: token has no subject", ErrInvalidToken)
}
