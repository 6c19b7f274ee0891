package session

import (
	"encoding/json"
	"fmt"
	"time"

	jwt "github.com/golang-jwt/jwt/v4"
)

// TokenInfo is what the client can learn from its bearer token without the
// signing key.
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry that has passed.
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}

// InspectToken decodes the JWT payload without verifying its signature.
// Opaque (non-JWT) tokens return an error.
func InspectToken(token string) (TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, fmt.Errorf("parse token: %w", err)
	}

	var info TokenInfo
	for _, key := range []string{"sub", "name", "email", "id"} {
		if v, ok := claims[key].(string); ok && v != "" {
			info.Subject = v
			break
		}
	}
	switch exp := claims["exp"].(type) {
	case float64:
		info.ExpiresAt = time.Unix(int64(exp), 0)
	case json.Number:
		if n, err := exp.Int64(); err == nil {
			info.ExpiresAt = time.Unix(n, 0)
		}
	}
	return info, nil
}
