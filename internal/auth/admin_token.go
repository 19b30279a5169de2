// Package auth issues and verifies the stateless admin bearer token.
//
// Token format: "<issued_at_unix_ms>.<hex HMAC-SHA256(issued_at_unix_ms, secret)>".
// Tokens are valid for TokenTTL after issue and cannot be revoked early.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strconv"
	"strings"
	"time"
)

// TokenTTL is the lifetime of an admin token.
const TokenTTL = 12 * time.Hour

var ErrMissingSecret = errors.New("missing ADMIN_PASSWORD")

const bearerPrefix = "Bearer "

func sign(data, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(data))
	return hex.EncodeToString(m.Sum(nil))
}

// Issue mints a token stamped with now.
func Issue(secret string, now time.Time) (string, error) {
	if secret == "" {
		return "", ErrMissingSecret
	}
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	return ts + "." + sign(ts, secret), nil
}

// ExpiresAt returns when a token issued at issuedAt stops being accepted.
func ExpiresAt(issuedAt time.Time) time.Time {
	return issuedAt.Add(TokenTTL)
}

// Verify reports whether token is well formed, unexpired at now and signed
// with secret. Any malformed input yields false.
func Verify(token, secret string, now time.Time) bool {
	if secret == "" {
		return false
	}

	parts := strings.Split(token, ".")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return false
	}

	issuedMs, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return false
	}
	age := now.UnixMilli() - issuedMs
	if age < 0 || age > TokenTTL.Milliseconds() {
		return false
	}

	// hmac.Equal runs in time independent of where the inputs differ.
	return hmac.Equal([]byte(parts[1]), []byte(sign(parts[0], secret)))
}

// FromAuthorizationHeader extracts the token from "Bearer <token>".
func FromAuthorizationHeader(header string) string {
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(header[len(bearerPrefix):])
}

// CheckPassword compares a login password with the configured secret in
// constant time.
func CheckPassword(password, secret string) bool {
	if secret == "" || password == "" {
		return false
	}
	a := sha256.Sum256([]byte(password))
	b := sha256.Sum256([]byte(secret))
	return hmac.Equal(a[:], b[:])
}
