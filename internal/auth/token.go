// Package auth implements the two request-authentication paths: a signed
// capability token gating self-service submission, and a static operator
// credential check gating the privileged read path.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

const (
	// DefaultSignatureLength is how many characters of the URL-safe base64
	// HMAC-SHA256 digest form the token signature. Eight characters is only
	// ~48 bits of signature entropy; the truncation is kept for wire
	// compatibility with the legacy token format and is deliberately a
	// named parameter rather than an inline literal. See DESIGN.md before
	// changing it.
	DefaultSignatureLength = 8

	// DefaultMinTokenLength rejects tokens too short to carry both a
	// payload and a signature segment.
	DefaultMinTokenLength = 16
)

// TokenValidator checks proof-of-possession tokens against the shared
// server secret. Validation is stateless: tokens are checked and
// discarded, never stored.
type TokenValidator struct {
	secret []byte
	sigLen int
	minLen int
}

// TokenOption customizes a TokenValidator.
type TokenOption func(*TokenValidator)

// WithSignatureLength overrides the truncated signature length.
func WithSignatureLength(n int) TokenOption {
	return func(v *TokenValidator) { v.sigLen = n }
}

// WithMinTokenLength overrides the minimum accepted token length.
func WithMinTokenLength(n int) TokenOption {
	return func(v *TokenValidator) { v.minLen = n }
}

// NewTokenValidator builds a validator around the shared server secret.
func NewTokenValidator(secret []byte, opts ...TokenOption) *TokenValidator {
	v := &TokenValidator{
		secret: secret,
		sigLen: DefaultSignatureLength,
		minLen: DefaultMinTokenLength,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate reports whether token was minted by a holder of the server
// secret. The last sigLen characters are the presented signature; the
// remainder is the payload whose recomputed signature must match under a
// constant-time comparison. Malformed input is an ordinary validation
// failure — callers get no detail distinguishing a structural reject from
// a signature mismatch.
func (v *TokenValidator) Validate(token string) bool {
	if len(token) < v.minLen || len(token) < v.sigLen {
		return false
	}
	payload := token[:len(token)-v.sigLen]
	presented := token[len(token)-v.sigLen:]
	expected := v.signature(payload)
	return subtle.ConstantTimeCompare([]byte(presented), []byte(expected)) == 1
}

// Sign mints a token for the given payload by appending its truncated
// signature.
func (v *TokenValidator) Sign(payload string) string {
	return payload + v.signature(payload)
}

func (v *TokenValidator) signature(payload string) string {
	mac := hmac.New(sha256.New, v.secret)
	mac.Write([]byte(payload))
	digest := base64.URLEncoding.EncodeToString(mac.Sum(nil))
	return digest[:v.sigLen]
}
