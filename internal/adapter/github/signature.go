package github

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// signaturePrefix is the scheme marker GitHub prepends to the hex digest in
// the X-Hub-Signature-256 header.
const signaturePrefix = "sha256="

// VerifySignature reports whether signatureHeader is a valid HMAC-SHA256
// signature of payload under secret.
//
// It fails closed: a missing, empty, or unprefixed header is invalid. The
// comparison is constant-time to avoid leaking digest bytes through timing.
func VerifySignature(secret, payload []byte, signatureHeader string) bool {
	if signatureHeader == "" || !strings.HasPrefix(signatureHeader, signaturePrefix) {
		return false
	}

	mac := hmac.New(sha256.New, secret)
	mac.Write(payload)
	expected := signaturePrefix + hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signatureHeader))
}
