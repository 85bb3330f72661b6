package signature

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

const (
	// SignaturePrefix is the scheme prefix GitHub uses for the
	// X-Hub-Signature-256 header value.
	SignaturePrefix = "sha256="
)

// Sign computes the HMAC-SHA256 signature of payload under secret.
//
// The result is the literal prefix "sha256=" followed by the lowercase
// hex encoding of the 32-byte digest, matching what a GitHub webhook
// would carry in its X-Hub-Signature-256 header. Signing is a pure
// function of (payload, secret): identical inputs always produce an
// identical signature.
//
// Callers holding string payloads must convert with []byte(s), which is
// UTF-8 in Go. The verifying party must use the same encoding or the
// digests will not match.
func Sign(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return SignaturePrefix + hex.EncodeToString(mac.Sum(nil))
}
