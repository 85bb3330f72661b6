package security

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"math"
	"strings"
)

const (
	// MinSecretLength is the minimum recommended length for signing secrets.
	MinSecretLength = 32

	// MinEntropy is the minimum Shannon entropy threshold for secrets.
	// This ensures secrets have sufficient randomness.
	MinEntropy = 3.5
)

var placeholderSecrets = map[string]bool{
	"replace-with-secret":     true,
	"github-webhook-password": true,
	"topsecret":               true,
	"secret":                  true,
	"password":                true,
	"changeme":                true,
}

// CheckSecretStrength reports whether a signing secret meets strength
// recommendations. Checks:
// - Minimum length (32 characters)
// - Not a placeholder value
// - Sufficient Shannon entropy (minimum 3.5)
//
// The result is advisory: a weak secret still signs correctly, so callers
// warn rather than refuse. Many webhook counterparts were provisioned with
// short secrets and their signatures must remain reproducible.
func CheckSecretStrength(secret string) error {
	if len(secret) < MinSecretLength {
		return fmt.Errorf("secret is short (minimum recommended %d characters, got %d)", MinSecretLength, len(secret))
	}

	secretLower := strings.ToLower(secret)
	if placeholderSecrets[secretLower] {
		return fmt.Errorf("secret appears to be a placeholder value")
	}

	if strings.Contains(secretLower, "replace") ||
		strings.Contains(secretLower, "changeme") ||
		strings.Contains(secretLower, "password") {
		return fmt.Errorf("secret appears to be a placeholder value")
	}

	entropy := calculateEntropy(secret)
	if entropy < MinEntropy {
		return fmt.Errorf("secret has low entropy (%.2f < %.2f) - use a more random secret", entropy, MinEntropy)
	}

	return nil
}

// GenerateSecret creates a cryptographically secure random secret.
// Returns a 48-character base64-encoded string.
func GenerateSecret() (string, error) {
	// 36 bytes encode to 48 characters in base64
	bytes := make([]byte, 36)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random secret: %w", err)
	}
	return base64.URLEncoding.EncodeToString(bytes), nil
}

// calculateEntropy computes the Shannon entropy of a string.
// Higher entropy indicates more randomness/unpredictability.
func calculateEntropy(s string) float64 {
	if len(s) == 0 {
		return 0
	}

	freq := make(map[rune]int)
	for _, c := range s {
		freq[c]++
	}

	// H = -Σ(p(x) * log2(p(x)))
	var entropy float64
	length := float64(len(s))

	for _, count := range freq {
		p := float64(count) / length
		entropy -= p * math.Log2(p)
	}

	return entropy
}
