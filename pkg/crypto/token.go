package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"strings"
)

const (
	// AdminTokenPrefix makes leaked admin tokens easy to grep for
	AdminTokenPrefix = "tp_admin_"

	DefaultTokenLength = 32 // 256 bits

	fingerprintLength = 12
)

// GenerateToken returns byteLength random bytes, base64url encoded
// without padding. Non-positive lengths use DefaultTokenLength.
func GenerateToken(byteLength int) (string, error) {
	if byteLength <= 0 {
		byteLength = DefaultTokenLength
	}

	bytes := make([]byte, byteLength)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(bytes), nil
}

// GenerateAdminToken returns a fresh prefixed admin token
func GenerateAdminToken() (string, error) {
	token, err := GenerateToken(DefaultTokenLength)
	if err != nil {
		return "", err
	}
	return AdminTokenPrefix + token, nil
}

// IsAdminToken reports whether token has the admin shape
func IsAdminToken(token string) bool {
	return strings.HasPrefix(token, AdminTokenPrefix) && len(token) > len(AdminTokenPrefix)
}

// Fingerprint is a short non-reversible tag for a token, safe for logs
func Fingerprint(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])[:fingerprintLength]
}
