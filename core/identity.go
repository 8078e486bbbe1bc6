package core

import (
	"strconv"
	"strings"
)

const (
	// DemoAccountKey is used when a request carries no identifier at all
	DemoAccountKey = "demo_user"

	// ChatKeyPrefix tags accounts that came in through the MAX bot
	ChatKeyPrefix = "max_"

	// WebKeyPrefix tags accounts derived from a web app username
	WebKeyPrefix = "user_"
)

// NormalizeAccountKey maps a raw identifier to its canonical account key.
//
// Empty input maps to DemoAccountKey, bare numeric IDs get ChatKeyPrefix,
// anything else is returned as is. Applying it twice is the same as once.
func NormalizeAccountKey(raw string) string {
	if raw == "" {
		return DemoAccountKey
	}
	if isDigits(raw) && !strings.HasPrefix(raw, ChatKeyPrefix) {
		return ChatKeyPrefix + raw
	}
	return raw
}

// ChatAccountKey is NormalizeAccountKey for numeric chat-platform user IDs.
// Platform user IDs are positive; a non-positive id yields DemoAccountKey
// rather than an unprefixed key that could pass for a web account.
func ChatAccountKey(id int64) string {
	if id <= 0 {
		return DemoAccountKey
	}
	return NormalizeAccountKey(strconv.FormatInt(id, 10))
}

// WebAccountKey derives the web front door key from a username
func WebAccountKey(username string) string {
	slug := strings.ReplaceAll(strings.ToLower(username), " ", "_")
	return WebKeyPrefix + slug
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
