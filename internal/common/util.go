package common

import (
	"crypto/rand"
	"strings"

	"golang.org/x/text/cases"
)

var emailFolder = cases.Fold()

// GenerateRandByteArray returns size bytes read from crypto/rand.
// It panics if the system random source fails.
func GenerateRandByteArray(size int) []byte {
	b := make([]byte, size)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return b
}

// WipeByteArray overwrites the contents of b with zeros.
// Useful for passwords read from the terminal. Nil-safe.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}

// NormalizeEmail trims surrounding whitespace and applies Unicode case
// folding so that the same address always maps to the same join key.
func NormalizeEmail(email string) string {
	return emailFolder.String(strings.TrimSpace(email))
}

// EmailLocalPart returns the part of email before '@', or the whole
// string if there is none.
func EmailLocalPart(email string) string {
	if i := strings.IndexByte(email, '@'); i > 0 {
		return email[:i]
	}
	return email
}
