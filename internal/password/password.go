// Package password generates the random credentials handed to smbpasswd.
package password

import (
	"crypto/rand"
	"fmt"
)

// Length is the fixed length of every generated password.
const Length = 24

const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a random alphanumeric password of Length characters.
//
// Bytes are drawn from crypto/rand and mapped onto the 62-character
// alphabet with rejection sampling, so every character is uniformly
// distributed.
func Generate() (string, error) {
	return generate(Length)
}

func generate(length int) (string, error) {
	// 248 is the largest multiple of 62 below 256; bytes at or above it
	// are rejected to keep the distribution uniform.
	const limit = 248

	out := make([]byte, 0, length)
	buf := make([]byte, length)

	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("failed to read random bytes: %w", err)
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}

	return string(out), nil
}
