// Package invitecode generates shareable join codes for private channels.
package invitecode

import "crypto/rand"

// Length of every generated code.
const Length = 10

// 62 symbols, ~5.95 bits each: a 10-character code carries ~59.5 bits of
// entropy, so codes are collision-resistant without a uniqueness check.
const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// Generate returns a new invite code. It never fails.
func Generate() string {
	code := make([]byte, 0, Length)
	buf := make([]byte, Length)

	for len(code) < Length {
		// crypto/rand.Read never returns an error.
		rand.Read(buf)

		for _, b := range buf {
			// Rejection sampling keeps the distribution uniform:
			// 248 is the largest multiple of 62 below 256.
			if b >= 248 {
				continue
			}

			code = append(code, alphabet[int(b)%len(alphabet)])
			if len(code) == Length {
				break
			}
		}
	}

	return string(code)
}
