package invitecode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateLengthAndAlphabet(t *testing.T) {
	for i := 0; i < 200; i++ {
		code := Generate()

		assert.Len(t, code, Length)

		for _, r := range code {
			assert.True(t, strings.ContainsRune(alphabet, r), "unexpected symbol %q in %q", r, code)
		}
	}
}

func TestGenerateIsUnpredictable(t *testing.T) {
	seen := make(map[string]struct{})

	for i := 0; i < 1000; i++ {
		code := Generate()

		_, dup := seen[code]
		assert.False(t, dup, "duplicate code %q", code)

		seen[code] = struct{}{}
	}
}
