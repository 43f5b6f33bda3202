// Package token generates the opaque cancellation tokens embedded in
// unsubscribe links.
package token

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Size is the number of random bytes behind each token; the encoded token
// is twice as long.
const Size = 32

// New returns a fresh hex-encoded random token.
func New() (string, error) {
	const op = "token.New"
	buf := make([]byte, Size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return hex.EncodeToString(buf), nil
}

// Generator produces tokens. Services depend on it so tests can inject
// deterministic values.
type Generator func() (string, error)
