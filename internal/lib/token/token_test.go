package token

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tok, err := New()
	require.NoError(t, err)
	assert.Len(t, tok, Size*2)

	_, err = hex.DecodeString(tok)
	assert.NoError(t, err)
}

func TestNew_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for range 100 {
		tok, err := New()
		require.NoError(t, err)
		_, dup := seen[tok]
		require.False(t, dup, "duplicate token %s", tok)
		seen[tok] = struct{}{}
	}
}
