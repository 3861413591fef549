package files

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkGeneratorTokens(t *testing.T) {
	gen := NewLinkGenerator()

	token, err := gen.Generate()
	require.NoError(t, err)

	decoded, err := base64.RawURLEncoding.DecodeString(token)
	require.NoError(t, err, "token must be URL-safe base64")
	assert.Len(t, decoded, linkTokenBytes)
}

func TestLinkGeneratorUnique(t *testing.T) {
	gen := NewLinkGenerator()

	seen := make(map[string]bool)
	for i := 0; i < 10000; i++ {
		token, err := gen.Generate()
		require.NoError(t, err)
		require.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}
