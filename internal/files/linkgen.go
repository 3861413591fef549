package files

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// linkTokenBytes gives 256 bits of entropy per token. Collisions are
// practically unreachable, but the registry still checks.
const linkTokenBytes = 32

// LinkGenerator mints the opaque tokens behind special links.
type LinkGenerator struct{}

func NewLinkGenerator() *LinkGenerator {
	return &LinkGenerator{}
}

// Generate returns a fresh URL-safe token.
func (g *LinkGenerator) Generate() (string, error) {
	buf := make([]byte, linkTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating link token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
