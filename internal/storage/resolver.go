package storage

import (
	"crypto/rand"
	"fmt"
	"path"
	"path/filepath"

	"github.com/google/uuid"
)

// PathResolver derives blob keys. Every key lives under the owner's root and
// carries a random component, so a key can never be predicted from the
// display name and two uploads never collide, even concurrent ones with the
// same filename.
type PathResolver struct{}

func NewPathResolver() *PathResolver {
	return &PathResolver{}
}

// Root returns the owner's fixed storage root, relative to the provider base.
func (p *PathResolver) Root(ownerID uuid.UUID) string {
	return ownerID.String()
}

// Target allocates a fresh key for an upload of the given display name.
func (p *PathResolver) Target(ownerID uuid.UUID, filename string) (string, error) {
	suffix := make([]byte, 8)
	if _, err := rand.Read(suffix); err != nil {
		return "", fmt.Errorf("generating path suffix: %w", err)
	}

	// Base strips any path components a hostile client might smuggle in.
	name := filepath.Base(filename)
	return path.Join(p.Root(ownerID), fmt.Sprintf("%x-%s", suffix, name)), nil
}
