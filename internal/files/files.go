package files

import (
	"context"

	"github.com/google/uuid"

	"mycloud-go/internal/models"
)

// Repository is the authoritative record store for files. Uniqueness of
// (owner, name) and of special links is enforced by database constraints,
// never by check-then-insert in application code.
type Repository interface {
	Create(ctx context.Context, file *models.File) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.File, error)
	GetByLink(ctx context.Context, token string) (*models.File, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.File, error)
	Rename(ctx context.Context, id uuid.UUID, newName string) error
	UpdateComment(ctx context.Context, id uuid.UUID, comment *string) error
	TouchLastDownloaded(ctx context.Context, id uuid.UUID) error
	// Delete removes the record and returns its stored_path so the caller
	// can purge the backing blob.
	Delete(ctx context.Context, id uuid.UUID) (string, error)
	Stats(ctx context.Context, ownerID uuid.UUID) (*models.StorageStats, error)
}
