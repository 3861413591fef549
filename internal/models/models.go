package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account.
type User struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	Username     string    `db:"username" json:"username"`
	PasswordHash string    `db:"password_hash" json:"-"`
	IsSuperuser  bool      `db:"is_superuser" json:"is_superuser"`
	IsActive     bool      `db:"is_active" json:"is_active"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// File is the registry record for one stored file.
type File struct {
	ID      uuid.UUID `db:"id" json:"id"`
	OwnerID uuid.UUID `db:"owner_id" json:"owner_id"`

	OriginalName string `db:"original_name" json:"original_name"` // user-supplied display name, unique per owner
	StoredPath   string `db:"stored_path" json:"-"`               // internal blob location, never sent to clients
	Size         int64  `db:"size" json:"size"`                   // byte length of the stored content

	Comment        *string    `db:"comment" json:"comment,omitempty"`                 // optional, at most 500 chars
	UploadDate     time.Time  `db:"upload_date" json:"upload_date"`                   // set once at creation
	LastDownloaded *time.Time `db:"last_downloaded" json:"last_downloaded,omitempty"` // touched on each successful download

	SpecialLink string `db:"special_link" json:"special_link"` // opaque token for unauthenticated retrieval
}

// CreateFileResponse is returned after a successful upload.
type CreateFileResponse struct {
	ID           uuid.UUID `json:"id"`
	FileURL      string    `json:"file_url"`
	OriginalName string    `json:"original_name"`
	Size         int64     `json:"size"`
}

// StorageStats summarizes one owner's stored files.
type StorageStats struct {
	TotalFiles int64 `db:"total_files" json:"total_files"`
	TotalSize  int64 `db:"total_size" json:"total_size"`
}
