package files

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"

	"mycloud-go/internal/database"
	"mycloud-go/internal/models"
)

type postgresRepository struct {
	db *database.DB
}

func NewPostgresRepository(db *database.DB) Repository {
	return &postgresRepository{db: db}
}

// uniqueViolation maps a unique-constraint violation onto the matching
// sentinel error, or returns nil if err is something else.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch pgErr.ConstraintName {
	case "files_owner_name_key":
		return ErrDuplicateName
	case "files_special_link_key", "special_links_pkey":
		return ErrDuplicateLink
	}
	return nil
}

// Create inserts the special-link ledger row and the file row in one
// transaction, so either the full record with its invariants becomes
// visible or nothing does. The ledger row outlives the file row, which is
// what makes link tokens single-use forever.
func (r *postgresRepository) Create(ctx context.Context, file *models.File) error {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO special_links (token) VALUES ($1)`, file.SpecialLink); err != nil {
			return err
		}

		_, err := tx.NamedExecContext(ctx, `
            INSERT INTO files (id, owner_id, original_name, stored_path, size, comment, upload_date, special_link)
            VALUES (:id, :owner_id, :original_name, :stored_path, :size, :comment, NOW(), :special_link)`, file)
		return err
	})
	if err != nil {
		if mapped := uniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("inserting file record: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.File, error) {
	var file models.File
	err := r.db.GetContext(ctx, &file, `SELECT * FROM files WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving file: %w", err)
	}
	return &file, nil
}

func (r *postgresRepository) GetByLink(ctx context.Context, token string) (*models.File, error) {
	var file models.File
	err := r.db.GetContext(ctx, &file, `SELECT * FROM files WHERE special_link = $1`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving file by link: %w", err)
	}
	return &file, nil
}

func (r *postgresRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]*models.File, error) {
	var files []*models.File
	err := r.db.SelectContext(ctx, &files,
		`SELECT * FROM files WHERE owner_id = $1 ORDER BY upload_date DESC LIMIT $2 OFFSET $3`,
		ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("listing files: %w", err)
	}
	return files, nil
}

// Rename updates the display name. Renaming a file to its current name hits
// the same row, so the unique constraint does not fire and the operation is
// idempotent.
func (r *postgresRepository) Rename(ctx context.Context, id uuid.UUID, newName string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE files SET original_name = $2 WHERE id = $1`, id, newName)
	if err != nil {
		if mapped := uniqueViolation(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("renaming file: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateComment(ctx context.Context, id uuid.UUID, comment *string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE files SET comment = $2 WHERE id = $1`, id, comment)
	if err != nil {
		return fmt.Errorf("updating comment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchLastDownloaded is deliberately a standalone update: losing it on a
// crash is acceptable, and it must never hold up the byte stream.
func (r *postgresRepository) TouchLastDownloaded(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE files SET last_downloaded = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("touching last_downloaded: %w", err)
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) (string, error) {
	var storedPath string
	err := r.db.GetContext(ctx, &storedPath,
		`DELETE FROM files WHERE id = $1 RETURNING stored_path`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("deleting file record: %w", err)
	}
	return storedPath, nil
}

func (r *postgresRepository) Stats(ctx context.Context, ownerID uuid.UUID) (*models.StorageStats, error) {
	var stats models.StorageStats
	err := r.db.GetContext(ctx, &stats, `
        SELECT
            COUNT(*) AS total_files,
            COALESCE(SUM(size), 0) AS total_size
        FROM files
        WHERE owner_id = $1`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("computing storage stats: %w", err)
	}
	return &stats, nil
}
