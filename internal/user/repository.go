package user

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"mycloud-go/internal/database"
	"mycloud-go/internal/models"
)

// Repository defines the user repository interface
type Repository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error
	// GetByID retrieves a user by their ID
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	// GetByUsername retrieves a user by their username
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// SetSuperuser flips the superuser flag on an account
	SetSuperuser(ctx context.Context, id uuid.UUID, superuser bool) error
	// Delete performs a soft delete of a user
	Delete(ctx context.Context, id uuid.UUID) error
}

type postgresRepository struct {
	db *database.DB
}

// NewPostgresRepository creates a new user repository
func NewPostgresRepository(db *database.DB) Repository {
	return &postgresRepository{db: db}
}

// uniqueViolation maps a unique-constraint violation onto the matching
// sentinel error. Uniqueness is enforced by the database, not by a
// check-then-insert in application code.
func uniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return nil
	}
	switch pgErr.ConstraintName {
	case "users_email_key":
		return ErrEmailExists
	case "users_username_key":
		return ErrUsernameExists
	}
	return nil
}

func (r *postgresRepository) Create(ctx context.Context, user *models.User) error {
	query := `
        INSERT INTO users (id, email, username, password_hash, is_superuser, is_active, created_at, updated_at)
        VALUES (:id, :email, :username, :password_hash, :is_superuser, :is_active, NOW(), NOW())`

	_, err := r.db.NamedExecContext(ctx, query, user)
	if err != nil {
		if mapped := uniqueViolation(err); mapped != nil {
			return mapped
		}
		return err
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *postgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `SELECT * FROM users WHERE username = $1`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *postgresRepository) SetSuperuser(ctx context.Context, id uuid.UUID, superuser bool) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_superuser = $2, updated_at = NOW() WHERE id = $1`, id, superuser)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = false, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrUserNotFound
	}
	return nil
}
