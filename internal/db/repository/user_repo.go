package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/officehub/request-service/internal/apperrors"
	"github.com/officehub/request-service/internal/models"
)

// UserRepository handles user data access
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, username, password_hash, role, position, department_id, is_approved, reviewed_at, rejection_reason, created_at`

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("user", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// GetByUsername retrieves a user by username. The match is exact and
// case-sensitive.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`

	var user models.User
	err := r.db.GetContext(ctx, &user, query, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("user", username)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return &user, nil
}

// UsernameExists reports whether a user with the exact username exists
func (r *UserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return exists, nil
}

// List retrieves all users
func (r *UserRepository) List(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY username ASC`

	var users []models.User
	err := r.db.SelectContext(ctx, &users, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	return users, nil
}

// ListPending retrieves users awaiting review
func (r *UserRepository) ListPending(ctx context.Context) ([]models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE is_approved = FALSE AND reviewed_at IS NULL
		ORDER BY created_at ASC
	`

	var users []models.User
	err := r.db.SelectContext(ctx, &users, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending users: %w", err)
	}

	return users, nil
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, user models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, role, is_approved)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns + `
	`

	var created models.User
	err := r.db.GetContext(
		ctx,
		&created,
		query,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.IsApproved,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &created, nil
}

// MarkReviewed records the review outcome for an account. The update is
// guarded so that an account can only ever be reviewed once; a second
// attempt matches zero rows and reports ErrConflict.
func (r *UserRepository) MarkReviewed(ctx context.Context, id uuid.UUID, approved bool, reviewedAt time.Time, position *string, departmentID *uuid.UUID, rejectionReason *string) error {
	query := `
		UPDATE users
		SET is_approved = $1,
		    reviewed_at = $2,
		    position = COALESCE($3, position),
		    department_id = COALESCE($4, department_id),
		    rejection_reason = COALESCE($5, rejection_reason)
		WHERE id = $6 AND is_approved = FALSE AND reviewed_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, approved, reviewedAt, position, departmentID, rejectionReason, id)
	if err != nil {
		return fmt.Errorf("failed to mark user reviewed: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrConflict
	}

	return nil
}
