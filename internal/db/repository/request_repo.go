package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/officehub/request-service/internal/apperrors"
	"github.com/officehub/request-service/internal/models"
)

// RequestRepository handles resource-request data access
type RequestRepository struct {
	db *sqlx.DB
}

// NewRequestRepository creates a new request repository
func NewRequestRepository(db *sqlx.DB) *RequestRepository {
	return &RequestRepository{db: db}
}

// GetByID retrieves a request by ID, including its associated users
func (r *RequestRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	query := `
		SELECT id, description, type, status, request_date, resolution_reason, department_id, created_at
		FROM requests
		WHERE id = $1
	`

	var request models.Request
	err := r.db.GetContext(ctx, &request, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("request", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}

	users, err := r.getRequestUsers(ctx, request.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get request users: %w", err)
	}
	request.Users = users

	return &request, nil
}

// getRequestUsers retrieves the users associated with a request
func (r *RequestRepository) getRequestUsers(ctx context.Context, requestID uuid.UUID) ([]models.User, error) {
	query := `
		SELECT u.id, u.username, u.password_hash, u.role, u.position, u.department_id,
		       u.is_approved, u.reviewed_at, u.rejection_reason, u.created_at
		FROM users u
		JOIN request_users ru ON ru.user_id = u.id
		WHERE ru.request_id = $1
		ORDER BY u.username ASC
	`

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, query, requestID); err != nil {
		return nil, err
	}

	return users, nil
}

// List retrieves requests, optionally filtered by status
func (r *RequestRepository) List(ctx context.Context, status *models.RequestStatus) ([]models.Request, error) {
	var query string
	var args []interface{}

	if status != nil {
		query = `
			SELECT id, description, type, status, request_date, resolution_reason, department_id, created_at
			FROM requests
			WHERE status = $1
			ORDER BY created_at DESC
		`
		args = append(args, *status)
	} else {
		query = `
			SELECT id, description, type, status, request_date, resolution_reason, department_id, created_at
			FROM requests
			ORDER BY created_at DESC
		`
	}

	var requests []models.Request
	err := r.db.SelectContext(ctx, &requests, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests: %w", err)
	}

	return requests, nil
}

// ListByUser retrieves the requests associated with a user
func (r *RequestRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Request, error) {
	query := `
		SELECT rq.id, rq.description, rq.type, rq.status, rq.request_date,
		       rq.resolution_reason, rq.department_id, rq.created_at
		FROM requests rq
		JOIN request_users ru ON ru.request_id = rq.id
		WHERE ru.user_id = $1
		ORDER BY rq.created_at DESC
	`

	var requests []models.Request
	err := r.db.SelectContext(ctx, &requests, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list requests for user: %w", err)
	}

	return requests, nil
}

// Create inserts a new request and links it to its creator
func (r *RequestRepository) Create(ctx context.Context, request models.Request, creatorID uuid.UUID) (*models.Request, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	requestQuery := `
		INSERT INTO requests (description, type, status, request_date, department_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, description, type, status, request_date, resolution_reason, department_id, created_at
	`

	var created models.Request
	err = tx.GetContext(
		ctx,
		&created,
		requestQuery,
		request.Description,
		request.Type,
		request.Status,
		request.RequestDate,
		request.DepartmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	linkQuery := `
		INSERT INTO request_users (request_id, user_id)
		VALUES ($1, $2)
	`

	if _, err = tx.ExecContext(ctx, linkQuery, created.ID, creatorID); err != nil {
		return nil, fmt.Errorf("failed to link request creator: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &created, nil
}

// Update overwrites the editable fields of a request
func (r *RequestRepository) Update(ctx context.Context, request models.Request) (*models.Request, error) {
	query := `
		UPDATE requests
		SET description = $1, type = $2, request_date = $3, department_id = $4
		WHERE id = $5
		RETURNING id, description, type, status, request_date, resolution_reason, department_id, created_at
	`

	var updated models.Request
	err := r.db.GetContext(
		ctx,
		&updated,
		query,
		request.Description,
		request.Type,
		request.RequestDate,
		request.DepartmentID,
		request.ID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("request", request.ID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update request: %w", err)
	}

	return &updated, nil
}

// TransitionStatus moves a request to a new status, guarded by the set of
// statuses the transition may originate from. Two concurrent transitions
// against the same request cannot both succeed: the losing update matches
// zero rows and reports ErrConflict.
func (r *RequestRepository) TransitionStatus(ctx context.Context, id uuid.UUID, from []models.RequestStatus, to models.RequestStatus, reason *string) error {
	query := `
		UPDATE requests
		SET status = $1, resolution_reason = COALESCE($2, resolution_reason)
		WHERE id = $3 AND status = ANY($4)
	`

	allowed := make([]string, len(from))
	for i, s := range from {
		allowed[i] = string(s)
	}

	result, err := r.db.ExecContext(ctx, query, to, reason, id, pq.Array(allowed))
	if err != nil {
		return fmt.Errorf("failed to transition request status: %w", err)
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

// MarkExpired flags the given requests as expired in one batch. Requests
// that have left the pending status since they were selected are skipped,
// which keeps the sweep idempotent.
func (r *RequestRepository) MarkExpired(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE requests
		SET status = $1
		WHERE id = ANY($2) AND status = $3
	`

	_, err := r.db.ExecContext(ctx, query, models.RequestStatusExpired, pq.Array(ids), models.RequestStatusPending)
	if err != nil {
		return fmt.Errorf("failed to mark requests expired: %w", err)
	}

	return nil
}

// Delete physically removes a request and its user associations
func (r *RequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM requests WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete request: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFound("request", id.String())
	}

	return nil
}
