package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/officehub/request-service/internal/apperrors"
	"github.com/officehub/request-service/internal/models"
)

// DepartmentRepository handles department data access
type DepartmentRepository struct {
	db *sqlx.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *sqlx.DB) *DepartmentRepository {
	return &DepartmentRepository{db: db}
}

// GetByID retrieves a department by ID
func (r *DepartmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	query := `
		SELECT id, name, manager_name, headcount, created_at
		FROM departments
		WHERE id = $1
	`

	var department models.Department
	err := r.db.GetContext(ctx, &department, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("department", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get department: %w", err)
	}

	return &department, nil
}

// List retrieves all departments
func (r *DepartmentRepository) List(ctx context.Context) ([]models.Department, error) {
	query := `
		SELECT id, name, manager_name, headcount, created_at
		FROM departments
		ORDER BY name ASC
	`

	var departments []models.Department
	err := r.db.SelectContext(ctx, &departments, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list departments: %w", err)
	}

	return departments, nil
}

// Create creates a new department
func (r *DepartmentRepository) Create(ctx context.Context, department models.Department) (*models.Department, error) {
	query := `
		INSERT INTO departments (name, manager_name, headcount)
		VALUES ($1, $2, $3)
		RETURNING id, name, manager_name, headcount, created_at
	`

	var created models.Department
	err := r.db.GetContext(ctx, &created, query, department.Name, department.ManagerName, department.Headcount)
	if err != nil {
		return nil, fmt.Errorf("failed to create department: %w", err)
	}

	return &created, nil
}

// Update updates a department
func (r *DepartmentRepository) Update(ctx context.Context, department models.Department) (*models.Department, error) {
	query := `
		UPDATE departments
		SET name = $1, manager_name = $2, headcount = $3
		WHERE id = $4
		RETURNING id, name, manager_name, headcount, created_at
	`

	var updated models.Department
	err := r.db.GetContext(ctx, &updated, query, department.Name, department.ManagerName, department.Headcount, department.ID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("department", department.ID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update department: %w", err)
	}

	return &updated, nil
}

// InUse reports whether any user or request still references the department
func (r *DepartmentRepository) InUse(ctx context.Context, id uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM users WHERE department_id = $1)
		    OR EXISTS (SELECT 1 FROM requests WHERE department_id = $1)
	`

	var inUse bool
	if err := r.db.GetContext(ctx, &inUse, query, id); err != nil {
		return false, fmt.Errorf("failed to check department references: %w", err)
	}

	return inUse, nil
}

// Delete deletes a department
func (r *DepartmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM departments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete department: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return apperrors.NewNotFound("department", id.String())
	}

	return nil
}
