package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/officehub/request-service/internal/apperrors"
	"github.com/officehub/request-service/internal/models"
)

// DepartmentStore is the persistence surface for departments.
// *repository.DepartmentRepository satisfies it.
type DepartmentStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error)
	List(ctx context.Context) ([]models.Department, error)
	Create(ctx context.Context, department models.Department) (*models.Department, error)
	Update(ctx context.Context, department models.Department) (*models.Department, error)
	InUse(ctx context.Context, id uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// DepartmentService handles department administration
type DepartmentService struct {
	store DepartmentStore
}

// NewDepartmentService creates a new department service
func NewDepartmentService(store DepartmentStore) *DepartmentService {
	return &DepartmentService{store: store}
}

// GetDepartment retrieves a department by ID
func (s *DepartmentService) GetDepartment(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	return s.store.GetByID(ctx, id)
}

// ListDepartments lists all departments
func (s *DepartmentService) ListDepartments(ctx context.Context) ([]models.Department, error) {
	return s.store.List(ctx)
}

// CreateDepartment creates a new department
func (s *DepartmentService) CreateDepartment(ctx context.Context, req models.DepartmentRequest) (*models.Department, error) {
	department := models.Department{
		Name:        req.Name,
		ManagerName: req.ManagerName,
		Headcount:   req.Headcount,
	}

	return s.store.Create(ctx, department)
}

// UpdateDepartment updates a department
func (s *DepartmentService) UpdateDepartment(ctx context.Context, id uuid.UUID, req models.DepartmentRequest) (*models.Department, error) {
	department, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	department.Name = req.Name
	department.ManagerName = req.ManagerName
	department.Headcount = req.Headcount

	return s.store.Update(ctx, *department)
}

// DeleteDepartment deletes a department, refusing while users or requests
// still reference it.
func (s *DepartmentService) DeleteDepartment(ctx context.Context, id uuid.UUID) error {
	if _, err := s.store.GetByID(ctx, id); err != nil {
		return err
	}

	inUse, err := s.store.InUse(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check department references: %w", err)
	}
	if inUse {
		return apperrors.NewValidation("DepartmentId", "department is still referenced by users or requests")
	}

	return s.store.Delete(ctx, id)
}
