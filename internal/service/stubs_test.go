package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officehub/request-service/internal/apperrors"
	"github.com/officehub/request-service/internal/models"
)

// requestStoreStub implements RequestStore and ExpiryStore with overridable
// function fields.
type requestStoreStub struct {
	getByIDFn          func(ctx context.Context, id uuid.UUID) (*models.Request, error)
	listFn             func(ctx context.Context, status *models.RequestStatus) ([]models.Request, error)
	listByUserFn       func(ctx context.Context, userID uuid.UUID) ([]models.Request, error)
	createFn           func(ctx context.Context, request models.Request, creatorID uuid.UUID) (*models.Request, error)
	updateFn           func(ctx context.Context, request models.Request) (*models.Request, error)
	transitionStatusFn func(ctx context.Context, id uuid.UUID, from []models.RequestStatus, to models.RequestStatus, reason *string) error
	markExpiredFn      func(ctx context.Context, ids []uuid.UUID) error
	deleteFn           func(ctx context.Context, id uuid.UUID) error
}

func noopRequestStore() *requestStoreStub {
	return &requestStoreStub{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Request, error) {
			return &models.Request{ID: id, Status: models.RequestStatusPending}, nil
		},
		listFn: func(context.Context, *models.RequestStatus) ([]models.Request, error) {
			return nil, nil
		},
		listByUserFn: func(context.Context, uuid.UUID) ([]models.Request, error) {
			return nil, nil
		},
		createFn: func(_ context.Context, request models.Request, _ uuid.UUID) (*models.Request, error) {
			request.ID = uuid.New()
			return &request, nil
		},
		updateFn: func(_ context.Context, request models.Request) (*models.Request, error) {
			return &request, nil
		},
		transitionStatusFn: func(context.Context, uuid.UUID, []models.RequestStatus, models.RequestStatus, *string) error {
			return nil
		},
		markExpiredFn: func(context.Context, []uuid.UUID) error {
			return nil
		},
		deleteFn: func(context.Context, uuid.UUID) error {
			return nil
		},
	}
}

func (s *requestStoreStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	return s.getByIDFn(ctx, id)
}

func (s *requestStoreStub) List(ctx context.Context, status *models.RequestStatus) ([]models.Request, error) {
	return s.listFn(ctx, status)
}

func (s *requestStoreStub) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Request, error) {
	return s.listByUserFn(ctx, userID)
}

func (s *requestStoreStub) Create(ctx context.Context, request models.Request, creatorID uuid.UUID) (*models.Request, error) {
	return s.createFn(ctx, request, creatorID)
}

func (s *requestStoreStub) Update(ctx context.Context, request models.Request) (*models.Request, error) {
	return s.updateFn(ctx, request)
}

func (s *requestStoreStub) TransitionStatus(ctx context.Context, id uuid.UUID, from []models.RequestStatus, to models.RequestStatus, reason *string) error {
	return s.transitionStatusFn(ctx, id, from, to, reason)
}

func (s *requestStoreStub) MarkExpired(ctx context.Context, ids []uuid.UUID) error {
	return s.markExpiredFn(ctx, ids)
}

func (s *requestStoreStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

// userStoreStub implements UserStore with overridable function fields.
type userStoreStub struct {
	getByIDFn        func(ctx context.Context, id uuid.UUID) (*models.User, error)
	getByUsernameFn  func(ctx context.Context, username string) (*models.User, error)
	usernameExistsFn func(ctx context.Context, username string) (bool, error)
	listFn           func(ctx context.Context) ([]models.User, error)
	listPendingFn    func(ctx context.Context) ([]models.User, error)
	createFn         func(ctx context.Context, user models.User) (*models.User, error)
	markReviewedFn   func(ctx context.Context, id uuid.UUID, approved bool, reviewedAt time.Time, position *string, departmentID *uuid.UUID, rejectionReason *string) error
}

func noopUserStore() *userStoreStub {
	return &userStoreStub{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.User, error) {
			return &models.User{ID: id}, nil
		},
		getByUsernameFn: func(_ context.Context, username string) (*models.User, error) {
			return nil, apperrors.NewNotFound("user", username)
		},
		usernameExistsFn: func(context.Context, string) (bool, error) {
			return false, nil
		},
		listFn: func(context.Context) ([]models.User, error) {
			return nil, nil
		},
		listPendingFn: func(context.Context) ([]models.User, error) {
			return nil, nil
		},
		createFn: func(_ context.Context, user models.User) (*models.User, error) {
			user.ID = uuid.New()
			return &user, nil
		},
		markReviewedFn: func(context.Context, uuid.UUID, bool, time.Time, *string, *uuid.UUID, *string) error {
			return nil
		},
	}
}

func (s *userStoreStub) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.getByIDFn(ctx, id)
}

func (s *userStoreStub) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.getByUsernameFn(ctx, username)
}

func (s *userStoreStub) UsernameExists(ctx context.Context, username string) (bool, error) {
	return s.usernameExistsFn(ctx, username)
}

func (s *userStoreStub) List(ctx context.Context) ([]models.User, error) {
	return s.listFn(ctx)
}

func (s *userStoreStub) ListPending(ctx context.Context) ([]models.User, error) {
	return s.listPendingFn(ctx)
}

func (s *userStoreStub) Create(ctx context.Context, user models.User) (*models.User, error) {
	return s.createFn(ctx, user)
}

func (s *userStoreStub) MarkReviewed(ctx context.Context, id uuid.UUID, approved bool, reviewedAt time.Time, position *string, departmentID *uuid.UUID, rejectionReason *string) error {
	return s.markReviewedFn(ctx, id, approved, reviewedAt, position, departmentID, rejectionReason)
}

// departmentStoreStub implements DepartmentStore with overridable function fields.
type departmentStoreStub struct {
	getByIDFn func(ctx context.Context, id uuid.UUID) (*models.Department, error)
	listFn    func(ctx context.Context) ([]models.Department, error)
	createFn  func(ctx context.Context, department models.Department) (*models.Department, error)
	updateFn  func(ctx context.Context, department models.Department) (*models.Department, error)
	inUseFn   func(ctx context.Context, id uuid.UUID) (bool, error)
	deleteFn  func(ctx context.Context, id uuid.UUID) error
}

func noopDepartmentStore() *departmentStoreStub {
	return &departmentStoreStub{
		getByIDFn: func(_ context.Context, id uuid.UUID) (*models.Department, error) {
			return &models.Department{ID: id}, nil
		},
		listFn: func(context.Context) ([]models.Department, error) {
			return nil, nil
		},
		createFn: func(_ context.Context, department models.Department) (*models.Department, error) {
			department.ID = uuid.New()
			return &department, nil
		},
		updateFn: func(_ context.Context, department models.Department) (*models.Department, error) {
			return &department, nil
		},
		inUseFn: func(context.Context, uuid.UUID) (bool, error) {
			return false, nil
		},
		deleteFn: func(context.Context, uuid.UUID) error {
			return nil
		},
	}
}

func (s *departmentStoreStub) GetByID(ctx context.Context, id uuid.UUID) (*models.Department, error) {
	return s.getByIDFn(ctx, id)
}

func (s *departmentStoreStub) List(ctx context.Context) ([]models.Department, error) {
	return s.listFn(ctx)
}

func (s *departmentStoreStub) Create(ctx context.Context, department models.Department) (*models.Department, error) {
	return s.createFn(ctx, department)
}

func (s *departmentStoreStub) Update(ctx context.Context, department models.Department) (*models.Department, error) {
	return s.updateFn(ctx, department)
}

func (s *departmentStoreStub) InUse(ctx context.Context, id uuid.UUID) (bool, error) {
	return s.inUseFn(ctx, id)
}

func (s *departmentStoreStub) Delete(ctx context.Context, id uuid.UUID) error {
	return s.deleteFn(ctx, id)
}

// assertValidationError fails unless err is a validation failure on the
// given field.
func assertValidationError(t *testing.T, err error, field string) {
	t.Helper()
	require.Error(t, err)
	ve, ok := apperrors.AsValidation(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	for _, f := range ve.Fields {
		if f.Field == field {
			return
		}
	}
	assert.Failf(t, "missing field violation", "expected a violation on %q, got %v", field, ve.Fields)
}
