package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/officehub/request-service/internal/apperrors"
	"github.com/officehub/request-service/internal/db/repository"
	"github.com/officehub/request-service/internal/models"
)

// RequestStore is the persistence surface the request lifecycle needs.
// *repository.RequestRepository satisfies it.
type RequestStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.Request, error)
	List(ctx context.Context, status *models.RequestStatus) ([]models.Request, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Request, error)
	Create(ctx context.Context, request models.Request, creatorID uuid.UUID) (*models.Request, error)
	Update(ctx context.Context, request models.Request) (*models.Request, error)
	TransitionStatus(ctx context.Context, id uuid.UUID, from []models.RequestStatus, to models.RequestStatus, reason *string) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RequestService handles the resource-request lifecycle
type RequestService struct {
	store RequestStore
}

// NewRequestService creates a new request service
func NewRequestService(store RequestStore) *RequestService {
	return &RequestService{store: store}
}

// GetRequest retrieves a request by ID
func (s *RequestService) GetRequest(ctx context.Context, id uuid.UUID) (*models.Request, error) {
	return s.store.GetByID(ctx, id)
}

// ListRequests lists requests, optionally filtered by status
func (s *RequestService) ListRequests(ctx context.Context, status *models.RequestStatus) ([]models.Request, error) {
	return s.store.List(ctx, status)
}

// ListUserRequests lists the requests associated with a user
func (s *RequestService) ListUserRequests(ctx context.Context, userID uuid.UUID) ([]models.Request, error) {
	return s.store.ListByUser(ctx, userID)
}

// CreateRequest submits a new request on behalf of the creator
func (s *RequestService) CreateRequest(ctx context.Context, req models.CreateRequestRequest, creatorID uuid.UUID) (*models.Request, error) {
	request := models.Request{
		Description:  req.Description,
		Type:         req.Type,
		Status:       models.RequestStatusPending,
		RequestDate:  req.RequestDate,
		DepartmentID: req.DepartmentID,
	}

	created, err := s.store.Create(ctx, request, creatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return created, nil
}

// Approve moves a pending request to approved
func (s *RequestService) Approve(ctx context.Context, id uuid.UUID) error {
	request, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if request.Status != models.RequestStatusPending {
		return apperrors.NewValidation("Status", "only pending requests can be approved")
	}

	err = s.store.TransitionStatus(ctx, id, []models.RequestStatus{models.RequestStatusPending}, models.RequestStatusApproved, nil)
	if errors.Is(err, repository.ErrConflict) {
		return apperrors.NewValidation("Status", "only pending requests can be approved")
	}
	return err
}

// Reject moves a pending request to rejected, recording the reason
func (s *RequestService) Reject(ctx context.Context, id uuid.UUID, reason string) error {
	request, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if request.Status != models.RequestStatusPending {
		return apperrors.NewValidation("Status", "only pending requests can be rejected")
	}

	if strings.TrimSpace(reason) == "" {
		return apperrors.NewValidation("RejectionReason", "rejection reason is required")
	}

	err = s.store.TransitionStatus(ctx, id, []models.RequestStatus{models.RequestStatusPending}, models.RequestStatusRejected, &reason)
	if errors.Is(err, repository.ErrConflict) {
		return apperrors.NewValidation("Status", "only pending requests can be rejected")
	}
	return err
}

// cancellable is the set of statuses a request may be cancelled from
var cancellable = []models.RequestStatus{models.RequestStatusPending, models.RequestStatusApproved}

// Cancel moves a pending or approved request to cancelled_by_user. Only a
// user associated with the request may cancel it.
func (s *RequestService) Cancel(ctx context.Context, id uuid.UUID, reason string, actingUserID uuid.UUID) error {
	request, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if actingUserID == uuid.Nil {
		return apperrors.NewValidation("UserId", "acting user is required")
	}

	owner := false
	for _, u := range request.Users {
		if u.ID == actingUserID {
			owner = true
			break
		}
	}
	if !owner {
		return apperrors.NewValidation("UserId", "only a user associated with the request can cancel it")
	}

	if request.Status != models.RequestStatusPending && request.Status != models.RequestStatusApproved {
		return apperrors.NewValidation("Status", "only pending or approved requests can be cancelled")
	}

	if strings.TrimSpace(reason) == "" {
		return apperrors.NewValidation("Reason", "cancellation reason is required")
	}

	err = s.store.TransitionStatus(ctx, id, cancellable, models.RequestStatusCancelledByUser, &reason)
	if errors.Is(err, repository.ErrConflict) {
		return apperrors.NewValidation("Status", "only pending or approved requests can be cancelled")
	}
	return err
}

// UpdateRequest overwrites the editable fields of a request. There is no
// status guard: a request in any status can be edited. The request date is
// only overwritten when a new one is provided.
func (s *RequestService) UpdateRequest(ctx context.Context, id uuid.UUID, req models.UpdateRequestRequest) (*models.Request, error) {
	request, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	request.Description = req.Description
	request.Type = req.Type
	request.DepartmentID = req.DepartmentID
	if req.RequestDate != nil {
		request.RequestDate = req.RequestDate
	}

	updated, err := s.store.Update(ctx, *request)
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteRequest physically removes a request, regardless of status
func (s *RequestService) DeleteRequest(ctx context.Context, id uuid.UUID) error {
	return s.store.Delete(ctx, id)
}
