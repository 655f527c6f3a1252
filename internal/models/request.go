package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/officehub/request-service/internal/apperrors"
)

// RequestStatus represents the lifecycle status of a resource request
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
	// RequestStatusCancelled is kept for wire compatibility with older
	// clients; no operation currently produces it.
	RequestStatusCancelled       RequestStatus = "cancelled"
	RequestStatusCancelledByUser RequestStatus = "cancelled_by_user"
	RequestStatusExpired         RequestStatus = "expired"
)

// RequestType represents the kind of office resource being requested
type RequestType string

const (
	RequestTypeConferenceRoom        RequestType = "conference_room"
	RequestTypeConferenceRoomParking RequestType = "conference_room_parking"
	RequestTypeDesk                  RequestType = "desk"
	RequestTypeDeskParking           RequestType = "desk_parking"
)

// ValidRequestType reports whether t is a member of the request type enum.
func ValidRequestType(t RequestType) bool {
	switch t {
	case RequestTypeConferenceRoom, RequestTypeConferenceRoomParking,
		RequestTypeDesk, RequestTypeDeskParking:
		return true
	}
	return false
}

const maxDescriptionLength = 150

// Request represents an office-resource request
type Request struct {
	ID               uuid.UUID     `db:"id" json:"id"`
	Description      string        `db:"description" json:"description"`
	Type             RequestType   `db:"type" json:"type"`
	Status           RequestStatus `db:"status" json:"status"`
	RequestDate      *time.Time    `db:"request_date" json:"request_date"`
	ResolutionReason *string       `db:"resolution_reason" json:"resolution_reason"`
	DepartmentID     *uuid.UUID    `db:"department_id" json:"department_id"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`

	// Not stored directly in the database
	Users      []User      `db:"-" json:"users,omitempty"`
	Department *Department `db:"-" json:"department,omitempty"`
}

// CreateRequestRequest is used for request submission
type CreateRequestRequest struct {
	Description  string      `json:"description"`
	Type         RequestType `json:"type"`
	RequestDate  *time.Time  `json:"request_date"`
	DepartmentID *uuid.UUID  `json:"department_id"`
}

// Validate checks the field-level rules for request submission.
func (r CreateRequestRequest) Validate() error {
	var v apperrors.ValidationError
	if strings.TrimSpace(r.Description) == "" {
		v.Add("Description", "description is required")
	} else if len(r.Description) > maxDescriptionLength {
		v.Add("Description", "description must be at most 150 characters")
	}
	if !ValidRequestType(r.Type) {
		v.Add("Type", "type must be one of conference_room, conference_room_parking, desk, desk_parking")
	}
	return v.OrNil()
}

// UpdateRequestRequest is used for editing an existing request
type UpdateRequestRequest struct {
	Description  string      `json:"description"`
	Type         RequestType `json:"type"`
	RequestDate  *time.Time  `json:"request_date"`
	DepartmentID *uuid.UUID  `json:"department_id"`
}

// Validate checks the field-level rules for request edits.
func (r UpdateRequestRequest) Validate() error {
	return CreateRequestRequest{Description: r.Description, Type: r.Type}.Validate()
}

// RejectRequestRequest carries the rejection reason
type RejectRequestRequest struct {
	Reason string `json:"reason"`
}

// CancelRequestRequest carries the cancellation reason; the acting user
// comes from the authenticated context, not the body.
type CancelRequestRequest struct {
	Reason string `json:"reason"`
}
