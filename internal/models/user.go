package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/officehub/request-service/internal/apperrors"
)

// UserRole represents the role assigned to an account
type UserRole string

const (
	RoleUser          UserRole = "user"
	RoleAdministrator UserRole = "administrator"
	RoleManager       UserRole = "manager"
	RoleBranchManager UserRole = "branch_manager"
)

// User represents an account in the system
type User struct {
	ID              uuid.UUID  `db:"id" json:"id"`
	Username        string     `db:"username" json:"username"`
	PasswordHash    string     `db:"password_hash" json:"-"` // Never expose in JSON
	Role            UserRole   `db:"role" json:"role"`
	Position        *string    `db:"position" json:"position"`
	DepartmentID    *uuid.UUID `db:"department_id" json:"department_id"`
	IsApproved      bool       `db:"is_approved" json:"is_approved"`
	ReviewedAt      *time.Time `db:"reviewed_at" json:"reviewed_at"`
	RejectionReason *string    `db:"rejection_reason" json:"rejection_reason"`
	CreatedAt       time.Time  `db:"created_at" json:"created_at"`
}

// Reviewed reports whether the account has already been through review.
// Review is one-shot: once this returns true the account can never be
// reviewed again.
func (u *User) Reviewed() bool {
	return u.IsApproved || u.ReviewedAt != nil
}

// Summary returns the public view of the user.
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Role: u.Role}
}

// UserSummary is the login response payload alongside the token
type UserSummary struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Role     UserRole  `json:"role"`
}

// SignUpRequest is used for account registration
type SignUpRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

// Validate checks the field-level rules for registration.
func (r SignUpRequest) Validate() error {
	var v apperrors.ValidationError
	if l := len(strings.TrimSpace(r.Username)); l < 3 || l > 50 {
		v.Add("Username", "username must be between 3 and 50 characters")
	}
	if len(r.Password) < 6 {
		v.Add("Password", "password must be at least 6 characters")
	}
	if r.Password != r.ConfirmPassword {
		v.Add("ConfirmPassword", "passwords do not match")
	}
	return v.OrNil()
}

// LoginRequest is used for authentication
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// ReviewUserRequest is used by administrators to approve or reject a signup
type ReviewUserRequest struct {
	Approve         bool       `json:"approve"`
	Position        *string    `json:"position"`
	DepartmentID    *uuid.UUID `json:"department_id"`
	RejectionReason *string    `json:"rejection_reason"`
}

// Validate checks that an approval carries a position and a department.
func (r ReviewUserRequest) Validate() error {
	if !r.Approve {
		return nil
	}
	var v apperrors.ValidationError
	if r.Position == nil || strings.TrimSpace(*r.Position) == "" {
		v.Add("Position", "position is required when approving an account")
	}
	if r.DepartmentID == nil {
		v.Add("DepartmentId", "department is required when approving an account")
	}
	return v.OrNil()
}
