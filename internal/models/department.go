package models

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/officehub/request-service/internal/apperrors"
)

// Department represents an organisational unit referenced by users and requests
type Department struct {
	ID          uuid.UUID `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	ManagerName string    `db:"manager_name" json:"manager_name"`
	Headcount   int       `db:"headcount" json:"headcount"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// DepartmentRequest is used for department creation and updates
type DepartmentRequest struct {
	Name        string `json:"name"`
	ManagerName string `json:"manager_name"`
	Headcount   int    `json:"headcount"`
}

// Validate checks the field-level rules for departments.
func (r DepartmentRequest) Validate() error {
	var v apperrors.ValidationError
	if strings.TrimSpace(r.Name) == "" {
		v.Add("Name", "name is required")
	}
	if strings.TrimSpace(r.ManagerName) == "" {
		v.Add("ManagerName", "manager name is required")
	}
	if r.Headcount < 0 {
		v.Add("Headcount", "headcount must not be negative")
	}
	return v.OrNil()
}
