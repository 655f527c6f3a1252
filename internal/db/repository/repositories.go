package repository

import (
	"errors"

	"github.com/officehub/request-service/internal/db"
)

// ErrConflict is returned by guarded updates when the row no longer satisfies
// the expected precondition (for example a concurrent status transition won).
var ErrConflict = errors.New("entity state changed concurrently")

// Repositories provides access to all repository instances
type Repositories struct {
	Request    *RequestRepository
	User       *UserRepository
	Department *DepartmentRepository
}

// NewRepositories creates a new repositories container
func NewRepositories(database *db.Postgres) *Repositories {
	return &Repositories{
		Request:    NewRequestRepository(database.DB),
		User:       NewUserRepository(database.DB),
		Department: NewDepartmentRepository(database.DB),
	}
}
