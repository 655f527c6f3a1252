package models

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officehub/request-service/internal/apperrors"
)

func fieldViolations(t *testing.T, err error) []string {
	t.Helper()
	require.Error(t, err)
	ve, ok := apperrors.AsValidation(err)
	require.True(t, ok, "expected a validation error, got %v", err)
	fields := make([]string, len(ve.Fields))
	for i, f := range ve.Fields {
		fields[i] = f.Field
	}
	return fields
}

func TestCreateRequestRequestValidate(t *testing.T) {
	t.Parallel()

	valid := CreateRequestRequest{
		Description: "quarterly planning session",
		Type:        RequestTypeConferenceRoom,
	}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid.Validate())
	})

	t.Run("blank description", func(t *testing.T) {
		t.Parallel()
		req := valid
		req.Description = "   "
		assert.Contains(t, fieldViolations(t, req.Validate()), "Description")
	})

	t.Run("description at the limit passes", func(t *testing.T) {
		t.Parallel()
		req := valid
		req.Description = strings.Repeat("a", 150)
		assert.NoError(t, req.Validate())
	})

	t.Run("description over the limit fails", func(t *testing.T) {
		t.Parallel()
		req := valid
		req.Description = strings.Repeat("a", 151)
		assert.Contains(t, fieldViolations(t, req.Validate()), "Description")
	})

	t.Run("unknown type", func(t *testing.T) {
		t.Parallel()
		req := valid
		req.Type = "standing_desk"
		assert.Contains(t, fieldViolations(t, req.Validate()), "Type")
	})

	t.Run("all violations reported together", func(t *testing.T) {
		t.Parallel()
		fields := fieldViolations(t, CreateRequestRequest{}.Validate())
		assert.ElementsMatch(t, []string{"Description", "Type"}, fields)
	})
}

func TestSignUpRequestValidate(t *testing.T) {
	t.Parallel()

	valid := SignUpRequest{Username: "jordan", Password: "s3cret!", ConfirmPassword: "s3cret!"}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid.Validate())
	})

	t.Run("username too short", func(t *testing.T) {
		t.Parallel()
		req := valid
		req.Username = "jo"
		assert.Contains(t, fieldViolations(t, req.Validate()), "Username")
	})

	t.Run("whitespace does not count toward username length", func(t *testing.T) {
		t.Parallel()
		req := valid
		req.Username = "  jo  "
		assert.Contains(t, fieldViolations(t, req.Validate()), "Username")
	})

	t.Run("username too long", func(t *testing.T) {
		t.Parallel()
		req := valid
		req.Username = strings.Repeat("j", 51)
		assert.Contains(t, fieldViolations(t, req.Validate()), "Username")
	})

	t.Run("password too short", func(t *testing.T) {
		t.Parallel()
		req := valid
		req.Password = "short"
		req.ConfirmPassword = "short"
		assert.Contains(t, fieldViolations(t, req.Validate()), "Password")
	})

	t.Run("mismatched confirmation", func(t *testing.T) {
		t.Parallel()
		req := valid
		req.ConfirmPassword = "different"
		assert.Contains(t, fieldViolations(t, req.Validate()), "ConfirmPassword")
	})
}

func TestReviewUserRequestValidate(t *testing.T) {
	t.Parallel()

	position := "Office Coordinator"
	departmentID := uuid.New()

	t.Run("rejection needs no extra fields", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ReviewUserRequest{Approve: false}.Validate())
	})

	t.Run("approval needs position and department", func(t *testing.T) {
		t.Parallel()
		fields := fieldViolations(t, ReviewUserRequest{Approve: true}.Validate())
		assert.ElementsMatch(t, []string{"Position", "DepartmentId"}, fields)
	})

	t.Run("complete approval passes", func(t *testing.T) {
		t.Parallel()
		req := ReviewUserRequest{Approve: true, Position: &position, DepartmentID: &departmentID}
		assert.NoError(t, req.Validate())
	})
}

func TestDepartmentRequestValidate(t *testing.T) {
	t.Parallel()

	valid := DepartmentRequest{Name: "Facilities", ManagerName: "Sam Harper", Headcount: 12}

	t.Run("valid", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid.Validate())
	})

	t.Run("blank name and manager", func(t *testing.T) {
		t.Parallel()
		fields := fieldViolations(t, DepartmentRequest{Headcount: 3}.Validate())
		assert.ElementsMatch(t, []string{"Name", "ManagerName"}, fields)
	})

	t.Run("negative headcount", func(t *testing.T) {
		t.Parallel()
		req := valid
		req.Headcount = -1
		assert.Contains(t, fieldViolations(t, req.Validate()), "Headcount")
	})
}
