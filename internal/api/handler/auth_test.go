package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/officehub/request-service/internal/models"
	"github.com/officehub/request-service/internal/service"
)

// fakeUserStore satisfies service.UserStore for handler tests.
type fakeUserStore struct{}

func (fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	return &models.User{ID: id}, nil
}

func (fakeUserStore) GetByUsername(context.Context, string) (*models.User, error) {
	return nil, nil
}

func (fakeUserStore) UsernameExists(context.Context, string) (bool, error) {
	return false, nil
}

func (fakeUserStore) List(context.Context) ([]models.User, error) {
	return nil, nil
}

func (fakeUserStore) ListPending(context.Context) ([]models.User, error) {
	return nil, nil
}

func (fakeUserStore) Create(_ context.Context, user models.User) (*models.User, error) {
	user.ID = uuid.New()
	return &user, nil
}

func (fakeUserStore) MarkReviewed(context.Context, uuid.UUID, bool, time.Time, *string, *uuid.UUID, *string) error {
	return nil
}

func TestAuthHandler_HandleSignUp(t *testing.T) {
	t.Parallel()

	h := NewAuthHandler(service.NewAuthService(fakeUserStore{}, service.JWTConfig{
		Secret:    "unit-test-secret",
		ExpiresIn: 1,
	}))

	t.Run("created responses carry a JSON content type", func(t *testing.T) {
		t.Parallel()
		body := bytes.NewBufferString(`{"username":"jordan","password":"s3cret!","confirm_password":"s3cret!"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
		rec := httptest.NewRecorder()

		h.HandleSignUp(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

		var resp struct {
			ID string `json:"id"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		_, err := uuid.Parse(resp.ID)
		assert.NoError(t, err)
	})

	t.Run("invalid payloads fail validation", func(t *testing.T) {
		t.Parallel()
		body := bytes.NewBufferString(`{"username":"jo","password":"s3cret!","confirm_password":"s3cret!"}`)
		req := httptest.NewRequest(http.MethodPost, "/auth/signup", body)
		rec := httptest.NewRecorder()

		h.HandleSignUp(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "Username")
	})
}
