package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/officehub/request-service/internal/models"
	"github.com/officehub/request-service/internal/service"
	"github.com/officehub/request-service/internal/websockets"
)

// UserHandler handles the administrative account surface
type UserHandler struct {
	authService *service.AuthService
	hub         *websockets.Hub
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *service.AuthService, hub *websockets.Hub) *UserHandler {
	return &UserHandler{
		authService: authService,
		hub:         hub,
	}
}

// HandleUsers handles requests for users. The whole surface is
// administrator-only; the router wraps it in middleware.RequireRole.
func (h *UserHandler) HandleUsers(w http.ResponseWriter, r *http.Request) {
	// Extract the ID from path
	path := strings.TrimPrefix(r.URL.Path, "/users")
	path = strings.TrimPrefix(path, "/")

	if path == "pending" {
		h.listPendingUsers(w, r)
		return
	}

	// Review action: /users/{id}/review
	if idPart, action, found := strings.Cut(path, "/"); found {
		id, err := uuid.Parse(idPart)
		if err != nil {
			http.Error(w, "Invalid user ID", http.StatusBadRequest)
			return
		}
		if action != "review" {
			http.Error(w, "Invalid path", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.reviewUser(w, r, id)
		return
	}

	switch r.Method {
	case http.MethodGet:
		if path == "" {
			h.listUsers(w, r)
		} else {
			id, err := uuid.Parse(path)
			if err != nil {
				http.Error(w, "Invalid user ID", http.StatusBadRequest)
				return
			}
			h.getUser(w, r, id)
		}

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// listUsers lists all users
func (h *UserHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.authService.ListUsers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, users)
}

// listPendingUsers lists accounts awaiting review
func (h *UserHandler) listPendingUsers(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	users, err := h.authService.ListPendingUsers(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, users)
}

// getUser gets a user by ID
func (h *UserHandler) getUser(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	user, err := h.authService.GetUser(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, user)
}

// reviewUser approves or rejects a pending signup
func (h *UserHandler) reviewUser(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req models.ReviewUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	if err := h.authService.Review(r.Context(), id, req); err != nil {
		respondError(w, err)
		return
	}

	h.hub.BroadcastEvent(websockets.TypeAccountReviewed, "", struct {
		ID       string `json:"id"`
		Approved bool   `json:"approved"`
	}{ID: id.String(), Approved: req.Approve})

	respondJSON(w, struct {
		Success bool `json:"success"`
	}{Success: true})
}
