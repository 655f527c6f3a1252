package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/officehub/request-service/internal/middleware"
	"github.com/officehub/request-service/internal/models"
	"github.com/officehub/request-service/internal/service"
	"github.com/officehub/request-service/internal/websockets"
)

// reviewerRoles may approve and reject requests
var reviewerRoles = []models.UserRole{models.RoleManager, models.RoleBranchManager, models.RoleAdministrator}

// RequestHandler handles resource-request endpoints
type RequestHandler struct {
	requestService *service.RequestService
	hub            *websockets.Hub
}

// NewRequestHandler creates a new request handler
func NewRequestHandler(requestService *service.RequestService, hub *websockets.Hub) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		hub:            hub,
	}
}

// HandleRequests handles requests for resource requests
func (h *RequestHandler) HandleRequests(w http.ResponseWriter, r *http.Request) {
	// Extract the ID from path
	path := strings.TrimPrefix(r.URL.Path, "/requests")
	path = strings.TrimPrefix(path, "/")

	if path == "mine" {
		h.listMyRequests(w, r)
		return
	}

	// Lifecycle actions: /requests/{id}/approve etc.
	if idPart, action, found := strings.Cut(path, "/"); found {
		id, err := uuid.Parse(idPart)
		if err != nil {
			http.Error(w, "Invalid request ID", http.StatusBadRequest)
			return
		}
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		switch action {
		case "approve":
			h.approveRequest(w, r, id)
		case "reject":
			h.rejectRequest(w, r, id)
		case "cancel":
			h.cancelRequest(w, r, id)
		default:
			http.Error(w, "Invalid path", http.StatusBadRequest)
		}
		return
	}

	switch r.Method {
	case http.MethodGet:
		if path == "" {
			h.listRequests(w, r)
		} else {
			id, err := uuid.Parse(path)
			if err != nil {
				http.Error(w, "Invalid request ID", http.StatusBadRequest)
				return
			}
			h.getRequest(w, r, id)
		}

	case http.MethodPost:
		if path != "" {
			http.Error(w, "Invalid path", http.StatusBadRequest)
			return
		}
		h.createRequest(w, r)

	case http.MethodPut:
		id, err := uuid.Parse(path)
		if err != nil {
			http.Error(w, "Invalid request ID", http.StatusBadRequest)
			return
		}
		h.updateRequest(w, r, id)

	case http.MethodDelete:
		id, err := uuid.Parse(path)
		if err != nil {
			http.Error(w, "Invalid request ID", http.StatusBadRequest)
			return
		}
		h.deleteRequest(w, r, id)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// listRequests lists requests, optionally filtered by ?status=
func (h *RequestHandler) listRequests(w http.ResponseWriter, r *http.Request) {
	var status *models.RequestStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := models.RequestStatus(s)
		status = &st
	}

	requests, err := h.requestService.ListRequests(r.Context(), status)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, requests)
}

// listMyRequests lists the authenticated user's requests
func (h *RequestHandler) listMyRequests(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, ok := authenticatedUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	requests, err := h.requestService.ListUserRequests(r.Context(), userID)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, requests)
}

// getRequest gets a request by ID
func (h *RequestHandler) getRequest(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	request, err := h.requestService.GetRequest(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, request)
}

// createRequest submits a new request
func (h *RequestHandler) createRequest(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	userID, ok := authenticatedUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	request, err := h.requestService.CreateRequest(r.Context(), req, userID)
	if err != nil {
		respondError(w, err)
		return
	}

	h.broadcastRequestEvent(websockets.TypeRequestCreated, request)

	respondJSONStatus(w, http.StatusCreated, request)
}

// updateRequest edits a request
func (h *RequestHandler) updateRequest(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req models.UpdateRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	request, err := h.requestService.UpdateRequest(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}

	h.broadcastRequestEvent(websockets.TypeRequestUpdated, request)

	respondJSON(w, request)
}

// deleteRequest removes a request
func (h *RequestHandler) deleteRequest(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if !requireRole(w, r, models.RoleAdministrator) {
		return
	}

	if err := h.requestService.DeleteRequest(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// approveRequest approves a pending request
func (h *RequestHandler) approveRequest(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if !requireRole(w, r, reviewerRoles...) {
		return
	}

	if err := h.requestService.Approve(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	h.broadcastRequestID(websockets.TypeRequestApproved, id)

	respondJSON(w, struct {
		Status models.RequestStatus `json:"status"`
	}{Status: models.RequestStatusApproved})
}

// rejectRequest rejects a pending request
func (h *RequestHandler) rejectRequest(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if !requireRole(w, r, reviewerRoles...) {
		return
	}

	var req models.RejectRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.requestService.Reject(r.Context(), id, req.Reason); err != nil {
		respondError(w, err)
		return
	}

	h.broadcastRequestID(websockets.TypeRequestRejected, id)

	respondJSON(w, struct {
		Status models.RequestStatus `json:"status"`
	}{Status: models.RequestStatusRejected})
}

// cancelRequest cancels the caller's own request
func (h *RequestHandler) cancelRequest(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req models.CancelRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := authenticatedUserID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	if err := h.requestService.Cancel(r.Context(), id, req.Reason, userID); err != nil {
		respondError(w, err)
		return
	}

	h.broadcastRequestID(websockets.TypeRequestCancelled, id)

	respondJSON(w, struct {
		Status models.RequestStatus `json:"status"`
	}{Status: models.RequestStatusCancelledByUser})
}

// broadcastRequestEvent pushes a lifecycle event carrying the full request
func (h *RequestHandler) broadcastRequestEvent(msgType websockets.MessageType, request *models.Request) {
	departmentID := ""
	if request.DepartmentID != nil {
		departmentID = request.DepartmentID.String()
	}
	h.hub.BroadcastEvent(msgType, departmentID, request)
}

// broadcastRequestID pushes a lifecycle event carrying just the request ID
func (h *RequestHandler) broadcastRequestID(msgType websockets.MessageType, id uuid.UUID) {
	h.hub.BroadcastEvent(msgType, "", struct {
		ID string `json:"id"`
	}{ID: id.String()})
}

// authenticatedUserID pulls the caller's user ID out of the request context
func authenticatedUserID(r *http.Request) (uuid.UUID, bool) {
	idStr, ok := middleware.GetUserID(r.Context())
	if !ok {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, false
	}

	return id, true
}
