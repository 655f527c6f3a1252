package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/officehub/request-service/internal/models"
	"github.com/officehub/request-service/internal/service"
)

// DepartmentHandler handles department endpoints
type DepartmentHandler struct {
	departmentService *service.DepartmentService
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(departmentService *service.DepartmentService) *DepartmentHandler {
	return &DepartmentHandler{departmentService: departmentService}
}

// HandleDepartments handles requests for departments. Reads are open to any
// authenticated user; mutations are administrator-only.
func (h *DepartmentHandler) HandleDepartments(w http.ResponseWriter, r *http.Request) {
	// Extract the ID from path
	path := strings.TrimPrefix(r.URL.Path, "/departments")
	path = strings.TrimPrefix(path, "/")

	switch r.Method {
	case http.MethodGet:
		if path == "" {
			h.listDepartments(w, r)
		} else {
			id, err := uuid.Parse(path)
			if err != nil {
				http.Error(w, "Invalid department ID", http.StatusBadRequest)
				return
			}
			h.getDepartment(w, r, id)
		}

	case http.MethodPost:
		if path != "" {
			http.Error(w, "Invalid path", http.StatusBadRequest)
			return
		}
		if !requireRole(w, r, models.RoleAdministrator) {
			return
		}
		h.createDepartment(w, r)

	case http.MethodPut:
		id, err := uuid.Parse(path)
		if err != nil {
			http.Error(w, "Invalid department ID", http.StatusBadRequest)
			return
		}
		if !requireRole(w, r, models.RoleAdministrator) {
			return
		}
		h.updateDepartment(w, r, id)

	case http.MethodDelete:
		id, err := uuid.Parse(path)
		if err != nil {
			http.Error(w, "Invalid department ID", http.StatusBadRequest)
			return
		}
		if !requireRole(w, r, models.RoleAdministrator) {
			return
		}
		h.deleteDepartment(w, r, id)

	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

// listDepartments lists all departments
func (h *DepartmentHandler) listDepartments(w http.ResponseWriter, r *http.Request) {
	departments, err := h.departmentService.ListDepartments(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, departments)
}

// getDepartment gets a department by ID
func (h *DepartmentHandler) getDepartment(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	department, err := h.departmentService.GetDepartment(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, department)
}

// createDepartment creates a new department
func (h *DepartmentHandler) createDepartment(w http.ResponseWriter, r *http.Request) {
	var req models.DepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	department, err := h.departmentService.CreateDepartment(r.Context(), req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSONStatus(w, http.StatusCreated, department)
}

// updateDepartment updates a department
func (h *DepartmentHandler) updateDepartment(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req models.DepartmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := req.Validate(); err != nil {
		respondError(w, err)
		return
	}

	department, err := h.departmentService.UpdateDepartment(r.Context(), id, req)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, department)
}

// deleteDepartment deletes a department
func (h *DepartmentHandler) deleteDepartment(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.departmentService.DeleteDepartment(r.Context(), id); err != nil {
		respondError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
