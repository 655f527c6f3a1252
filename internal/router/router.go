package router

import (
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/officehub/request-service/internal/api/handler"
	"github.com/officehub/request-service/internal/middleware"
	"github.com/officehub/request-service/internal/models"
	"github.com/officehub/request-service/internal/service"
	"github.com/officehub/request-service/internal/websockets"
)

// Router handles HTTP routing
type Router struct {
	mux *http.ServeMux
	hub *websockets.Hub
}

// New creates a new router
func New(
	authService *service.AuthService,
	requestService *service.RequestService,
	departmentService *service.DepartmentService,
	hub *websockets.Hub,
	rdb *redis.Client,
) *Router {
	r := &Router{
		mux: http.NewServeMux(),
		hub: hub,
	}

	authHandler := handler.NewAuthHandler(authService)
	requestHandler := handler.NewRequestHandler(requestService, hub)
	userHandler := handler.NewUserHandler(authService, hub)
	departmentHandler := handler.NewDepartmentHandler(departmentService)

	// Public routes. The auth endpoints are rate limited per IP; the limiter
	// is a no-op when no redis client is configured.
	authLimit := middleware.RateLimit(rdb, "auth", 10, time.Minute)
	r.mux.Handle("/api/auth/signup", authLimit(http.HandlerFunc(authHandler.HandleSignUp)))
	r.mux.Handle("/api/auth/login", authLimit(http.HandlerFunc(authHandler.HandleLogin)))
	r.mux.Handle("/ws", http.HandlerFunc(r.handleWebSocket))

	// Protected routes. The whole /users surface is administrator-only;
	// requests and departments gate individual methods in their handlers.
	adminOnly := middleware.RequireRole(models.RoleAdministrator)
	apiHandler := http.NewServeMux()
	apiHandler.Handle("/requests", http.HandlerFunc(requestHandler.HandleRequests))
	apiHandler.Handle("/requests/", http.HandlerFunc(requestHandler.HandleRequests))
	apiHandler.Handle("/users", adminOnly(http.HandlerFunc(userHandler.HandleUsers)))
	apiHandler.Handle("/users/", adminOnly(http.HandlerFunc(userHandler.HandleUsers)))
	apiHandler.Handle("/departments", http.HandlerFunc(departmentHandler.HandleDepartments))
	apiHandler.Handle("/departments/", http.HandlerFunc(departmentHandler.HandleDepartments))

	// Apply middleware to protected routes
	apiChain := middleware.Logger(
		middleware.Auth(authService)(
			apiHandler,
		),
	)

	r.mux.Handle("/api/", http.StripPrefix("/api", apiChain))

	return r
}

// ServeHTTP implements the http.Handler interface
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// handleWebSocket handles WebSocket connections
func (r *Router) handleWebSocket(w http.ResponseWriter, req *http.Request) {
	userID := req.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	clientTypeStr := req.URL.Query().Get("client_type")
	if clientTypeStr == "" {
		http.Error(w, "client_type is required", http.StatusBadRequest)
		return
	}

	clientType := websockets.ClientType(clientTypeStr)

	switch clientType {
	case websockets.ClientTypeEmployee, websockets.ClientTypeManager, websockets.ClientTypeAdmin:
		// Valid client type
	default:
		http.Error(w, "invalid client_type", http.StatusBadRequest)
		return
	}

	conn, err := websockets.Upgrader.Upgrade(w, req, nil)
	if err != nil {
		// If upgrading fails, the upgrader has already written the error to the response
		return
	}

	websockets.ServeWs(r.hub, conn, userID, clientType)
}
