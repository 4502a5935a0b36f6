package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"friendgraph/internal/social"
	apperrors "friendgraph/pkg/errors"
	"friendgraph/pkg/logger"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	svc *social.Service
	log *zap.Logger
}

// New creates a new Handler instance
func New(svc *social.Service) *Handler {
	return &Handler{
		svc: svc,
		log: logger.Get(),
	}
}

// RegisterRoutes mounts all API routes on the router
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)

	api := router.Group("/api")
	{
		api.GET("/users", h.ListUsers)
		api.POST("/users", h.CreateUser)
		api.PUT("/users/:id", h.UpdateUser)
		api.DELETE("/users/:id", h.DeleteUser)
		api.POST("/users/:id/link", h.CreateFriendship)
		api.DELETE("/users/:id/unlink", h.RemoveFriendship)
		api.GET("/graph", h.Graph)
	}
}

// CreateUserRequest is the body for POST /api/users
type CreateUserRequest struct {
	Username string   `json:"username"`
	Age      int      `json:"age"`
	Hobbies  []string `json:"hobbies"`
}

// UpdateUserRequest is the body for PUT /api/users/:id; absent fields keep
// their existing values
type UpdateUserRequest struct {
	Username string   `json:"username"`
	Age      int      `json:"age"`
	Hobbies  []string `json:"hobbies"`
}

// FriendRequest is the body for link/unlink requests
type FriendRequest struct {
	FriendID string `json:"friendId"`
}

// Health handles GET /health
func (h *Handler) Health(c *gin.Context) {
	if err := h.svc.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListUsers handles GET /api/users
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.svc.ListUsers(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

// CreateUser handles POST /api/users
func (h *Handler) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON body"})
		return
	}

	user, err := h.svc.CreateUser(c.Request.Context(), req.Username, req.Age, req.Hobbies)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser handles PUT /api/users/:id
func (h *Handler) UpdateUser(c *gin.Context) {
	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON body"})
		return
	}

	user, err := h.svc.UpdateUser(c.Request.Context(), c.Param("id"), req.Username, req.Age, req.Hobbies)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// DeleteUser handles DELETE /api/users/:id
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// CreateFriendship handles POST /api/users/:id/link
func (h *Handler) CreateFriendship(c *gin.Context) {
	var req FriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON body"})
		return
	}

	result, err := h.svc.Link(c.Request.Context(), c.Param("id"), req.FriendID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// RemoveFriendship handles DELETE /api/users/:id/unlink
func (h *Handler) RemoveFriendship(c *gin.Context) {
	var req FriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid JSON body"})
		return
	}

	result, err := h.svc.Unlink(c.Request.Context(), c.Param("id"), req.FriendID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Graph handles GET /api/graph
func (h *Handler) Graph(c *gin.Context) {
	graph, err := h.svc.GraphData(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, graph)
}

// respondError maps the service's typed errors to HTTP status codes. The
// service holds no transport knowledge; this is the only place statuses
// are assigned.
func (h *Handler) respondError(c *gin.Context, err error) {
	switch {
	case apperrors.IsErrorType(err, apperrors.ErrorTypeValidation),
		apperrors.IsErrorType(err, apperrors.ErrorTypeMalformedID):
		c.JSON(http.StatusBadRequest, gin.H{"message": apperrors.UserMessage(err)})
	case apperrors.IsErrorType(err, apperrors.ErrorTypeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": apperrors.UserMessage(err)})
	case apperrors.IsErrorType(err, apperrors.ErrorTypeConflict),
		apperrors.IsErrorType(err, apperrors.ErrorTypePrecondition):
		c.JSON(http.StatusConflict, gin.H{"message": apperrors.UserMessage(err)})
	default:
		h.log.Error("Unhandled error",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal Server Error"})
	}
}
