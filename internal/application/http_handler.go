package application

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/filingkart/filingkart/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler exposes filed applications over HTTP
type Handler struct {
	service  *Service
	provider *session.Provider
}

// NewHandler creates a Handler for the given application service
func NewHandler(service *Service, provider *session.Provider) *Handler {
	return &Handler{
		service:  service,
		provider: provider,
	}
}

// List handles GET /api/applications and returns the current user's
// applications, newest first.
func (h *Handler) List(c *gin.Context) {
	user, err := h.provider.CurrentUser(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve session"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	offset := queryInt(c, "offset")
	limit := queryInt(c, "limit")

	apps, err := h.service.ListByUser(c.Request.Context(), user.ID, offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list applications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"applications": apps})
}

// Get handles GET /api/applications/:id. The id may be the record UUID
// or the submission ID shown on the success screen.
func (h *Handler) Get(c *gin.Context) {
	user, err := h.provider.CurrentUser(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve session"})
		return
	}
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	idParam := c.Param("id")

	var app *Application
	if id, parseErr := uuid.Parse(idParam); parseErr == nil {
		app, err = h.service.GetByID(c.Request.Context(), id)
	} else {
		app, err = h.service.GetBySubmissionID(c.Request.Context(), idParam)
	}
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch application"})
		return
	}

	// Applicants only see their own filings
	if app.UserID != user.ID {
		c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
		return
	}

	c.JSON(http.StatusOK, app)
}

// UpdateStatus handles PUT /api/admin/applications/:id/status
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return
	}

	var req struct {
		Status ApplicationStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "status is required"})
		return
	}
	if !req.Status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}

	if err := h.service.UpdateStatus(c.Request.Context(), id, req.Status); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "application not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update application"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "status": req.Status})
}

// RegisterRoutes attaches the application endpoints to a router group
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, provider *session.Provider) {
	api.GET("/applications", session.RequireUser(provider), h.List)
	api.GET("/applications/:id", session.RequireUser(provider), h.Get)
	api.PUT("/admin/applications/:id/status", session.RequireAdmin(provider), h.UpdateStatus)
}

func queryInt(c *gin.Context, name string) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &value
}
