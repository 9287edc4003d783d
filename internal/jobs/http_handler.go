package jobs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/filingkart/filingkart/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler exposes job postings over HTTP
type Handler struct {
	service *Service
}

// NewHandler creates a Handler for the given jobs service
func NewHandler(service *Service) *Handler {
	return &Handler{
		service: service,
	}
}

// List handles GET /api/jobs
func (h *Handler) List(c *gin.Context) {
	offset := queryInt(c, "offset")
	limit := queryInt(c, "limit")

	postings, err := h.service.ListActive(c.Request.Context(), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": postings})
}

// ListAll handles GET /api/admin/jobs
func (h *Handler) ListAll(c *gin.Context) {
	offset := queryInt(c, "offset")
	limit := queryInt(c, "limit")

	postings, err := h.service.ListAll(c.Request.Context(), offset, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"jobs": postings})
}

// Get handles GET /api/jobs/:id
func (h *Handler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	posting, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch job"})
		return
	}

	c.JSON(http.StatusOK, posting)
}

// Create handles POST /api/admin/jobs
func (h *Handler) Create(c *gin.Context) {
	var posting Job
	if err := c.ShouldBindJSON(&posting); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job posting"})
		return
	}

	if err := h.service.Create(c.Request.Context(), &posting); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, posting)
}

// Delete handles DELETE /api/admin/jobs/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid job id"})
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete job"})
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterRoutes attaches the job endpoints to a router group. Listing
// is public; management requires an admin account.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup, provider *session.Provider) {
	api.GET("/jobs", h.List)
	api.GET("/jobs/:id", h.Get)
	api.GET("/admin/jobs", session.RequireAdmin(provider), h.ListAll)
	api.POST("/admin/jobs", session.RequireAdmin(provider), h.Create)
	api.DELETE("/admin/jobs/:id", session.RequireAdmin(provider), h.Delete)
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
