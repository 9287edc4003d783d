package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/filingkart/filingkart/internal/catalog"
	"github.com/filingkart/filingkart/internal/wizard"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const maxDocumentMemory = 32 << 20

// Handler wires the service catalog and the wizard engine to HTTP. Each
// wizard session gets its own upload coordinator; the uploader and
// submitter collaborators are shared.
type Handler struct {
	catalog       *catalog.Registry
	sessions      *wizard.Registry
	provider      wizard.SessionProvider
	uploader      wizard.Uploader
	submitter     wizard.Submitter
	uploadTimeout time.Duration
}

// NewHandler creates a Handler over the given catalog and collaborators
func NewHandler(
	cat *catalog.Registry,
	sessions *wizard.Registry,
	provider wizard.SessionProvider,
	uploader wizard.Uploader,
	submitter wizard.Submitter,
	uploadTimeout time.Duration,
) *Handler {
	return &Handler{
		catalog:       cat,
		sessions:      sessions,
		provider:      provider,
		uploader:      uploader,
		submitter:     submitter,
		uploadTimeout: uploadTimeout,
	}
}

// RegisterRoutes attaches the catalog and wizard endpoints to a router group
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	api.GET("/services", h.ListServices)
	api.GET("/services/:serviceID", h.GetService)
	api.POST("/services/:serviceID/sessions", h.OpenSession)

	api.GET("/sessions/:sessionID", h.GetSession)
	api.DELETE("/sessions/:sessionID", h.DiscardSession)
	api.PUT("/sessions/:sessionID/fields", h.SetFields)
	api.POST("/sessions/:sessionID/plan", h.SelectPlan)
	api.DELETE("/sessions/:sessionID/plan", h.ClearPlan)
	api.POST("/sessions/:sessionID/next", h.Next)
	api.POST("/sessions/:sessionID/back", h.Back)
	api.POST("/sessions/:sessionID/documents/:slotID", h.UploadDocument)
	api.POST("/sessions/:sessionID/submit", h.Submit)
}

// ListServices handles GET /api/services
func (h *Handler) ListServices(c *gin.Context) {
	services := h.catalog.List()
	summaries := make([]serviceSummary, 0, len(services))
	for _, svc := range services {
		summaries = append(summaries, summarizeService(svc))
	}
	c.JSON(http.StatusOK, gin.H{"services": summaries})
}

// GetService handles GET /api/services/:serviceID
func (h *Handler) GetService(c *gin.Context) {
	svc, ok := h.catalog.Get(c.Param("serviceID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}
	c.JSON(http.StatusOK, describeService(svc))
}

// OpenSession handles POST /api/services/:serviceID/sessions. Opening a
// session requires a logged-in user; the front-end redirects to login on
// a 401 here.
func (h *Handler) OpenSession(c *gin.Context) {
	svc, ok := h.catalog.Get(c.Param("serviceID"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "service not found"})
		return
	}

	coordinator := wizard.NewUploadCoordinator(h.uploader, h.uploadTimeout)
	sess, err := h.sessions.Open(c.Request.Context(), svc.Definition, coordinator, h.submitter)
	if err != nil {
		if errors.Is(err, wizard.ErrUnauthenticated) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to open session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"sessionId": sess.ID,
		"state":     sess.Controller.Snapshot(),
	})
}

// GetSession handles GET /api/sessions/:sessionID
func (h *Handler) GetSession(c *gin.Context) {
	sess, ok := h.ownedSession(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, sess.Controller.Snapshot())
}

// DiscardSession handles DELETE /api/sessions/:sessionID
func (h *Handler) DiscardSession(c *gin.Context) {
	sess, ok := h.ownedSession(c)
	if !ok {
		return
	}
	h.sessions.Discard(sess.ID)
	c.Status(http.StatusNoContent)
}

// SetFields handles PUT /api/sessions/:sessionID/fields. The body is a
// flat map of dotted field paths to values.
func (h *Handler) SetFields(c *gin.Context) {
	sess, ok := h.ownedSession(c)
	if !ok {
		return
	}

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "expected a map of field paths to values"})
		return
	}

	for path, value := range fields {
		if err := sess.Controller.SetField(path, value); err != nil {
			if errors.Is(err, wizard.ErrAlreadySubmitted) {
				c.JSON(http.StatusConflict, gin.H{"error": "session already submitted"})
				return
			}
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "path": path})
			return
		}
	}

	c.JSON(http.StatusOK, sess.Controller.Snapshot())
}

// SelectPlan handles POST /api/sessions/:sessionID/plan
func (h *Handler) SelectPlan(c *gin.Context) {
	sess, ok := h.ownedSession(c)
	if !ok {
		return
	}

	var req struct {
		Plan wizard.PlanID `json:"plan" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan is required"})
		return
	}

	if err := sess.Controller.SelectPlan(req.Plan); err != nil {
		if errors.Is(err, wizard.ErrUnknownPlan) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sess.Controller.Snapshot())
}

// ClearPlan handles DELETE /api/sessions/:sessionID/plan
func (h *Handler) ClearPlan(c *gin.Context) {
	sess, ok := h.ownedSession(c)
	if !ok {
		return
	}

	if err := sess.Controller.ClearPlan(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sess.Controller.Snapshot())
}

// Next handles POST /api/sessions/:sessionID/next. Validation failures
// come back as 422 with the per-field error map in the session state.
func (h *Handler) Next(c *gin.Context) {
	sess, ok := h.ownedSession(c)
	if !ok {
		return
	}

	if err := sess.Controller.Next(); err != nil {
		if errors.Is(err, wizard.ErrValidationFailed) {
			c.JSON(http.StatusUnprocessableEntity, sess.Controller.Snapshot())
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sess.Controller.Snapshot())
}

// Back handles POST /api/sessions/:sessionID/back
func (h *Handler) Back(c *gin.Context) {
	sess, ok := h.ownedSession(c)
	if !ok {
		return
	}

	if err := sess.Controller.Back(); err != nil {
		if errors.Is(err, wizard.ErrFirstStep) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "already on the first step"})
			return
		}
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, sess.Controller.Snapshot())
}

// UploadDocument handles POST /api/sessions/:sessionID/documents/:slotID
// as a multipart form with a "file" part.
func (h *Handler) UploadDocument(c *gin.Context) {
	sess, ok := h.ownedSession(c)
	if !ok {
		return
	}
	slotID := c.Param("slotID")

	if err := c.Request.ParseMultipartForm(maxDocumentMemory); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid multipart form"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}
	defer file.Close()

	state, err := sess.Controller.Uploads().BeginUpload(
		c.Request.Context(), slotID, "documents", fileHeader.Filename, file)
	if err != nil {
		// The slot keeps its error state; the client retries from it
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  err.Error(),
			"upload": state,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"upload": state})
}

// Submit handles POST /api/sessions/:sessionID/submit. On success the
// session is discarded; the returned snapshot is the terminal state.
func (h *Handler) Submit(c *gin.Context) {
	sess, ok := h.ownedSession(c)
	if !ok {
		return
	}

	receipt, err := sess.Controller.Submit(c.Request.Context())
	if err != nil {
		switch {
		case errors.Is(err, wizard.ErrSubmissionInFlight):
			c.JSON(http.StatusConflict, gin.H{"error": "submission already in progress"})
		case errors.Is(err, wizard.ErrAlreadySubmitted):
			c.JSON(http.StatusConflict, gin.H{"error": "session already submitted"})
		case errors.Is(err, wizard.ErrNotOnFinalStep):
			c.JSON(http.StatusBadRequest, gin.H{"error": "not on the final step"})
		case errors.Is(err, wizard.ErrDocumentsIncomplete):
			c.JSON(http.StatusBadRequest, gin.H{"error": "required documents are missing"})
		default:
			// collaborator rejection, surfaced verbatim and retryable
			c.JSON(http.StatusBadGateway, gin.H{
				"error": err.Error(),
				"state": sess.Controller.Snapshot(),
			})
		}
		return
	}

	state := sess.Controller.Snapshot()
	h.sessions.Discard(sess.ID)

	c.JSON(http.StatusOK, gin.H{
		"applicationId": receipt.ID,
		"state":         state,
	})
}

// ownedSession resolves the :sessionID parameter to a session owned by
// the current user. Foreign and unknown sessions are indistinguishable
// to the caller.
func (h *Handler) ownedSession(c *gin.Context) (*wizard.Session, bool) {
	id, err := uuid.Parse(c.Param("sessionID"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}

	sess, err := h.sessions.Get(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}

	user, err := h.provider.CurrentUser(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve session"})
		return nil, false
	}
	if user == nil || user.ID != sess.UserID {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}

	return sess, true
}
