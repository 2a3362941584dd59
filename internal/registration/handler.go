package registration

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/blank122/alumni-link-wizard/internal/session"
	"github.com/blank122/alumni-link-wizard/internal/wizard"
)

const sessionIDKey = "wizard_session_id"

type Handler struct {
	service *Service
	tokens  *session.TokenIssuer
}

func NewHandler(service *Service, tokens *session.TokenIssuer) *Handler {
	return &Handler{service: service, tokens: tokens}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	wiz := rg.Group("/wizard")
	{
		wiz.POST("", h.Create)

		authed := wiz.Group("/:id", h.requireSessionToken)
		{
			authed.GET("", h.Snapshot)
			authed.PATCH("/fields", h.UpdateFields)
			authed.POST("/skills", h.AddSkill)
			authed.POST("/certificate", h.UploadCertificate)
			authed.POST("/advance", h.Advance)
			authed.POST("/retreat", h.Retreat)
			authed.POST("/privacy", h.AcknowledgePrivacy)
			authed.POST("/submit", h.Submit)
		}
	}
}

// requireSessionToken checks that the bearer token was issued for the
// session named in the path.
func (h *Handler) requireSessionToken(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid session id"})
		return
	}

	token, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
	if !ok || token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
		return
	}

	subject, err := h.tokens.Verify(token)
	if err != nil || subject != id {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid session token"})
		return
	}

	c.Set(sessionIDKey, id)
	c.Next()
}

func sessionID(c *gin.Context) uuid.UUID {
	return c.MustGet(sessionIDKey).(uuid.UUID)
}

func (h *Handler) Create(c *gin.Context) {
	snap, token, err := h.service.CreateSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"token": token, "wizard": snap})
}

func (h *Handler) Snapshot(c *gin.Context) {
	snap, err := h.service.Snapshot(sessionID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type updateFieldsRequest struct {
	Fields map[string]string `json:"fields" binding:"required"`
}

func (h *Handler) UpdateFields(c *gin.Context) {
	var req updateFieldsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, err := h.service.UpdateFields(sessionID(c), req.Fields)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

type addSkillRequest struct {
	List  string `json:"list" binding:"required"`
	Value string `json:"value" binding:"required"`
}

func (h *Handler) AddSkill(c *gin.Context) {
	var req addSkillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	snap, err := h.service.AddSkill(sessionID(c), req.List, req.Value)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) UploadCertificate(c *gin.Context) {
	file, err := c.FormFile(wizard.FieldCertFile)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "certificate file is required"})
		return
	}

	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	snap, err := h.service.AttachCertificate(sessionID(c), file.Filename, content)
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) Advance(c *gin.Context) {
	snap, err := h.service.Advance(sessionID(c))
	switch {
	case errors.Is(err, wizard.ErrValidationFailed):
		// the snapshot carries the field error map
		c.JSON(http.StatusUnprocessableEntity, snap)
	case errors.Is(err, wizard.ErrAtFinalStep):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case err != nil:
		h.renderError(c, err)
	default:
		c.JSON(http.StatusOK, snap)
	}
}

func (h *Handler) Retreat(c *gin.Context) {
	snap, err := h.service.Retreat(sessionID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) AcknowledgePrivacy(c *gin.Context) {
	snap, err := h.service.AcknowledgePrivacy(sessionID(c))
	if err != nil {
		h.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *Handler) Submit(c *gin.Context) {
	resp, err := h.service.Submit(c.Request.Context(), sessionID(c))

	var upstream *UpstreamError
	switch {
	case errors.Is(err, wizard.ErrConsentRequired):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "consent_required": true})
	case errors.Is(err, wizard.ErrSubmissionInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrNotOnReviewStep):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &upstream):
		c.JSON(http.StatusBadGateway, gin.H{"error": upstream.Error(), "upstream_status": upstream.StatusCode})
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case err != nil:
		// transport failures and malformed upstream responses
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusCreated, resp)
	}
}

func (h *Handler) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, wizard.ErrUnknownField):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
