package catalog

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	cat := rg.Group("/catalog")
	{
		cat.GET("/courses", h.Courses)
		cat.GET("/technical-skills", h.TechnicalSkills)
		cat.GET("/soft-skills", h.SoftSkills)
	}
}

func (h *Handler) Courses(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Courses(c.Request.Context()))
}

func (h *Handler) TechnicalSkills(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.TechnicalSkills(c.Request.Context()))
}

func (h *Handler) SoftSkills(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.SoftSkills(c.Request.Context()))
}
