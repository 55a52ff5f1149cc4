package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/provdelegation/portal/api/internal/services"
)

// ProjectHandler serves the public project listing.
type ProjectHandler struct {
	service services.ProjectService
}

// NewProjectHandler creates a new ProjectHandler instance.
func NewProjectHandler(service services.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		service: service,
	}
}

// ProjectListQuery pages the listing. Absent values take the service defaults.
type ProjectListQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// List handles GET /api/v1/projects.
func (h *ProjectHandler) List(c *gin.Context) {
	var q ProjectListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		bindFailed(c, err, "Invalid query parameters")
		return
	}

	page, err := h.service.ListProjects(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		serviceFailed(c, err, "Failed to load projects")
		return
	}

	c.JSON(http.StatusOK, page)
}
