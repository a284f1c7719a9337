package server

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/crmdesk/crmdesk/internal/domain/entity"
	"github.com/crmdesk/crmdesk/internal/normalize"
	"github.com/crmdesk/crmdesk/internal/repository"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ProjectHandler serves /projects
type ProjectHandler struct {
	repo   *repository.ProjectRepository
	logger *zap.Logger
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(repo *repository.ProjectRepository, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		repo:   repo,
		logger: logger,
	}
}

func validateProject(project *entity.Project) string {
	project.Status = normalize.Status(project.Status)
	if project.Status == "" {
		project.Status = entity.StatusActive
	}
	if project.CompanyID <= 0 {
		return "invalid company_id"
	}
	if project.ClientID <= 0 {
		return "client_id is required"
	}
	if project.Name == "" {
		return "name is required"
	}
	return ""
}

// List handles GET /projects
func (h *ProjectHandler) List(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}

	projects, err := h.repo.List(c.Request.Context(), listQueryFromRequest(c, companyID))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list projects")
		return
	}
	if projects == nil {
		projects = []entity.Project{}
	}
	respondOK(c, projects)
}

// Get handles GET /projects/:id
func (h *ProjectHandler) Get(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	project, err := h.repo.GetByID(c.Request.Context(), id, companyID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get project")
		return
	}
	if project == nil {
		respondError(c, http.StatusNotFound, "project not found")
		return
	}
	respondOK(c, project)
}

// Create handles POST /projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var project entity.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateProject(&project); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	if err := h.repo.Create(c.Request.Context(), &project); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create project")
		return
	}
	h.logger.Info("Project created",
		zap.Int64("id", project.ID),
		zap.Int64("company_id", project.CompanyID))
	respondCreated(c, project)
}

// Update handles PUT /projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	var project entity.Project
	if err := c.ShouldBindJSON(&project); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateProject(&project); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}
	project.ID = id

	err := h.repo.Update(c.Request.Context(), &project)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, http.StatusNotFound, "project not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update project")
		return
	}
	respondOK(c, project)
}

// Delete handles DELETE /projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	deleted, err := h.repo.Delete(c.Request.Context(), id, companyID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete project")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "project not found")
		return
	}
	respondDeleted(c)
}

// Register mounts the handler's routes on a router group
func (h *ProjectHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/projects", h.List)
	rg.GET("/projects/:id", h.Get)
	rg.POST("/projects", h.Create)
	rg.PUT("/projects/:id", h.Update)
	rg.DELETE("/projects/:id", h.Delete)
}
