package server

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/crmdesk/crmdesk/internal/domain/entity"
	"github.com/crmdesk/crmdesk/internal/normalize"
	"github.com/crmdesk/crmdesk/internal/repository"
	"github.com/crmdesk/crmdesk/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TaskHandler serves /tasks
type TaskHandler struct {
	repo   *repository.TaskRepository
	logger *zap.Logger
}

// NewTaskHandler creates a new task handler
func NewTaskHandler(repo *repository.TaskRepository, logger *zap.Logger) *TaskHandler {
	return &TaskHandler{
		repo:   repo,
		logger: logger,
	}
}

type taskPayload struct {
	CompanyID     int64    `json:"company_id"`
	Title         string   `json:"title"`
	RelatedToType string   `json:"related_to_type"`
	RelatedTo     int64    `json:"related_to"`
	AssignTo      int64    `json:"assign_to"`
	Collaborators []int64  `json:"collaborators"`
	Status        string   `json:"status"`
	Priority      string   `json:"priority"`
	Labels        []string `json:"labels"`
	StartDate     string   `json:"start_date"`
	Deadline      string   `json:"deadline"`
	IsRecurring   bool     `json:"is_recurring"`
	RepeatEvery   int      `json:"repeat_every"`
	RepeatUnit    string   `json:"repeat_unit"`
	Cycles        int      `json:"cycles"`
}

func (p *taskPayload) toEntity() *entity.Task {
	task := &entity.Task{
		CompanyID:     p.CompanyID,
		Title:         p.Title,
		RelatedToType: p.RelatedToType,
		RelatedTo:     p.RelatedTo,
		AssignTo:      p.AssignTo,
		Collaborators: p.Collaborators,
		Status:        normalize.Status(p.Status),
		Priority:      p.Priority,
		Labels:        p.Labels,
		StartDate:     parseDate(p.StartDate),
		Deadline:      parseDate(p.Deadline),
		IsRecurring:   p.IsRecurring,
		RepeatEvery:   p.RepeatEvery,
		RepeatUnit:    p.RepeatUnit,
		Cycles:        p.Cycles,
	}
	if task.Status == "" {
		task.Status = entity.StatusIncomplete
	}
	return task
}

func (p *taskPayload) validate() string {
	if p.CompanyID <= 0 {
		return "invalid company_id"
	}
	if p.Title == "" {
		return "title is required"
	}
	if p.AssignTo <= 0 {
		return "assign_to is required"
	}
	return ""
}

// validateTaskDates runs after date parsing. Recurrence expansion
// needs an anchor date, so recurring tasks must carry a start date.
func validateTaskDates(task *entity.Task) string {
	if task.IsRecurring {
		if err := utils.ValidateRequiredDate("start_date", task.StartDate); err != nil {
			return err.Error()
		}
	}
	return ""
}

// List handles GET /tasks
func (h *TaskHandler) List(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}

	tasks, err := h.repo.List(c.Request.Context(), listQueryFromRequest(c, companyID))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []entity.Task{}
	}
	respondOK(c, tasks)
}

// Get handles GET /tasks/:id
func (h *TaskHandler) Get(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	task, err := h.repo.GetByID(c.Request.Context(), id, companyID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get task")
		return
	}
	if task == nil {
		respondError(c, http.StatusNotFound, "task not found")
		return
	}
	respondOK(c, task)
}

// Create handles POST /tasks
func (h *TaskHandler) Create(c *gin.Context) {
	var payload taskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := payload.validate(); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	task := payload.toEntity()
	if msg := validateTaskDates(task); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}
	if err := h.repo.Create(c.Request.Context(), task); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create task")
		return
	}
	h.logger.Info("Task created",
		zap.Int64("id", task.ID),
		zap.Int64("company_id", task.CompanyID))
	respondCreated(c, task)
}

// Update handles PUT /tasks/:id
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	var payload taskPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := payload.validate(); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	task := payload.toEntity()
	task.ID = id
	if msg := validateTaskDates(task); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	err := h.repo.Update(c.Request.Context(), task)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, http.StatusNotFound, "task not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update task")
		return
	}
	respondOK(c, task)
}

// Delete handles DELETE /tasks/:id
func (h *TaskHandler) Delete(c *gin.Context) {
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
		respondError(c, http.StatusInternalServerError, "failed to delete task")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "task not found")
		return
	}
	respondDeleted(c)
}

// Register mounts the handler's routes on a router group
func (h *TaskHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/tasks", h.List)
	rg.GET("/tasks/:id", h.Get)
	rg.POST("/tasks", h.Create)
	rg.PUT("/tasks/:id", h.Update)
	rg.DELETE("/tasks/:id", h.Delete)
}
