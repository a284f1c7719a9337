package server

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/crmdesk/crmdesk/internal/domain/entity"
	"github.com/crmdesk/crmdesk/internal/repository"
	"github.com/crmdesk/crmdesk/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClientHandler serves /clients
type ClientHandler struct {
	repo   *repository.ClientRepository
	logger *zap.Logger
}

// NewClientHandler creates a new client handler
func NewClientHandler(repo *repository.ClientRepository, logger *zap.Logger) *ClientHandler {
	return &ClientHandler{
		repo:   repo,
		logger: logger,
	}
}

func validateClient(client *entity.Client) string {
	if client.CompanyID <= 0 {
		return "invalid company_id"
	}
	if client.Name == "" {
		return "name is required"
	}
	if client.Email != "" {
		if err := utils.ValidateEmail(client.Email); err != nil {
			return "invalid email"
		}
	}
	return ""
}

// List handles GET /clients
func (h *ClientHandler) List(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}

	clients, err := h.repo.List(c.Request.Context(), listQueryFromRequest(c, companyID))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list clients")
		return
	}
	if clients == nil {
		clients = []entity.Client{}
	}
	respondOK(c, clients)
}

// Get handles GET /clients/:id
func (h *ClientHandler) Get(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	client, err := h.repo.GetByID(c.Request.Context(), id, companyID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get client")
		return
	}
	if client == nil {
		respondError(c, http.StatusNotFound, "client not found")
		return
	}
	respondOK(c, client)
}

// Create handles POST /clients
func (h *ClientHandler) Create(c *gin.Context) {
	var client entity.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateClient(&client); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	if err := h.repo.Create(c.Request.Context(), &client); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create client")
		return
	}
	h.logger.Info("Client created",
		zap.Int64("id", client.ID),
		zap.Int64("company_id", client.CompanyID))
	respondCreated(c, client)
}

// Update handles PUT /clients/:id
func (h *ClientHandler) Update(c *gin.Context) {
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	var client entity.Client
	if err := c.ShouldBindJSON(&client); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := validateClient(&client); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}
	client.ID = id

	err := h.repo.Update(c.Request.Context(), &client)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, http.StatusNotFound, "client not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update client")
		return
	}
	respondOK(c, client)
}

// Delete handles DELETE /clients/:id
func (h *ClientHandler) Delete(c *gin.Context) {
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
		respondError(c, http.StatusInternalServerError, "failed to delete client")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "client not found")
		return
	}
	respondDeleted(c)
}

// Register mounts the handler's routes on a router group
func (h *ClientHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/clients", h.List)
	rg.GET("/clients/:id", h.Get)
	rg.POST("/clients", h.Create)
	rg.PUT("/clients/:id", h.Update)
	rg.DELETE("/clients/:id", h.Delete)
}
