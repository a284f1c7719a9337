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

// CatalogItemHandler serves /items, the stored-items catalog used to
// seed document line items
type CatalogItemHandler struct {
	repo   *repository.CatalogItemRepository
	logger *zap.Logger
}

// NewCatalogItemHandler creates a new catalog item handler
func NewCatalogItemHandler(repo *repository.CatalogItemRepository, logger *zap.Logger) *CatalogItemHandler {
	return &CatalogItemHandler{
		repo:   repo,
		logger: logger,
	}
}

// catalogItemPayload tolerates the rate/price/unit_price aliasing seen
// in older clients
type catalogItemPayload struct {
	CompanyID   int64  `json:"company_id"`
	ItemName    string `json:"item_name"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Unit        string `json:"unit"`
	UnitPrice   any    `json:"unit_price"`
	Rate        any    `json:"rate"`
	Price       any    `json:"price"`
	TaxRate     any    `json:"tax_rate"`
}

func (p *catalogItemPayload) toEntity() *entity.CatalogItem {
	name := p.ItemName
	if name == "" {
		name = p.Name
	}
	price := p.UnitPrice
	if price == nil {
		price = p.Rate
	}
	if price == nil {
		price = p.Price
	}
	return &entity.CatalogItem{
		CompanyID:   p.CompanyID,
		ItemName:    name,
		Description: p.Description,
		Unit:        p.Unit,
		UnitPrice:   normalize.Number(price),
		TaxRate:     normalize.Number(p.TaxRate),
	}
}

// List handles GET /items
func (h *CatalogItemHandler) List(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}

	items, err := h.repo.List(c.Request.Context(), listQueryFromRequest(c, companyID))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list items")
		return
	}
	if items == nil {
		items = []entity.CatalogItem{}
	}
	respondOK(c, items)
}

// Get handles GET /items/:id
func (h *CatalogItemHandler) Get(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	item, err := h.repo.GetByID(c.Request.Context(), id, companyID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get item")
		return
	}
	if item == nil {
		respondError(c, http.StatusNotFound, "item not found")
		return
	}
	respondOK(c, item)
}

// Create handles POST /items
func (h *CatalogItemHandler) Create(c *gin.Context) {
	var payload catalogItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	item := payload.toEntity()
	if item.CompanyID <= 0 {
		respondError(c, http.StatusBadRequest, "invalid company_id")
		return
	}
	if item.ItemName == "" {
		respondError(c, http.StatusBadRequest, "item_name is required")
		return
	}

	if err := h.repo.Create(c.Request.Context(), item); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create item")
		return
	}
	h.logger.Info("Catalog item created",
		zap.Int64("id", item.ID),
		zap.Int64("company_id", item.CompanyID))
	respondCreated(c, item)
}

// Update handles PUT /items/:id
func (h *CatalogItemHandler) Update(c *gin.Context) {
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	var payload catalogItemPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	item := payload.toEntity()
	item.ID = id
	if item.CompanyID <= 0 {
		respondError(c, http.StatusBadRequest, "invalid company_id")
		return
	}
	if item.ItemName == "" {
		respondError(c, http.StatusBadRequest, "item_name is required")
		return
	}

	err := h.repo.Update(c.Request.Context(), item)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, http.StatusNotFound, "item not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update item")
		return
	}
	respondOK(c, item)
}

// Delete handles DELETE /items/:id
func (h *CatalogItemHandler) Delete(c *gin.Context) {
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
		respondError(c, http.StatusInternalServerError, "failed to delete item")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "item not found")
		return
	}
	respondDeleted(c)
}

// Register mounts the handler's routes on a router group
func (h *CatalogItemHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/items", h.List)
	rg.GET("/items/:id", h.Get)
	rg.POST("/items", h.Create)
	rg.PUT("/items/:id", h.Update)
	rg.DELETE("/items/:id", h.Delete)
}
