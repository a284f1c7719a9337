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

// PackageHandler serves /packages. Packages are platform-level
// records, so list and get are not tenant-scoped.
type PackageHandler struct {
	repo   *repository.PackageRepository
	logger *zap.Logger
}

// NewPackageHandler creates a new package handler
func NewPackageHandler(repo *repository.PackageRepository, logger *zap.Logger) *PackageHandler {
	return &PackageHandler{
		repo:   repo,
		logger: logger,
	}
}

// packagePayload accepts the dual representation of features: a JSON
// array or a JSON-encoded string containing one
type packagePayload struct {
	PackageName       string  `json:"package_name"`
	Price             any     `json:"price"`
	BillingCycle      string  `json:"billing_cycle"`
	Features          any     `json:"features"`
	Status            string  `json:"status"`
	AssignedCompanies []int64 `json:"assigned_companies"`
}

func (p *packagePayload) toEntity() *entity.Package {
	pkg := &entity.Package{
		PackageName:       p.PackageName,
		Price:             normalize.Number(p.Price),
		BillingCycle:      p.BillingCycle,
		Features:          normalize.Features(p.Features),
		Status:            normalize.Status(p.Status),
		AssignedCompanies: p.AssignedCompanies,
	}
	if pkg.Status == "" {
		pkg.Status = entity.StatusActive
	}
	if pkg.BillingCycle == "" {
		pkg.BillingCycle = entity.CycleMonthly
	}
	return pkg
}

// List handles GET /packages
func (h *PackageHandler) List(c *gin.Context) {
	q := repository.ListQuery{
		Search: c.Query("search"),
		Status: c.Query("status"),
	}

	packages, err := h.repo.List(c.Request.Context(), q)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list packages")
		return
	}
	if packages == nil {
		packages = []entity.Package{}
	}
	respondOK(c, packages)
}

// Get handles GET /packages/:id
func (h *PackageHandler) Get(c *gin.Context) {
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	pkg, err := h.repo.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get package")
		return
	}
	if pkg == nil {
		respondError(c, http.StatusNotFound, "package not found")
		return
	}
	respondOK(c, pkg)
}

// Create handles POST /packages
func (h *PackageHandler) Create(c *gin.Context) {
	var payload packagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.PackageName == "" {
		respondError(c, http.StatusBadRequest, "package_name is required")
		return
	}

	pkg := payload.toEntity()
	if err := h.repo.Create(c.Request.Context(), pkg); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create package")
		return
	}
	h.logger.Info("Package created", zap.Int64("id", pkg.ID))
	respondCreated(c, pkg)
}

// Update handles PUT /packages/:id
func (h *PackageHandler) Update(c *gin.Context) {
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	var payload packagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.PackageName == "" {
		respondError(c, http.StatusBadRequest, "package_name is required")
		return
	}

	pkg := payload.toEntity()
	pkg.ID = id

	err := h.repo.Update(c.Request.Context(), pkg)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, http.StatusNotFound, "package not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update package")
		return
	}
	respondOK(c, pkg)
}

// Delete handles DELETE /packages/:id
func (h *PackageHandler) Delete(c *gin.Context) {
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	deleted, err := h.repo.Delete(c.Request.Context(), id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to delete package")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "package not found")
		return
	}
	respondDeleted(c)
}

// Register mounts the handler's routes on a router group
func (h *PackageHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/packages", h.List)
	rg.GET("/packages/:id", h.Get)
	rg.POST("/packages", h.Create)
	rg.PUT("/packages/:id", h.Update)
	rg.DELETE("/packages/:id", h.Delete)
}
