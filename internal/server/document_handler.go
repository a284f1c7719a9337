package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/crmdesk/crmdesk/internal/billing"
	"github.com/crmdesk/crmdesk/internal/domain/entity"
	"github.com/crmdesk/crmdesk/internal/normalize"
	"github.com/crmdesk/crmdesk/internal/repository"
	"github.com/crmdesk/crmdesk/pkg/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// documentStore is the slice of the document repository the handler
// uses, declared here so tests can substitute it
type documentStore interface {
	List(ctx context.Context, kind entity.DocumentKind, q repository.ListQuery) ([]entity.Document, error)
	GetByID(ctx context.Context, id, companyID int64) (*entity.Document, error)
	Create(ctx context.Context, doc *entity.Document) error
	Update(ctx context.Context, doc *entity.Document) error
	Delete(ctx context.Context, id, companyID int64) (bool, error)
}

// DocumentHandler serves one financial document collection. The same
// handler backs /estimates, /invoices, /proposals and /orders with the
// kind fixed at construction.
type DocumentHandler struct {
	repo   documentStore
	kind   entity.DocumentKind
	logger *zap.Logger
}

// NewDocumentHandler creates a handler for one document kind
func NewDocumentHandler(repo documentStore, kind entity.DocumentKind, logger *zap.Logger) *DocumentHandler {
	return &DocumentHandler{
		repo:   repo,
		kind:   kind,
		logger: logger,
	}
}

// documentPayload is the loose wire shape of a create/update request.
// Items arrive as free-form maps because older clients disagree on
// field names; normalization happens before anything is stored.
type documentPayload struct {
	CompanyID    int64            `json:"company_id"`
	Number       string           `json:"number"`
	ClientID     int64            `json:"client_id"`
	ProjectID    int64            `json:"project_id"`
	Status       string           `json:"status"`
	Currency     string           `json:"currency"`
	Discount     any              `json:"discount"`
	DiscountType string           `json:"discount_type"`
	Items        []map[string]any `json:"items"`
	Note         string           `json:"note"`
	Terms        string           `json:"terms"`
	Description  string           `json:"description"`
	ValidTill    string           `json:"valid_till"`
	DueDate      string           `json:"due_date"`
	CreatedBy    int64            `json:"created_by"`
}

func (p *documentPayload) toEntity(kind entity.DocumentKind) *entity.Document {
	doc := &entity.Document{
		CompanyID:    p.CompanyID,
		Kind:         kind,
		Number:       p.Number,
		ClientID:     p.ClientID,
		ProjectID:    p.ProjectID,
		Status:       normalize.Status(p.Status),
		Currency:     p.Currency,
		Discount:     normalize.Number(p.Discount),
		DiscountType: entity.DiscountType(p.DiscountType),
		Note:         utils.SanitizeString(p.Note),
		Terms:        utils.SanitizeString(p.Terms),
		Description:  utils.SanitizeString(p.Description),
		ValidTill:    parseDate(p.ValidTill),
		DueDate:      parseDate(p.DueDate),
		CreatedBy:    p.CreatedBy,
	}
	if doc.Status == "" {
		doc.Status = entity.StatusDraft
	}
	if doc.DiscountType != entity.DiscountFlat {
		doc.DiscountType = entity.DiscountPercent
	}
	for _, raw := range p.Items {
		doc.Items = append(doc.Items, normalize.LineItem(raw))
	}
	return doc
}

func (p *documentPayload) validate() string {
	if p.CompanyID <= 0 {
		return "invalid company_id"
	}
	if p.ClientID <= 0 {
		return "client_id is required"
	}
	return ""
}

// List handles GET /<collection>
func (h *DocumentHandler) List(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}

	docs, err := h.repo.List(c.Request.Context(), h.kind, listQueryFromRequest(c, companyID))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list records")
		return
	}
	if docs == nil {
		docs = []entity.Document{}
	}
	respondOK(c, docs)
}

// Get handles GET /<collection>/:id
func (h *DocumentHandler) Get(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	doc, err := h.repo.GetByID(c.Request.Context(), id, companyID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get record")
		return
	}
	if doc == nil {
		respondError(c, http.StatusNotFound, "record not found")
		return
	}
	respondOK(c, doc)
}

// Create handles POST /<collection>. Derived fields in the payload are
// ignored; item amounts and document totals are recomputed here.
func (h *DocumentHandler) Create(c *gin.Context) {
	var payload documentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := payload.validate(); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	doc := payload.toEntity(h.kind)
	billing.ApplyTotals(doc)

	if err := h.repo.Create(c.Request.Context(), doc); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create record")
		return
	}

	h.logger.Info("Document created",
		zap.String("kind", string(h.kind)),
		zap.Int64("id", doc.ID),
		zap.Int64("company_id", doc.CompanyID))
	respondCreated(c, doc)
}

// Update handles PUT /<collection>/:id with full-replace semantics:
// the entire item list is rewritten from the payload
func (h *DocumentHandler) Update(c *gin.Context) {
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	var payload documentPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := payload.validate(); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}

	doc := payload.toEntity(h.kind)
	doc.ID = id
	billing.ApplyTotals(doc)

	err := h.repo.Update(c.Request.Context(), doc)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, http.StatusNotFound, "record not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update record")
		return
	}
	respondOK(c, doc)
}

// Delete handles DELETE /<collection>/:id
func (h *DocumentHandler) Delete(c *gin.Context) {
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
		respondError(c, http.StatusInternalServerError, "failed to delete record")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "record not found")
		return
	}
	respondDeleted(c)
}

// Register mounts the handler's routes on a router group
func (h *DocumentHandler) Register(rg *gin.RouterGroup, path string) {
	rg.GET(path, h.List)
	rg.GET(path+"/:id", h.Get)
	rg.POST(path, h.Create)
	rg.PUT(path+"/:id", h.Update)
	rg.DELETE(path+"/:id", h.Delete)
}
