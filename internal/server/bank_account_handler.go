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

// BankAccountHandler serves /bank-accounts
type BankAccountHandler struct {
	repo   *repository.BankAccountRepository
	logger *zap.Logger
}

// NewBankAccountHandler creates a new bank account handler
func NewBankAccountHandler(repo *repository.BankAccountRepository, logger *zap.Logger) *BankAccountHandler {
	return &BankAccountHandler{
		repo:   repo,
		logger: logger,
	}
}

func normalizeBankAccount(acc *entity.BankAccount) string {
	acc.Status = normalize.Status(acc.Status)
	if acc.Status == "" {
		acc.Status = entity.StatusActive
	}
	if acc.CompanyID <= 0 {
		return "invalid company_id"
	}
	if acc.AccountName == "" {
		return "account_name is required"
	}
	return ""
}

// List handles GET /bank-accounts
func (h *BankAccountHandler) List(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}

	accounts, err := h.repo.List(c.Request.Context(), listQueryFromRequest(c, companyID))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to list bank accounts")
		return
	}
	if accounts == nil {
		accounts = []entity.BankAccount{}
	}
	respondOK(c, accounts)
}

// Get handles GET /bank-accounts/:id
func (h *BankAccountHandler) Get(c *gin.Context) {
	companyID, ok := companyIDFromQuery(c)
	if !ok {
		return
	}
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	acc, err := h.repo.GetByID(c.Request.Context(), id, companyID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to get bank account")
		return
	}
	if acc == nil {
		respondError(c, http.StatusNotFound, "bank account not found")
		return
	}
	respondOK(c, acc)
}

// Create handles POST /bank-accounts
func (h *BankAccountHandler) Create(c *gin.Context) {
	var acc entity.BankAccount
	if err := c.ShouldBindJSON(&acc); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := normalizeBankAccount(&acc); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}
	// A new account starts at its opening balance
	acc.CurrentBalance = acc.OpeningBalance

	if err := h.repo.Create(c.Request.Context(), &acc); err != nil {
		respondError(c, http.StatusInternalServerError, "failed to create bank account")
		return
	}
	h.logger.Info("Bank account created",
		zap.Int64("id", acc.ID),
		zap.Int64("company_id", acc.CompanyID))
	respondCreated(c, acc)
}

// Update handles PUT /bank-accounts/:id
func (h *BankAccountHandler) Update(c *gin.Context) {
	id, ok := recordIDFromPath(c)
	if !ok {
		return
	}

	var acc entity.BankAccount
	if err := c.ShouldBindJSON(&acc); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}
	if msg := normalizeBankAccount(&acc); msg != "" {
		respondError(c, http.StatusBadRequest, msg)
		return
	}
	acc.ID = id

	err := h.repo.Update(c.Request.Context(), &acc)
	if errors.Is(err, sql.ErrNoRows) {
		respondError(c, http.StatusNotFound, "bank account not found")
		return
	}
	if err != nil {
		respondError(c, http.StatusInternalServerError, "failed to update bank account")
		return
	}
	respondOK(c, acc)
}

// Delete handles DELETE /bank-accounts/:id
func (h *BankAccountHandler) Delete(c *gin.Context) {
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
		respondError(c, http.StatusInternalServerError, "failed to delete bank account")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "bank account not found")
		return
	}
	respondDeleted(c)
}

// Register mounts the handler's routes on a router group
func (h *BankAccountHandler) Register(rg *gin.RouterGroup) {
	rg.GET("/bank-accounts", h.List)
	rg.GET("/bank-accounts/:id", h.Get)
	rg.POST("/bank-accounts", h.Create)
	rg.PUT("/bank-accounts/:id", h.Update)
	rg.DELETE("/bank-accounts/:id", h.Delete)
}
