package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

// bankingHandler handles HTTP requests for bank transaction import and
// reconciliation.
type bankingHandler struct {
	bankingService portssvc.BankingSvcFacade
}

func newBankingHandler(bankingService portssvc.BankingSvcFacade) *bankingHandler {
	return &bankingHandler{bankingService: bankingService}
}

func registerBankingRoutes(tenant *gin.RouterGroup, bankingService portssvc.BankingSvcFacade) {
	h := newBankingHandler(bankingService)

	banking := tenant.Group("/banking")
	banking.POST("/transactions/import", h.importTransactions)
	banking.GET("/transactions/unreconciled", h.listUnreconciled)
	banking.POST("/transactions/:transactionID/reconcile", h.reconcileTransaction)
	banking.POST("/rules", h.createRule)
	banking.GET("/rules", h.listRules)
	banking.DELETE("/rules/:ruleID", h.deleteRule)
	banking.GET("/rules/suggest", h.suggestRule)
}

// importTransactions godoc
// @Summary Import bank transactions
// @Description Stores parsed statement lines against a bank account; all land as PENDING
// @Tags banking
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param import body dto.ImportBankTransactionsRequest true "Statement lines"
// @Success 201 {array} domain.BankTransaction
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /tenants/{tenantID}/banking/transactions/import [post]
func (h *bankingHandler) importTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.ImportBankTransactionsRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for importTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	txns, err := h.bankingService.ImportTransactions(c.Request.Context(), c.Param("tenantID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to import transactions")
		return
	}
	c.JSON(http.StatusCreated, txns)
}

// listUnreconciled godoc
// @Summary List unreconciled bank transactions
// @Tags banking
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} domain.BankTransaction
// @Router /tenants/{tenantID}/banking/transactions/unreconciled [get]
func (h *bankingHandler) listUnreconciled(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	txns, err := h.bankingService.ListUnreconciled(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list unreconciled transactions")
		return
	}
	c.JSON(http.StatusOK, txns)
}

// reconcileTransaction godoc
// @Summary Reconcile a bank transaction
// @Description Matches a pending transaction to a posted journal entry
// @Tags banking
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param transactionID path string true "Transaction ID"
// @Param match body dto.ReconcileTransactionRequest true "Matched entry"
// @Success 204 "Reconciled"
// @Failure 404 {object} map[string]string "Transaction or entry not found"
// @Failure 409 {object} map[string]string "Already matched"
// @Router /tenants/{tenantID}/banking/transactions/{transactionID}/reconcile [post]
func (h *bankingHandler) reconcileTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.ReconcileTransactionRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for reconcileTransaction", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := h.bankingService.ReconcileTransaction(c.Request.Context(), c.Param("tenantID"), c.Param("transactionID"), req.EntryID); err != nil {
		respondServiceError(c, logger, err, "Failed to reconcile transaction")
		return
	}
	c.Status(http.StatusNoContent)
}

// createRule godoc
// @Summary Create a bank rule
// @Tags banking
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param rule body dto.CreateBankRuleRequest true "Rule"
// @Success 201 {object} domain.BankRule
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /tenants/{tenantID}/banking/rules [post]
func (h *bankingHandler) createRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateBankRuleRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createRule", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	rule, err := h.bankingService.CreateBankRule(c.Request.Context(), c.Param("tenantID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create bank rule")
		return
	}
	c.JSON(http.StatusCreated, rule)
}

// listRules godoc
// @Summary List bank rules
// @Tags banking
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} domain.BankRule
// @Router /tenants/{tenantID}/banking/rules [get]
func (h *bankingHandler) listRules(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rules, err := h.bankingService.ListBankRules(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list bank rules")
		return
	}
	c.JSON(http.StatusOK, rules)
}

// deleteRule godoc
// @Summary Delete a bank rule
// @Tags banking
// @Param tenantID path string true "Tenant ID"
// @Param ruleID path string true "Rule ID"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Rule not found"
// @Router /tenants/{tenantID}/banking/rules/{ruleID} [delete]
func (h *bankingHandler) deleteRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.bankingService.DeleteBankRule(c.Request.Context(), c.Param("tenantID"), c.Param("ruleID")); err != nil {
		respondServiceError(c, logger, err, "Failed to delete bank rule")
		return
	}
	c.Status(http.StatusNoContent)
}

// suggestRule godoc
// @Summary Suggest a rule for a description
// @Description Returns the first rule whose pattern matches the description, or 204 when none does
// @Tags banking
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param description query string true "Transaction description"
// @Success 200 {object} domain.BankRule
// @Success 204 "No rule matched"
// @Router /tenants/{tenantID}/banking/rules/suggest [get]
func (h *bankingHandler) suggestRule(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rule, err := h.bankingService.SuggestRule(c.Request.Context(), c.Param("tenantID"), c.Query("description"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to suggest rule")
		return
	}
	if rule == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, rule)
}
