package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/finbooks/internal/core/money"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

// accountHandler handles HTTP requests for the chart of accounts and account
// ledgers.
type accountHandler struct {
	accountService portssvc.AccountSvcFacade
	ledgerService  portssvc.LedgerSvcFacade
}

func newAccountHandler(accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerSvcFacade) *accountHandler {
	return &accountHandler{
		accountService: accountService,
		ledgerService:  ledgerService,
	}
}

func registerAccountRoutes(tenant *gin.RouterGroup, accountService portssvc.AccountSvcFacade, ledgerService portssvc.LedgerSvcFacade) {
	h := newAccountHandler(accountService, ledgerService)

	accounts := tenant.Group("/accounts")
	accounts.POST("", h.createAccount)
	accounts.GET("", h.listAccounts)
	accounts.GET("/:accountID", h.getAccount)
	accounts.DELETE("/:accountID", h.archiveAccount)
	accounts.GET("/:accountID/ledger", h.getAccountLedger)
	accounts.GET("/:accountID/balance", h.getBalance)
}

// createAccount godoc
// @Summary Create an account
// @Description Adds an account to the tenant's chart of accounts
// @Tags accounts
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param account body dto.CreateAccountRequest true "Account"
// @Success 201 {object} domain.Account
// @Failure 400 {object} map[string]string "Invalid request format"
// @Failure 409 {object} map[string]string "Account code already in use"
// @Router /tenants/{tenantID}/accounts [post]
func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateAccountRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), c.Param("tenantID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create account")
		return
	}
	c.JSON(http.StatusCreated, account)
}

// listAccounts godoc
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param includeArchived query bool false "Include archived accounts"
// @Success 200 {array} domain.Account
// @Router /tenants/{tenantID}/accounts [get]
func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeArchived := c.Query("includeArchived") == "true"

	accounts, err := h.accountService.ListAccounts(c.Request.Context(), c.Param("tenantID"), includeArchived)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list accounts")
		return
	}
	c.JSON(http.StatusOK, accounts)
}

// getAccount godoc
// @Summary Get an account
// @Tags accounts
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param accountID path string true "Account ID"
// @Success 200 {object} domain.Account
// @Failure 404 {object} map[string]string "Account not found"
// @Router /tenants/{tenantID}/accounts/{accountID} [get]
func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.accountService.GetAccountByID(c.Request.Context(), c.Param("tenantID"), c.Param("accountID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve account")
		return
	}
	c.JSON(http.StatusOK, account)
}

// archiveAccount godoc
// @Summary Archive an account
// @Description Soft-deletes an account; its history stays reportable. System accounts cannot be archived.
// @Tags accounts
// @Param tenantID path string true "Tenant ID"
// @Param accountID path string true "Account ID"
// @Success 204 "Archived"
// @Failure 404 {object} map[string]string "Account not found"
// @Failure 409 {object} map[string]string "System account"
// @Router /tenants/{tenantID}/accounts/{accountID} [delete]
func (h *accountHandler) archiveAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	if err := h.accountService.ArchiveAccount(c.Request.Context(), c.Param("tenantID"), c.Param("accountID")); err != nil {
		respondServiceError(c, logger, err, "Failed to archive account")
		return
	}
	c.Status(http.StatusNoContent)
}

// getAccountLedger godoc
// @Summary Get an account's ledger
// @Description Returns the account's line sequence in date order with running balances
// @Tags accounts
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param accountID path string true "Account ID"
// @Success 200 {array} domain.LedgerLine
// @Failure 404 {object} map[string]string "Account not found"
// @Router /tenants/{tenantID}/accounts/{accountID}/ledger [get]
func (h *accountHandler) getAccountLedger(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	lines, err := h.ledgerService.GetAccountLedger(c.Request.Context(), c.Param("tenantID"), c.Param("accountID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve account ledger")
		return
	}
	c.JSON(http.StatusOK, lines)
}

// getBalance godoc
// @Summary Get an account's balance
// @Tags accounts
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param accountID path string true "Account ID"
// @Success 200 {object} map[string]any "balanceCents and formatted balance"
// @Failure 404 {object} map[string]string "Account not found"
// @Router /tenants/{tenantID}/accounts/{accountID}/balance [get]
func (h *accountHandler) getBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	balance, err := h.ledgerService.GetBalance(c.Request.Context(), c.Param("tenantID"), c.Param("accountID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve balance")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"balanceCents": balance,
		"balance":      money.Format(balance),
	})
}
