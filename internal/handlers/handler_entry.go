package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

// entryHandler handles HTTP requests for journal entries.
type entryHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newEntryHandler(ledgerService portssvc.LedgerSvcFacade) *entryHandler {
	return &entryHandler{ledgerService: ledgerService}
}

func registerEntryRoutes(tenant *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newEntryHandler(ledgerService)

	entries := tenant.Group("/entries")
	entries.POST("", h.postEntry)
	entries.GET("", h.listEntries)
	entries.GET("/:entryID", h.getEntry)
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Validates and posts a balanced journal entry; backdated entries recompute downstream balances
// @Tags entries
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param entry body dto.PostEntryRequest true "Journal entry"
// @Success 201 {object} domain.JournalEntry
// @Failure 400 {object} map[string]string "Validation failure"
// @Failure 409 {object} map[string]string "Duplicate entry id"
// @Router /tenants/{tenantID}/entries [post]
func (h *entryHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.PostEntryRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for postEntry", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	entry, err := h.ledgerService.PostEntry(c.Request.Context(), c.Param("tenantID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to post entry")
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// getEntry godoc
// @Summary Get a journal entry
// @Tags entries
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param entryID path string true "Entry ID"
// @Success 200 {object} domain.JournalEntry
// @Failure 404 {object} map[string]string "Entry not found"
// @Router /tenants/{tenantID}/entries/{entryID} [get]
func (h *entryHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entry, err := h.ledgerService.GetEntry(c.Request.Context(), c.Param("tenantID"), c.Param("entryID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve entry")
		return
	}
	c.JSON(http.StatusOK, entry)
}

// listEntries godoc
// @Summary List journal entries
// @Tags entries
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} domain.JournalEntry
// @Router /tenants/{tenantID}/entries [get]
func (h *entryHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	entries, err := h.ledgerService.ListEntries(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list entries")
		return
	}
	c.JSON(http.StatusOK, entries)
}
