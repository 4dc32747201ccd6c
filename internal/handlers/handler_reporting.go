package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/finbooks/finbooks/internal/core/domain"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/middleware"
)

// reportingHandler handles HTTP requests for the derived financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingSvcFacade
}

func newReportingHandler(reportingService portssvc.ReportingSvcFacade) *reportingHandler {
	return &reportingHandler{reportingService: reportingService}
}

func registerReportingRoutes(tenant *gin.RouterGroup, reportingService portssvc.ReportingSvcFacade) {
	h := newReportingHandler(reportingService)

	reports := tenant.Group("/reports")
	reports.GET("/trial-balance", h.trialBalance)
	reports.GET("/profit-and-loss", h.profitAndLoss)
	reports.GET("/balance-sheet", h.balanceSheet)
	reports.GET("/aged-receivables", h.agedReceivables)
}

// dateQuery parses a required YYYY-MM-DD query parameter, writing the 400
// itself on failure.
func dateQuery(c *gin.Context, name string) (domain.Date, bool) {
	raw := c.Query(name)
	date, err := domain.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a YYYY-MM-DD date"})
		return "", false
	}
	return date, true
}

// trialBalance godoc
// @Summary Trial balance
// @Description Ending balance per account, bucketed into debit and credit columns
// @Tags reports
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} domain.TrialBalanceRow
// @Router /tenants/{tenantID}/reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.reportingService.TrialBalance(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate trial balance")
		return
	}
	c.JSON(http.StatusOK, rows)
}

// profitAndLoss godoc
// @Summary Profit and loss
// @Description Revenue and expense activity for the inclusive [start, end] period
// @Tags reports
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param start query string true "Period start (YYYY-MM-DD)"
// @Param end query string true "Period end (YYYY-MM-DD)"
// @Success 200 {object} domain.PLReport
// @Failure 400 {object} map[string]string "Invalid period"
// @Router /tenants/{tenantID}/reports/profit-and-loss [get]
func (h *reportingHandler) profitAndLoss(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	start, ok := dateQuery(c, "start")
	if !ok {
		return
	}
	end, ok := dateQuery(c, "end")
	if !ok {
		return
	}
	if end.Before(start) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "end must not be before start"})
		return
	}

	report, err := h.reportingService.ProfitAndLoss(c.Request.Context(), c.Param("tenantID"), start, end)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate profit and loss")
		return
	}
	c.JSON(http.StatusOK, report)
}

// balanceSheet godoc
// @Summary Balance sheet
// @Description Assets, liabilities, equity and lifetime net income as of a date
// @Tags reports
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param asOf query string true "Report date (YYYY-MM-DD)"
// @Success 200 {object} domain.BalanceSheetReport
// @Failure 400 {object} map[string]string "Invalid date"
// @Router /tenants/{tenantID}/reports/balance-sheet [get]
func (h *reportingHandler) balanceSheet(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	asOf, ok := dateQuery(c, "asOf")
	if !ok {
		return
	}

	report, err := h.reportingService.BalanceSheet(c.Request.Context(), c.Param("tenantID"), asOf)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate balance sheet")
		return
	}
	c.JSON(http.StatusOK, report)
}

// agedReceivables godoc
// @Summary Aged receivables
// @Description Unpaid invoices bucketed by days overdue
// @Tags reports
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} domain.AgedReceivablesReport
// @Router /tenants/{tenantID}/reports/aged-receivables [get]
func (h *reportingHandler) agedReceivables(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	report, err := h.reportingService.AgedReceivables(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to generate aged receivables")
		return
	}
	c.JSON(http.StatusOK, report)
}
