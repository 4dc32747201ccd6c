package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

// billHandler handles HTTP requests for suppliers and bills.
type billHandler struct {
	billService portssvc.BillSvcFacade
}

func newBillHandler(billService portssvc.BillSvcFacade) *billHandler {
	return &billHandler{billService: billService}
}

func registerBillRoutes(tenant *gin.RouterGroup, billService portssvc.BillSvcFacade) {
	h := newBillHandler(billService)

	suppliers := tenant.Group("/suppliers")
	suppliers.POST("", h.createSupplier)
	suppliers.GET("", h.listSuppliers)

	bills := tenant.Group("/bills")
	bills.POST("", h.createBill)
	bills.GET("", h.listBills)
	bills.GET("/:billID", h.getBill)
	bills.POST("/:billID/approve", h.approveBill)
	bills.POST("/:billID/payments", h.recordPayment)
}

// createSupplier godoc
// @Summary Create a supplier
// @Tags bills
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param supplier body dto.CreateSupplierRequest true "Supplier"
// @Success 201 {object} domain.Supplier
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /tenants/{tenantID}/suppliers [post]
func (h *billHandler) createSupplier(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateSupplierRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createSupplier", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	supplier, err := h.billService.CreateSupplier(c.Request.Context(), c.Param("tenantID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create supplier")
		return
	}
	c.JSON(http.StatusCreated, supplier)
}

// listSuppliers godoc
// @Summary List suppliers
// @Tags bills
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} domain.Supplier
// @Router /tenants/{tenantID}/suppliers [get]
func (h *billHandler) listSuppliers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	suppliers, err := h.billService.ListSuppliers(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list suppliers")
		return
	}
	c.JSON(http.StatusOK, suppliers)
}

// createBill godoc
// @Summary Create a draft bill
// @Tags bills
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param bill body dto.CreateBillRequest true "Bill"
// @Success 201 {object} domain.Bill
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /tenants/{tenantID}/bills [post]
func (h *billHandler) createBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateBillRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createBill", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	bill, err := h.billService.CreateBill(c.Request.Context(), c.Param("tenantID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create bill")
		return
	}
	c.JSON(http.StatusCreated, bill)
}

// getBill godoc
// @Summary Get a bill
// @Tags bills
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param billID path string true "Bill ID"
// @Success 200 {object} domain.Bill
// @Failure 404 {object} map[string]string "Bill not found"
// @Router /tenants/{tenantID}/bills/{billID} [get]
func (h *billHandler) getBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	bill, err := h.billService.GetBill(c.Request.Context(), c.Param("tenantID"), c.Param("billID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve bill")
		return
	}
	c.JSON(http.StatusOK, bill)
}

// listBills godoc
// @Summary List bills
// @Tags bills
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} domain.Bill
// @Router /tenants/{tenantID}/bills [get]
func (h *billHandler) listBills(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	bills, err := h.billService.ListBills(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list bills")
		return
	}
	c.JSON(http.StatusOK, bills)
}

// approveBill godoc
// @Summary Approve a draft bill
// @Description Posts the bill's journal entry (debit expense, credit AP) and locks it
// @Tags bills
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param billID path string true "Bill ID"
// @Success 200 {object} domain.Bill
// @Failure 409 {object} map[string]string "Not a draft"
// @Router /tenants/{tenantID}/bills/{billID}/approve [post]
func (h *billHandler) approveBill(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	bill, err := h.billService.ApproveBill(c.Request.Context(), c.Param("tenantID"), c.Param("billID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve bill")
		return
	}
	c.JSON(http.StatusOK, bill)
}

// recordPayment godoc
// @Summary Record a bill payment
// @Description Posts the payment entry (debit AP, credit bank) and marks the bill paid
// @Tags bills
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param billID path string true "Bill ID"
// @Param payment body dto.RecordPaymentRequest true "Payment"
// @Success 200 {object} domain.Bill
// @Failure 409 {object} map[string]string "Bill not awaiting payment"
// @Router /tenants/{tenantID}/bills/{billID}/payments [post]
func (h *billHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.RecordPaymentRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for recordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	bill, err := h.billService.RecordBillPayment(c.Request.Context(), c.Param("tenantID"), c.Param("billID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusOK, bill)
}
