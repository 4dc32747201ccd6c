package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

// invoiceHandler handles HTTP requests for customers and invoices.
type invoiceHandler struct {
	invoiceService portssvc.InvoiceSvcFacade
}

func newInvoiceHandler(invoiceService portssvc.InvoiceSvcFacade) *invoiceHandler {
	return &invoiceHandler{invoiceService: invoiceService}
}

func registerInvoiceRoutes(tenant *gin.RouterGroup, invoiceService portssvc.InvoiceSvcFacade) {
	h := newInvoiceHandler(invoiceService)

	customers := tenant.Group("/customers")
	customers.POST("", h.createCustomer)
	customers.GET("", h.listCustomers)

	invoices := tenant.Group("/invoices")
	invoices.POST("", h.createInvoice)
	invoices.GET("", h.listInvoices)
	invoices.GET("/:invoiceID", h.getInvoice)
	invoices.POST("/:invoiceID/approve", h.approveInvoice)
	invoices.POST("/:invoiceID/payments", h.recordPayment)
	invoices.POST("/:invoiceID/void", h.voidInvoice)
}

// createCustomer godoc
// @Summary Create a customer
// @Tags invoices
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param customer body dto.CreateCustomerRequest true "Customer"
// @Success 201 {object} domain.Customer
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /tenants/{tenantID}/customers [post]
func (h *invoiceHandler) createCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateCustomerRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createCustomer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	customer, err := h.invoiceService.CreateCustomer(c.Request.Context(), c.Param("tenantID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create customer")
		return
	}
	c.JSON(http.StatusCreated, customer)
}

// listCustomers godoc
// @Summary List customers
// @Tags invoices
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} domain.Customer
// @Router /tenants/{tenantID}/customers [get]
func (h *invoiceHandler) listCustomers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	customers, err := h.invoiceService.ListCustomers(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list customers")
		return
	}
	c.JSON(http.StatusOK, customers)
}

// createInvoice godoc
// @Summary Create a draft invoice
// @Tags invoices
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param invoice body dto.CreateInvoiceRequest true "Invoice"
// @Success 201 {object} domain.Invoice
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /tenants/{tenantID}/invoices [post]
func (h *invoiceHandler) createInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateInvoiceRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createInvoice", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	invoice, err := h.invoiceService.CreateInvoice(c.Request.Context(), c.Param("tenantID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create invoice")
		return
	}
	c.JSON(http.StatusCreated, invoice)
}

// getInvoice godoc
// @Summary Get an invoice
// @Tags invoices
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param invoiceID path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 404 {object} map[string]string "Invoice not found"
// @Router /tenants/{tenantID}/invoices/{invoiceID} [get]
func (h *invoiceHandler) getInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	invoice, err := h.invoiceService.GetInvoice(c.Request.Context(), c.Param("tenantID"), c.Param("invoiceID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// listInvoices godoc
// @Summary List invoices
// @Tags invoices
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {array} domain.Invoice
// @Router /tenants/{tenantID}/invoices [get]
func (h *invoiceHandler) listInvoices(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	invoices, err := h.invoiceService.ListInvoices(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list invoices")
		return
	}
	c.JSON(http.StatusOK, invoices)
}

// approveInvoice godoc
// @Summary Approve a draft invoice
// @Description Posts the invoice's journal entry (debit AR, credit revenue) and locks it
// @Tags invoices
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param invoiceID path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 404 {object} map[string]string "Invoice not found"
// @Failure 409 {object} map[string]string "Not a draft"
// @Router /tenants/{tenantID}/invoices/{invoiceID}/approve [post]
func (h *invoiceHandler) approveInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	invoice, err := h.invoiceService.ApproveInvoice(c.Request.Context(), c.Param("tenantID"), c.Param("invoiceID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to approve invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// recordPayment godoc
// @Summary Record an invoice payment
// @Description Posts the payment entry (debit bank, credit AR) and marks the invoice paid
// @Tags invoices
// @Accept json
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param invoiceID path string true "Invoice ID"
// @Param payment body dto.RecordPaymentRequest true "Payment"
// @Success 200 {object} domain.Invoice
// @Failure 409 {object} map[string]string "Invoice not awaiting payment"
// @Router /tenants/{tenantID}/invoices/{invoiceID}/payments [post]
func (h *invoiceHandler) recordPayment(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.RecordPaymentRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for recordPayment", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	invoice, err := h.invoiceService.RecordInvoicePayment(c.Request.Context(), c.Param("tenantID"), c.Param("invoiceID"), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to record payment")
		return
	}
	c.JSON(http.StatusOK, invoice)
}

// voidInvoice godoc
// @Summary Void a draft invoice
// @Tags invoices
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Param invoiceID path string true "Invoice ID"
// @Success 200 {object} domain.Invoice
// @Failure 409 {object} map[string]string "Not a draft"
// @Router /tenants/{tenantID}/invoices/{invoiceID}/void [post]
func (h *invoiceHandler) voidInvoice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	invoice, err := h.invoiceService.VoidInvoice(c.Request.Context(), c.Param("tenantID"), c.Param("invoiceID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to void invoice")
		return
	}
	c.JSON(http.StatusOK, invoice)
}
