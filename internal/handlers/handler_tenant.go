package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/internal/dto"
	"github.com/finbooks/finbooks/internal/middleware"
)

// tenantHandler handles HTTP requests related to tenants.
type tenantHandler struct {
	tenantService portssvc.TenantSvcFacade
}

func newTenantHandler(tenantService portssvc.TenantSvcFacade) *tenantHandler {
	return &tenantHandler{tenantService: tenantService}
}

func registerTenantRoutes(v1 *gin.RouterGroup, tenantService portssvc.TenantSvcFacade) {
	h := newTenantHandler(tenantService)

	tenants := v1.Group("/tenants")
	tenants.POST("", h.createTenant)
	tenants.GET("", h.listTenants)
	tenants.GET("/:tenantID", h.getTenant)
}

// createTenant godoc
// @Summary Create a tenant
// @Description Registers a tenant and seeds its system chart of accounts
// @Tags tenants
// @Accept json
// @Produce json
// @Param tenant body dto.CreateTenantRequest true "Tenant"
// @Success 201 {object} domain.Tenant
// @Failure 400 {object} map[string]string "Invalid request format"
// @Router /tenants [post]
func (h *tenantHandler) createTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	req := dto.CreateTenantRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Error("Failed to bind JSON for createTenant", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	tenant, err := h.tenantService.CreateTenant(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create tenant")
		return
	}
	c.JSON(http.StatusCreated, tenant)
}

// getTenant godoc
// @Summary Get a tenant
// @Tags tenants
// @Produce json
// @Param tenantID path string true "Tenant ID"
// @Success 200 {object} domain.Tenant
// @Failure 404 {object} map[string]string "Tenant not found"
// @Router /tenants/{tenantID} [get]
func (h *tenantHandler) getTenant(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tenant, err := h.tenantService.GetTenantByID(c.Request.Context(), c.Param("tenantID"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve tenant")
		return
	}
	c.JSON(http.StatusOK, tenant)
}

// listTenants godoc
// @Summary List tenants
// @Tags tenants
// @Produce json
// @Success 200 {array} domain.Tenant
// @Router /tenants [get]
func (h *tenantHandler) listTenants(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	tenants, err := h.tenantService.ListTenants(c.Request.Context())
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list tenants")
		return
	}
	c.JSON(http.StatusOK, tenants)
}
