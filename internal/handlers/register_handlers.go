package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/finbooks/finbooks/internal/apperrors"
	"github.com/finbooks/finbooks/internal/core/ledger"
	portssvc "github.com/finbooks/finbooks/internal/core/ports/services"
	"github.com/finbooks/finbooks/pkg/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies
// through the service facades.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "OK")
	})

	setupAPIV1Routes(r, services)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group and delegates to the entity
// route registrations. Everything except tenant creation and listing is
// scoped under a tenant.
func setupAPIV1Routes(r *gin.Engine, services *portssvc.ServiceContainer) {
	v1 := r.Group("/api/v1")

	registerTenantRoutes(v1, services.Tenant)

	tenant := v1.Group("/tenants/:tenantID")
	registerAccountRoutes(tenant, services.Account, services.Ledger)
	registerEntryRoutes(tenant, services.Ledger)
	registerReportingRoutes(tenant, services.Reporting)
	registerInvoiceRoutes(tenant, services.Invoice)
	registerBillRoutes(tenant, services.Bill)
	registerBankingRoutes(tenant, services.Banking)
}

// setupSwaggerRoutes configures the swagger documentation routes.
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}

// respondServiceError maps an error from the service layer to an HTTP
// response. Ledger validation errors and bad input are 400, missing resources
// 404, duplicates and illegal state transitions 409, everything else is an
// opaque 500 (the detail stays in the logs).
func respondServiceError(c *gin.Context, logger *slog.Logger, err error, fallback string) {
	switch {
	case ledger.IsValidationError(err) && !errors.Is(err, ledger.ErrDuplicateEntryID),
		errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Request rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Resource not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ledger.ErrDuplicateEntryID),
		errors.Is(err, apperrors.ErrDuplicate),
		errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Request conflicts with current state", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error(fallback, slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": fallback})
	}
}
