package middleware

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnalyticsClient_EmptyKeyDisablesTracking(t *testing.T) {
	client := NewAnalyticsClient("", slog.Default())
	assert.False(t, client.IsInitialized())

	// Every method must be a safe no-op on the disabled client.
	client.Enqueue("tenant-1", "event", nil)
	client.Close()
}

func TestAnalytics_PassesThroughWhenDisabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Analytics(NewAnalyticsClient("", slog.Default())))
	r.GET("/api/v1/tenants/:tenantID/accounts", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants/t-1/accounts", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
