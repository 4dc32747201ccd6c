package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/posthog/posthog-go"
)

// analyticsPathsToSkip contains paths that should not produce events.
var analyticsPathsToSkip = map[string]bool{
	"/health": true,
}

// AnalyticsClient wraps the PostHog client so callers never have to care
// whether analytics is configured; every method is a no-op when it is not.
type AnalyticsClient struct {
	client posthog.Client
	logger *slog.Logger
}

// NewAnalyticsClient initializes the PostHog client. An empty api key
// disables analytics entirely.
func NewAnalyticsClient(apiKey string, logger *slog.Logger) *AnalyticsClient {
	if apiKey == "" {
		logger.Warn("Analytics API key is empty, event tracking disabled")
		return &AnalyticsClient{}
	}
	client, err := posthog.NewWithConfig(apiKey, posthog.Config{Endpoint: "https://eu.i.posthog.com"})
	if err != nil {
		logger.Error("Failed to initialize analytics client", slog.String("error", err.Error()))
		return &AnalyticsClient{}
	}
	logger.Info("Analytics client initialized")
	return &AnalyticsClient{client: client, logger: logger}
}

// IsInitialized reports whether events will actually be sent.
func (a *AnalyticsClient) IsInitialized() bool {
	return a != nil && a.client != nil
}

// Enqueue sends one event; a no-op when the client is not initialized.
func (a *AnalyticsClient) Enqueue(distinctID, event string, properties map[string]any) {
	if !a.IsInitialized() {
		return
	}
	_ = a.client.Enqueue(posthog.Capture{
		DistinctId: distinctID,
		Event:      event,
		Properties: properties,
	})
}

// Close flushes and shuts down the underlying client.
func (a *AnalyticsClient) Close() {
	if !a.IsInitialized() {
		return
	}
	if err := a.client.Close(); err != nil && a.logger != nil {
		a.logger.Error("Failed to close analytics client", slog.String("error", err.Error()))
	}
}

// Analytics tracks successful API requests as events keyed by tenant. Routes
// without a tenant parameter (tenant creation, listing) and failed requests
// are not tracked.
func Analytics(client *AnalyticsClient) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !client.IsInitialized() || analyticsPathsToSkip[c.Request.URL.Path] {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}

		tenantID := c.Param("tenantID")
		if tenantID == "" {
			return
		}

		// "/api/v1/tenants/:tenantID/entries" -> "api_v1_tenants_:tenantID_entries"
		eventName := strings.TrimPrefix(c.FullPath(), "/")
		eventName = strings.ReplaceAll(eventName, "/", "_")
		if eventName == "" {
			return
		}

		client.Enqueue(tenantID, eventName, map[string]any{
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"status_code": c.Writer.Status(),
		})
	}
}
