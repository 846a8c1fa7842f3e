package handler

import (
	"net/http"

	"github.com/zeromicro/go-zero/rest"

	"pricefeed-api/internal/metrics"
)

// RegisterMetrics exposes Prometheus collectors on GET /metrics and records
// HTTP metrics for every other route.
func RegisterMetrics(server *rest.Server) {
	server.Use(metrics.Middleware)
	server.AddRoute(rest.Route{
		Method:  http.MethodGet,
		Path:    "/metrics",
		Handler: metrics.Handler().ServeHTTP,
	})
}
