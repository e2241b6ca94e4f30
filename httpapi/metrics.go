package httpapi

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics returns the /metrics route table, exposing the process's
// telemetry gauges (registered by the telemetry package against the
// default prometheus registry) for scraping.
func (api *API) Metrics() RouteTable {
	return RouteTable{
		{Method: http.MethodGet, Path: "/metrics"}: promhttp.Handler().ServeHTTP,
	}
}
