package adminapi

import (
	"net/http"
	"time"

	"github.com/araddon/dateparse"
	"github.com/labstack/echo/v4"

	"github.com/lledoind/aerotools/internal/webserver"
	"github.com/lledoind/aerotools/pkg/metrics"
)

var knownMetrics = []string{
	"system_cpuuse",
	"system_memuse",
	"aerotools_cpuuse",
	"aerotools_memuse",
}

// registerMetricsRoutes registers the system monitoring endpoints
func registerMetricsRoutes() {
	webserver.ApiGET("/metrics/names", listMetricNames)
	webserver.ApiGET("/metrics/:name", queryMetric)
}

func listMetricNames(c echo.Context) error {
	return ok(c, knownMetrics)
}

// queryMetric returns the samples of one metric over a time window,
// defaulting to the last hour.
func queryMetric(c echo.Context) error {
	name := c.Param("name")
	known := false
	for _, m := range knownMetrics {
		if m == name {
			known = true
			break
		}
	}
	if !known {
		return fail(c, http.StatusNotFound, "NOT_FOUND", "Unknown metric", name)
	}

	end := time.Now()
	start := end.Add(-time.Hour)
	if raw := c.QueryParam("start"); raw != "" {
		t, err := dateparse.ParseAny(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse 'start'", raw)
		}
		start = t
	}
	if raw := c.QueryParam("end"); raw != "" {
		t, err := dateparse.ParseAny(raw)
		if err != nil {
			return fail(c, http.StatusBadRequest, "INVALID_DATE", "Unable to parse 'end'", raw)
		}
		end = t
	}

	points, err := metrics.SelectRange(name, start.Unix(), end.Unix())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "METRICS_ERROR", "Failed to query metric", err.Error())
	}

	type sample struct {
		Timestamp int64   `json:"timestamp"`
		Value     float64 `json:"value"`
	}
	samples := make([]sample, 0, len(points))
	for _, p := range points {
		samples = append(samples, sample{Timestamp: p.Timestamp, Value: p.Value})
	}
	return ok(c, map[string]interface{}{
		"metric":  name,
		"samples": samples,
	})
}
