package server

import (
	"encoding/json"
	"net/http"
	"sync/atomic"
	"time"
)

// ServiceName is reported by the detailed health endpoint.
const ServiceName = "onedrive-mcp"

const (
	healthStatusOK           = "ok"
	healthStatusNotReady     = "not ready"
	healthStatusShuttingDown = "shutting down"
)

// HealthResponse is the body of /healthz and /readyz.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// DetailedHealthResponse is the body of /healthz/detailed.
type DetailedHealthResponse struct {
	Status       string            `json:"status"`
	Service      string            `json:"service"`
	Uptime       string            `json:"uptime"`
	GraphBaseURL string            `json:"graph_base_url,omitempty"`
	Checks       map[string]string `json:"checks"`
}

// HealthChecker serves the Kubernetes probes of the HTTP transports. The
// server holds no Graph connection of its own, so readiness only reflects
// the ready flag and whether the ServerContext is shutting down.
type HealthChecker struct {
	ready   atomic.Bool
	sc      *ServerContext
	started time.Time
}

// NewHealthChecker returns a checker that starts out ready. sc may be nil.
func NewHealthChecker(sc *ServerContext) *HealthChecker {
	h := &HealthChecker{sc: sc, started: time.Now()}
	h.ready.Store(true)
	return h
}

// SetReady flips readiness; HTTPServer clears it before draining.
func (h *HealthChecker) SetReady(ready bool) {
	h.ready.Store(ready)
}

// IsReady reports the ready flag.
func (h *HealthChecker) IsReady() bool {
	return h.ready.Load()
}

// evaluate runs the readiness checks. status is the first failing check's
// verdict, or ok.
func (h *HealthChecker) evaluate() (status string, checks map[string]string) {
	status = healthStatusOK
	checks = map[string]string{
		"ready":    healthStatusOK,
		"shutdown": healthStatusOK,
	}
	if !h.ready.Load() {
		checks["ready"] = healthStatusNotReady
		status = healthStatusNotReady
	}
	if h.sc != nil && h.sc.IsShutdown() {
		checks["shutdown"] = healthStatusShuttingDown
		if status == healthStatusOK {
			status = healthStatusShuttingDown
		}
	}
	return status, checks
}

func writeHealth(w http.ResponseWriter, healthy bool, body any) {
	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(body)
}

// LivenessHandler serves /healthz. It answers ok as long as the process can
// serve HTTP.
func (h *HealthChecker) LivenessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeHealth(w, true, HealthResponse{Status: healthStatusOK})
	})
}

// ReadinessHandler serves /readyz with 503 while not ready or shutting down.
// The overall status is always "not ready" in that case; checks say why.
func (h *HealthChecker) ReadinessHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status, checks := h.evaluate()
		resp := HealthResponse{Status: healthStatusOK, Checks: checks}
		if status != healthStatusOK {
			resp.Status = healthStatusNotReady
		}
		writeHealth(w, status == healthStatusOK, resp)
	})
}

// DetailedHealthHandler serves /healthz/detailed: readiness plus uptime and
// the Graph endpoint tools are sent to.
func (h *HealthChecker) DetailedHealthHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		status, checks := h.evaluate()
		resp := DetailedHealthResponse{
			Status:  status,
			Service: ServiceName,
			Uptime:  time.Since(h.started).Truncate(time.Second).String(),
			Checks:  checks,
		}
		if h.sc != nil && h.sc.Client() != nil {
			resp.GraphBaseURL = h.sc.Client().Factory().BaseURL()
		}
		writeHealth(w, status == healthStatusOK, resp)
	})
}

// RegisterHealthEndpoints mounts the three probe endpoints on mux.
func (h *HealthChecker) RegisterHealthEndpoints(mux *http.ServeMux) {
	mux.Handle("/healthz", h.LivenessHandler())
	mux.Handle("/readyz", h.ReadinessHandler())
	mux.Handle("/healthz/detailed", h.DetailedHealthHandler())
}
