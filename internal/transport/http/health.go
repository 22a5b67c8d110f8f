package http

import (
	"context"
	"net/http"
	"time"
)

// Checker verifies that an infrastructure dependency is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// CheckerFunc adapts a ping function to Checker
type CheckerFunc func(ctx context.Context) error

func (f CheckerFunc) Check(ctx context.Context) error { return f(ctx) }

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	resp := &HealthResponse{Status: "ok", Checks: make(map[string]string, len(s.checks))}

	for name, c := range s.checks {
		if err := c.Check(ctx); err != nil {
			s.logger.Error("health check failed", "name", name, "error", err)
			resp.Checks[name] = "error"
			resp.Status = "degraded"
			continue
		}
		resp.Checks[name] = "ok"
	}

	if resp.Status != "ok" {
		s.send(w, http.StatusServiceUnavailable, &Response{Success: false, Data: resp})
		return
	}
	s.sendSuccess(w, resp)
}
