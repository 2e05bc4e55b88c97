package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"vidtube/internal/response"
)

// HealthCheck is one dependency probed by the health endpoint.
type HealthCheck struct {
	Name string
	Ping func(ctx context.Context) error
}

type healthResponse struct {
	Status       string            `json:"status"`
	Dependencies map[string]string `json:"dependencies"`
	Environment  string            `json:"environment"`
}

func (h HandlerSet) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{
		Status:       "ok",
		Dependencies: make(map[string]string, len(h.checks)),
		Environment:  h.cfg.Environment,
	}
	var failed []string

	for _, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			h.log.Error().Err(err).Str("dependency", check.Name).Msg("health check failed")
			resp.Dependencies[check.Name] = "error"
			failed = append(failed, check.Name+" unreachable")
			continue
		}
		resp.Dependencies[check.Name] = "ok"
	}

	if len(failed) > 0 {
		c.JSON(http.StatusServiceUnavailable, response.Failure{
			StatusCode: http.StatusServiceUnavailable,
			Message:    "degraded",
			Success:    false,
			Errors:     failed,
		})
		return
	}
	_ = response.OK(c, http.StatusOK, resp, resp.Status)
}
