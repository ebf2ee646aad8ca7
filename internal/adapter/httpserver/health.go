package httpserver

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/pscheid92/kudos/internal/platform/version"
)

type healthResponse struct {
	Status  string            `json:"status"`
	Version string            `json:"version"`
	Uptime  string            `json:"uptime"`
	Checks  map[string]string `json:"checks,omitempty"`
}

func (s *Server) handleHealthz(c echo.Context) error {
	ctx := c.Request().Context()

	resp := healthResponse{
		Status:  "ok",
		Version: version.Get().Version,
		Uptime:  time.Since(s.startTime).Round(time.Second).String(),
	}

	status := http.StatusOK
	if len(s.healthChecks) > 0 {
		resp.Checks = make(map[string]string, len(s.healthChecks))
		for _, check := range s.healthChecks {
			if err := check.Check(ctx); err != nil {
				resp.Checks[check.Name] = err.Error()
				resp.Status = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			resp.Checks[check.Name] = "ok"
		}
	}

	return c.JSON(status, resp)
}
