package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Upstreams map[string]string `json:"upstreams,omitempty"`
}

type HealthHandler struct {
	serviceName string
	version     string
	upstreams   map[string]bool
}

// NewHealthHandler reports liveness plus which upstream credentials are set.
// upstreams maps service name to whether its key is configured.
func NewHealthHandler(serviceName, version string, upstreams map[string]bool) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		upstreams:   upstreams,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	var ups map[string]string
	if len(h.upstreams) > 0 {
		ups = make(map[string]string, len(h.upstreams))
		for name, ok := range h.upstreams {
			if ok {
				ups[name] = "configured"
			} else {
				ups[name] = "missing_credentials"
			}
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Service:   h.serviceName,
		Version:   h.version,
		Upstreams: ups,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
