package bootstrap

import (
	"github.com/randomnamegen/namegen-backend/config"
	"github.com/randomnamegen/namegen-backend/internal/names/service"
	"github.com/randomnamegen/namegen-backend/internal/names/upstream"
	"github.com/randomnamegen/namegen-backend/internal/platform/logger"
)

// NewNameService builds the upstream clients from cfg and wraps them in a service.
func NewNameService(cfg config.UpstreamConfig, log *logger.Logger) *service.NameService {
	db := upstream.NewBehindTheNameClient(upstream.BehindTheNameOptions{
		BaseURL:   cfg.BehindTheNameURL,
		APIKey:    cfg.BehindTheNameKey,
		Timeout:   cfg.Timeout,
		RateLimit: cfg.RateLimit,
		Burst:     cfg.Burst,
		Logger:    log,
	})
	origin := upstream.NewNamsorClient(cfg.NamsorURL, cfg.NamsorKey, cfg.Timeout, log)
	if !origin.Configured() {
		log.Warn("NAMSOR_API_KEY not set - /api/name-origin will answer 500")
	}
	return service.NewNameService(db, origin, cfg.MaxDetailLookups, log)
}
