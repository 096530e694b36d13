package bootstrap

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	httpapi "github.com/randomnamegen/namegen-backend/internal/api/http"
	"github.com/randomnamegen/namegen-backend/internal/api/http/middleware"
	namehttp "github.com/randomnamegen/namegen-backend/internal/names/http"
	"github.com/randomnamegen/namegen-backend/internal/names/service"
	"github.com/randomnamegen/namegen-backend/internal/names/upstream"
	"github.com/randomnamegen/namegen-backend/internal/names/usages"
	"github.com/randomnamegen/namegen-backend/internal/platform/logger"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
	Logger         *logger.Logger
	Names          *service.NameService
	Catalog        *usages.Catalog
}

func BuildRouter(dep RouterDeps) (*gin.Engine, error) {
	if dep.Logger == nil {
		dep.Logger = logger.Nop()
	}

	r := gin.New()
	r.Use(gin.CustomRecovery(recoveryHandler(dep.Logger)))
	r.Use(middleware.RequestIDMiddleware(dep.Logger))
	r.Use(cors.New(corsConfig(dep.AllowedOrigins)))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, map[string]bool{
		upstream.ServiceBehindTheName: true,
		upstream.ServiceNamsor:        dep.Names.OriginConfigured(),
	})
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api")
	nameHandler, err := namehttp.New(dep.Names, dep.Catalog, dep.Logger)
	if err != nil {
		return nil, fmt.Errorf("name handler: %w", err)
	}
	nameHandler.Register(api)

	return r, nil
}

// recoveryHandler logs a recovered panic with the id of the request that caused it.
func recoveryHandler(log *logger.Logger) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		log.Error("panic recovered",
			"request_id", middleware.GetRequestID(c.Request.Context()),
			"path", c.Request.URL.Path,
			"panic", recovered,
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.HeaderRequestID},
		ExposeHeaders: []string{middleware.HeaderRequestID},
		MaxAge:        12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
