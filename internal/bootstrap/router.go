package bootstrap

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	analysishttp "github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/http"
	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/analysis/service"
	httpapi "github.com/jessmcelvoysemen/house-flip-analyzer/internal/api/http"
	"github.com/jessmcelvoysemen/house-flip-analyzer/internal/api/http/middleware"
)

type RouterDeps struct {
	ServiceName string
	Version     string
	Analyzer    *service.Analyzer
	Defaults    analysishttp.Defaults
	Redis       *redis.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.Default()

	// The static frontend is served from a different origin.
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Content-Type", "X-Request-Id"},
	}))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Redis)
	healthHandler.RegisterRoutes(r)

	api := r.Group("/api/v1")
	api.Use(middleware.RequestIDMiddleware())

	analysishttp.Register(api, analysishttp.NewHandler(dep.Analyzer, dep.Defaults))

	return r
}
