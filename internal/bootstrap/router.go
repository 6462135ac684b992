package bootstrap

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	httpapi "github.com/radreport/radreport/internal/api/http"
	"github.com/radreport/radreport/internal/api/http/middleware"
	reporthttp "github.com/radreport/radreport/internal/report/http"
	"github.com/radreport/radreport/internal/report/service"
	"github.com/radreport/radreport/internal/report/templates"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	CORSOrigins    []string
	RateLimitRPS   float64
	RateLimitBurst int
	Reports        *service.ReportService
	Templates      *templates.Catalog
	DB             *pgxpool.Pool
	Redis          *redis.Client
}

func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.CORS(dep.CORSOrigins))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Reports.Available(), dep.DB, dep.Redis)
	healthHandler.RegisterRoutes(r)

	reports := reporthttp.NewHandler(dep.Reports, dep.Templates, dep.Version)
	reports.Register(r, middleware.RateLimit(dep.RateLimitRPS, dep.RateLimitBurst))

	return r
}
