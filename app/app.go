package app

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/nimeshabuddhika/mock-error-api/configs"
	_ "github.com/nimeshabuddhika/mock-error-api/docs"
	"github.com/nimeshabuddhika/mock-error-api/internal/handlers"
	"github.com/nimeshabuddhika/mock-error-api/internal/services"
	"github.com/nimeshabuddhika/mock-error-api/pkg"
	middleware "github.com/nimeshabuddhika/mock-error-api/pkg/middlewares"
	"github.com/swaggo/files"
	"github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templates embed.FS

// NewApp wires dependencies, builds the Gin engine, and returns an *http.Server.
// It reads configuration from environment variables via configs.Load.
func NewApp(logger *zap.Logger) (*http.Server, error) {
	// Load config
	cfg, err := configs.Load(logger)
	if err != nil {
		return nil, err
	}

	// Setup dependencies
	baseHandler := handlers.NewBaseHandler(logger)
	catalog := services.NewCatalog(logger)
	simulateHandler := handlers.NewSimulateHandler(logger, catalog)

	// Router; recovery is ours so thrown simulation faults keep their contract
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(middleware.Recovery(logger))

	// CORS for the browser front-ends under test
	corsCfg := cors.DefaultConfig()
	if cfg.CorsOrigins == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = strings.Split(cfg.CorsOrigins, ",")
	}
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, pkg.HeaderTraceId)
	corsCfg.ExposeHeaders = []string{pkg.HeaderTraceId}
	r.Use(cors.New(corsCfg))

	// Fallback page: any unmatched route renders the static error view
	r.SetHTMLTemplate(template.Must(template.ParseFS(templates, "templates/*.html")))
	r.NoRoute(func(c *gin.Context) {
		c.HTML(http.StatusInternalServerError, "error.html", nil)
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	limiter := pkg.NewRequestLimiter(cfg.RateLimit, cfg.RateBurst, logger)

	api := r.Group("/api/v1")
	api.Use(middleware.TraceID())
	api.Use(middleware.Metrics())
	api.Use(middleware.RateLimit(limiter))

	simulateHandler.RegisterRoutes(api)
	baseHandler.RegisterRoutes(r)

	addr := fmt.Sprintf(":%s", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: r}

	return srv, nil
}
