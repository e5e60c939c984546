package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/cppla/postboard/config"
	"github.com/cppla/postboard/controllers"
	"github.com/cppla/postboard/middleware"
	"github.com/cppla/postboard/utils"
)

// SetupRouter wires routes, middlewares, and controllers. Metrics are
// registered on reg and exposed at /metrics.
func SetupRouter(db *gorm.DB, cfg config.AppConfig, reg *prometheus.Registry) *gin.Engine {
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	// Access log goes to its own rolling file
	gl := utils.NewRollingFileLogger(cfg.GinPath, cfg)
	r.Use(utils.Ginzap(gl, time.RFC3339, true))
	r.Use(utils.RecoveryWithZap(gl, true))

	metrics := middleware.NewMetrics(reg)
	r.Use(metrics.Handler())

	corsCfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(cfg.AllowedOrigins) == 0 || (len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})))

	ttl := time.Duration(cfg.CacheTTLSeconds) * time.Second
	userController := controllers.NewUserController(db, ttl)
	postController := controllers.NewPostController(db, ttl)

	api := r.Group("/api")
	if cfg.RateLimitPerMinute > 0 {
		api.Use(middleware.RateLimit(cfg.RateLimitPerMinute))
	}
	api.GET("/users", userController.ListUsers)
	api.POST("/users", userController.CreateUser)
	api.GET("/posts", postController.ListPosts)
	api.POST("/posts", postController.CreatePost)

	r.NoRoute(func(ctx *gin.Context) {
		if strings.HasPrefix(ctx.Request.URL.Path, "/api/") {
			utils.Error(ctx, http.StatusNotFound, "api route not found")
			return
		}
		utils.Error(ctx, http.StatusNotFound, "not found")
	})

	return r
}
