package api

import (
	"marketplace/api/health"
	"marketplace/api/middleware"
	"marketplace/api/notification"
	"marketplace/api/order"
	"marketplace/api/payout"
	"marketplace/api/product"
	"marketplace/api/realtime"
	"marketplace/api/review"
	"marketplace/api/user"
	"marketplace/config"
	"marketplace/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Controllers groups every HTTP controller the router mounts.
// Realtime is nil when the WebSocket channel is disabled.
type Controllers struct {
	Health       *health.Controller
	User         *user.Controller
	Product      *product.Controller
	Order        *order.Controller
	Payout       *payout.Controller
	Review       *review.Controller
	Notification *notification.Controller
	Realtime     *realtime.Controller
}

// Router Route configuration
type Router struct {
	engine      *gin.Engine
	config      *config.Config
	controllers Controllers
	metrics     *metrics.ServerMetrics
}

// NewRouter Create route configuration. m may be nil when metrics are disabled.
func NewRouter(cfg *config.Config, controllers Controllers, m *metrics.ServerMetrics) *Router {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()

	// Add middleware (order is important)
	engine.Use(middleware.RequestIDMiddleware())                      // 1. Generate request ID first
	engine.Use(middleware.RecoveryMiddleware())                       // 2. Recovery middleware
	engine.Use(middleware.LoggingMiddleware())                        // 3. Logging middleware
	engine.Use(middleware.CORSMiddleware(&cfg.CORS))                  // 4. CORS
	engine.Use(middleware.RateLimitMiddleware(&cfg.Server.RateLimit)) // 5. Rate limiting
	if m != nil {
		engine.Use(middleware.MetricsMiddleware(m)) // 6. Request metrics
	}

	return &Router{
		engine:      engine,
		config:      cfg,
		controllers: controllers,
		metrics:     m,
	}
}

// SetupRoutes Set up all routes
func (r *Router) SetupRoutes() {
	apiGroup := r.engine.Group("/api/v1")
	authed := apiGroup.Group("", middleware.Authenticate())

	r.controllers.Health.RegisterRoutes(apiGroup)
	r.controllers.User.RegisterRoutes(authed)
	r.controllers.Product.RegisterRoutes(apiGroup, authed)
	r.controllers.Order.RegisterRoutes(authed)
	r.controllers.Payout.RegisterRoutes(authed)
	r.controllers.Review.RegisterRoutes(apiGroup, authed)
	r.controllers.Notification.RegisterRoutes(authed)
	if r.controllers.Realtime != nil {
		r.controllers.Realtime.RegisterRoutes(r.engine.Group("", middleware.Authenticate()))
	}

	if r.metrics != nil && r.config.Metrics.Enabled {
		r.engine.GET(r.config.Metrics.Path, gin.WrapH(r.metrics.Handler()))
	}

	r.engine.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"name":    r.config.App.Name,
			"version": r.config.App.Version,
			"env":     r.config.App.Env,
			"health":  "/api/v1/health",
		})
	})
}

// GetEngine Get Gin engine
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
