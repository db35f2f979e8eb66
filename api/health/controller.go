// Package health reports whether the marketplace API can serve traffic.
package health

import (
	"context"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"marketplace/config"

	"github.com/gin-gonic/gin"
)

const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
	statusDisabled  = "disabled"

	pingTimeout = 2 * time.Second
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Presence exposes the users connected to the notification channel.
type Presence interface {
	OnlineUsers() []string
}

type Controller struct {
	config    *config.Config
	db        Pinger
	presence  Presence
	startTime time.Time
}

// NewController builds the health endpoints. db is nil on the in-memory store and presence is nil
// when the realtime channel is disabled.
func NewController(cfg *config.Config, db Pinger, presence Presence) *Controller {
	return &Controller{
		config:    cfg,
		db:        db,
		presence:  presence,
		startTime: time.Now(),
	}
}

func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/health", c.Health)
	router.GET("/health/live", c.Liveness)
	router.GET("/health/ready", c.Readiness)
}

type HealthResponse struct {
	Status    string           `json:"status"`
	Version   string           `json:"version"`
	Uptime    string           `json:"uptime"`
	Timestamp string           `json:"timestamp"`
	Checks    map[string]Check `json:"checks"`
	System    *SystemInfo      `json:"system,omitempty"`
}

type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// SystemInfo is only reported in development.
type SystemInfo struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAlloc     uint64 `json:"mem_alloc_bytes"`
}

// Health reports the store and the realtime channel. Only the store decides the overall status;
// notifications are still persisted while nobody is connected.
// GET /api/v1/health
func (c *Controller) Health(ctx *gin.Context) {
	store := c.checkStore(ctx.Request.Context())
	response := HealthResponse{
		Status:    store.Status,
		Version:   c.config.App.Version,
		Uptime:    time.Since(c.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks: map[string]Check{
			"database": store,
			"realtime": c.checkRealtime(),
		},
	}

	if c.config.IsDevelopment() {
		var mem runtime.MemStats
		runtime.ReadMemStats(&mem)
		response.System = &SystemInfo{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     mem.Alloc,
		}
	}

	code := http.StatusOK
	if store.Status != statusHealthy {
		code = http.StatusServiceUnavailable
	}
	ctx.JSON(code, response)
}

// GET /api/v1/health/live
func (c *Controller) Liveness(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"status": "alive"})
}

// Readiness fails while orders cannot be read or written.
// GET /api/v1/health/ready
func (c *Controller) Readiness(ctx *gin.Context) {
	if store := c.checkStore(ctx.Request.Context()); store.Status != statusHealthy {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "not_ready",
			"message": "database not available",
		})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func (c *Controller) checkStore(ctx context.Context) Check {
	if c.db == nil {
		return Check{Status: statusHealthy, Message: "in-memory store"}
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	start := time.Now()
	err := c.db.Ping(ctx)
	latency := time.Since(start).String()
	if err != nil {
		return Check{Status: statusUnhealthy, Message: err.Error(), Latency: latency}
	}
	return Check{Status: statusHealthy, Latency: latency}
}

func (c *Controller) checkRealtime() Check {
	if c.presence == nil {
		return Check{Status: statusDisabled}
	}
	return Check{
		Status:  statusHealthy,
		Message: strconv.Itoa(len(c.presence.OnlineUsers())) + " users online",
	}
}
