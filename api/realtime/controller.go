// Package realtime exposes the notification WebSocket endpoint.
package realtime

import (
	"net/http"

	"marketplace/api/ctxutil"
	"marketplace/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Server is the part of the hub the endpoint needs.
type Server interface {
	ServeWS(w http.ResponseWriter, r *http.Request, principalID string) error
}

type Controller struct {
	hub Server
}

func NewController(hub Server) *Controller {
	return &Controller{hub: hub}
}

// RegisterRoutes mounts GET /ws on an authenticated group.
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/ws", c.Connect)
}

// Connect upgrades the request. On failure the upgrader has already written the HTTP error.
func (c *Controller) Connect(ctx *gin.Context) {
	p, _ := ctxutil.PrincipalFrom(ctx)
	if err := c.hub.ServeWS(ctx.Writer, ctx.Request, p.UserID); err != nil {
		logger.Ctx(ctxutil.WithRequestID(ctx)).Warn("WebSocket upgrade failed",
			zap.String("user_id", p.UserID),
			zap.Error(err))
	}
}
