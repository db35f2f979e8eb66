// Package notification - 通知 API 控制器
package notification

import (
	"marketplace/api/ctxutil"
	"marketplace/api/response"
	notificationapp "marketplace/application/notification"

	"github.com/gin-gonic/gin"
)

// Controller 通知控制器
type Controller struct {
	notificationService *notificationapp.ApplicationService
}

func NewController(notificationService *notificationapp.ApplicationService) *Controller {
	return &Controller{notificationService: notificationService}
}

// RegisterRoutes 注册通知路由，router 必须已经过认证中间件
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/notifications")
	{
		group.GET("", c.List)
		group.PATCH("/:id/read", c.MarkAsRead)
		group.POST("/read-all", c.MarkAllAsRead)
	}
}

// List 当前用户的通知，可按角色过滤
// GET /api/v1/notifications?role=artisan&unread=true&limit=20
func (c *Controller) List(ctx *gin.Context) {
	var q notificationapp.ListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	p, _ := ctxutil.PrincipalFrom(ctx)

	list, err := c.notificationService.List(ctxutil.WithRequestID(ctx), p.UserID, q)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, list, "notifications retrieved successfully")
}

// MarkAsRead 标记单条已读
// PATCH /api/v1/notifications/:id/read
func (c *Controller) MarkAsRead(ctx *gin.Context) {
	p, _ := ctxutil.PrincipalFrom(ctx)
	n, err := c.notificationService.MarkAsRead(ctxutil.WithRequestID(ctx), ctx.Param("id"), p.UserID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, n, "notification marked as read")
}

// MarkAllAsRead 将某一角色下的通知全部标记已读
// POST /api/v1/notifications/read-all
func (c *Controller) MarkAllAsRead(ctx *gin.Context) {
	var req notificationapp.MarkAllRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	p, _ := ctxutil.PrincipalFrom(ctx)

	changed, err := c.notificationService.MarkAllAsRead(ctxutil.WithRequestID(ctx), p.UserID, req.Role)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, gin.H{"updated": changed}, "notifications marked as read")
}
