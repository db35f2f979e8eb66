/*
Package user - 用户 API 控制器

用户身份由网关注入的请求头确定，控制器只负责资料的建立与维护。
*/
package user

import (
	"marketplace/api/ctxutil"
	"marketplace/api/middleware"
	"marketplace/api/response"
	userapp "marketplace/application/user"
	"marketplace/domain/shared"

	"github.com/gin-gonic/gin"
)

// Controller 用户控制器
type Controller struct {
	userService *userapp.ApplicationService
}

// NewController 创建用户控制器
func NewController(userService *userapp.ApplicationService) *Controller {
	return &Controller{userService: userService}
}

// RegisterRoutes 注册用户路由，router 必须已经过认证中间件
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	userGroup := router.Group("/users")
	{
		userGroup.POST("", c.Register)
		userGroup.GET("/me", c.GetMe)
		userGroup.POST("/me/artisan", c.BecomeArtisan)
		userGroup.PUT("/me/payout-info", c.UpdatePayoutInfo)
		userGroup.GET("/artisans", middleware.RequireRole(shared.RoleAdmin), c.ListArtisans)
	}
}

// Register 建立当前用户的资料
// POST /api/v1/users
func (c *Controller) Register(ctx *gin.Context) {
	var req userapp.RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	p, _ := ctxutil.PrincipalFrom(ctx)

	user, err := c.userService.Register(ctxutil.WithRequestID(ctx), p.UserID, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, user, "user registered successfully")
}

// GetMe 当前用户资料
// GET /api/v1/users/me
func (c *Controller) GetMe(ctx *gin.Context) {
	p, _ := ctxutil.PrincipalFrom(ctx)
	user, err := c.userService.GetUser(ctxutil.WithRequestID(ctx), p.UserID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, user, "user retrieved successfully")
}

// BecomeArtisan 成为卖家
// POST /api/v1/users/me/artisan
func (c *Controller) BecomeArtisan(ctx *gin.Context) {
	p, _ := ctxutil.PrincipalFrom(ctx)
	user, err := c.userService.BecomeArtisan(ctxutil.WithRequestID(ctx), p.UserID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, user, "artisan role granted")
}

// UpdatePayoutInfo 维护收款信息。角色由资料判断，网关令牌可能尚未刷新
// PUT /api/v1/users/me/payout-info
func (c *Controller) UpdatePayoutInfo(ctx *gin.Context) {
	var req userapp.PayoutInfoRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	p, _ := ctxutil.PrincipalFrom(ctx)

	user, err := c.userService.UpdatePayoutInfo(ctxutil.WithRequestID(ctx), p.UserID, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, user, "payout info updated successfully")
}

// ListArtisans 活跃卖家列表
// GET /api/v1/users/artisans
func (c *Controller) ListArtisans(ctx *gin.Context) {
	users, err := c.userService.ListArtisans(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, users, "artisans retrieved successfully")
}
