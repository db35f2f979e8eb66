// Package payout - 结算 API 控制器
package payout

import (
	"marketplace/api/ctxutil"
	"marketplace/api/middleware"
	"marketplace/api/response"
	payoutapp "marketplace/application/payout"
	"marketplace/domain/shared"

	"github.com/gin-gonic/gin"
)

// Controller 结算控制器
type Controller struct {
	payoutService *payoutapp.ApplicationService
}

func NewController(payoutService *payoutapp.ApplicationService) *Controller {
	return &Controller{payoutService: payoutService}
}

// RegisterRoutes 注册结算路由，router 必须已经过认证中间件
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	payoutGroup := router.Group("/payouts")
	{
		admin := middleware.RequireRole(shared.RoleAdmin)
		payoutGroup.GET("/summary", admin, c.Summary)
		payoutGroup.POST("/record", admin, c.Record)
		payoutGroup.GET("", admin, c.List)
		payoutGroup.GET("/mine", middleware.RequireRole(shared.RoleArtisan), c.ListMine)
	}
}

// Summary 待结算汇总
// GET /api/v1/payouts/summary
func (c *Controller) Summary(ctx *gin.Context) {
	summary, err := c.payoutService.Summary(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, summary, "payout summary computed")
}

// Record 记录一次结算
// POST /api/v1/payouts/record
func (c *Controller) Record(ctx *gin.Context) {
	var req payoutapp.RecordPayoutRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	p, _ := ctxutil.PrincipalFrom(ctx)

	payout, err := c.payoutService.RecordPayout(ctxutil.WithRequestID(ctx), p.UserID, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, payout, "payout recorded successfully")
}

// List 全部结算记录，可按卖家过滤
// GET /api/v1/payouts?artisan=<id>
func (c *Controller) List(ctx *gin.Context) {
	payouts, err := c.payoutService.History(ctxutil.WithRequestID(ctx), ctx.Query("artisan"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, payouts, "payouts retrieved successfully")
}

// ListMine 当前卖家的结算记录
// GET /api/v1/payouts/mine
func (c *Controller) ListMine(ctx *gin.Context) {
	p, _ := ctxutil.PrincipalFrom(ctx)
	payouts, err := c.payoutService.History(ctxutil.WithRequestID(ctx), p.UserID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, payouts, "payouts retrieved successfully")
}
