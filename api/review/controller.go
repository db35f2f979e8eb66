// Package review - 评价 API 控制器
package review

import (
	"marketplace/api/ctxutil"
	"marketplace/api/middleware"
	"marketplace/api/response"
	reviewapp "marketplace/application/review"
	"marketplace/domain/shared"

	"github.com/gin-gonic/gin"
)

// Controller 评价控制器
type Controller struct {
	reviewService *reviewapp.ApplicationService
}

func NewController(reviewService *reviewapp.ApplicationService) *Controller {
	return &Controller{reviewService: reviewService}
}

// RegisterRoutes 注册评价路由。public 无需认证，authed 已经过认证中间件
func (c *Controller) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/reviews/product/:productId", c.ListByProduct)

	reviewGroup := authed.Group("/reviews")
	{
		reviewGroup.POST("/:productId", middleware.RequireRole(shared.RoleCustomer), c.Create)
		reviewGroup.PUT("/:reviewId", c.Update)
		reviewGroup.DELETE("/:reviewId", c.Delete)
	}
}

// Create 创建评价
// POST /api/v1/reviews/:productId
func (c *Controller) Create(ctx *gin.Context) {
	var req reviewapp.CreateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	p, _ := ctxutil.PrincipalFrom(ctx)

	review, err := c.reviewService.Create(ctxutil.WithRequestID(ctx), p.UserID, ctx.Param("productId"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, review, "review created successfully")
}

// Update 修改自己的评价
// PUT /api/v1/reviews/:reviewId
func (c *Controller) Update(ctx *gin.Context) {
	var req reviewapp.UpdateReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	p, _ := ctxutil.PrincipalFrom(ctx)

	review, err := c.reviewService.Update(ctxutil.WithRequestID(ctx), p.UserID, ctx.Param("reviewId"), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, review, "review updated successfully")
}

// Delete 删除评价，作者或管理员
// DELETE /api/v1/reviews/:reviewId
func (c *Controller) Delete(ctx *gin.Context) {
	p, _ := ctxutil.PrincipalFrom(ctx)
	if err := c.reviewService.Delete(ctxutil.WithRequestID(ctx), p.UserID, ctx.Param("reviewId"), p.IsAdmin()); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleNoContent(ctx)
}

// ListByProduct 商品的评价列表
// GET /api/v1/reviews/product/:productId
func (c *Controller) ListByProduct(ctx *gin.Context) {
	reviews, err := c.reviewService.ListByProduct(ctxutil.WithRequestID(ctx), ctx.Param("productId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, reviews, "reviews retrieved successfully")
}
