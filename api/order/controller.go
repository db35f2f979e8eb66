/*
Package order - 订单 API 控制器

职责:
1. 接收 HTTP 请求，解析参数
2. 调用应用服务处理业务逻辑
3. 使用 response 包统一处理响应和错误

错误处理原则:
1. 参数绑定错误: 使用 response.HandleBindError 返回 400 与字段错误
2. 业务错误: 使用 response.HandleAppError 自动映射状态码
*/
package order

import (
	"marketplace/api/ctxutil"
	"marketplace/api/middleware"
	"marketplace/api/response"
	orderapp "marketplace/application/order"
	"marketplace/domain/shared"

	"github.com/gin-gonic/gin"
)

// Controller 订单控制器
type Controller struct {
	orderService *orderapp.ApplicationService
}

// NewController 创建订单控制器
func NewController(orderService *orderapp.ApplicationService) *Controller {
	return &Controller{orderService: orderService}
}

// RegisterRoutes 注册订单路由，router 必须已经过认证中间件
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	orderGroup := router.Group("/orders")
	{
		orderGroup.POST("", middleware.RequireRole(shared.RoleCustomer), c.PlaceOrder)
		orderGroup.GET("/mine", middleware.RequireRole(shared.RoleCustomer), c.ListMine)
		orderGroup.GET("/my-orders", middleware.RequireRole(shared.RoleArtisan), c.ListForArtisan)
		orderGroup.GET("/:orderId", c.GetOrder)
		orderGroup.PUT("/:orderId/status", middleware.RequireRole(shared.RoleArtisan), c.UpdateStatus)
	}
}

// PlaceOrder 下单
// POST /api/v1/orders
func (c *Controller) PlaceOrder(ctx *gin.Context) {
	var req orderapp.PlaceOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	p, _ := ctxutil.PrincipalFrom(ctx)

	order, err := c.orderService.PlaceOrder(ctxutil.WithRequestID(ctx), p.UserID, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, order, "order placed successfully")
}

// GetOrder 获取订单信息，仅买家、相关卖家或管理员可见
// GET /api/v1/orders/:orderId
func (c *Controller) GetOrder(ctx *gin.Context) {
	p, _ := ctxutil.PrincipalFrom(ctx)
	viewer := orderapp.Viewer{UserID: p.UserID, IsAdmin: p.IsAdmin()}

	order, err := c.orderService.GetOrder(ctxutil.WithRequestID(ctx), ctx.Param("orderId"), viewer)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "order retrieved successfully")
}

// ListMine 买家的订单
// GET /api/v1/orders/mine
func (c *Controller) ListMine(ctx *gin.Context) {
	p, _ := ctxutil.PrincipalFrom(ctx)
	orders, err := c.orderService.ListForCustomer(ctxutil.WithRequestID(ctx), p.UserID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orders, "orders retrieved successfully")
}

// ListForArtisan 包含当前卖家商品的订单
// GET /api/v1/orders/my-orders
func (c *Controller) ListForArtisan(ctx *gin.Context) {
	p, _ := ctxutil.PrincipalFrom(ctx)
	orders, err := c.orderService.ListForArtisan(ctxutil.WithRequestID(ctx), p.UserID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, orders, "orders retrieved successfully")
}

// UpdateStatus 卖家更新订单状态
// PUT /api/v1/orders/:orderId/status
func (c *Controller) UpdateStatus(ctx *gin.Context) {
	var req orderapp.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	p, _ := ctxutil.PrincipalFrom(ctx)

	order, err := c.orderService.Transition(ctxutil.WithRequestID(ctx), ctx.Param("orderId"), p.UserID, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, order, "order status updated successfully")
}
