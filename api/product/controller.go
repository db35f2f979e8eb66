// Package product - 商品与分类 API 控制器
package product

import (
	"marketplace/api/ctxutil"
	"marketplace/api/middleware"
	"marketplace/api/response"
	productapp "marketplace/application/product"
	"marketplace/domain/shared"

	"github.com/gin-gonic/gin"
)

// Controller 商品控制器
type Controller struct {
	productService *productapp.ApplicationService
}

func NewController(productService *productapp.ApplicationService) *Controller {
	return &Controller{productService: productService}
}

// RegisterRoutes 注册商品与分类路由。浏览接口公开，写接口需要认证
func (c *Controller) RegisterRoutes(public, authed *gin.RouterGroup) {
	public.GET("/products", c.ListProducts)
	public.GET("/products/:productId", c.GetProduct)
	public.GET("/categories", c.ListCategories)

	authed.POST("/products", middleware.RequireRole(shared.RoleArtisan), c.CreateProduct)
	authed.POST("/categories", middleware.RequireRole(shared.RoleAdmin), c.CreateCategory)
}

// CreateProduct 卖家上架商品
// POST /api/v1/products
func (c *Controller) CreateProduct(ctx *gin.Context) {
	var req productapp.CreateProductRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	p, _ := ctxutil.PrincipalFrom(ctx)

	product, err := c.productService.CreateProduct(ctxutil.WithRequestID(ctx), p.UserID, req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, product, "product created successfully")
}

// GetProduct 商品详情
// GET /api/v1/products/:productId
func (c *Controller) GetProduct(ctx *gin.Context) {
	product, err := c.productService.GetProduct(ctxutil.WithRequestID(ctx), ctx.Param("productId"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, product, "product retrieved successfully")
}

// ListProducts 商品列表
// GET /api/v1/products?category=<id>&artisan=<id>
func (c *Controller) ListProducts(ctx *gin.Context) {
	var q productapp.ListQuery
	if err := ctx.ShouldBindQuery(&q); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	products, err := c.productService.ListProducts(ctxutil.WithRequestID(ctx), q)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, products, "products retrieved successfully")
}

// CreateCategory 管理员创建分类
// POST /api/v1/categories
func (c *Controller) CreateCategory(ctx *gin.Context) {
	var req productapp.CreateCategoryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleBindError(ctx, err)
		return
	}
	category, err := c.productService.CreateCategory(ctxutil.WithRequestID(ctx), req)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, category, "category created successfully")
}

// ListCategories 分类列表
// GET /api/v1/categories
func (c *Controller) ListCategories(ctx *gin.Context) {
	categories, err := c.productService.ListCategories(ctxutil.WithRequestID(ctx))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, categories, "categories retrieved successfully")
}
