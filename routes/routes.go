package routes

import (
	"product-admin/controllers"
	"product-admin/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes sets up the console pages. Every state-changing POST goes
// through the per-IP rate limiter.
func RegisterRoutes(r *gin.Engine, pc *controllers.ProductController, limiter *middleware.RateLimiter) {
	r.GET("/health", pc.Health)

	r.GET("/", pc.List)
	r.POST("/refresh", middleware.RateLimit(limiter), pc.Refresh)

	products := r.Group("/products")
	{
		products.GET("/new", pc.NewForm)
		products.POST("/validate", pc.Validate)
		products.GET("/:id/edit", pc.EditForm)
		products.GET("/:id/delete", pc.ConfirmDelete)

		mutating := products.Group("", middleware.RateLimit(limiter))
		mutating.POST("", pc.Create)
		mutating.POST("/:id", pc.Update)
		mutating.POST("/:id/delete", pc.Delete)
	}
}
