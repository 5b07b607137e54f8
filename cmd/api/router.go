package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"celebstyle-backend/internal/shared/middleware"
	"celebstyle-backend/pkg/container"

	"github.com/gin-gonic/gin"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.ClientIPMiddleware(),
		middleware.Timeout(c.Config.App.RequestTimeout),
	)

	// Feeds ở root để crawler tìm thấy
	router.GET("/sitemap.xml", c.SEOHandler.Sitemap)
	router.GET("/rss.xml", c.SEOHandler.RSS)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		public := v1.Group("", middleware.APIKey(c.Config.ExternalAPI.WebsiteAPIKey))
		setupHomeRoutes(public, c)
		setupCelebrityRoutes(public, c)
		setupOutfitRoutes(public, c)
		setupBlogRoutes(public, c)
		setupCategoryRoutes(public, c)
		setupNewsletterRoutes(public, c)

		setupAdminRoutes(v1, c)
	}

	return router
}

// ========================================
// PUBLIC ROUTES
// ========================================
func setupHomeRoutes(rg *gin.RouterGroup, c *container.Container) {
	rg.GET("/home", c.HomeHandler.Landing)
}

func setupCelebrityRoutes(rg *gin.RouterGroup, c *container.Container) {
	celebrities := rg.Group("/celebrities")
	{
		celebrities.GET("", c.CelebrityHandler.List)
		celebrities.GET("/categories", c.CelebrityHandler.Categories)
		celebrities.GET("/:idOrSlug", c.CelebrityHandler.Get)
		celebrities.GET("/:idOrSlug/outfits", c.OutfitHandler.ListByCelebrity)
	}
}

func setupOutfitRoutes(rg *gin.RouterGroup, c *container.Container) {
	outfits := rg.Group("/outfits")
	{
		outfits.GET("", c.OutfitHandler.List)
		outfits.GET("/:idOrSlug", c.OutfitHandler.Get)
		outfits.GET("/:idOrSlug/products", c.ProductHandler.ListByOutfit)
	}
}

func setupBlogRoutes(rg *gin.RouterGroup, c *container.Container) {
	blog := rg.Group("/blog")
	{
		blog.GET("", c.BlogHandler.List)
		blog.GET("/topics", c.BlogHandler.Topics)
		blog.GET("/topics/:topic", c.BlogHandler.TopicPosts)
		blog.GET("/:idOrSlug", c.BlogHandler.Get)
	}
}

func setupCategoryRoutes(rg *gin.RouterGroup, c *container.Container) {
	categories := rg.Group("/categories")
	{
		categories.GET("", c.CategoryHandler.Categories)
		categories.GET("/:category", c.CategoryHandler.Category)
	}
}

func setupNewsletterRoutes(rg *gin.RouterGroup, c *container.Container) {
	newsletter := rg.Group("/newsletter")
	newsletter.Use(middleware.RateLimit(c.NewsletterLimiter))
	{
		newsletter.POST("/subscribe", c.NewsletterHandler.Subscribe)
		newsletter.POST("/unsubscribe", c.NewsletterHandler.Unsubscribe)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("/admin")

	// Login không cần token, nhưng bị rate limit theo IP
	admin.POST("/auth/login", middleware.RateLimit(c.LoginLimiter), c.AuthHandler.Login)

	protected := admin.Group("")
	protected.Use(middleware.AuthMiddleware(c.JWTManager), middleware.AdminMiddleware())

	// Xóa dữ liệu chỉ dành cho role admin, editor chỉ được tạo/sửa
	adminOnly := middleware.RequireRole(middleware.RoleAdmin)

	protected.GET("/auth/me", c.AuthHandler.Me)
	protected.GET("/dashboard", c.DashboardHandler.Stats)

	celebrities := protected.Group("/celebrities")
	{
		celebrities.GET("", c.CelebrityHandler.List)
		celebrities.GET("/:idOrSlug", c.CelebrityHandler.Get)
		celebrities.POST("", c.CelebrityHandler.Create)
		celebrities.PUT("/:id", c.CelebrityHandler.Update)
		celebrities.DELETE("/:id", adminOnly, c.CelebrityHandler.Delete)
	}

	outfits := protected.Group("/outfits")
	{
		outfits.GET("", c.OutfitHandler.List)
		outfits.GET("/:idOrSlug", c.OutfitHandler.Get)
		outfits.POST("", c.OutfitHandler.Create)
		outfits.PUT("/:id", c.OutfitHandler.Update)
		outfits.DELETE("/:id", adminOnly, c.OutfitHandler.Delete)
	}

	products := protected.Group("/products")
	{
		products.GET("", c.ProductHandler.List)
		products.GET("/:id", c.ProductHandler.Get)
		products.POST("", c.ProductHandler.Create)
		products.PUT("/:id", c.ProductHandler.Update)
		products.DELETE("/:id", adminOnly, c.ProductHandler.Delete)
	}

	blog := protected.Group("/blog")
	{
		blog.GET("", c.BlogHandler.List)
		blog.GET("/:idOrSlug", c.BlogHandler.Get)
		blog.POST("", c.BlogHandler.Create)
		blog.PUT("/:id", c.BlogHandler.Update)
		blog.DELETE("/:id", adminOnly, c.BlogHandler.Delete)
	}

	items := protected.Group("/category-items")
	{
		items.GET("", c.CategoryHandler.List)
		items.GET("/export", c.CategoryHandler.Export)
		items.POST("/import", c.CategoryHandler.Import)
		items.GET("/:id", c.CategoryHandler.Get)
		items.POST("", c.CategoryHandler.Create)
		items.PUT("/:id", c.CategoryHandler.Update)
		items.DELETE("/:id", adminOnly, c.CategoryHandler.Delete)
	}

	subscribers := protected.Group("/newsletter/subscribers")
	{
		subscribers.GET("", c.NewsletterHandler.List)
		subscribers.GET("/export", c.NewsletterHandler.Export)
	}
}

// ========================================
// HEALTH CHECK HANDLER
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
			"services":  gin.H{},
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				dbStatus = fmt.Sprintf("error: %v", err)
				health["status"] = "degraded"
			}
		}

		// Check redis (không critical: cache miss đọc thẳng DB)
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				redisStatus = fmt.Sprintf("error: %v", err)
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}
		if appCtx.DB != nil {
			health["db_pool"] = appCtx.DB.Stats()
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}

		c.JSON(statusCode, health)
	}
}
