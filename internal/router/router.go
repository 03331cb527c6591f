// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shopatlas/affiliate-backend/internal/config"
	"github.com/shopatlas/affiliate-backend/internal/handlers"
	"github.com/shopatlas/affiliate-backend/internal/middleware"
	"github.com/shopatlas/affiliate-backend/internal/services"
	"github.com/shopatlas/affiliate-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	storageService, err := services.NewStorageService(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("Failed to initialize storage service")
	}
	catalogService := services.NewCatalogService(db)
	feedService := services.NewFeedService(catalogService, cfg.Feed)
	attributionService := services.NewAttributionService(db)
	redirectService := services.NewRedirectService(catalogService, attributionService)
	authService := services.NewAuthService(db, cfg)
	blogService := services.NewBlogService(db)
	adminService := services.NewAdminService(db)
	chatService := services.NewChatService(db, cfg.AI)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService, feedService, storageService)
	attributionHandler := handlers.NewAttributionHandler(attributionService)
	redirectHandler := handlers.NewRedirectHandler(redirectService)
	blogHandler := handlers.NewBlogHandler(blogService)
	chatHandler := handlers.NewChatHandler(chatService)
	adminHandler := handlers.NewAdminHandler(adminService, authService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS())
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Outbound affiliate redirects live outside the API prefix so the
	// short links stay short
	r.GET("/go/:slug", redirectHandler.Redirect)

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Public storefront routes
		v1.GET("/categories", catalogHandler.GetCategories)
		v1.GET("/products", catalogHandler.GetProducts)
		v1.GET("/products/slug/:slug", catalogHandler.GetProductBySlug)
		v1.GET("/products/:id", catalogHandler.GetProduct)

		v1.GET("/blog", blogHandler.GetPosts)
		v1.GET("/blog/:slug", blogHandler.GetPostBySlug)

		v1.GET("/settings", adminHandler.GetSettings)
		v1.GET("/settings/:key", adminHandler.GetSetting)

		v1.GET("/affiliates", attributionHandler.GetAffiliates)

		// Attribution events are written by the storefront without auth
		v1.POST("/clicks", attributionHandler.LogClick)
		v1.POST("/orders", attributionHandler.CreateOrder)
		v1.GET("/redirect", redirectHandler.ResolveTarget)

		// Concierge chat widget
		v1.POST("/chat", chatHandler.Chat)

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard/stats", adminHandler.GetDashboardStats)

			admin.POST("/categories", catalogHandler.CreateCategory)
			admin.PUT("/categories/:id", catalogHandler.UpdateCategory)
			admin.DELETE("/categories/:id", catalogHandler.DeleteCategory)

			admin.POST("/products", catalogHandler.CreateProduct)
			admin.PUT("/products/:id", catalogHandler.UpdateProduct)
			admin.DELETE("/products/:id", catalogHandler.DeleteProduct)
			admin.POST("/products/import", middleware.ImportRateLimit(), catalogHandler.ImportProducts)
			admin.POST("/products/upload-image", catalogHandler.UploadProductImage)

			admin.POST("/affiliates", attributionHandler.CreateAffiliate)

			admin.GET("/blog", blogHandler.GetAllPosts)
			admin.POST("/blog", blogHandler.CreatePost)
			admin.PUT("/blog/:id", blogHandler.UpdatePost)

			admin.PUT("/settings/:key", adminHandler.SetSetting)

			admin.GET("/workflows", adminHandler.GetWorkflows)
			admin.GET("/workflows/:id", adminHandler.GetWorkflow)
			admin.POST("/workflows", adminHandler.CreateWorkflow)
			admin.PUT("/workflows/:id", adminHandler.UpdateWorkflow)

			admin.GET("/users", adminHandler.GetUsers)
			admin.POST("/users", adminHandler.CreateUser)
		}
	}

	return r
}
