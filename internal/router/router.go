// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/adityajha2005/forkyoudaddy-backend/internal/config"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/handlers"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/middleware"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/services"
	"github.com/adityajha2005/forkyoudaddy-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)
	registryService := services.NewRegistryService(cfg)
	inferenceService := services.NewInferenceService(cfg)

	purchaseLedger := services.NewPurchaseLedger(db)
	accessService := services.NewAccessService(cfg, purchaseLedger, registryService)
	licenseService := services.NewLicenseService(db, cfg, registryService, notificationService, accessService)
	contentService := services.NewContentService(db, registryService, storageService, accessService, notificationService)
	lineageService := services.NewLineageService(db)
	commentService := services.NewCommentService(db, notificationService)
	authService := services.NewAuthService(db, cfg, notificationService)
	userService := services.NewUserService(db, notificationService)
	adminService := services.NewAdminService(db, notificationService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService, contentService, notificationService)
	contentHandler := handlers.NewContentHandler(contentService, lineageService, storageService)
	generateHandler := handlers.NewGenerateHandler(inferenceService, storageService)
	licenseHandler := handlers.NewLicenseHandler(licenseService, accessService, contentService, authService)
	commentHandler := handlers.NewCommentHandler(commentService)
	adminHandler := handlers.NewAdminHandler(adminService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":             "healthy",
			"version":            "1.0.0",
			"registry_simulated": registryService.Simulated(),
		})
	})

	// Prometheus metrics
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/wallet/challenge", authHandler.WalletChallenge)
			auth.POST("/wallet/login", authHandler.WalletLogin)
			auth.POST("/wallet/link/challenge", middleware.AuthRequired(), authHandler.WalletLinkChallenge)
			auth.POST("/wallet/link", middleware.AuthRequired(), authHandler.LinkWallet)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/:id", userHandler.GetPublicProfile)
			users.GET("/:id/content", userHandler.GetUserContent)
			users.GET("/:id/followers", userHandler.GetFollowers)
			users.GET("/:id/following", userHandler.GetFollowing)
			users.PUT("/profile", middleware.AuthRequired(), userHandler.UpdateProfile)
			users.POST("/:id/follow", middleware.AuthRequired(), userHandler.Follow)
			users.DELETE("/:id/follow", middleware.AuthRequired(), userHandler.Unfollow)
			users.DELETE("/account", middleware.AuthRequired(), userHandler.DeleteAccount)
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", userHandler.GetNotifications)
			notifications.PUT("/:id/read", userHandler.MarkNotificationRead)
		}

		// Content routes
		content := v1.Group("/content")
		{
			content.GET("", contentHandler.GetContent)
			content.GET("/trending", contentHandler.GetTrendingContent)
			content.GET("/:id", middleware.OptionalAuth(), contentHandler.GetContentItem)
			content.GET("/:id/remixes", contentHandler.GetRemixes)
			content.GET("/:id/lineage", contentHandler.GetLineage)
			content.GET("/:id/lineage/stats", contentHandler.GetLineageStats)
			content.GET("/:id/comments", commentHandler.GetThreads)
			content.POST("/:id/like", contentHandler.LikeContent)

			content.POST("", middleware.AuthRequired(), contentHandler.CreateContent)
			content.POST("/:id/fork", middleware.AuthRequired(), contentHandler.ForkContent)
			content.PUT("/:id", middleware.AuthRequired(), contentHandler.UpdateContent)
			content.DELETE("/:id", middleware.AuthRequired(), contentHandler.DeleteContent)
			content.GET("/:id/statistics", middleware.AuthRequired(), contentHandler.GetContentStatistics)
			content.GET("/:id/sales", middleware.AuthRequired(), licenseHandler.GetContentSales)
			content.GET("/:id/access", middleware.AuthRequired(), licenseHandler.CheckAccess)
			content.POST("/upload", middleware.AuthRequired(), middleware.UploadRateLimit(), contentHandler.UploadFile)
		}

		// Generation routes
		generate := v1.Group("/generate")
		generate.Use(middleware.AuthRequired(), middleware.GenerateRateLimit())
		{
			generate.POST("/image", generateHandler.GenerateImage)
			generate.POST("/categorize", generateHandler.Categorize)
		}

		// License catalog routes
		licenses := v1.Group("/licenses")
		{
			licenses.GET("", licenseHandler.GetCatalog)
			licenses.GET("/:id", licenseHandler.GetLicense)
		}

		// Purchase routes
		purchases := v1.Group("/purchases")
		{
			purchases.GET("/verify/:code", licenseHandler.VerifyPurchase)
			purchases.GET("", middleware.AuthRequired(), licenseHandler.GetPurchaseHistory)
			purchases.GET("/:id", middleware.AuthRequired(), licenseHandler.GetPurchase)
			purchases.POST("", middleware.AuthRequired(), middleware.PurchaseRateLimit(), licenseHandler.PurchaseLicense)
			purchases.POST("/:id/retry", middleware.AuthRequired(), middleware.PurchaseRateLimit(), licenseHandler.RetrySettlement)
			purchases.POST("/:id/cancel", middleware.AuthRequired(), licenseHandler.CancelPurchase)
		}

		// Comment routes
		comments := v1.Group("/comments")
		{
			comments.POST("", middleware.AuthRequired(), commentHandler.CreateComment)
			comments.PUT("/:id", middleware.AuthRequired(), commentHandler.UpdateComment)
			comments.DELETE("/:id", middleware.AuthRequired(), commentHandler.DeleteComment)
			comments.POST("/:id/like", commentHandler.LikeComment)
			comments.POST("/:id/flag", middleware.AuthRequired(), commentHandler.FlagComment)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/dashboard", adminHandler.GetDashboard)
			admin.GET("/users", adminHandler.GetUsers)
			admin.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
			admin.PUT("/content/:id/status", adminHandler.UpdateContentStatus)
			admin.GET("/flags", adminHandler.GetFlagQueue)
			admin.POST("/flags/:id/resolve", adminHandler.ResolveFlag)
			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
		}
	}

	return r
}
