// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/chatnil/compliance-backend/internal/config"
	"github.com/chatnil/compliance-backend/internal/handlers"
	"github.com/chatnil/compliance-backend/internal/middleware"
	"github.com/chatnil/compliance-backend/internal/services"
	"github.com/chatnil/compliance-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	auditService := services.NewAuditService(db)
	notificationService := services.NewNotificationService(db, cfg)
	storageService, _ := services.NewStorageService(cfg)
	infoRequestService := services.NewInfoRequestService(db)

	authService := services.NewAuthService(db, cfg)
	dealService := services.NewDealService(db, cfg, auditService, infoRequestService, notificationService)
	appealService := services.NewAppealService(db, cfg, auditService, dealService, notificationService)
	reconsiderService := services.NewReconsiderService(db, cfg, auditService)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	dealHandler := handlers.NewDealHandler(dealService, appealService, infoRequestService)
	complianceHandler := handlers.NewComplianceHandler(dealService, appealService, auditService)
	matchHandler := handlers.NewMatchHandler(reconsiderService)
	documentHandler := handlers.NewDocumentHandler(storageService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.RequestLogger())
	var origins []string
	if cfg.Environment != "development" {
		origins = []string{cfg.Frontend.BaseURL}
	}
	r.Use(middleware.CORS(origins))
	r.Use(middleware.GeneralRateLimit())

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// Deal routes (athlete-facing)
		deals := v1.Group("/deals")
		deals.Use(middleware.AuthRequired())
		{
			deals.POST("", dealHandler.CreateDeal)
			deals.GET("", dealHandler.GetDeals)
			deals.GET("/:id", dealHandler.GetDeal)
			deals.POST("/:id/submit", dealHandler.SubmitDeal)
			deals.GET("/:id/score", dealHandler.GetScore)
			deals.GET("/:id/info-requests", dealHandler.GetInfoRequests)
			deals.POST("/:id/info-requests/respond", dealHandler.RespondToInfo)
			deals.POST("/:id/appeal", dealHandler.SubmitAppeal)
			deals.POST("/:id/resubmit", dealHandler.ResubmitDeal)
		}

		// Compliance review routes (officer-facing)
		compliance := v1.Group("/compliance")
		compliance.Use(middleware.AuthRequired(), middleware.OfficerRequired(), middleware.ReviewRateLimit())
		{
			compliance.GET("/overview", complianceHandler.Overview)
			compliance.GET("/queue", complianceHandler.GetReviewQueue)
			compliance.POST("/deals/:id/score", complianceHandler.ScoreDeal)
			compliance.POST("/deals/:id/decide", complianceHandler.Decide)
			compliance.GET("/appeals", complianceHandler.GetAppealsQueue)
			compliance.GET("/appeals/:id", complianceHandler.GetAppeal)
			compliance.POST("/appeals/:id/review", complianceHandler.StartAppealReview)
			compliance.POST("/appeals/:id/resolve", complianceHandler.ResolveAppeal)
			compliance.GET("/audit", complianceHandler.GetAuditLog)
		}

		// Match invite routes
		matches := v1.Group("/matches")
		matches.Use(middleware.AuthRequired())
		{
			matches.GET("/invites", matchHandler.GetInvites)
			matches.POST("/invites/:id/decline", matchHandler.DeclineInvite)
			matches.POST("/invites/:id/reconsider", matchHandler.ReconsiderInvite)
		}

		// Document upload
		documents := v1.Group("/documents")
		documents.Use(middleware.AuthRequired())
		{
			documents.POST("", middleware.UploadRateLimit(), documentHandler.UploadDocument)
			documents.GET("/download", documentHandler.GetDownloadURL)
			documents.DELETE("", middleware.AdminRequired(), documentHandler.DeleteDocument)
		}

		// Notifications
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.GetNotifications)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
