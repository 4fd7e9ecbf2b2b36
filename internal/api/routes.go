package api

import (
	"time"

	"khmerdownload-api/internal/config"
	"khmerdownload-api/internal/middleware"
	"khmerdownload-api/internal/services"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine) {
	if Probe == nil {
		Probe = services.NewSimulatedProbe(time.Duration(config.AppConfig.SettlementDelay) * time.Second)
	}
	if Mailer == nil {
		Mailer = services.NewBrevoService()
	}

	// Hosted download/icon/video files
	r.Static("/uploads", config.AppConfig.UploadDir)

	api := r.Group("/api")
	{
		auth := api.Group("/auth")
		{
			auth.POST("/login", Login)
			auth.POST("/request-otp", RequestOTP)
			auth.POST("/verify-otp", VerifyOTP)
		}

		programs := api.Group("/programs")
		{
			programs.GET("", ListPrograms)
			programs.GET("/:id/download", middleware.AuthOptional(), DownloadProgram)
			programs.POST("", middleware.AdminRequired(), CreateProgram)
			programs.PUT("/:id", middleware.AdminRequired(), UpdateProgram)
			programs.POST("/delete/:id", middleware.AdminRequired(), DeleteProgram)
		}

		videos := api.Group("/videos")
		{
			videos.GET("", ListVideos)
			videos.POST("/:id/view", RecordView)
			videos.POST("", middleware.AdminRequired(), CreateVideo)
			videos.PUT("/:id", middleware.AdminRequired(), UpdateVideo)
			videos.POST("/delete/:id", middleware.AdminRequired(), DeleteVideo)
		}

		transactions := api.Group("/transactions")
		{
			// Public checkout paths; attribution picked up when a user
			// token is present.
			transactions.POST("/init", middleware.AuthOptional(), InitTransaction)
			transactions.POST("/checkout", middleware.AuthOptional(), Checkout)
			transactions.POST("/verify/:billNumber", VerifyTransaction)
			// Settlement callback path; restrict upstream in production.
			transactions.PATCH("/status/:billNumber", UpdateTransactionStatus)
			transactions.GET("", middleware.AdminRequired(), ListTransactions)
		}

		feedbacks := api.Group("/feedbacks")
		{
			feedbacks.POST("", CreateFeedback)
			feedbacks.GET("", middleware.AuthOptional(), ListFeedback)
			feedbacks.POST("/react/:id", ReactFeedback)
			feedbacks.PUT("/:id", UpdateFeedback)
			feedbacks.PUT("/reply/:id", middleware.AdminRequired(), ReplyFeedback)
			feedbacks.DELETE("/:id", middleware.AdminRequired(), DeleteFeedback)
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "khmerdownload-api",
		})
	})
}
