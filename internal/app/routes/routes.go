package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/qpshare/qpshare/internal/app/controllers"
	"github.com/qpshare/qpshare/internal/middleware"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	authController *controllers.AuthController,
	paperController *controllers.PaperController,
	adminController *controllers.AdminController,
	authMiddleware *middleware.AuthMiddleware,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API version group
	v1 := router.Group("/api/v1")

	// --- Public auth routes ---
	auth := v1.Group("/auth")
	{
		auth.POST("/register", authController.Register)
		auth.POST("/login", authController.Login)
	}

	// --- Paper catalog ---
	papers := v1.Group("/papers")
	{
		// Public read surface, approved papers only
		papers.GET("", paperController.Search)
		papers.GET("/:id", paperController.GetPaper)

		// Submissions require an uploader session
		papers.POST("", authMiddleware.JWTAuth(), paperController.Upload)
	}

	// --- Moderation console ---
	admin := router.Group("/api/admin")
	{
		admin.POST("/auth", adminController.Login)

		// Every other admin route needs the signed X-Admin-Auth token
		protected := admin.Group("")
		protected.Use(authMiddleware.AdminRequired())
		{
			protected.GET("/papers", adminController.ListPapers)
			protected.POST("/papers/:paperId", adminController.Moderate)
			protected.PUT("/papers/:paperId", adminController.Edit)
		}
	}
}
