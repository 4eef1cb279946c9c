package app

import (
	"gamification_backend/docs"
	"gamification_backend/internal/config"
	"gamification_backend/internal/middleware"
	"gamification_backend/internal/model"
	"gamification_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	docs.SwaggerInfo.BasePath = "/api"
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/swagger/doc.json")))

	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由（无需登录）
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/questions/samples", c.question.ListSamples)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		authGroup.GET("/profile", c.auth.GetProfile)
		authGroup.GET("/profile/actions", c.auth.GetActions)
		authGroup.GET("/profile/progress", c.question.GetProgress)

		// 学习者接口
		authGroup.GET("/categories", c.category.ListCategories)
		authGroup.GET("/categories/:id/stats", c.category.GetCategoryStats)
		authGroup.GET("/categories/:id/children", c.category.ListChildren)
		authGroup.GET("/categories/:id/questions", c.question.ListByCategory)
		authGroup.GET("/questions/:id", c.question.GetQuestion)
		authGroup.POST("/questions/:id/tutorial", c.question.OpenTutorial)
		authGroup.GET("/questions/:id/success-rate", c.question.GetSuccessRate)
		authGroup.GET("/questions/:id/submissions", c.submission.ListForQuestion)
		authGroup.POST("/submissions", c.submission.Submit)
		authGroup.GET("/submissions/:id", c.submission.GetSubmission)
		authGroup.POST("/submissions/:id/refresh", c.submission.Refresh)
		authGroup.GET("/events", c.event.ListEvents)
		authGroup.GET("/events/:id/questions", c.question.ListByEvent)

		// 教师接口
		teacher := authGroup.Group("/")
		teacher.Use(middleware.RoleMiddleware(model.Teacher))
		{
			teacher.POST("/questions", c.question.CreateQuestion)
			teacher.PUT("/questions/:id", c.question.UpdateQuestion)
			teacher.POST("/questions/attachments", c.question.UploadAttachment)
			teacher.POST("/categories", c.category.CreateCategory)
			teacher.PUT("/categories/:id", c.category.UpdateCategory)
			teacher.DELETE("/categories/:id", c.category.DeleteCategory)
			teacher.DELETE("/questions/:id", c.question.DeleteQuestion)
			teacher.GET("/categories/:id/token-values", c.category.ListTokenValues)
			teacher.PUT("/token-values", c.category.SetTokenValue)
			teacher.POST("/events", c.event.CreateEvent)
			teacher.PUT("/events/:id", c.event.UpdateEvent)
		}
	}
}
