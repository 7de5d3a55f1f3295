package api

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"jobTrack/internal/api/middleware"
	"jobTrack/internal/auth"
	"jobTrack/internal/config"
	"jobTrack/internal/workflow"
)

// RegisterRoutes 注册 /api 下的全部路由。
// 路径参数统一命名为 :id（gin 要求同一位置的参数同名），apply 路由的 :id 指岗位。
func RegisterRoutes(
	router *gin.Engine,
	cfg *config.Config,
	db *gorm.DB,
	asynqClient *asynq.Client,
	authService *auth.AuthService,
	redisClient *redis.Client,
	logger *slog.Logger,
	storageClient ObjectStorage,
) {
	engine := workflow.NewEngine(db)
	authHandler := NewAuthHandler(
		db,
		authService,
		redisClient,
		logger,
		cfg.Auth.LoginRateLimitPerHour,
		cfg.Auth.LoginLockThreshold,
		cfg.Auth.LoginLockTTL(),
		cfg.API.CookieDomain,
	)
	jobHandler := NewJobHandler(db)
	applicationHandler := NewApplicationHandler(
		db,
		engine,
		storageClient,
		asynqClient,
		logger,
		cfg.Upload.ClamdAddr,
		cfg.Upload.MaxCVBytes(),
	)
	wsHandler := NewWsHandler(redisClient, authService, logger, nil)
	authMiddleware := middleware.AuthMiddleware(authService)
	jobManager := middleware.RequireJobManager()
	reviewer := middleware.RequireApplicationReviewer()

	root := router.Group("/api")
	{
		root.GET("/ws", wsHandler.HandleConnection)

		authGroup := root.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
			authGroup.POST("/change-password", authMiddleware, authHandler.ChangePassword)
			authGroup.POST("/logout", authMiddleware, authHandler.Logout)
		}

		// 岗位目录：浏览公开，写操作仅限岗位管理权限。
		jobGroup := root.Group("/jobs")
		{
			jobGroup.GET("", jobHandler.List)
			jobGroup.GET("/:id", jobHandler.Get)
			jobGroup.POST("", authMiddleware, jobManager, jobHandler.Create)
			jobGroup.PUT("/:id", authMiddleware, jobManager, jobHandler.Update)
			jobGroup.DELETE("/:id", authMiddleware, jobManager, jobHandler.Delete)
		}

		appGroup := root.Group("/applications")
		appGroup.Use(authMiddleware)
		{
			// 求职者视角：申请与自己的记录。
			appGroup.POST("/:id", applicationHandler.Apply)
			appGroup.GET("/my", applicationHandler.ListMine)
			appGroup.GET("/my/summary", applicationHandler.MySummary)
			appGroup.GET("/my/analytics", applicationHandler.MyAnalytics)
			appGroup.GET("/my/:id", applicationHandler.GetMine)
			appGroup.PUT("/my/:id", applicationHandler.UpdateMine)
			appGroup.GET("/my/:id/cv-link", applicationHandler.MyCVLink)
			appGroup.PUT("/:id/tracking", applicationHandler.UpdateTracking)
			appGroup.PUT("/:id/reminder", applicationHandler.UpdateReminder)
			appGroup.POST("/:id/notes", applicationHandler.AddNote)

			// 审阅视角：全量读取与流程推进。
			appGroup.GET("", reviewer, applicationHandler.AdminList)
			appGroup.GET("/:id", reviewer, applicationHandler.AdminGet)
			appGroup.GET("/:id/cv", reviewer, applicationHandler.AdminDownloadCV)
			appGroup.PUT("/:id/status", reviewer, applicationHandler.AdminUpdateStatus)
			appGroup.PUT("/:id/interview", reviewer, applicationHandler.AdminScheduleInterview)
			appGroup.POST("/:id/admin/notes", reviewer, applicationHandler.AdminAddNote)
		}
	}
}
