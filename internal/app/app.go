package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamification_backend/internal/config"
	"gamification_backend/internal/controller"
	"gamification_backend/internal/repository"
	"gamification_backend/internal/service"
	"gamification_backend/internal/util"
	"gamification_backend/pkg/database"
	"gamification_backend/pkg/logger"
	"gamification_backend/pkg/monitoring"
	"gamification_backend/pkg/security"
	"gamification_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user       *repository.UserRepository
	event      *repository.EventRepository
	category   *repository.CategoryRepository
	tokenValue *repository.TokenValueRepository
	question   *repository.QuestionRepository
	junction   *repository.JunctionRepository
	submission *repository.SubmissionRepository
	action     *repository.ActionRepository
}

type services struct {
	auth       *service.AuthService
	storage    *service.StorageService
	event      *service.EventService
	category   *service.CategoryService
	question   *service.QuestionService
	submission *service.SubmissionService
}

type controllers struct {
	auth       *controller.AuthController
	event      *controller.EventController
	category   *controller.CategoryController
	question   *controller.QuestionController
	submission *controller.SubmissionController
	health     *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:       repository.NewUserRepository(db),
		event:      repository.NewEventRepository(db),
		category:   repository.NewCategoryRepository(db),
		tokenValue: repository.NewTokenValueRepository(db),
		question:   repository.NewQuestionRepository(db),
		junction:   repository.NewJunctionRepository(db),
		submission: repository.NewSubmissionRepository(db),
		action:     repository.NewActionRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.event = service.NewEventService(repos.event)
	s.category = service.NewCategoryService(repos.category, repos.tokenValue, rdb)
	s.question = service.NewQuestionService(repos.question, repos.event, repos.junction, repos.submission, repos.tokenValue)

	judge := service.NewJudgeClient(&cfg.Judge0, s.storage)
	s.submission = service.NewSubmissionService(
		repos.submission,
		repos.junction,
		repos.question,
		repos.tokenValue,
		repos.action,
		repos.user,
		judge,
	)

	return s
}

func (a *App) initControllers(s *services, repos *repositories, db *gorm.DB) *controllers {
	return &controllers{
		auth:       controller.NewAuthController(s.auth, repos.action),
		event:      controller.NewEventController(s.event),
		category:   controller.NewCategoryController(s.category),
		question:   controller.NewQuestionController(s.question, s.auth, s.storage),
		submission: controller.NewSubmissionController(s.submission, s.auth),
		health:     controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, repos, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("gamification-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
