package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	// --- 导入内部包 ---
	httpHandler "realtime-chat/internal/handler/http"
	wsHandler "realtime-chat/internal/handler/websocket"
	"realtime-chat/internal/hub"
	gormpersistence "realtime-chat/internal/infra/persistence/gorm"
	"realtime-chat/internal/infra/setup"
	redisstate "realtime-chat/internal/infra/state/redis"
	"realtime-chat/internal/middleware"
	"realtime-chat/internal/repository"
	"realtime-chat/internal/service"
	"realtime-chat/internal/tasks"
	"realtime-chat/internal/worker"
)

// App 结构体包含应用的所有组件和配置
type App struct {
	Config      *Config
	Log         *logrus.Logger
	DB          *gorm.DB
	RedisClient *redis.Client // 未配置 Redis 时为 nil
	AsynqClient *asynq.Client
	Worker      *worker.WorkerServer
	Hub         *hub.Hub
	HttpServer  *http.Server

	hubCancel context.CancelFunc
	hubDone   chan struct{}
}

// NewLogger 根据配置初始化全局 logrus logger
func NewLogger(cfg *Config) *logrus.Logger {
	log := logrus.StandardLogger()
	if cfg.AppEnv == "production" {
		log.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)
	log.SetOutput(os.Stdout)
	return log
}

// NewApp 创建并初始化应用的所有组件
func NewApp(cfg *Config) (*App, error) {
	log := NewLogger(cfg)
	log.Infof("Logger initialized (Level: %s)", log.GetLevel())

	// 1. 初始化基础设施
	log.Info("Initializing infrastructure...")
	db, err := setup.InitDB(setup.DBConfig{
		Driver:   cfg.DBDriver,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init DB: %w", err)
	}
	if err := setup.MigrateDB(db); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database initialized and migrated")

	app := &App{Config: cfg, Log: log, DB: db}

	var (
		stateRepo repository.StateRepository
		enqueuer  service.TaskEnqueuer
	)
	if cfg.RedisEnabled() {
		redisClient, err := setup.InitRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			_ = setup.CloseDB(db)
			return nil, fmt.Errorf("failed to init Redis: %w", err)
		}
		app.RedisClient = redisClient
		stateRepo = redisstate.NewRedisStateRepository(redisClient, cfg.KeyPrefix)

		redisClientOpt := asynq.RedisClientOpt{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		}
		app.AsynqClient = asynq.NewClient(redisClientOpt)
		enqueuer = tasks.NewEnqueuer(app.AsynqClient)

		purgeHandler := worker.NewPurgeHandler(
			gormpersistence.NewGormMessageRepository(db),
			gormpersistence.NewGormMembershipRepository(db),
		)
		app.Worker = worker.NewWorkerServer(redisClientOpt, purgeHandler, log)
		log.Info("Redis, task queue and worker initialized")
	} else {
		log.Warn("REDIS_ADDR not set: cross-instance fan-out, rate limiting and purge jobs are disabled")
	}

	engine, h, err := buildEngine(cfg, log, db, stateRepo, enqueuer)
	if err != nil {
		app.closeInfra()
		return nil, err
	}
	app.Hub = h
	app.HttpServer = &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Application assembled successfully")
	return app, nil
}

// buildEngine 组装 repositories、services、hub 和 Gin 路由。
// stateRepo 与 enqueuer 可以为 nil。
func buildEngine(cfg *Config, log *logrus.Logger, db *gorm.DB, stateRepo repository.StateRepository, enqueuer service.TaskEnqueuer) (*gin.Engine, *hub.Hub, error) {
	// Repositories
	userRepo := gormpersistence.NewGormUserRepository(db)
	roomRepo := gormpersistence.NewGormRoomRepository(db)
	membershipRepo := gormpersistence.NewGormMembershipRepository(db)
	messageRepo := gormpersistence.NewGormMessageRepository(db)

	// Services
	tokens, err := service.NewTokenCodec(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create TokenCodec: %w", err)
	}
	gate := service.NewSessionGate(tokens, userRepo)
	authService := service.NewAuthService(userRepo, tokens)
	roomService := service.NewRoomService(roomRepo, enqueuer)
	services := wsHandler.Services{
		Gate:        gate,
		Auth:        authService,
		Users:       service.NewUserService(userRepo, enqueuer),
		Rooms:       roomService,
		Memberships: service.NewMembershipService(membershipRepo),
		Messages:    service.NewMessageService(messageRepo),
	}

	// Hub 与 Handlers
	hubInstance := hub.NewHub(stateRepo)
	router := wsHandler.NewRouter(hubInstance, services, stateRepo, wsHandler.EventLimit{
		Max:    cfg.EventRateLimitMax,
		Window: cfg.EventRateLimitWindow,
	})
	wsh := wsHandler.NewWebSocketHandler(hubInstance, router, cfg.AllowedOrigin)
	authHandler := httpHandler.NewAuthHandler(authService)
	roomHandler := httpHandler.NewRoomHandler(roomService)

	// Gin Engine
	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(LoggerMiddleware(log))
	engine.Use(middleware.CORS(cfg.AllowedOrigin))
	if stateRepo != nil && cfg.RateLimitMax > 0 {
		engine.Use(middleware.RateLimit(stateRepo, cfg.RateLimitMax, cfg.RateLimitWindow))
	}

	api := engine.Group("/api")
	authRoutes := api.Group("/auth")
	{
		authRoutes.POST("/register", authHandler.Register)
		authRoutes.POST("/login", authHandler.Login)
		authRoutes.POST("/logout", authHandler.Logout)
	}
	roomRoutes := api.Group("/rooms").Use(middleware.Session(gate))
	{
		roomRoutes.GET("", roomHandler.ListRooms)
		roomRoutes.GET("/:roomId", roomHandler.GetRoom)
	}
	engine.GET("/ws", middleware.Session(gate), wsh.HandleConnection)
	engine.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })

	return engine, hubInstance, nil
}

// Start 启动应用的所有后台 Goroutine 和 HTTP 服务器
func (a *App) Start() {
	a.Log.Info("Starting application background routines...")

	ctx, cancel := context.WithCancel(context.Background())
	a.hubCancel = cancel
	a.hubDone = make(chan struct{})
	go func() {
		defer close(a.hubDone)
		a.Hub.Run(ctx)
	}()

	if a.Worker != nil {
		if err := a.Worker.Start(); err != nil {
			a.Log.Errorf("Failed to start worker server: %v", err)
		} else {
			a.Log.Info("Asynq worker server started")
		}
	}

	go func() {
		a.Log.Infof("HTTP server starting to listen on %s", a.HttpServer.Addr)
		if err := a.HttpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Log.Fatalf("Failed to start HTTP server: %v", err)
		}
		a.Log.Info("HTTP server stopped listening.")
	}()
}

// Shutdown 优雅地关闭应用
func (a *App) Shutdown() {
	a.Log.Info("Shutting down application...")

	// 1. 停止接受新连接
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.HttpServer.Shutdown(ctx); err != nil {
		a.Log.Errorf("Error shutting down HTTP server: %v", err)
	} else {
		a.Log.Info("HTTP server shut down gracefully.")
	}

	// 2. 停止 Hub，关闭所有 WebSocket 连接 (Shutdown 不等待已升级的连接)
	if a.hubCancel != nil {
		a.hubCancel()
		<-a.hubDone
	}

	// 3. 优雅关闭 Worker Server
	if a.Worker != nil {
		a.Worker.Shutdown()
	}

	a.closeInfra()
	a.Log.Info("Application shutdown complete.")
}

func (a *App) closeInfra() {
	if a.AsynqClient != nil {
		if err := a.AsynqClient.Close(); err != nil {
			a.Log.Errorf("Error closing Asynq client: %v", err)
		}
	}
	if a.RedisClient != nil {
		if err := a.RedisClient.Close(); err != nil {
			a.Log.Errorf("Error closing Redis connection: %v", err)
		}
	}
	if a.DB != nil {
		if err := setup.CloseDB(a.DB); err != nil {
			a.Log.Errorf("Error closing database connection: %v", err)
		}
	}
}

// LoggerMiddleware 创建一个 Gin 中间件用于记录请求日志
func LoggerMiddleware(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		c.Next()
		latency := time.Since(startTime)
		statusCode := c.Writer.Status()

		entry := log.WithFields(logrus.Fields{
			"status_code": statusCode,
			"latency_ms":  latency.Milliseconds(),
			"client_ip":   c.ClientIP(),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
		})
		if userID, ok := c.Get(middleware.UserIDKey); ok {
			entry = entry.WithField("user_id", userID)
		}

		if errorMessage := c.Errors.ByType(gin.ErrorTypePrivate).String(); errorMessage != "" {
			entry.Error(errorMessage)
			return
		}
		switch {
		case statusCode >= 500:
			entry.Error("Server error")
		case statusCode >= 400:
			entry.Warn("Client error")
		default:
			entry.Info("Request handled")
		}
	}
}

// RunMigrations 只执行数据库迁移，不启动任何服务
func RunMigrations(cfg *Config) error {
	log := NewLogger(cfg)
	db, err := setup.InitDB(setup.DBConfig{
		Driver:   cfg.DBDriver,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		Name:     cfg.DBName,
	})
	if err != nil {
		return fmt.Errorf("failed to init DB: %w", err)
	}
	defer func() {
		if err := setup.CloseDB(db); err != nil {
			log.Errorf("Error closing database connection: %v", err)
		}
	}()
	if err := setup.MigrateDB(db); err != nil {
		return fmt.Errorf("failed to migrate DB: %w", err)
	}
	log.Info("Database migrated")
	return nil
}
