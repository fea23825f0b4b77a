package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studymate/internal/adapter"
	"studymate/internal/adapter/aigateway"
	"studymate/internal/cache"
	"studymate/internal/config"
	"studymate/internal/database"
	"studymate/internal/handler"
	"studymate/internal/logger"
	"studymate/internal/middleware"
	"studymate/internal/repository"
	"studymate/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger logs every HTTP request with timing.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
		)
		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	appLogger.Info("Database connection established")

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer redisClient.Close()
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	appLogger.Info("Redis connection established")

	studentRepo := repository.NewSQLXStudentRepository(db)
	courseRepo := repository.NewSQLXCourseRepository(db)
	taskRepo := repository.NewSQLXTaskRepository(db)
	progressRepo := repository.NewSQLXProgressRepository(db)
	fypRepo := repository.NewSQLXFYPRepository(db)
	roadmapRepo := repository.NewSQLXRoadmapRepository(db)
	sessionRepo := repository.NewChatSessionRepository(cacheAdapter)

	gateway, err := aigateway.New(cfg.AI)
	if err != nil {
		appLogger.Fatal("Failed to create AI gateway", zap.Error(err))
	}
	appLogger.Info("AI gateway initialized",
		zap.String("url", cfg.AI.URL),
		zap.String("model", cfg.AI.Model))

	taskService := service.NewTaskService(studentRepo, courseRepo, taskRepo, progressRepo, gateway)
	chatService := service.NewChatService(studentRepo, progressRepo, taskRepo, roadmapRepo, sessionRepo, gateway, taskService)
	recommendationService := service.NewRecommendationService(
		studentRepo, progressRepo, fypRepo, gateway, cacheAdapter,
		cfg.Recommendation.CacheTTL)
	advisorService := service.NewAdvisorService(studentRepo, progressRepo, taskRepo, roadmapRepo, gateway)

	chatHandler := handler.NewChatHandler(chatService)
	studentHandler := handler.NewStudentHandler(taskService, recommendationService, advisorService)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler(),
	})
	app.Use(requestLogger())
	app.Use(cors.New())
	app.Use(recover.New())

	api := app.Group("/api")
	api.Post("/chat", chatHandler.Chat)
	api.Get("/courses", studentHandler.CourseCatalog)

	students := api.Group("/students/:id")
	students.Post("/enroll", studentHandler.Enroll)
	students.Get("/tasks", studentHandler.ListTasks)
	students.Post("/tasks", studentHandler.GenerateTask)
	students.Get("/recommendations", studentHandler.Recommendations)
	students.Get("/study-plan", studentHandler.StudyPlan)
	students.Get("/progress-summary", studentHandler.ProgressSummary)
	students.Post("/roadmap", studentHandler.Roadmap)

	tasks := api.Group("/tasks/:id")
	tasks.Post("/submit", studentHandler.SubmitTask)
	tasks.Post("/verify", studentHandler.VerifyTask)
	tasks.Post("/generate", studentHandler.PersonalizeTask)

	address := fmt.Sprintf(":%d", cfg.Server.Port)
	go func() {
		if err := app.Listen(address); err != nil {
			appLogger.Fatal("Server failed to start", zap.Error(err))
		}
	}()
	appLogger.Info("Server started", zap.String("address", address))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down server...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		appLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited")
}
