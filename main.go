package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"todo-api/backend/internal/auth"
	"todo-api/backend/internal/cache"
	"todo-api/backend/internal/config"
	"todo-api/backend/internal/database"
	"todo-api/backend/internal/handlers"
	"todo-api/backend/internal/middleware"
	"todo-api/backend/internal/monitoring"
	"todo-api/backend/internal/repositories"
	"todo-api/backend/internal/services"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const version = "1.0.0"

// Application holds all application dependencies and state
type Application struct {
	Config   *config.Config
	Pool     *database.DatabasePool
	DB       *gorm.DB
	Cache    cache.Cache
	Redis    *redis.Client
	Verifier *auth.Verifier
	Router   *gin.Engine
	Server   *http.Server

	TaskService services.TaskService
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.setupRoutes()
	app.startServer()
}

func initializeApplication(cfg *config.Config) (*Application, error) {
	app := &Application{
		Config:   cfg,
		Verifier: auth.NewVerifier(cfg.Auth.JWTSecret),
	}

	log.Println("Initializing Todo API backend...")
	log.Printf("Environment: %s", cfg.Server.Environment)

	pool, err := database.NewDatabasePool(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	app.Pool = pool
	app.DB = pool.DB
	log.Println("Database connected and configured")

	migrationConfig := &repositories.MigrationConfig{
		MigrationsPath: "file://migrations",
		DBName:         cfg.Database.Name,
		MaxRetries:     3,
		RetryDelay:     2 * time.Second,
	}
	if err := repositories.RunMigrations(app.DB, migrationConfig); err != nil {
		return nil, fmt.Errorf("database migration failed: %w", err)
	}

	app.Cache = initializeCache(cfg, app)

	taskService := services.NewTaskService()
	if app.Cache != nil {
		app.TaskService = services.NewCachedTaskService(taskService, app.Cache)
		log.Println("Cached task service initialized")
	} else {
		app.TaskService = taskService
		log.Println("Task service initialized")
	}

	return app, nil
}

// initializeCache prefers Redis and falls back to the in-process cache
// when Redis is unreachable, so a cache outage never blocks startup.
func initializeCache(cfg *config.Config, app *Application) cache.Cache {
	if !cfg.Redis.Enabled {
		log.Println("Redis disabled, using in-memory cache")
		return cache.NewMemoryCache()
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Printf("Redis unavailable: %v (falling back to in-memory cache)", err)
		_ = redisClient.Close()
		return cache.NewMemoryCache()
	}

	app.Redis = redisClient
	log.Println("Redis connected")
	return cache.NewRedisCacheFromClient(redisClient)
}

func (app *Application) setupRoutes() {
	r := gin.New()

	// Global middleware stack (order matters!)
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(monitoring.MetricsMiddleware())
	r.Use(middleware.RecoveryWithLog())
	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     app.Config.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Operational endpoints (no auth required)
	r.GET("/", app.rootHandler())
	r.GET("/health", app.healthHandler())
	r.GET("/ready", app.readinessHandler())
	r.GET("/metrics", monitoring.MetricsHandler())

	// Task resource routes: token verification first, then the
	// path-identity guard, before any handler runs.
	api := r.Group("/api")
	api.Use(middleware.RequireAuth(app.Verifier))

	taskHandler := handlers.NewTaskHandler(app.DB, app.TaskService)
	userScoped := api.Group("/:user_id")
	userScoped.Use(middleware.RequireSelf())
	{
		userScoped.GET("/tasks", taskHandler.ListTasks)
		userScoped.POST("/tasks", taskHandler.CreateTask)
		userScoped.GET("/tasks/:task_id", taskHandler.GetTaskByID)
		userScoped.PUT("/tasks/:task_id", taskHandler.UpdateTask)
		userScoped.DELETE("/tasks/:task_id", taskHandler.DeleteTask)
		userScoped.PATCH("/tasks/:task_id/complete", taskHandler.ToggleTaskCompletion)
	}

	app.Router = r
}

func (app *Application) startServer() {
	addr := app.Config.GetServerAddr()

	app.Server = &http.Server{
		Addr:         addr,
		Handler:      app.Router,
		ReadTimeout:  app.Config.Server.ReadTimeout,
		WriteTimeout: app.Config.Server.WriteTimeout,
		IdleTimeout:  app.Config.Server.IdleTimeout,
	}

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		log.Println("Shutting down server...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := app.Server.Shutdown(ctx); err != nil {
			log.Printf("Server forced to shutdown: %v", err)
		}

		app.cleanup()
		log.Println("Server stopped gracefully")
	}()

	log.Printf("Server starting on %s", addr)
	log.Printf("Health check at http://%s/health", addr)

	if err := app.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server failed to start: %v", err)
	}
}

func (app *Application) cleanup() {
	log.Println("Cleaning up resources...")

	if app.Cache != nil {
		if err := app.Cache.Close(); err != nil {
			log.Printf("Error closing cache: %v", err)
		}
	}

	if app.Redis != nil {
		if err := app.Redis.Close(); err != nil {
			log.Printf("Error closing Redis: %v", err)
		}
	}

	if app.Pool != nil {
		if err := app.Pool.Close(); err != nil {
			log.Printf("Error closing database: %v", err)
		}
	}

	log.Println("Cleanup complete")
}

func (app *Application) rootHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "Todo API is running",
			"version": version,
		})
	}
}

func (app *Application) healthHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		health := map[string]interface{}{
			"status":    "healthy",
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "todo-api-backend",
		}

		if err := app.Pool.Health(); err != nil {
			health["status"] = "unhealthy"
			health["database"] = "down"
			c.JSON(http.StatusServiceUnavailable, health)
			return
		}
		health["database"] = "up"

		if app.Redis != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := app.Redis.Ping(ctx).Err(); err != nil {
				health["redis"] = "down"
			} else {
				health["redis"] = "up"
			}
		}

		c.JSON(http.StatusOK, health)
	}
}

func (app *Application) readinessHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := app.Pool.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"ready":  false,
				"reason": "database not ready",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"ready": true})
	}
}
