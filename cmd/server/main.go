package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/roksva123/go-meetsync-backend/internal/api/handlers"
	"github.com/roksva123/go-meetsync-backend/internal/config"
	"github.com/roksva123/go-meetsync-backend/internal/middleware"
	"github.com/roksva123/go-meetsync-backend/internal/repository"
	"github.com/roksva123/go-meetsync-backend/internal/service"
	"golang.org/x/crypto/bcrypt"
)

func main() {

	// LOAD ENV
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed load config:", err)
	}

	// INIT DB
	repo, err := repository.NewPostgresRepoFromConfig(&repository.DBConfig{
		Host: cfg.DBHost,
		Port: cfg.DBPort,
		User: cfg.DBUser,
		Pass: cfg.DBPass,
		Name: cfg.DBName,
	})
	if err != nil {
		log.Fatal("failed connect db:", err)
	}

	// MIGRATIONS
	if err := repo.RunMigrations(context.Background()); err != nil {
		log.Fatal("migration error:", err)
	}

	// ADMIN SEED
	hashed, _ := bcrypt.GenerateFromPassword([]byte(cfg.AdminPassword), bcrypt.DefaultCost)
	if err := repo.UpsertAdmin(context.Background(), cfg.AdminUsername, string(hashed)); err != nil {
		log.Println("failed seeding admin:", err)
	} else {
		log.Println("admin seeded OK")
	}

	// SERVICES
	meetService := service.NewMeetService(cfg.MeetToken, cfg.MeetUserID)
	clockifyService := service.NewClockifyService(cfg.ClockifyAPIKey, cfg.ClockifyWorkspaceID, cfg.ClockifyUserID)
	syncService := service.NewSyncService(
		meetService,
		clockifyService,
		time.Duration(cfg.SyncDelayMs)*time.Millisecond,
		time.Duration(cfg.RateLimitCooldownMs)*time.Millisecond,
	)

	// HANDLERS
	authHandler := handlers.NewAuthHandler(repo, cfg.JWTSecret)
	syncHandler := handlers.NewSyncHandler(syncService, repo)

	// ROUTER
	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	api := r.Group("/api/v1")

	// AUTH ROUTES
	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
	}

	// SYNC ROUTES
	sync := api.Group("/sync")
	sync.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	{
		sync.POST("", syncHandler.TriggerSync)
		sync.GET("/history", syncHandler.GetSyncHistory)
	}

	// START SERVER
	log.Println("Server running on port:", cfg.Port)
	r.Run(":" + cfg.Port)
}
