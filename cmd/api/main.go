// Package main is the entry point for the auth service.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/sriharipamidimarri/s451/internal/config"
	"github.com/sriharipamidimarri/s451/internal/database"
	"github.com/sriharipamidimarri/s451/internal/handlers"
	"github.com/sriharipamidimarri/s451/internal/mailer"
	"github.com/sriharipamidimarri/s451/internal/repository"
	"github.com/sriharipamidimarri/s451/internal/routes"
	"github.com/sriharipamidimarri/s451/internal/service"
	"github.com/sriharipamidimarri/s451/pkg/redis"
)

// @title Farm-Forecast Auth Service API
// @version 1.0
// @description Authentication, role-based access and OTP-gated registration
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token.
func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	// Load configuration; the JWT secret is required and its absence is
	// fatal here, never a per-request error.
	cfg := config.Load()

	// Initialize database
	db, err := database.Connect(database.PostgresConfig{
		Host:     cfg.DBHost,
		Port:     cfg.DBPort,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		DBName:   cfg.DBName,
		SSLMode:  "disable",
		TimeZone: "UTC",
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Initialize Redis
	redisClient, err := redis.NewClient(cfg)
	if err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	otpStore := repository.NewOTPStore(redisClient, cfg.OTPTTL)

	// Initialize services
	hasher := service.NewPasswordHasher(0)
	jwtService, err := service.NewJWTService(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Fatal("Failed to initialize JWT service:", err)
	}
	mail := mailer.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	authService := service.NewAuthService(userRepo, otpStore, hasher, jwtService, mail)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	healthHandler := handlers.NewHealthHandler(db, redisClient)

	// Setup router
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()

	routes.Setup(router, authHandler, healthHandler, jwtService)

	slog.Info("starting auth service", "port", cfg.Port, "environment", cfg.Environment)
	if err := router.Run(fmt.Sprintf(":%s", cfg.Port)); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
