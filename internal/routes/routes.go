// Package routes defines HTTP routes for the auth service.
package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sriharipamidimarri/s451/internal/handlers"
	"github.com/sriharipamidimarri/s451/internal/middleware"
	"github.com/sriharipamidimarri/s451/internal/models"
	"github.com/sriharipamidimarri/s451/internal/service"
)

// Setup configures all HTTP routes for the application.
func Setup(router *gin.Engine, authHandler *handlers.AuthHandler, healthHandler *handlers.HealthHandler, jwtService service.JWTService) {
	// Health check
	router.GET("/health", healthHandler.Check)
	// Metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1/auth")
	{
		v1.POST("/register", authHandler.Register)
		v1.POST("/login", authHandler.Login)
		v1.POST("/send-otp", authHandler.SendOTP)
		v1.POST("/verify-otp", authHandler.VerifyOTP)

		// Any authenticated identity
		v1.GET("/me", middleware.RequireRoles(jwtService), authHandler.Me)
		// Role-restricted example route
		v1.GET("/admin-only", middleware.RequireRoles(jwtService, models.RoleAdmin), authHandler.AdminOnly)
	}
}
