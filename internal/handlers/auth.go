// Package handlers contains HTTP request handlers for the auth service.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sriharipamidimarri/s451/internal/metrics"
	"github.com/sriharipamidimarri/s451/internal/middleware"
	"github.com/sriharipamidimarri/s451/internal/models"
	"github.com/sriharipamidimarri/s451/internal/service"
)

// AuthHandler handles authentication HTTP requests.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest represents the direct registration payload.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role"`
}

// LoginRequest represents the login request payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// SendOTPRequest represents the OTP challenge request payload.
type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// VerifyOTPRequest represents the OTP verification payload.
type VerifyOTPRequest struct {
	Email    string `json:"email" binding:"required,email"`
	OTP      string `json:"otp" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register godoc
// @Summary Register a new user
// @Description Create a user with email, password and optional role. Does not log the user in.
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterRequest true "Registration data"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	role, err := models.ParseRole(req.Role)
	if err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.authService.Register(c.Request.Context(), req.Email, req.Password, role); err != nil {
		switch {
		case errors.Is(err, service.ErrAlreadyExists):
			RespondError(c, http.StatusBadRequest, "user already exists")
		case errors.Is(err, service.ErrStoreUnavailable):
			LogAndRespondError(c, http.StatusServiceUnavailable, err, "store unavailable")
		default:
			LogAndRespondError(c, http.StatusInternalServerError, err, "error registering user")
		}
		return
	}

	metrics.Registrations.WithLabelValues("direct").Inc()
	slog.Info("user registered", "email", req.Email, "role", role)
	c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully"})
}

// Login godoc
// @Summary User login
// @Description Authenticate user and return a session token with public identity fields
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login credentials"
// @Success 200 {object} service.LoginResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	response, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			metrics.LoginAttempts.WithLabelValues("not_found").Inc()
			RespondError(c, http.StatusNotFound, "user not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			metrics.LoginAttempts.WithLabelValues("invalid_credentials").Inc()
			slog.Info("login rejected", "email", req.Email, "reason", "invalid_credentials")
			RespondError(c, http.StatusBadRequest, "invalid credentials")
		case errors.Is(err, service.ErrStoreUnavailable):
			metrics.LoginAttempts.WithLabelValues("error").Inc()
			LogAndRespondError(c, http.StatusServiceUnavailable, err, "store unavailable")
		default:
			metrics.LoginAttempts.WithLabelValues("error").Inc()
			LogAndRespondError(c, http.StatusInternalServerError, err, "error logging in")
		}
		return
	}

	metrics.LoginAttempts.WithLabelValues("success").Inc()
	slog.Info("login succeeded", "user_id", response.User.ID, "role", response.User.Role)
	c.JSON(http.StatusOK, response)
}

// SendOTP godoc
// @Summary Send an OTP challenge
// @Description Issue a one-time passcode for the email and deliver it by mail
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SendOTPRequest true "Target email"
// @Success 200 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/send-otp [post]
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req SendOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.authService.SendOTP(c.Request.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, service.ErrDeliveryFailed):
			LogAndRespondError(c, http.StatusInternalServerError, err, "failed to send OTP")
		case errors.Is(err, service.ErrStoreUnavailable):
			LogAndRespondError(c, http.StatusServiceUnavailable, err, "store unavailable")
		default:
			LogAndRespondError(c, http.StatusInternalServerError, err, "failed to send OTP")
		}
		return
	}

	metrics.OTPIssued.Inc()
	slog.Info("otp issued", "email", req.Email)
	c.JSON(http.StatusOK, gin.H{"message": "OTP sent successfully"})
}

// VerifyOTP godoc
// @Summary Verify an OTP challenge and register
// @Description Check the submitted code and register the email with the default role
// @Tags auth
// @Accept json
// @Produce json
// @Param request body VerifyOTPRequest true "Email, code and password"
// @Success 201 {object} map[string]string
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /auth/verify-otp [post]
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req VerifyOTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	if _, err := h.authService.VerifyOTPAndRegister(c.Request.Context(), req.Email, req.OTP, req.Password); err != nil {
		switch {
		case errors.Is(err, service.ErrOTPRejected):
			metrics.OTPVerifications.WithLabelValues("rejected").Inc()
			RespondError(c, http.StatusBadRequest, "invalid or expired OTP")
		case errors.Is(err, service.ErrAlreadyExists):
			// The challenge was correct but the email got registered in the
			// meantime; the challenge is left in place for diagnostics.
			metrics.OTPVerifications.WithLabelValues("rejected").Inc()
			RespondError(c, http.StatusBadRequest, "user already exists")
		case errors.Is(err, service.ErrStoreUnavailable):
			metrics.OTPVerifications.WithLabelValues("error").Inc()
			LogAndRespondError(c, http.StatusServiceUnavailable, err, "store unavailable")
		default:
			metrics.OTPVerifications.WithLabelValues("error").Inc()
			LogAndRespondError(c, http.StatusInternalServerError, err, "failed to register user")
		}
		return
	}

	metrics.OTPVerifications.WithLabelValues("accepted").Inc()
	metrics.Registrations.WithLabelValues("otp").Inc()
	slog.Info("user registered via otp", "email", req.Email)
	c.JSON(http.StatusCreated, gin.H{"message": "user registered successfully"})
}

// Me godoc
// @Summary Current session claims
// @Description Return the identity and role carried by the presented token
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		RespondError(c, http.StatusUnauthorized, "no token provided")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": claims.UserID,
		"role":    claims.Role,
	})
}

// AdminOnly godoc
// @Summary Example admin-only route
// @Tags auth
// @Security BearerAuth
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Router /auth/admin-only [get]
func (h *AuthHandler) AdminOnly(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "this is an admin-only route"})
}
