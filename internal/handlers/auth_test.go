package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/sriharipamidimarri/s451/internal/models"
	"github.com/sriharipamidimarri/s451/internal/service"
)

// =============================================================================
// Mock AuthService
// =============================================================================

type mockAuthService struct {
	registerFunc             func(ctx context.Context, email, password string, role models.Role) (*models.User, error)
	loginFunc                func(ctx context.Context, email, password string) (*service.LoginResponse, error)
	sendOTPFunc              func(ctx context.Context, email string) error
	verifyOTPAndRegisterFunc func(ctx context.Context, email, code, password string) (*models.User, error)
}

func (m *mockAuthService) Register(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, email, password, role)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) Login(ctx context.Context, email, password string) (*service.LoginResponse, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, email, password)
	}
	return nil, errors.New("not implemented")
}

func (m *mockAuthService) SendOTP(ctx context.Context, email string) error {
	if m.sendOTPFunc != nil {
		return m.sendOTPFunc(ctx, email)
	}
	return errors.New("not implemented")
}

func (m *mockAuthService) VerifyOTPAndRegister(ctx context.Context, email, code, password string) (*models.User, error) {
	if m.verifyOTPAndRegisterFunc != nil {
		return m.verifyOTPAndRegisterFunc(ctx, email, code, password)
	}
	return nil, errors.New("not implemented")
}

// =============================================================================
// Test Helpers
// =============================================================================

func setupRouter(mock *mockAuthService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	handler := NewAuthHandler(mock)
	v1 := router.Group("/api/v1/auth")
	v1.POST("/register", handler.Register)
	v1.POST("/login", handler.Login)
	v1.POST("/send-otp", handler.SendOTP)
	v1.POST("/verify-otp", handler.VerifyOTP)
	return router
}

func postJSON(t *testing.T, router *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("failed to marshal payload: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// =============================================================================
// Register Tests
// =============================================================================

func TestRegisterHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		payload    gin.H
		serviceErr error
		wantStatus int
	}{
		{"created", gin.H{"email": "a@x.com", "password": "p1", "role": "farmer"}, nil, http.StatusCreated},
		{"default role omitted", gin.H{"email": "a@x.com", "password": "p1"}, nil, http.StatusCreated},
		{"already exists", gin.H{"email": "a@x.com", "password": "p1"}, service.ErrAlreadyExists, http.StatusBadRequest},
		{"store unavailable", gin.H{"email": "a@x.com", "password": "p1"}, service.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"unexpected", gin.H{"email": "a@x.com", "password": "p1"}, errors.New("boom"), http.StatusInternalServerError},
		{"missing email", gin.H{"password": "p1"}, nil, http.StatusBadRequest},
		{"malformed email", gin.H{"email": "not-an-email", "password": "p1"}, nil, http.StatusBadRequest},
		{"missing password", gin.H{"email": "a@x.com"}, nil, http.StatusBadRequest},
		{"unknown role", gin.H{"email": "a@x.com", "password": "p1", "role": "root"}, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAuthService{
				registerFunc: func(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &models.User{ID: 1, Email: email, Role: role}, nil
				},
			}
			w := postJSON(t, setupRouter(mock), "/api/v1/auth/register", tt.payload)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestRegisterHandler_DefaultsRole(t *testing.T) {
	var gotRole models.Role
	mock := &mockAuthService{
		registerFunc: func(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
			gotRole = role
			return &models.User{ID: 1, Email: email, Role: role}, nil
		},
	}

	w := postJSON(t, setupRouter(mock), "/api/v1/auth/register", gin.H{"email": "a@x.com", "password": "p1"})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", w.Code)
	}
	if gotRole != models.DefaultRole {
		t.Errorf("role passed to service = %v, want default %v", gotRole, models.DefaultRole)
	}
}

func TestRegisterHandler_NoTokenInResponse(t *testing.T) {
	mock := &mockAuthService{
		registerFunc: func(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
			return &models.User{ID: 1, Email: email, Role: role}, nil
		},
	}

	w := postJSON(t, setupRouter(mock), "/api/v1/auth/register", gin.H{"email": "a@x.com", "password": "p1"})

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if _, ok := body["token"]; ok {
		t.Error("registration must not auto-login; no token in response")
	}
}

// =============================================================================
// Login Tests
// =============================================================================

func TestLoginHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{"ok", nil, http.StatusOK},
		{"not found", service.ErrUserNotFound, http.StatusNotFound},
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusBadRequest},
		{"store unavailable", service.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAuthService{
				loginFunc: func(ctx context.Context, email, password string) (*service.LoginResponse, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &service.LoginResponse{
						Token:     "signed-token",
						User:      models.PublicUser{ID: 1, Email: email, Role: models.RoleFarmer},
						ExpiresIn: 86400,
					}, nil
				},
			}
			w := postJSON(t, setupRouter(mock), "/api/v1/auth/login", gin.H{"email": "a@x.com", "password": "p1"})
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestLoginHandler_ResponseShape(t *testing.T) {
	mock := &mockAuthService{
		loginFunc: func(ctx context.Context, email, password string) (*service.LoginResponse, error) {
			return &service.LoginResponse{
				Token:     "signed-token",
				User:      models.PublicUser{ID: 1, Email: email, Role: models.RoleFarmer},
				ExpiresIn: 86400,
			}, nil
		},
	}

	w := postJSON(t, setupRouter(mock), "/api/v1/auth/login", gin.H{"email": "a@x.com", "password": "p1"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var body struct {
		Token string `json:"token"`
		User  struct {
			ID    int64  `json:"id"`
			Email string `json:"email"`
			Role  string `json:"role"`
		} `json:"user"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body.Token != "signed-token" {
		t.Errorf("token = %q, want signed-token", body.Token)
	}
	if body.User.Email != "a@x.com" || body.User.Role != "farmer" {
		t.Errorf("user = %+v, want public identity fields", body.User)
	}

	if bytes.Contains(w.Body.Bytes(), []byte("password_hash")) {
		t.Error("response leaks the password hash")
	}
}

// =============================================================================
// SendOTP Tests
// =============================================================================

func TestSendOTPHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		payload    gin.H
		serviceErr error
		wantStatus int
	}{
		{"ok", gin.H{"email": "b@x.com"}, nil, http.StatusOK},
		{"delivery failed", gin.H{"email": "b@x.com"}, service.ErrDeliveryFailed, http.StatusInternalServerError},
		{"store unavailable", gin.H{"email": "b@x.com"}, service.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"unexpected", gin.H{"email": "b@x.com"}, errors.New("boom"), http.StatusInternalServerError},
		{"missing email", gin.H{}, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAuthService{
				sendOTPFunc: func(ctx context.Context, email string) error {
					return tt.serviceErr
				},
			}
			w := postJSON(t, setupRouter(mock), "/api/v1/auth/send-otp", tt.payload)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

// =============================================================================
// VerifyOTP Tests
// =============================================================================

func TestVerifyOTPHandler_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		payload    gin.H
		serviceErr error
		wantStatus int
	}{
		{"created", gin.H{"email": "b@x.com", "otp": "123456", "password": "pw"}, nil, http.StatusCreated},
		{"rejected", gin.H{"email": "b@x.com", "otp": "000000", "password": "pw"}, service.ErrOTPRejected, http.StatusBadRequest},
		{"already exists", gin.H{"email": "b@x.com", "otp": "123456", "password": "pw"}, service.ErrAlreadyExists, http.StatusBadRequest},
		{"store unavailable", gin.H{"email": "b@x.com", "otp": "123456", "password": "pw"}, service.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{"unexpected", gin.H{"email": "b@x.com", "otp": "123456", "password": "pw"}, errors.New("boom"), http.StatusInternalServerError},
		{"missing otp", gin.H{"email": "b@x.com", "password": "pw"}, nil, http.StatusBadRequest},
		{"missing password", gin.H{"email": "b@x.com", "otp": "123456"}, nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &mockAuthService{
				verifyOTPAndRegisterFunc: func(ctx context.Context, email, code, password string) (*models.User, error) {
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					return &models.User{ID: 1, Email: email, Role: models.DefaultRole}, nil
				},
			}
			w := postJSON(t, setupRouter(mock), "/api/v1/auth/verify-otp", tt.payload)
			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}

func TestVerifyOTPHandler_RejectionMessageDoesNotLeakReason(t *testing.T) {
	mock := &mockAuthService{
		verifyOTPAndRegisterFunc: func(ctx context.Context, email, code, password string) (*models.User, error) {
			return nil, service.ErrOTPRejected
		},
	}

	w := postJSON(t, setupRouter(mock), "/api/v1/auth/verify-otp",
		gin.H{"email": "b@x.com", "otp": "000000", "password": "pw"})

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if body["error"] != "invalid or expired OTP" {
		t.Errorf("error = %q, want the single collapsed rejection message", body["error"])
	}
}

// =============================================================================
// Health Tests
// =============================================================================

func TestHealthHandler_NoDependencies(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", NewHealthHandler(nil, nil).Check)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
}
