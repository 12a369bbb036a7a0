package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/sriharipamidimarri/s451/internal/mailer"
	"github.com/sriharipamidimarri/s451/internal/models"
	"github.com/sriharipamidimarri/s451/internal/repository"
)

// Typed failures surfaced to handlers. Leaf errors are translated here;
// raw storage or crypto errors never reach the caller.
var (
	ErrAlreadyExists      = errors.New("user already exists")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidRole        = errors.New("invalid role")
	// ErrOTPRejected collapses invalid, expired and missing challenges into
	// one class so callers cannot probe whether a challenge exists.
	ErrOTPRejected      = errors.New("invalid or expired OTP")
	ErrDeliveryFailed   = errors.New("failed to deliver OTP")
	ErrStoreUnavailable = errors.New("store unavailable")
)

// LoginResponse is returned on successful login.
type LoginResponse struct {
	Token     string            `json:"token"`
	User      models.PublicUser `json:"user"`
	ExpiresIn int64             `json:"expires_in"`
}

// AuthService orchestrates registration, login and the OTP challenge flows.
type AuthService interface {
	// Register creates a credential directly. It does not log the user in.
	Register(ctx context.Context, email, password string, role models.Role) (*models.User, error)
	// Login verifies credentials and issues a session token carrying the
	// stored role.
	Login(ctx context.Context, email, password string) (*LoginResponse, error)
	// SendOTP issues a challenge for email and delivers the code. The email
	// does not need to belong to an existing user; this path also serves
	// first-time registration.
	SendOTP(ctx context.Context, email string) error
	// VerifyOTPAndRegister checks the submitted code and, if it is the live
	// challenge, registers the email with the default role and consumes the
	// challenge.
	VerifyOTPAndRegister(ctx context.Context, email, code, password string) (*models.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	otpStore   repository.OTPStore
	hasher     PasswordHasher
	jwtService JWTService
	mail       mailer.Mailer
}

// NewAuthService creates a new AuthService instance.
func NewAuthService(
	userRepo repository.UserRepository,
	otpStore repository.OTPStore,
	hasher PasswordHasher,
	jwtService JWTService,
	mail mailer.Mailer,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		otpStore:   otpStore,
		hasher:     hasher,
		jwtService: jwtService,
		mail:       mail,
	}
}

func (s *authService) Register(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}

	_, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil {
		return nil, ErrAlreadyExists
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, storeErr(err)
	}

	return s.createUser(ctx, email, password, role)
}

func (s *authService) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storeErr(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &LoginResponse{
		Token:     token,
		User:      user.Public(),
		ExpiresIn: int64(s.jwtService.Expiry().Seconds()),
	}, nil
}

func (s *authService) SendOTP(ctx context.Context, email string) error {
	code, err := s.otpStore.Issue(ctx, email)
	if err != nil {
		return storeErr(err)
	}

	// The challenge row survives a delivery failure so the caller may retry
	// delivery without invalidating the code.
	if err := s.mail.SendOTP(ctx, email, code); err != nil {
		return fmt.Errorf("%w: %v", ErrDeliveryFailed, err)
	}
	return nil
}

func (s *authService) VerifyOTPAndRegister(ctx context.Context, email, code, password string) (*models.User, error) {
	result, err := s.otpStore.Verify(ctx, email, code)
	if err != nil {
		return nil, storeErr(err)
	}
	if result != repository.OTPValid {
		return nil, ErrOTPRejected
	}

	// Create before consume: if the email was registered independently
	// since the challenge was issued, the challenge is preserved and the
	// duplicate is reported distinctly rather than folded into a rejection.
	user, err := s.createUser(ctx, email, password, models.DefaultRole)
	if err != nil {
		return nil, err
	}

	if err := s.otpStore.Consume(ctx, email); err != nil {
		// Registration already succeeded; the leftover challenge expires on
		// its own and cannot mint a second account for this email.
		slog.Warn("failed to consume otp challenge", "email", email, "error", err)
	}

	return user, nil
}

// createUser hashes the password and persists the user. The plaintext never
// crosses into the repository.
func (s *authService) createUser(ctx context.Context, email, password string, role models.Role) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        email,
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUser) {
			return nil, ErrAlreadyExists
		}
		return nil, storeErr(err)
	}
	return user, nil
}

// storeErr maps infrastructure timeouts to ErrStoreUnavailable and leaves
// everything else wrapped for the handler's generic 500.
func storeErr(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return err
}
