package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/smartfarm/backend/internal/domain/identity"
	"github.com/smartfarm/backend/internal/domain/shared"
	"github.com/smartfarm/backend/internal/infrastructure/auth"
	"github.com/smartfarm/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AuthService handles registration and login
type AuthService struct {
	userRepo   identity.UserRepository
	jwtService *auth.JWTService
	logger     *zap.Logger
	metrics    *telemetry.FarmMetrics
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	jwtService *auth.JWTService,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		jwtService: jwtService,
		logger:     logger,
	}
}

// SetMetrics sets the farm metrics collector
func (s *AuthService) SetMetrics(m *telemetry.FarmMetrics) {
	s.metrics = m
}

// Register creates a new account. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*UserInfo, error) {
	user, err := identity.NewUser(input.Name, input.Email, input.Password)
	if err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, user.Email)
	if err != nil {
		s.logger.Error("Failed to check email uniqueness", zap.Error(err))
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		s.logger.Info("Registration rejected, email taken", zap.String("email", user.Email))
		return nil, shared.NewDomainError(shared.CodeAlreadyExists, "User already exists")
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index is the final guard against concurrent registrations
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError(shared.CodeAlreadyExists, "User already exists")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.RecordRegistration(ctx)
	s.logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	info := ToUserInfo(user)
	return &info, nil
}

// Login verifies credentials and issues an access token. Unknown email and
// wrong password produce the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := identity.NormalizeEmail(input.Email)
	if email == "" || input.Password == "" {
		return nil, shared.NewValidationError("Email and password are required")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("Failed to load user during login", zap.Error(err))
			return nil, fmt.Errorf("find user: %w", err)
		}
		s.logger.Warn("Login for unknown email", zap.String("email", email))
		s.metrics.RecordLogin(ctx, telemetry.LoginFailed)
		return nil, shared.ErrInvalidCredentials
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("user_id", user.ID.String()))
		s.metrics.RecordLogin(ctx, telemetry.LoginFailed)
		return nil, shared.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateToken(user.ID, user.Email)
	if err != nil {
		s.logger.Error("Failed to generate token", zap.Error(err))
		return nil, fmt.Errorf("generate token: %w", err)
	}

	s.metrics.RecordLogin(ctx, telemetry.LoginSucceeded)
	s.logger.Info("User logged in", zap.String("user_id", user.ID.String()))

	return &LoginResult{
		Token:     token.AccessToken,
		TokenType: token.TokenType,
		ExpiresAt: token.ExpiresAt,
		User:      ToUserInfo(user),
	}, nil
}
