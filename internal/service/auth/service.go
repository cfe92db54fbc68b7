// Package auth implements registration, login, token refresh, email
// verification and password reset.
package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/glossa-app/glossa-backend/internal/auth"
	"github.com/glossa-app/glossa-backend/internal/config"
	"github.com/glossa-app/glossa-backend/internal/domain"
)

// userRepo defines the user repository interface needed by the auth service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
	SetVerified(ctx context.Context, email string) error
}

// tokenRepo defines the refresh token repository interface needed by the auth service.
type tokenRepo interface {
	Create(ctx context.Context, token *domain.RefreshToken) error
	GetByHash(ctx context.Context, tokenHash string) (*domain.RefreshToken, error)
	RevokeByID(ctx context.Context, id uuid.UUID) error
	RevokeAllByUser(ctx context.Context, userID uuid.UUID) error
}

// txManager defines the transaction manager interface needed by the auth service.
type txManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// jwtManager defines the JWT token management interface needed by the auth service.
type jwtManager interface {
	GenerateAccessToken(userID uuid.UUID, role string) (string, error)
	GenerateRefreshToken() (raw string, hash string, err error)
	HashToken(raw string) string
}

// purposeTokenManager issues and validates single-purpose email tokens.
type purposeTokenManager interface {
	Generate(email string, purpose auth.TokenPurpose, ttl time.Duration) (string, error)
	Validate(token string, purpose auth.TokenPurpose) (string, error)
}

// mailer delivers transactional email.
type mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// Service implements auth operations.
type Service struct {
	log           *slog.Logger
	users         userRepo
	tokens        tokenRepo
	tx            txManager
	jwt           jwtManager
	purposeTokens purposeTokenManager
	mail          mailer
	cfg           config.AuthConfig
}

// NewService creates a new auth service instance.
func NewService(
	logger *slog.Logger,
	users userRepo,
	tokens tokenRepo,
	tx txManager,
	jwt jwtManager,
	purposeTokens purposeTokenManager,
	mail mailer,
	cfg config.AuthConfig,
) *Service {
	return &Service{
		log:           logger.With("service", "auth"),
		users:         users,
		tokens:        tokens,
		tx:            tx,
		jwt:           jwt,
		purposeTokens: purposeTokens,
		mail:          mail,
		cfg:           cfg,
	}
}

// issueTokens generates access and refresh tokens for the given user, stores
// the refresh token hash in DB, and returns an AuthResult.
func (s *Service) issueTokens(ctx context.Context, user *domain.User) (*AuthResult, error) {
	accessToken, err := s.jwt.GenerateAccessToken(user.ID, user.Role())
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	rawRefresh, hashRefresh, err := s.jwt.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	refreshToken := &domain.RefreshToken{
		UserID:    user.ID,
		TokenHash: hashRefresh,
		ExpiresAt: time.Now().Add(s.cfg.RefreshTokenTTL),
	}
	if err := s.tokens.Create(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("store refresh token: %w", err)
	}

	return &AuthResult{
		AccessToken:  accessToken,
		RefreshToken: rawRefresh,
		User:         user,
	}, nil
}
