package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/glossa-app/glossa-backend/internal/domain"
)

// Refresh rotates a refresh token: the presented token is revoked and a new
// access + refresh pair is issued. Returns ErrUnauthorized if the token is
// unknown, revoked or expired.
func (s *Service) Refresh(ctx context.Context, input RefreshInput) (*AuthResult, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.tokens.GetByHash(ctx, s.jwt.HashToken(input.RefreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("auth.Refresh: %w", domain.ErrUnauthorized)
		}
		return nil, fmt.Errorf("auth.Refresh: %w", err)
	}

	user, err := s.users.GetByID(ctx, stored.UserID)
	if err != nil {
		return nil, fmt.Errorf("auth.Refresh load user: %w", err)
	}
	if !user.IsActive {
		return nil, fmt.Errorf("auth.Refresh inactive account: %w", domain.ErrUnauthorized)
	}

	// Rotation: revoke old, store new, in one transaction.
	var result *AuthResult
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.tokens.RevokeByID(txCtx, stored.ID); err != nil {
			return fmt.Errorf("revoke old token: %w", err)
		}

		result, err = s.issueTokens(txCtx, user)
		if err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("auth.Refresh: %w", err)
	}

	s.log.InfoContext(ctx, "tokens refreshed",
		slog.String("user_id", user.ID.String()))

	return result, nil
}

// Logout revokes the presented refresh token. Revoking an unknown or already
// revoked token is not an error; logout is idempotent.
func (s *Service) Logout(ctx context.Context, input RefreshInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	stored, err := s.tokens.GetByHash(ctx, s.jwt.HashToken(input.RefreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("auth.Logout: %w", err)
	}

	if err := s.tokens.RevokeByID(ctx, stored.ID); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}

	s.log.InfoContext(ctx, "user logged out",
		slog.String("user_id", stored.UserID.String()))

	return nil
}
