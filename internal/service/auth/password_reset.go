package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/glossa-app/glossa-backend/internal/auth"
	"github.com/glossa-app/glossa-backend/internal/domain"
)

// ForgotPassword sends a password reset email. To avoid account enumeration
// it reports success even when the email is unknown.
func (s *Service) ForgotPassword(ctx context.Context, input EmailInput) error {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := input.Validate(); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("auth.ForgotPassword: %w", err)
	}
	// Unverified (still inactive) or deactivated accounts cannot reset a
	// password; verification comes first.
	if !user.IsActive {
		return nil
	}

	token, err := s.purposeTokens.Generate(user.Email, auth.PurposePasswordReset, s.cfg.ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("auth.ForgotPassword generate token: %w", err)
	}

	link := s.cfg.FrontendURL + "/reset-password?token=" + token
	body := fmt.Sprintf(
		"<p>A password reset was requested for your account.</p>"+
			"<p><a href=%q>Reset password</a></p>"+
			"<p>The link expires in %s. If you did not request this, ignore this message.</p>",
		link, s.cfg.ResetTokenTTL,
	)

	if err := s.mail.Send(ctx, user.Email, "Reset your password", body); err != nil {
		return fmt.Errorf("auth.ForgotPassword send email: %w", err)
	}

	s.log.InfoContext(ctx, "password reset requested",
		slog.String("user_id", user.ID.String()))

	return nil
}

// ResetPassword consumes a reset token, replaces the password and revokes all
// refresh tokens of the account. Returns ErrUnauthorized for an expired,
// tampered or wrong-purpose token.
func (s *Service) ResetPassword(ctx context.Context, input ResetPasswordInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	email, err := s.purposeTokens.Validate(input.Token, auth.PurposePasswordReset)
	if err != nil {
		return fmt.Errorf("auth.ResetPassword: %w", domain.ErrUnauthorized)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("auth.ResetPassword: %w", domain.ErrUnauthorized)
		}
		return fmt.Errorf("auth.ResetPassword: %w", err)
	}
	if !user.IsActive {
		return fmt.Errorf("auth.ResetPassword inactive account: %w", domain.ErrUnauthorized)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.PasswordHashCost)
	if err != nil {
		return fmt.Errorf("auth.ResetPassword hash password: %w", err)
	}

	// Password change invalidates every open session.
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.users.UpdatePassword(txCtx, user.ID, string(hash)); err != nil {
			return fmt.Errorf("update password: %w", err)
		}
		if err := s.tokens.RevokeAllByUser(txCtx, user.ID); err != nil {
			return fmt.Errorf("revoke sessions: %w", err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("auth.ResetPassword: %w", err)
	}

	s.log.InfoContext(ctx, "password reset completed",
		slog.String("user_id", user.ID.String()))

	return nil
}
