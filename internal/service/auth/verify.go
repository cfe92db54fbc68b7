package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/glossa-app/glossa-backend/internal/auth"
	"github.com/glossa-app/glossa-backend/internal/domain"
)

// VerifyEmail consumes a verification token, marks the account verified and
// activates it. Returns ErrUnauthorized for an expired, tampered or
// wrong-purpose token.
func (s *Service) VerifyEmail(ctx context.Context, input VerifyInput) error {
	if err := input.Validate(); err != nil {
		return err
	}

	email, err := s.purposeTokens.Validate(input.Token, auth.PurposeEmailVerify)
	if err != nil {
		return fmt.Errorf("auth.VerifyEmail: %w", domain.ErrUnauthorized)
	}

	if err := s.users.SetVerified(ctx, email); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("auth.VerifyEmail: %w", domain.ErrUnauthorized)
		}
		return fmt.Errorf("auth.VerifyEmail: %w", err)
	}

	s.log.InfoContext(ctx, "email verified", slog.String("email", email))

	return nil
}

// ResendVerification sends a fresh verification email. To avoid account
// enumeration it reports success even when the email is unknown or the
// account is already verified.
func (s *Service) ResendVerification(ctx context.Context, input EmailInput) error {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := input.Validate(); err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("auth.ResendVerification: %w", err)
	}
	// Keyed off verification state, not IsActive: unverified accounts are
	// inactive and are exactly the ones that need a resend.
	if user.IsVerified {
		return nil
	}

	if err := s.sendVerificationEmail(ctx, user.Email); err != nil {
		return fmt.Errorf("auth.ResendVerification: %w", err)
	}

	return nil
}

// sendVerificationEmail issues a verification token and mails the link.
func (s *Service) sendVerificationEmail(ctx context.Context, email string) error {
	token, err := s.purposeTokens.Generate(email, auth.PurposeEmailVerify, s.cfg.VerifyTokenTTL)
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}

	link := s.cfg.FrontendURL + "/verify-email?token=" + token
	body := fmt.Sprintf(
		"<p>Welcome! Please confirm your email address.</p>"+
			"<p><a href=%q>Verify email</a></p>"+
			"<p>The link expires in %s. If you did not sign up, ignore this message.</p>",
		link, s.cfg.VerifyTokenTTL,
	)

	if err := s.mail.Send(ctx, email, "Confirm your email", body); err != nil {
		return fmt.Errorf("send verification email: %w", err)
	}

	return nil
}
