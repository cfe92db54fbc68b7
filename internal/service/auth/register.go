package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/glossa-app/glossa-backend/internal/domain"
)

// Register creates a new user with email + password authentication and sends
// a verification email. Returns ErrAlreadyExists if the email is taken.
// The new account starts inactive; exchanging the verification token
// activates it, so an unverified account cannot log in.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))

	if err := input.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cfg.PasswordHashCost)
	if err != nil {
		return nil, fmt.Errorf("auth.Register hash password: %w", err)
	}

	// Email uniqueness is enforced by the DB constraint.
	user, err := s.users.Create(ctx, &domain.User{
		Email:          input.Email,
		HashedPassword: string(hash),
		FullName:       input.FullName,
	})
	if err != nil {
		if errors.Is(err, domain.ErrAlreadyExists) {
			return nil, fmt.Errorf("auth.Register: %w", domain.ErrAlreadyExists)
		}
		return nil, fmt.Errorf("auth.Register: %w", err)
	}

	// Verification mail is best-effort: a relay hiccup must not lose the
	// registration, the user can request a resend.
	if err := s.sendVerificationEmail(ctx, user.Email); err != nil {
		s.log.WarnContext(ctx, "verification email failed",
			slog.String("user_id", user.ID.String()),
			slog.String("error", err.Error()))
	}

	s.log.InfoContext(ctx, "user registered",
		slog.String("user_id", user.ID.String()))

	return user, nil
}
