// Package user implements profile operations for the authenticated user.
package user

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/glossa-app/glossa-backend/internal/domain"
)

// userRepo defines the user repository interface needed by the user service.
type userRepo interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	Update(ctx context.Context, id uuid.UUID, fullName *string) (*domain.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error
}

// Service implements user profile operations.
type Service struct {
	log        *slog.Logger
	users      userRepo
	bcryptCost int
}

// NewService creates a new user service instance.
func NewService(logger *slog.Logger, users userRepo, bcryptCost int) *Service {
	return &Service{
		log:        logger.With("service", "user"),
		users:      users,
		bcryptCost: bcryptCost,
	}
}

// Get returns the user's own profile.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user.Get: %w", err)
	}
	return u, nil
}

// UpdateInput holds the mutable profile fields. Nil fields are left unchanged.
type UpdateInput struct {
	FullName *string
	Password *string
}

// Validate validates the update input.
func (i UpdateInput) Validate() error {
	var errs []domain.FieldError

	if i.FullName == nil && i.Password == nil {
		errs = append(errs, domain.FieldError{Field: "body", Message: "no fields to update"})
	}
	if i.FullName != nil && len(*i.FullName) > 255 {
		errs = append(errs, domain.FieldError{Field: "full_name", Message: "too long"})
	}
	if i.Password != nil {
		if len(*i.Password) < 8 {
			errs = append(errs, domain.FieldError{Field: "password", Message: "too short"})
		} else if len(*i.Password) > 128 {
			errs = append(errs, domain.FieldError{Field: "password", Message: "too long"})
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Update patches the user's own profile and returns the updated record.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*domain.User, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	if input.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), s.bcryptCost)
		if err != nil {
			return nil, fmt.Errorf("user.Update hash password: %w", err)
		}
		if err := s.users.UpdatePassword(ctx, id, string(hash)); err != nil {
			return nil, fmt.Errorf("user.Update: %w", err)
		}
	}

	if input.FullName != nil {
		u, err := s.users.Update(ctx, id, input.FullName)
		if err != nil {
			return nil, fmt.Errorf("user.Update: %w", err)
		}

		s.log.InfoContext(ctx, "profile updated", slog.String("user_id", id.String()))
		return u, nil
	}

	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("user.Update reload: %w", err)
	}

	s.log.InfoContext(ctx, "profile updated", slog.String("user_id", id.String()))
	return u, nil
}
