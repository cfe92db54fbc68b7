package auth

import (
	"strings"

	"github.com/glossa-app/glossa-backend/internal/domain"
)

const (
	maxEmailLen    = 320
	minPasswordLen = 8
	maxPasswordLen = 128
)

func validateEmail(email string, errs []domain.FieldError) []domain.FieldError {
	switch {
	case email == "":
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	case len(email) > maxEmailLen:
		errs = append(errs, domain.FieldError{Field: "email", Message: "too long"})
	case !strings.Contains(email, "@"):
		errs = append(errs, domain.FieldError{Field: "email", Message: "invalid format"})
	}
	return errs
}

func validatePassword(password string, errs []domain.FieldError) []domain.FieldError {
	switch {
	case password == "":
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	case len(password) < minPasswordLen:
		errs = append(errs, domain.FieldError{Field: "password", Message: "too short"})
	case len(password) > maxPasswordLen:
		errs = append(errs, domain.FieldError{Field: "password", Message: "too long"})
	}
	return errs
}

// RegisterInput holds parameters for registration.
type RegisterInput struct {
	Email    string
	Password string
	FullName *string
}

// Validate validates the registration input.
func (i RegisterInput) Validate() error {
	var errs []domain.FieldError
	errs = validateEmail(i.Email, errs)
	errs = validatePassword(i.Password, errs)

	if i.FullName != nil && len(*i.FullName) > 255 {
		errs = append(errs, domain.FieldError{Field: "full_name", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// LoginInput holds parameters for the password login operation.
type LoginInput struct {
	Email    string
	Password string
}

// Validate validates the login input.
func (i LoginInput) Validate() error {
	var errs []domain.FieldError

	if i.Email == "" {
		errs = append(errs, domain.FieldError{Field: "email", Message: "required"})
	}
	if i.Password == "" {
		errs = append(errs, domain.FieldError{Field: "password", Message: "required"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// RefreshInput holds parameters for token refresh and logout operations.
type RefreshInput struct {
	RefreshToken string
}

// Validate validates the refresh input.
func (i RefreshInput) Validate() error {
	var errs []domain.FieldError

	if i.RefreshToken == "" {
		errs = append(errs, domain.FieldError{Field: "refresh_token", Message: "required"})
	} else if len(i.RefreshToken) > 512 {
		errs = append(errs, domain.FieldError{Field: "refresh_token", Message: "too long"})
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// EmailInput holds parameters for operations addressed to an email
// (verification resend, password reset request).
type EmailInput struct {
	Email string
}

// Validate validates the email input.
func (i EmailInput) Validate() error {
	var errs []domain.FieldError
	errs = validateEmail(i.Email, errs)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// ResetPasswordInput holds parameters for completing a password reset.
type ResetPasswordInput struct {
	Token    string
	Password string
}

// Validate validates the reset input.
func (i ResetPasswordInput) Validate() error {
	var errs []domain.FieldError

	if i.Token == "" {
		errs = append(errs, domain.FieldError{Field: "token", Message: "required"})
	}
	errs = validatePassword(i.Password, errs)

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// VerifyInput holds parameters for completing email verification.
type VerifyInput struct {
	Token string
}

// Validate validates the verify input.
func (i VerifyInput) Validate() error {
	if i.Token == "" {
		return domain.NewValidationError("token", "required")
	}
	return nil
}
