package auth

import "github.com/glossa-app/glossa-backend/internal/domain"

// AuthResult is returned by operations that establish a session.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}
