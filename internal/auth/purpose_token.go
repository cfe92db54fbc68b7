package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenPurpose namespaces single-purpose signed tokens. A token issued for
// one purpose never validates under another, so an email-verification token
// cannot be replayed as a password-reset token.
type TokenPurpose string

const (
	PurposeEmailVerify   TokenPurpose = "email-verify"
	PurposePasswordReset TokenPurpose = "password-reset"
)

// PurposeTokenManager issues and validates time-limited HS256 tokens that
// embed an email address and a purpose claim. These back the email
// verification and password reset links sent to users.
type PurposeTokenManager struct {
	secret []byte
	issuer string
}

// NewPurposeTokenManager creates a PurposeTokenManager. The secret may be
// shared with the access-token manager; the purpose claim keeps the
// namespaces separate.
func NewPurposeTokenManager(secret string, issuer string) *PurposeTokenManager {
	return &PurposeTokenManager{secret: []byte(secret), issuer: issuer}
}

type purposeClaims struct {
	jwt.RegisteredClaims
	Email   string `json:"email"`
	Purpose string `json:"purpose"`
}

// Generate creates a signed token for the given email and purpose, valid for ttl.
func (m *PurposeTokenManager) Generate(email string, purpose TokenPurpose, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := purposeClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email:   email,
		Purpose: string(purpose),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", purpose, err)
	}

	return signed, nil
}

// Validate parses the token and returns the embedded email. It fails on
// expiry, tampering, or a purpose mismatch.
func (m *PurposeTokenManager) Validate(tokenString string, purpose TokenPurpose) (string, error) {
	if tokenString == "" {
		return "", fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &purposeClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*purposeClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid token claims")
	}
	if claims.Issuer != m.issuer {
		return "", fmt.Errorf("invalid issuer")
	}
	if claims.Purpose != string(purpose) {
		return "", fmt.Errorf("token purpose mismatch")
	}
	if claims.Email == "" {
		return "", fmt.Errorf("token has no email")
	}

	return claims.Email, nil
}
