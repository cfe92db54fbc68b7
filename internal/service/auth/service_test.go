package auth

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/glossa-app/glossa-backend/internal/auth"
	"github.com/glossa-app/glossa-backend/internal/config"
	"github.com/glossa-app/glossa-backend/internal/domain"
)

// defaultCfg returns a config suitable for most tests.
func defaultCfg() config.AuthConfig {
	return config.AuthConfig{
		JWTSecret:        "test-secret-test-secret-test-secret",
		JWTIssuer:        "glossa-test",
		AccessTokenTTL:   time.Hour,
		RefreshTokenTTL:  30 * 24 * time.Hour,
		VerifyTokenTTL:   time.Hour,
		ResetTokenTTL:    time.Hour,
		FrontendURL:      "http://localhost:3000",
		PasswordHashCost: bcrypt.MinCost, // minimum cost for fast tests
	}
}

// hashPassword returns a bcrypt hash for testing.
func hashPassword(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func ptrString(s string) *string { return &s }

// passthroughTx runs the callback without a real transaction.
func passthroughTx() *txManagerMock {
	return &txManagerMock{
		RunInTxFunc: func(ctx context.Context, fn func(context.Context) error) error {
			return fn(ctx)
		},
	}
}

func staticJWT() *jwtManagerMock {
	return &jwtManagerMock{
		GenerateAccessTokenFunc: func(uuid.UUID, string) (string, error) {
			return "access_token_123", nil
		},
		GenerateRefreshTokenFunc: func() (string, string, error) {
			return "raw_refresh_123", "hash_refresh_123", nil
		},
		HashTokenFunc: func(raw string) string {
			return "hash:" + raw
		},
	}
}

// ---------------------------------------------------------------------------
// Register tests
// ---------------------------------------------------------------------------

func TestService_Register(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()

	usersMock := &userRepoMock{
		CreateFunc: func(ctx context.Context, user *domain.User) (*domain.User, error) {
			assert.Equal(t, "new@example.com", user.Email, "email must be normalized lowercase")
			assert.False(t, user.IsActive, "new accounts start inactive until verified")
			assert.False(t, user.IsVerified)
			created := *user
			created.ID = userID
			created.CreatedAt = time.Now()
			return &created, nil
		},
	}

	purposeMock := &purposeTokenManagerMock{
		GenerateFunc: func(email string, purpose auth.TokenPurpose, ttl time.Duration) (string, error) {
			assert.Equal(t, auth.PurposeEmailVerify, purpose)
			return "verify_token_123", nil
		},
	}

	mailMock := &mailerMock{
		SendFunc: func(ctx context.Context, to, subject, htmlBody string) error {
			return nil
		},
	}

	svc := NewService(slog.Default(), usersMock, &tokenRepoMock{}, passthroughTx(),
		staticJWT(), purposeMock, mailMock, defaultCfg())

	user, err := svc.Register(ctx, RegisterInput{
		Email:    "  NEW@Example.com ",
		Password: "password123",
		FullName: ptrString("New User"),
	})
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	sends := mailMock.SendCalls()
	require.Len(t, sends, 1)
	assert.Equal(t, "new@example.com", sends[0].To)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	t.Parallel()

	usersMock := &userRepoMock{
		CreateFunc: func(ctx context.Context, user *domain.User) (*domain.User, error) {
			return nil, domain.ErrAlreadyExists
		},
	}

	svc := NewService(slog.Default(), usersMock, &tokenRepoMock{}, passthroughTx(),
		staticJWT(), &purposeTokenManagerMock{}, &mailerMock{}, defaultCfg())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "taken@example.com",
		Password: "password123",
	})
	require.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestService_Register_MailFailureDoesNotFail(t *testing.T) {
	t.Parallel()

	usersMock := &userRepoMock{
		CreateFunc: func(ctx context.Context, user *domain.User) (*domain.User, error) {
			created := *user
			created.ID = uuid.New()
			return &created, nil
		},
	}
	purposeMock := &purposeTokenManagerMock{
		GenerateFunc: func(string, auth.TokenPurpose, time.Duration) (string, error) {
			return "verify_token_123", nil
		},
	}
	mailMock := &mailerMock{
		SendFunc: func(context.Context, string, string, string) error {
			return errors.New("relay down")
		},
	}

	svc := NewService(slog.Default(), usersMock, &tokenRepoMock{}, passthroughTx(),
		staticJWT(), purposeMock, mailMock, defaultCfg())

	_, err := svc.Register(context.Background(), RegisterInput{
		Email:    "new@example.com",
		Password: "password123",
	})
	require.NoError(t, err, "registration must survive a mail relay failure")
}

func TestService_Register_Validation(t *testing.T) {
	t.Parallel()

	svc := NewService(slog.Default(), &userRepoMock{}, &tokenRepoMock{}, passthroughTx(),
		staticJWT(), &purposeTokenManagerMock{}, &mailerMock{}, defaultCfg())

	cases := []struct {
		name  string
		input RegisterInput
	}{
		{"empty email", RegisterInput{Password: "password123"}},
		{"bad email", RegisterInput{Email: "not-an-email", Password: "password123"}},
		{"short password", RegisterInput{Email: "a@b.com", Password: "short"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.Register(context.Background(), tc.input)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

// ---------------------------------------------------------------------------
// Login tests
// ---------------------------------------------------------------------------

func TestService_Login(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	password := "password123"
	hash := hashPassword(t, password)

	usersMock := &userRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{
				ID:             userID,
				Email:          email,
				HashedPassword: hash,
				IsActive:       true,
				IsVerified:     true,
			}, nil
		},
	}
	tokensMock := &tokenRepoMock{
		CreateFunc: func(ctx context.Context, token *domain.RefreshToken) error {
			assert.Equal(t, userID, token.UserID)
			assert.Equal(t, "hash_refresh_123", token.TokenHash)
			return nil
		},
	}

	svc := NewService(slog.Default(), usersMock, tokensMock, passthroughTx(),
		staticJWT(), &purposeTokenManagerMock{}, &mailerMock{}, defaultCfg())

	result, err := svc.Login(ctx, LoginInput{Email: "User@example.com", Password: password})
	require.NoError(t, err)
	assert.Equal(t, "access_token_123", result.AccessToken)
	assert.Equal(t, "raw_refresh_123", result.RefreshToken)
}

func TestService_Login_Unauthorized(t *testing.T) {
	t.Parallel()

	hash := hashPassword(t, "correct-password")

	cases := []struct {
		name  string
		users *userRepoMock
		input LoginInput
	}{
		{
			name: "unknown email",
			users: &userRepoMock{
				GetByEmailFunc: func(context.Context, string) (*domain.User, error) {
					return nil, domain.ErrNotFound
				},
			},
			input: LoginInput{Email: "nobody@example.com", Password: "whatever1"},
		},
		{
			name: "wrong password",
			users: &userRepoMock{
				GetByEmailFunc: func(context.Context, string) (*domain.User, error) {
					return &domain.User{ID: uuid.New(), HashedPassword: hash, IsActive: true, IsVerified: true}, nil
				},
			},
			input: LoginInput{Email: "user@example.com", Password: "wrong-password"},
		},
		{
			name: "deactivated account",
			users: &userRepoMock{
				GetByEmailFunc: func(context.Context, string) (*domain.User, error) {
					return &domain.User{ID: uuid.New(), HashedPassword: hash, IsActive: false, IsVerified: true}, nil
				},
			},
			input: LoginInput{Email: "user@example.com", Password: "correct-password"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc := NewService(slog.Default(), tc.users, &tokenRepoMock{}, passthroughTx(),
				staticJWT(), &purposeTokenManagerMock{}, &mailerMock{}, defaultCfg())

			_, err := svc.Login(context.Background(), tc.input)
			require.ErrorIs(t, err, domain.ErrUnauthorized)
		})
	}
}

func TestService_Login_RejectedBeforeVerification(t *testing.T) {
	t.Parallel()

	password := "password123"
	hash := hashPassword(t, password)

	// The account exactly as Register persists it: correct credentials but
	// the verification token was never exchanged.
	usersMock := &userRepoMock{
		GetByEmailFunc: func(context.Context, string) (*domain.User, error) {
			return &domain.User{
				ID:             uuid.New(),
				Email:          "fresh@example.com",
				HashedPassword: hash,
				IsActive:       false,
				IsVerified:     false,
			}, nil
		},
	}
	tokensMock := &tokenRepoMock{}

	svc := NewService(slog.Default(), usersMock, tokensMock, passthroughTx(),
		staticJWT(), &purposeTokenManagerMock{}, &mailerMock{}, defaultCfg())

	result, err := svc.Login(context.Background(), LoginInput{
		Email:    "fresh@example.com",
		Password: password,
	})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
	assert.Nil(t, result)
	assert.Empty(t, tokensMock.CreateCalls(), "no refresh token may be stored for an unverified account")
}

// ---------------------------------------------------------------------------
// Refresh / Logout tests
// ---------------------------------------------------------------------------

func TestService_Refresh_RotatesToken(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	userID := uuid.New()
	storedID := uuid.New()

	tokensMock := &tokenRepoMock{
		GetByHashFunc: func(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
			assert.Equal(t, "hash:raw_refresh_old", tokenHash)
			return &domain.RefreshToken{
				ID:        storedID,
				UserID:    userID,
				TokenHash: tokenHash,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
		RevokeByIDFunc: func(ctx context.Context, id uuid.UUID) error {
			assert.Equal(t, storedID, id)
			return nil
		},
		CreateFunc: func(ctx context.Context, token *domain.RefreshToken) error {
			return nil
		},
	}
	usersMock := &userRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, IsActive: true, IsVerified: true}, nil
		},
	}

	svc := NewService(slog.Default(), usersMock, tokensMock, passthroughTx(),
		staticJWT(), &purposeTokenManagerMock{}, &mailerMock{}, defaultCfg())

	result, err := svc.Refresh(ctx, RefreshInput{RefreshToken: "raw_refresh_old"})
	require.NoError(t, err)
	assert.Equal(t, "raw_refresh_123", result.RefreshToken)
	assert.Len(t, tokensMock.RevokeByIDCalls(), 1, "old token must be revoked")
	assert.Len(t, tokensMock.CreateCalls(), 1, "new token must be stored")
}

func TestService_Refresh_UnknownToken(t *testing.T) {
	t.Parallel()

	tokensMock := &tokenRepoMock{
		GetByHashFunc: func(context.Context, string) (*domain.RefreshToken, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := NewService(slog.Default(), &userRepoMock{}, tokensMock, passthroughTx(),
		staticJWT(), &purposeTokenManagerMock{}, &mailerMock{}, defaultCfg())

	_, err := svc.Refresh(context.Background(), RefreshInput{RefreshToken: "expired-or-bogus"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_Refresh_InactiveAccount(t *testing.T) {
	t.Parallel()

	tokensMock := &tokenRepoMock{
		GetByHashFunc: func(ctx context.Context, tokenHash string) (*domain.RefreshToken, error) {
			return &domain.RefreshToken{
				ID:        uuid.New(),
				UserID:    uuid.New(),
				TokenHash: tokenHash,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
	}
	usersMock := &userRepoMock{
		GetByIDFunc: func(ctx context.Context, id uuid.UUID) (*domain.User, error) {
			return &domain.User{ID: id, IsActive: false}, nil
		},
	}

	svc := NewService(slog.Default(), usersMock, tokensMock, passthroughTx(),
		staticJWT(), &purposeTokenManagerMock{}, &mailerMock{}, defaultCfg())

	_, err := svc.Refresh(context.Background(), RefreshInput{RefreshToken: "raw_refresh_old"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_Logout_Idempotent(t *testing.T) {
	t.Parallel()

	tokensMock := &tokenRepoMock{
		GetByHashFunc: func(context.Context, string) (*domain.RefreshToken, error) {
			return nil, domain.ErrNotFound
		},
	}

	svc := NewService(slog.Default(), &userRepoMock{}, tokensMock, passthroughTx(),
		staticJWT(), &purposeTokenManagerMock{}, &mailerMock{}, defaultCfg())

	err := svc.Logout(context.Background(), RefreshInput{RefreshToken: "already-gone"})
	require.NoError(t, err, "logout of an unknown token is a no-op")
}

// ---------------------------------------------------------------------------
// Email verification tests
// ---------------------------------------------------------------------------

func TestService_VerifyEmail(t *testing.T) {
	t.Parallel()

	usersMock := &userRepoMock{
		SetVerifiedFunc: func(ctx context.Context, email string) error {
			return nil
		},
	}
	purposeMock := &purposeTokenManagerMock{
		ValidateFunc: func(token string, purpose auth.TokenPurpose) (string, error) {
			assert.Equal(t, auth.PurposeEmailVerify, purpose)
			return "user@example.com", nil
		},
	}

	svc := NewService(slog.Default(), usersMock, &tokenRepoMock{}, passthroughTx(),
		staticJWT(), purposeMock, &mailerMock{}, defaultCfg())

	err := svc.VerifyEmail(context.Background(), VerifyInput{Token: "good-token"})
	require.NoError(t, err)

	verified := usersMock.SetVerifiedCalls()
	require.Len(t, verified, 1)
	assert.Equal(t, "user@example.com", verified[0].Email)
}

func TestService_VerifyEmail_BadToken(t *testing.T) {
	t.Parallel()

	purposeMock := &purposeTokenManagerMock{
		ValidateFunc: func(string, auth.TokenPurpose) (string, error) {
			return "", errors.New("token is expired")
		},
	}

	svc := NewService(slog.Default(), &userRepoMock{}, &tokenRepoMock{}, passthroughTx(),
		staticJWT(), purposeMock, &mailerMock{}, defaultCfg())

	err := svc.VerifyEmail(context.Background(), VerifyInput{Token: "tampered"})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_ResendVerification_UnverifiedAccount(t *testing.T) {
	t.Parallel()

	// Unverified accounts are still inactive; resend must work for exactly
	// those accounts.
	usersMock := &userRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{
				ID:         uuid.New(),
				Email:      email,
				IsActive:   false,
				IsVerified: false,
			}, nil
		},
	}
	purposeMock := &purposeTokenManagerMock{
		GenerateFunc: func(email string, purpose auth.TokenPurpose, ttl time.Duration) (string, error) {
			assert.Equal(t, auth.PurposeEmailVerify, purpose)
			return "verify_token_456", nil
		},
	}
	mailMock := &mailerMock{
		SendFunc: func(context.Context, string, string, string) error {
			return nil
		},
	}

	svc := NewService(slog.Default(), usersMock, &tokenRepoMock{}, passthroughTx(),
		staticJWT(), purposeMock, mailMock, defaultCfg())

	err := svc.ResendVerification(context.Background(), EmailInput{Email: "fresh@example.com"})
	require.NoError(t, err)

	sends := mailMock.SendCalls()
	require.Len(t, sends, 1)
	assert.Equal(t, "fresh@example.com", sends[0].To)
}

func TestService_ResendVerification_AlreadyVerifiedSilent(t *testing.T) {
	t.Parallel()

	usersMock := &userRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: uuid.New(), Email: email, IsActive: true, IsVerified: true}, nil
		},
	}
	mailMock := &mailerMock{
		SendFunc: func(context.Context, string, string, string) error {
			return nil
		},
	}

	svc := NewService(slog.Default(), usersMock, &tokenRepoMock{}, passthroughTx(),
		staticJWT(), &purposeTokenManagerMock{}, mailMock, defaultCfg())

	err := svc.ResendVerification(context.Background(), EmailInput{Email: "done@example.com"})
	require.NoError(t, err)
	assert.Empty(t, mailMock.SendCalls(), "verified accounts get no resend mail")
}

// ---------------------------------------------------------------------------
// Password reset tests
// ---------------------------------------------------------------------------

func TestService_ForgotPassword_UnknownEmailSilent(t *testing.T) {
	t.Parallel()

	usersMock := &userRepoMock{
		GetByEmailFunc: func(context.Context, string) (*domain.User, error) {
			return nil, domain.ErrNotFound
		},
	}
	mailMock := &mailerMock{
		SendFunc: func(context.Context, string, string, string) error {
			return nil
		},
	}

	svc := NewService(slog.Default(), usersMock, &tokenRepoMock{}, passthroughTx(),
		staticJWT(), &purposeTokenManagerMock{}, mailMock, defaultCfg())

	err := svc.ForgotPassword(context.Background(), EmailInput{Email: "nobody@example.com"})
	require.NoError(t, err, "unknown emails must not be revealed")
	assert.Empty(t, mailMock.SendCalls())
}

func TestService_ResetPassword(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	usersMock := &userRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: userID, Email: email, IsActive: true, IsVerified: true}, nil
		},
		UpdatePasswordFunc: func(ctx context.Context, id uuid.UUID, hashedPassword string) error {
			assert.Equal(t, userID, id)
			assert.NotEqual(t, "new-password-123", hashedPassword, "password must be stored hashed")
			return nil
		},
	}
	tokensMock := &tokenRepoMock{
		RevokeAllByUserFunc: func(ctx context.Context, id uuid.UUID) error {
			return nil
		},
	}
	purposeMock := &purposeTokenManagerMock{
		ValidateFunc: func(token string, purpose auth.TokenPurpose) (string, error) {
			assert.Equal(t, auth.PurposePasswordReset, purpose)
			return "user@example.com", nil
		},
	}

	svc := NewService(slog.Default(), usersMock, tokensMock, passthroughTx(),
		staticJWT(), purposeMock, &mailerMock{}, defaultCfg())

	err := svc.ResetPassword(context.Background(), ResetPasswordInput{
		Token:    "good-token",
		Password: "new-password-123",
	})
	require.NoError(t, err)

	assert.Len(t, usersMock.UpdatePasswordCalls(), 1)
	calls := tokensMock.RevokeAllByUserCalls()
	require.Len(t, calls, 1, "open sessions must be revoked")
	assert.Equal(t, userID, calls[0].UserID)
}

func TestService_ResetPassword_WrongPurposeToken(t *testing.T) {
	t.Parallel()

	purposeMock := &purposeTokenManagerMock{
		ValidateFunc: func(string, auth.TokenPurpose) (string, error) {
			return "", errors.New("token purpose mismatch")
		},
	}

	svc := NewService(slog.Default(), &userRepoMock{}, &tokenRepoMock{}, passthroughTx(),
		staticJWT(), purposeMock, &mailerMock{}, defaultCfg())

	err := svc.ResetPassword(context.Background(), ResetPasswordInput{
		Token:    "verify-token-used-as-reset",
		Password: "new-password-123",
	})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestService_ResetPassword_InactiveAccount(t *testing.T) {
	t.Parallel()

	usersMock := &userRepoMock{
		GetByEmailFunc: func(ctx context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: uuid.New(), Email: email, IsActive: false}, nil
		},
	}
	purposeMock := &purposeTokenManagerMock{
		ValidateFunc: func(string, auth.TokenPurpose) (string, error) {
			return "user@example.com", nil
		},
	}

	svc := NewService(slog.Default(), usersMock, &tokenRepoMock{}, passthroughTx(),
		staticJWT(), purposeMock, &mailerMock{}, defaultCfg())

	err := svc.ResetPassword(context.Background(), ResetPasswordInput{
		Token:    "good-token",
		Password: "new-password-123",
	})
	require.ErrorIs(t, err, domain.ErrUnauthorized)
}
