package auth

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glossa-app/glossa-backend/internal/auth"
)

var (
	_ txManager           = &txManagerMock{}
	_ jwtManager          = &jwtManagerMock{}
	_ purposeTokenManager = &purposeTokenManagerMock{}
	_ mailer              = &mailerMock{}
)

type txManagerMock struct {
	RunInTxFunc func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (mock *txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if mock.RunInTxFunc == nil {
		panic("txManagerMock.RunInTxFunc: method is nil but txManager.RunInTx was just called")
	}
	return mock.RunInTxFunc(ctx, fn)
}

type jwtManagerMock struct {
	GenerateAccessTokenFunc  func(userID uuid.UUID, role string) (string, error)
	GenerateRefreshTokenFunc func() (string, string, error)
	HashTokenFunc            func(raw string) string
}

func (mock *jwtManagerMock) GenerateAccessToken(userID uuid.UUID, role string) (string, error) {
	if mock.GenerateAccessTokenFunc == nil {
		panic("jwtManagerMock.GenerateAccessTokenFunc: method is nil but jwtManager.GenerateAccessToken was just called")
	}
	return mock.GenerateAccessTokenFunc(userID, role)
}

func (mock *jwtManagerMock) GenerateRefreshToken() (string, string, error) {
	if mock.GenerateRefreshTokenFunc == nil {
		panic("jwtManagerMock.GenerateRefreshTokenFunc: method is nil but jwtManager.GenerateRefreshToken was just called")
	}
	return mock.GenerateRefreshTokenFunc()
}

func (mock *jwtManagerMock) HashToken(raw string) string {
	if mock.HashTokenFunc == nil {
		panic("jwtManagerMock.HashTokenFunc: method is nil but jwtManager.HashToken was just called")
	}
	return mock.HashTokenFunc(raw)
}

type purposeTokenManagerMock struct {
	GenerateFunc func(email string, purpose auth.TokenPurpose, ttl time.Duration) (string, error)
	ValidateFunc func(token string, purpose auth.TokenPurpose) (string, error)
}

func (mock *purposeTokenManagerMock) Generate(email string, purpose auth.TokenPurpose, ttl time.Duration) (string, error) {
	if mock.GenerateFunc == nil {
		panic("purposeTokenManagerMock.GenerateFunc: method is nil but purposeTokenManager.Generate was just called")
	}
	return mock.GenerateFunc(email, purpose, ttl)
}

func (mock *purposeTokenManagerMock) Validate(token string, purpose auth.TokenPurpose) (string, error) {
	if mock.ValidateFunc == nil {
		panic("purposeTokenManagerMock.ValidateFunc: method is nil but purposeTokenManager.Validate was just called")
	}
	return mock.ValidateFunc(token, purpose)
}

type mailerMock struct {
	SendFunc func(ctx context.Context, to, subject, htmlBody string) error

	calls struct {
		Send []struct {
			To      string
			Subject string
		}
	}
	lock sync.RWMutex
}

func (mock *mailerMock) Send(ctx context.Context, to, subject, htmlBody string) error {
	if mock.SendFunc == nil {
		panic("mailerMock.SendFunc: method is nil but mailer.Send was just called")
	}
	mock.lock.Lock()
	mock.calls.Send = append(mock.calls.Send, struct {
		To      string
		Subject string
	}{To: to, Subject: subject})
	mock.lock.Unlock()
	return mock.SendFunc(ctx, to, subject, htmlBody)
}

func (mock *mailerMock) SendCalls() []struct {
	To      string
	Subject string
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Send
}
