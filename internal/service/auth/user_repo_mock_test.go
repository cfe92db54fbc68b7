package auth

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/glossa-app/glossa-backend/internal/domain"
)

var _ userRepo = &userRepoMock{}

type userRepoMock struct {
	GetByIDFunc        func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmailFunc     func(ctx context.Context, email string) (*domain.User, error)
	CreateFunc         func(ctx context.Context, user *domain.User) (*domain.User, error)
	UpdatePasswordFunc func(ctx context.Context, id uuid.UUID, hashedPassword string) error
	SetVerifiedFunc    func(ctx context.Context, email string) error

	calls struct {
		GetByID []struct {
			ID uuid.UUID
		}
		GetByEmail []struct {
			Email string
		}
		Create []struct {
			User *domain.User
		}
		UpdatePassword []struct {
			ID             uuid.UUID
			HashedPassword string
		}
		SetVerified []struct {
			Email string
		}
	}
	lock sync.RWMutex
}

func (mock *userRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if mock.GetByIDFunc == nil {
		panic("userRepoMock.GetByIDFunc: method is nil but userRepo.GetByID was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByID = append(mock.calls.GetByID, struct{ ID uuid.UUID }{ID: id})
	mock.lock.Unlock()
	return mock.GetByIDFunc(ctx, id)
}

func (mock *userRepoMock) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if mock.GetByEmailFunc == nil {
		panic("userRepoMock.GetByEmailFunc: method is nil but userRepo.GetByEmail was just called")
	}
	mock.lock.Lock()
	mock.calls.GetByEmail = append(mock.calls.GetByEmail, struct{ Email string }{Email: email})
	mock.lock.Unlock()
	return mock.GetByEmailFunc(ctx, email)
}

func (mock *userRepoMock) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	if mock.CreateFunc == nil {
		panic("userRepoMock.CreateFunc: method is nil but userRepo.Create was just called")
	}
	mock.lock.Lock()
	mock.calls.Create = append(mock.calls.Create, struct{ User *domain.User }{User: user})
	mock.lock.Unlock()
	return mock.CreateFunc(ctx, user)
}

func (mock *userRepoMock) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	if mock.UpdatePasswordFunc == nil {
		panic("userRepoMock.UpdatePasswordFunc: method is nil but userRepo.UpdatePassword was just called")
	}
	mock.lock.Lock()
	mock.calls.UpdatePassword = append(mock.calls.UpdatePassword, struct {
		ID             uuid.UUID
		HashedPassword string
	}{ID: id, HashedPassword: hashedPassword})
	mock.lock.Unlock()
	return mock.UpdatePasswordFunc(ctx, id, hashedPassword)
}

func (mock *userRepoMock) SetVerified(ctx context.Context, email string) error {
	if mock.SetVerifiedFunc == nil {
		panic("userRepoMock.SetVerifiedFunc: method is nil but userRepo.SetVerified was just called")
	}
	mock.lock.Lock()
	mock.calls.SetVerified = append(mock.calls.SetVerified, struct{ Email string }{Email: email})
	mock.lock.Unlock()
	return mock.SetVerifiedFunc(ctx, email)
}

func (mock *userRepoMock) CreateCalls() []struct{ User *domain.User } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.Create
}

func (mock *userRepoMock) SetVerifiedCalls() []struct{ Email string } {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.SetVerified
}

func (mock *userRepoMock) UpdatePasswordCalls() []struct {
	ID             uuid.UUID
	HashedPassword string
} {
	mock.lock.RLock()
	defer mock.lock.RUnlock()
	return mock.calls.UpdatePassword
}
