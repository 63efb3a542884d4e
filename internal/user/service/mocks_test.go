package service

import (
	"context"
	"time"

	commonerrors "github.com/messagely/backend/internal/common/errors"
	"github.com/messagely/backend/internal/user/domain"
)

type mockUserRepo struct {
	createFunc          func(ctx context.Context, user domain.User) error
	findByUsernameFunc  func(ctx context.Context, username string) (domain.User, error)
	updateLastLoginFunc func(ctx context.Context, username string, at time.Time) error
	listSummariesFunc   func(ctx context.Context) ([]domain.Summary, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (domain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return domain.User{}, commonerrors.ErrUserNotFound
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	if m.updateLastLoginFunc != nil {
		return m.updateLastLoginFunc(ctx, username, at)
	}
	return nil
}

func (m *mockUserRepo) ListSummaries(ctx context.Context) ([]domain.Summary, error) {
	if m.listSummariesFunc != nil {
		return m.listSummariesFunc(ctx)
	}
	return nil, nil
}

type mockHasher struct {
	hashFunc    func(password string) (string, error)
	compareFunc func(hash string, password string) error
}

func (m *mockHasher) Hash(password string) (string, error) {
	if m.hashFunc != nil {
		return m.hashFunc(password)
	}
	return "digest:" + password, nil
}

func (m *mockHasher) Compare(hash string, password string) error {
	if m.compareFunc != nil {
		return m.compareFunc(hash, password)
	}
	if hash == "digest:"+password {
		return nil
	}
	return commonerrors.ErrInternalError
}
