package service

import (
	"context"
	"time"

	commonerrors "github.com/messagely/backend/internal/common/errors"
	"github.com/messagely/backend/internal/message/domain"
	userdomain "github.com/messagely/backend/internal/user/domain"
)

type mockMessageRepo struct {
	createFunc   func(ctx context.Context, msg domain.Message) (domain.Message, error)
	findByIDFunc func(ctx context.Context, id int64) (domain.Message, error)
	markReadFunc func(ctx context.Context, id int64, at time.Time) (time.Time, error)
	listFromFunc func(ctx context.Context, username string) ([]domain.Message, error)
	listToFunc   func(ctx context.Context, username string) ([]domain.Message, error)
}

func (m *mockMessageRepo) Create(ctx context.Context, msg domain.Message) (domain.Message, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, msg)
	}
	msg.ID = 1
	return msg, nil
}

func (m *mockMessageRepo) FindByID(ctx context.Context, id int64) (domain.Message, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return domain.Message{}, commonerrors.ErrMessageNotFound
}

func (m *mockMessageRepo) MarkRead(ctx context.Context, id int64, at time.Time) (time.Time, error) {
	if m.markReadFunc != nil {
		return m.markReadFunc(ctx, id, at)
	}
	return time.Time{}, commonerrors.ErrMessageNotFound
}

func (m *mockMessageRepo) ListFrom(ctx context.Context, username string) ([]domain.Message, error) {
	if m.listFromFunc != nil {
		return m.listFromFunc(ctx, username)
	}
	return nil, nil
}

func (m *mockMessageRepo) ListTo(ctx context.Context, username string) ([]domain.Message, error) {
	if m.listToFunc != nil {
		return m.listToFunc(ctx, username)
	}
	return nil, nil
}

type mockUserRepo struct {
	createFunc          func(ctx context.Context, user userdomain.User) error
	findByUsernameFunc  func(ctx context.Context, username string) (userdomain.User, error)
	updateLastLoginFunc func(ctx context.Context, username string, at time.Time) error
	listSummariesFunc   func(ctx context.Context) ([]userdomain.Summary, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user userdomain.User) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, user)
	}
	return nil
}

func (m *mockUserRepo) FindByUsername(ctx context.Context, username string) (userdomain.User, error) {
	if m.findByUsernameFunc != nil {
		return m.findByUsernameFunc(ctx, username)
	}
	return userdomain.User{}, commonerrors.ErrUserNotFound
}

func (m *mockUserRepo) UpdateLastLogin(ctx context.Context, username string, at time.Time) error {
	if m.updateLastLoginFunc != nil {
		return m.updateLastLoginFunc(ctx, username, at)
	}
	return nil
}

func (m *mockUserRepo) ListSummaries(ctx context.Context) ([]userdomain.Summary, error) {
	if m.listSummariesFunc != nil {
		return m.listSummariesFunc(ctx)
	}
	return nil, nil
}

func knownUsers(usernames ...string) func(ctx context.Context, username string) (userdomain.User, error) {
	return func(ctx context.Context, username string) (userdomain.User, error) {
		for _, u := range usernames {
			if u == username {
				return userdomain.User{
					Username:  username,
					FirstName: "First-" + username,
					LastName:  "Last-" + username,
					Phone:     "+1555" + username,
				}, nil
			}
		}
		return userdomain.User{}, commonerrors.ErrUserNotFound
	}
}
