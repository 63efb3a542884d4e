package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"

	"github.com/messagely/backend/internal/common/clock"
	"github.com/messagely/backend/internal/common/constants"
	commoncrypto "github.com/messagely/backend/internal/common/crypto"
	commonerrors "github.com/messagely/backend/internal/common/errors"
	"github.com/messagely/backend/internal/common/logger"
	"github.com/messagely/backend/internal/observability/metrics"
	"github.com/messagely/backend/internal/user/domain"
	userrepo "github.com/messagely/backend/internal/user/repository"
)

var validate = validator.New()

// Directory owns user identity, credential verification and login
// bookkeeping. It is the only mutator of user rows.
type Directory struct {
	repo   userrepo.Repository
	hasher commoncrypto.PasswordHasher
	clock  clock.Clock
	log    *logger.Logger
}

func NewDirectory(
	repo userrepo.Repository,
	hasher commoncrypto.PasswordHasher,
	clk clock.Clock,
	log *logger.Logger,
) *Directory {
	return &Directory{
		repo:   repo,
		hasher: hasher,
		clock:  clk,
		log:    log,
	}
}

type RegisterInput struct {
	Username  string `validate:"required"`
	Password  string `validate:"required"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Phone     string `validate:"required"`
}

func (d *Directory) Register(ctx context.Context, input RegisterInput) (domain.User, error) {
	if err := validate.Struct(input); err != nil {
		d.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warnf("register validation failed: %v", err)
		return domain.User{}, commonerrors.ErrMissingUserFields.WithCause(err)
	}
	if len(input.Username) > constants.UsernameMaxLength {
		d.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_validation_failed",
		}).Warn("register validation failed: username too long")
		return domain.User{}, commonerrors.ErrUsernameTooLong
	}

	digest, err := d.hasher.Hash(input.Password)
	if err != nil {
		d.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_hash_failed",
		}).Errorf("register failed: password hash error: %v", err)
		return domain.User{}, commonerrors.ErrInternalError.WithCause(err)
	}

	now := d.clock.Now()
	user := domain.User{
		Username:       input.Username,
		PasswordDigest: digest,
		FirstName:      input.FirstName,
		LastName:       input.LastName,
		Phone:          input.Phone,
		JoinedAt:       now,
		LastLoginAt:    now,
	}

	if err := d.repo.Create(ctx, user); err != nil {
		if errors.Is(err, commonerrors.ErrUsernameAlreadyExists) {
			d.log.WithFields(ctx, logger.Fields{
				"username": input.Username,
				"action":   "register_username_exists",
			}).Warn("register failed: already exists")
			return domain.User{}, err
		}
		d.log.WithFields(ctx, logger.Fields{
			"username": input.Username,
			"action":   "register_create_failed",
		}).Errorf("register failed: %v", err)
		return domain.User{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.UsersRegisteredTotal.Inc()
	d.log.WithFields(ctx, logger.Fields{
		"username": user.Username,
		"action":   "register_success",
	}).Info("register success")

	return user, nil
}

// Authenticate reports whether the password matches the stored digest.
// An unknown username is not an error: the answer is simply false.
func (d *Directory) Authenticate(ctx context.Context, username, password string) (bool, error) {
	user, err := d.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			metrics.LoginsTotal.WithLabelValues("unknown_user").Inc()
			return false, nil
		}
		d.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "authenticate_fetch_failed",
		}).Errorf("authenticate failed: %v", err)
		return false, commonerrors.ErrDatabaseError.WithCause(err)
	}

	if err := d.hasher.Compare(user.PasswordDigest, password); err != nil {
		metrics.LoginsTotal.WithLabelValues("invalid_password").Inc()
		return false, nil
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	return true, nil
}

func (d *Directory) TouchLogin(ctx context.Context, username string) error {
	if err := d.repo.UpdateLastLogin(ctx, username, d.clock.Now()); err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			return err
		}
		d.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "touch_login_failed",
		}).Errorf("touch login failed: %v", err)
		return commonerrors.ErrDatabaseError.WithCause(err)
	}
	return nil
}

func (d *Directory) List(ctx context.Context) ([]domain.Summary, error) {
	summaries, err := d.repo.ListSummaries(ctx)
	if err != nil {
		d.log.WithFields(ctx, logger.Fields{
			"action": "list_users_failed",
		}).Errorf("list users failed: %v", err)
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return summaries, nil
}

func (d *Directory) Get(ctx context.Context, username string) (domain.Profile, error) {
	user, err := d.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			return domain.Profile{}, err
		}
		d.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "get_user_failed",
		}).Errorf("get user failed: %v", err)
		return domain.Profile{}, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return user.Profile(), nil
}
