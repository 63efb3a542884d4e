package service

import (
	"context"
	"errors"
	"strings"

	"github.com/messagely/backend/internal/common/clock"
	"github.com/messagely/backend/internal/common/constants"
	commonerrors "github.com/messagely/backend/internal/common/errors"
	"github.com/messagely/backend/internal/common/logger"
	"github.com/messagely/backend/internal/message/domain"
	msgrepo "github.com/messagely/backend/internal/message/repository"
	"github.com/messagely/backend/internal/observability/metrics"
	userdomain "github.com/messagely/backend/internal/user/domain"
	userrepo "github.com/messagely/backend/internal/user/repository"
)

// Store owns message creation, retrieval and the read-state transition.
// It resolves participant identities through the user repository so that
// everything it returns is authorization-checkable.
type Store struct {
	repo  msgrepo.Repository
	users userrepo.Repository
	clock clock.Clock
	log   *logger.Logger
}

func NewStore(
	repo msgrepo.Repository,
	users userrepo.Repository,
	clk clock.Clock,
	log *logger.Logger,
) *Store {
	return &Store{
		repo:  repo,
		users: users,
		clock: clk,
		log:   log,
	}
}

type CreateInput struct {
	FromUsername string
	ToUsername   string
	Body         string
}

func (s *Store) Create(ctx context.Context, input CreateInput) (domain.Message, error) {
	if strings.TrimSpace(input.ToUsername) == "" {
		return domain.Message{}, commonerrors.ErrMissingRecipient
	}
	if strings.TrimSpace(input.Body) == "" {
		return domain.Message{}, commonerrors.ErrEmptyMessageBody
	}
	if len(input.Body) > constants.MaxMessageBodyLength {
		return domain.Message{}, commonerrors.ErrMessageTooLong
	}

	msg := domain.Message{
		FromUsername: input.FromUsername,
		ToUsername:   input.ToUsername,
		Body:         input.Body,
		SentAt:       s.clock.Now(),
	}

	created, err := s.repo.Create(ctx, msg)
	if err != nil {
		if errors.Is(err, commonerrors.ErrParticipantNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"from":   input.FromUsername,
				"to":     input.ToUsername,
				"action": "create_message_unknown_participant",
			}).Warn("create message failed: participant does not exist")
			return domain.Message{}, err
		}
		s.log.WithFields(ctx, logger.Fields{
			"from":   input.FromUsername,
			"to":     input.ToUsername,
			"action": "create_message_failed",
		}).Errorf("create message failed: %v", err)
		return domain.Message{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.MessagesSentTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"message_id": created.ID,
		"from":       created.FromUsername,
		"to":         created.ToUsername,
		"action":     "create_message_success",
	}).Info("message created")

	return created, nil
}

func (s *Store) Get(ctx context.Context, id int64) (domain.Detail, error) {
	msg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, commonerrors.ErrMessageNotFound) {
			return domain.Detail{}, err
		}
		s.log.WithFields(ctx, logger.Fields{
			"message_id": id,
			"action":     "get_message_failed",
		}).Errorf("get message failed: %v", err)
		return domain.Detail{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	fromUser, err := s.participant(ctx, msg.FromUsername)
	if err != nil {
		return domain.Detail{}, err
	}
	toUser, err := s.participant(ctx, msg.ToUsername)
	if err != nil {
		return domain.Detail{}, err
	}

	return domain.Detail{
		ID:       msg.ID,
		Body:     msg.Body,
		SentAt:   msg.SentAt,
		ReadAt:   msg.ReadAt,
		FromUser: fromUser,
		ToUser:   toUser,
	}, nil
}

// MarkRead transitions the message from unread to read. Re-marking an
// already read message is rejected so the first read timestamp stays
// auditable.
func (s *Store) MarkRead(ctx context.Context, id int64) (domain.ReadReceipt, error) {
	readAt, err := s.repo.MarkRead(ctx, id, s.clock.Now())
	if err != nil {
		if errors.Is(err, commonerrors.ErrMessageNotFound) || errors.Is(err, commonerrors.ErrMessageAlreadyRead) {
			return domain.ReadReceipt{}, err
		}
		s.log.WithFields(ctx, logger.Fields{
			"message_id": id,
			"action":     "mark_read_failed",
		}).Errorf("mark read failed: %v", err)
		return domain.ReadReceipt{}, commonerrors.ErrDatabaseError.WithCause(err)
	}

	metrics.MessagesReadTotal.Inc()
	s.log.WithFields(ctx, logger.Fields{
		"message_id": id,
		"action":     "mark_read_success",
	}).Info("message marked read")

	return domain.ReadReceipt{ID: id, ReadAt: readAt}, nil
}

func (s *Store) ListFrom(ctx context.Context, username string) ([]domain.SentItem, error) {
	msgs, err := s.repo.ListFrom(ctx, username)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "list_from_failed",
		}).Errorf("list sent messages failed: %v", err)
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}

	resolved := map[string]userdomain.Summary{}
	items := make([]domain.SentItem, 0, len(msgs))
	for _, msg := range msgs {
		toUser, err := s.cachedParticipant(ctx, resolved, msg.ToUsername)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.SentItem{
			ID:     msg.ID,
			Body:   msg.Body,
			SentAt: msg.SentAt,
			ReadAt: msg.ReadAt,
			ToUser: toUser,
		})
	}

	return items, nil
}

func (s *Store) ListTo(ctx context.Context, username string) ([]domain.ReceivedItem, error) {
	msgs, err := s.repo.ListTo(ctx, username)
	if err != nil {
		s.log.WithFields(ctx, logger.Fields{
			"username": username,
			"action":   "list_to_failed",
		}).Errorf("list received messages failed: %v", err)
		return nil, commonerrors.ErrDatabaseError.WithCause(err)
	}

	resolved := map[string]userdomain.Summary{}
	items := make([]domain.ReceivedItem, 0, len(msgs))
	for _, msg := range msgs {
		fromUser, err := s.cachedParticipant(ctx, resolved, msg.FromUsername)
		if err != nil {
			return nil, err
		}
		items = append(items, domain.ReceivedItem{
			ID:       msg.ID,
			Body:     msg.Body,
			SentAt:   msg.SentAt,
			ReadAt:   msg.ReadAt,
			FromUser: fromUser,
		})
	}

	return items, nil
}

// participant resolves a username referenced by a stored message. A missing
// row here means the FK invariant is broken, which is corruption, not a
// user-visible not-found.
func (s *Store) participant(ctx context.Context, username string) (userdomain.Summary, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, commonerrors.ErrUserNotFound) {
			s.log.WithFields(ctx, logger.Fields{
				"username": username,
				"action":   "participant_unresolvable",
			}).Critical("message references a user that does not exist")
			return userdomain.Summary{}, commonerrors.ErrBrokenParticipantLink.WithCause(err)
		}
		return userdomain.Summary{}, commonerrors.ErrDatabaseError.WithCause(err)
	}
	return user.Summary(), nil
}

func (s *Store) cachedParticipant(ctx context.Context, cache map[string]userdomain.Summary, username string) (userdomain.Summary, error) {
	if summary, ok := cache[username]; ok {
		return summary, nil
	}
	summary, err := s.participant(ctx, username)
	if err != nil {
		return userdomain.Summary{}, err
	}
	cache[username] = summary
	return summary, nil
}
