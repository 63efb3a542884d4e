package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/messagely/backend/internal/common/db"
	commonerrors "github.com/messagely/backend/internal/common/errors"
	"github.com/messagely/backend/internal/message/domain"
)

type Repository interface {
	Create(ctx context.Context, msg domain.Message) (domain.Message, error)
	FindByID(ctx context.Context, id int64) (domain.Message, error)
	MarkRead(ctx context.Context, id int64, at time.Time) (time.Time, error)
	ListFrom(ctx context.Context, username string) ([]domain.Message, error)
	ListTo(ctx context.Context, username string) ([]domain.Message, error)
}

type PgRepository struct {
	pool *pgxpool.Pool
}

func NewPgRepository(pool *pgxpool.Pool) *PgRepository {
	return &PgRepository{pool: pool}
}

func (r *PgRepository) Create(ctx context.Context, msg domain.Message) (domain.Message, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`INSERT INTO messages (from_username, to_username, body, sent_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`,
		msg.FromUsername,
		msg.ToUsername,
		msg.Body,
		msg.SentAt,
	)

	err := row.Scan(&msg.ID)
	if err != nil && db.IsForeignKeyViolation(err) {
		// One of the participants has no user row. Surfaced distinctly from
		// a generic storage failure.
		return domain.Message{}, commonerrors.ErrParticipantNotFound.WithCause(err)
	}
	if err := db.HandleExecError(err, "create message", start); err != nil {
		return domain.Message{}, err
	}

	return msg, nil
}

func (r *PgRepository) FindByID(ctx context.Context, id int64) (domain.Message, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`SELECT id, from_username, to_username, body, sent_at, read_at
		 FROM messages WHERE id = $1`,
		id,
	)

	var msg domain.Message
	err := row.Scan(
		&msg.ID,
		&msg.FromUsername,
		&msg.ToUsername,
		&msg.Body,
		&msg.SentAt,
		&msg.ReadAt,
	)
	if err := db.HandleQueryError(err, commonerrors.ErrMessageNotFound, "find message by id", start); err != nil {
		return domain.Message{}, err
	}

	return msg, nil
}

// MarkRead performs the unread -> read transition as a single conditional
// update. Two concurrent calls cannot both succeed: the losing one sees no
// row and is told the message was already read.
func (r *PgRepository) MarkRead(ctx context.Context, id int64, at time.Time) (time.Time, error) {
	start := time.Now()
	row := r.pool.QueryRow(
		ctx,
		`UPDATE messages SET read_at = $2
		 WHERE id = $1 AND read_at IS NULL
		 RETURNING read_at`,
		id,
		at,
	)

	var readAt time.Time
	err := row.Scan(&readAt)
	if err == nil {
		db.MeasureQueryDuration("mark message read", start)
		return readAt, nil
	}
	if !db.IsNoRows(err) {
		return time.Time{}, db.HandleExecError(err, "mark message read", start)
	}

	// No transition happened: either the message is gone or already read.
	exists := r.pool.QueryRow(ctx, `SELECT 1 FROM messages WHERE id = $1`, id)
	var one int
	if scanErr := exists.Scan(&one); scanErr != nil {
		return time.Time{}, db.HandleQueryError(scanErr, commonerrors.ErrMessageNotFound, "mark message read", start)
	}

	db.MeasureQueryDuration("mark message read", start)
	return time.Time{}, commonerrors.ErrMessageAlreadyRead
}

func (r *PgRepository) ListFrom(ctx context.Context, username string) ([]domain.Message, error) {
	return r.list(ctx, `SELECT id, from_username, to_username, body, sent_at, read_at
		 FROM messages WHERE from_username = $1 ORDER BY sent_at, id`, username, "list messages from user")
}

func (r *PgRepository) ListTo(ctx context.Context, username string) ([]domain.Message, error) {
	return r.list(ctx, `SELECT id, from_username, to_username, body, sent_at, read_at
		 FROM messages WHERE to_username = $1 ORDER BY sent_at, id`, username, "list messages to user")
}

func (r *PgRepository) list(ctx context.Context, query, username, operation string) ([]domain.Message, error) {
	start := time.Now()
	rows, err := r.pool.Query(ctx, query, username)
	if err != nil {
		return nil, db.HandleExecError(err, operation, start)
	}
	defer rows.Close()

	var msgs []domain.Message
	for rows.Next() {
		var msg domain.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.FromUsername,
			&msg.ToUsername,
			&msg.Body,
			&msg.SentAt,
			&msg.ReadAt,
		); err != nil {
			return nil, db.HandleExecError(err, operation, start)
		}
		msgs = append(msgs, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, db.HandleExecError(err, operation, start)
	}

	db.MeasureQueryDuration(operation, start)
	return msgs, nil
}
