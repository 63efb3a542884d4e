package domain

import (
	"time"

	userdomain "github.com/messagely/backend/internal/user/domain"
)

// Message is the stored record. ReadAt is nil until the recipient marks the
// message read; the transition happens at most once and is never reversed.
type Message struct {
	ID           int64
	FromUsername string
	ToUsername   string
	Body         string
	SentAt       time.Time
	ReadAt       *time.Time
}

func (m Message) Read() bool {
	return m.ReadAt != nil
}

// Detail is a message with both participant identities resolved, the shape
// the authorization predicates operate on. Participant summaries carry no
// account timestamps.
type Detail struct {
	ID       int64
	Body     string
	SentAt   time.Time
	ReadAt   *time.Time
	FromUser userdomain.Summary
	ToUser   userdomain.Summary
}

// SentItem is one entry of a sender's outbox listing.
type SentItem struct {
	ID     int64
	Body   string
	SentAt time.Time
	ReadAt *time.Time
	ToUser userdomain.Summary
}

// ReceivedItem is one entry of a recipient's inbox listing.
type ReceivedItem struct {
	ID       int64
	Body     string
	SentAt   time.Time
	ReadAt   *time.Time
	FromUser userdomain.Summary
}

// ReadReceipt is the result of a successful mark-read transition.
type ReadReceipt struct {
	ID     int64
	ReadAt time.Time
}
