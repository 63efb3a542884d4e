// Package authz holds the pure predicates deciding who may see or mutate a
// message. They are evaluated by the HTTP layer before any mutation runs.
package authz

import "github.com/messagely/backend/internal/message/domain"

// CanView is true for either participant of the message.
func CanView(actingUsername string, msg domain.Detail) bool {
	return actingUsername == msg.FromUser.Username || actingUsername == msg.ToUser.Username
}

// CanMarkRead is true only for the recipient.
func CanMarkRead(actingUsername string, msg domain.Detail) bool {
	return actingUsername == msg.ToUser.Username
}
