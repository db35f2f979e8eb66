package notification

import (
	"context"

	"marketplace/domain/shared"
)

// Query selects a user's notifications. An empty Role matches all roles.
type Query struct {
	UserID     string
	Role       shared.Role
	UnreadOnly bool
	Limit      int
}

// Repository Notification repository interface
type Repository interface {
	Save(ctx context.Context, n *Notification) error

	// MarkRead flips one notification owned by userID. Absent or foreign ids return ErrNotificationNotFound.
	MarkRead(ctx context.Context, id, userID string) (*Notification, error)

	// MarkAllRead flips every unread notification of userID in role and returns how many changed.
	MarkAllRead(ctx context.Context, userID string, role shared.Role) (int, error)

	// List returns matching notifications, newest first.
	List(ctx context.Context, q Query) ([]*Notification, error)

	// CountUnread counts unread notifications for userID, optionally within one role.
	CountUnread(ctx context.Context, userID string, role shared.Role) (int, error)
}

// Pusher delivers a stored notification to a connected user. It reports whether the user was connected.
type Pusher interface {
	Push(userID string, n *Notification) bool
}
