/*
Package notification Notification subdomain

A notification is addressed to one user in one role. It is created unread and only its read
state ever changes afterwards.
*/
package notification

import (
	"fmt"
	"strings"
	"time"

	"marketplace/domain/shared"
)

var ErrNotificationNotFound = fmt.Errorf("notification %w", shared.ErrNotFound)

// Notification Notification entity
type Notification struct {
	id        string
	userID    string
	role      shared.Role
	message   string
	link      string
	isRead    bool
	createdAt time.Time
}

// New validates that all four fields are present and builds an unread notification.
func New(userID, message, link, role string) (*Notification, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, shared.NewValidationError("notification", "userId", "userId is required")
	}
	if strings.TrimSpace(message) == "" {
		return nil, shared.NewValidationError("notification", "message", "message is required")
	}
	if strings.TrimSpace(link) == "" {
		return nil, shared.NewValidationError("notification", "link", "link is required")
	}
	r, err := shared.ParseRole(role)
	if err != nil {
		return nil, err
	}
	return &Notification{
		id:        shared.NewID(),
		userID:    userID,
		role:      r,
		message:   strings.TrimSpace(message),
		link:      strings.TrimSpace(link),
		createdAt: time.Now(),
	}, nil
}

// MarkRead flips the read flag. It is idempotent.
func (n *Notification) MarkRead() { n.isRead = true }

func (n *Notification) ID() string           { return n.id }
func (n *Notification) UserID() string       { return n.userID }
func (n *Notification) Role() shared.Role    { return n.role }
func (n *Notification) Message() string      { return n.message }
func (n *Notification) Link() string         { return n.link }
func (n *Notification) IsRead() bool         { return n.isRead }
func (n *Notification) CreatedAt() time.Time { return n.createdAt }

// Rebuild reconstructs a stored notification.
func Rebuild(id, userID string, role shared.Role, message, link string, isRead bool, createdAt time.Time) *Notification {
	return &Notification{
		id:        id,
		userID:    userID,
		role:      role,
		message:   message,
		link:      link,
		isRead:    isRead,
		createdAt: createdAt,
	}
}

// NewNotFoundError folds "absent" and "not yours" into one answer.
func NewNotFoundError(id string) error {
	return &shared.DomainError{
		Err:     ErrNotificationNotFound,
		Entity:  "notification",
		Message: "notification not found: " + id,
	}
}
