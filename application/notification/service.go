/*
Package notification Application Layer - role-scoped notifications

Notify is best effort: it never returns an error to its caller, because it always runs after the
business change that triggered it has committed. A stored notification is pushed to the user when
they hold a live real-time connection and is otherwise read later through List.
*/
package notification

import (
	"context"
	"time"

	"marketplace/domain/notification"
	"marketplace/domain/shared"
	"marketplace/pkg/logger"

	"go.uber.org/zap"
)

const defaultListLimit = 50

// NotificationResponse 通知返回模型。
type NotificationResponse struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// ListResponse carries a page of notifications and the unread count for the same role filter.
type ListResponse struct {
	Notifications []*NotificationResponse `json:"notifications"`
	UnreadCount   int                     `json:"unreadCount"`
}

// ListQuery 通知列表查询参数。
type ListQuery struct {
	Role       string `form:"role"`
	UnreadOnly bool   `form:"unread"`
	Limit      int    `form:"limit" binding:"omitempty,min=1,max=200"`
}

// MarkAllRequest 全部已读入参。
type MarkAllRequest struct {
	Role string `json:"role" binding:"required"`
}

// ApplicationService Notification application service
type ApplicationService struct {
	repo   notification.Repository
	pusher notification.Pusher
}

// NewApplicationService Create notification application service. pusher may be nil when the
// real-time channel is disabled.
func NewApplicationService(repo notification.Repository, pusher notification.Pusher) *ApplicationService {
	return &ApplicationService{repo: repo, pusher: pusher}
}

// Notify stores one unread notification and pushes it if the user is connected.
// It reports whether the notification was pushed.
func (s *ApplicationService) Notify(ctx context.Context, userID, message, link, role string) bool {
	log := logger.Ctx(ctx).With(zap.String("user_id", userID), zap.String("role", role))

	n, err := notification.New(userID, message, link, role)
	if err != nil {
		log.Warn("Notification skipped", zap.Error(err))
		return false
	}
	if err := s.repo.Save(ctx, n); err != nil {
		log.Error("Notification not stored", zap.Error(err))
		return false
	}
	if s.pusher == nil {
		return false
	}
	pushed := s.pusher.Push(n.UserID(), n)
	log.Debug("Notification stored", zap.String("notification_id", n.ID()), zap.Bool("pushed", pushed))
	return pushed
}

// List returns the user's notifications newest first. An empty role lists every role.
func (s *ApplicationService) List(ctx context.Context, userID string, q ListQuery) (*ListResponse, error) {
	var role shared.Role
	if q.Role != "" {
		r, err := shared.ParseRole(q.Role)
		if err != nil {
			return nil, err
		}
		role = r
	}
	limit := q.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	items, err := s.repo.List(ctx, notification.Query{
		UserID:     userID,
		Role:       role,
		UnreadOnly: q.UnreadOnly,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, userID, role)
	if err != nil {
		return nil, err
	}

	out := make([]*NotificationResponse, len(items))
	for i, n := range items {
		out[i] = toResponse(n)
	}
	return &ListResponse{Notifications: out, UnreadCount: unread}, nil
}

// MarkAsRead flips one of the user's notifications. Someone else's id is reported as not found.
func (s *ApplicationService) MarkAsRead(ctx context.Context, id, userID string) (*NotificationResponse, error) {
	if err := shared.ValidateID("notification", "id", id); err != nil {
		return nil, err
	}
	n, err := s.repo.MarkRead(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return toResponse(n), nil
}

// MarkAllAsRead flips the user's unread notifications in one role and returns how many changed.
func (s *ApplicationService) MarkAllAsRead(ctx context.Context, userID, role string) (int, error) {
	r, err := shared.ParseRole(role)
	if err != nil {
		return 0, err
	}
	return s.repo.MarkAllRead(ctx, userID, r)
}

func toResponse(n *notification.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID(),
		UserID:    n.UserID(),
		Role:      n.Role().String(),
		Message:   n.Message(),
		Link:      n.Link(),
		IsRead:    n.IsRead(),
		CreatedAt: n.CreatedAt(),
	}
}
