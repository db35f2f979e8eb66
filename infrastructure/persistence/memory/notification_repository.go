package memory

import (
	"context"
	"sort"
	"time"

	"marketplace/domain/notification"
	"marketplace/domain/shared"
)

type notificationRow struct {
	id        string
	userID    string
	role      shared.Role
	message   string
	link      string
	isRead    bool
	createdAt time.Time
	seq       int64
}

func (row notificationRow) toEntity() *notification.Notification {
	return notification.Rebuild(row.id, row.userID, row.role, row.message, row.link, row.isRead, row.createdAt)
}

// NotificationRepository In-memory implementation of notification.Repository
type NotificationRepository struct {
	store *Store
}

func NewNotificationRepository(store *Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

func (r *NotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.store.write(ctx, func(s *Store) (func(), error) {
		prev, exists := s.notifications[n.ID()]
		row := notificationRow{
			id:        n.ID(),
			userID:    n.UserID(),
			role:      n.Role(),
			message:   n.Message(),
			link:      n.Link(),
			isRead:    n.IsRead(),
			createdAt: n.CreatedAt(),
			seq:       prev.seq,
		}
		if !exists {
			row.seq = s.nextSeq()
		}
		s.notifications[row.id] = row
		return func() {
			if exists {
				s.notifications[row.id] = prev
			} else {
				delete(s.notifications, row.id)
			}
		}, nil
	})
}

func (r *NotificationRepository) MarkRead(_ context.Context, id, userID string) (*notification.Notification, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	row, ok := r.store.notifications[id]
	if !ok || row.userID != userID {
		return nil, notification.NewNotFoundError(id)
	}
	row.isRead = true
	r.store.notifications[id] = row
	return row.toEntity(), nil
}

func (r *NotificationRepository) MarkAllRead(_ context.Context, userID string, role shared.Role) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	changed := 0
	for id, row := range r.store.notifications {
		if row.userID == userID && row.role == role && !row.isRead {
			row.isRead = true
			r.store.notifications[id] = row
			changed++
		}
	}
	return changed, nil
}

func (r *NotificationRepository) List(_ context.Context, q notification.Query) ([]*notification.Notification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	rows := make([]notificationRow, 0)
	for _, row := range r.store.notifications {
		if !matches(row, q.UserID, q.Role) || (q.UnreadOnly && row.isRead) {
			continue
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq > rows[j].seq })
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}

	out := make([]*notification.Notification, len(rows))
	for i, row := range rows {
		out[i] = row.toEntity()
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(_ context.Context, userID string, role shared.Role) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	n := 0
	for _, row := range r.store.notifications {
		if matches(row, userID, role) && !row.isRead {
			n++
		}
	}
	return n, nil
}

func matches(row notificationRow, userID string, role shared.Role) bool {
	return row.userID == userID && (role == "" || row.role == role)
}

var _ notification.Repository = (*NotificationRepository)(nil)
