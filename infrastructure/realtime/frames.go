package realtime

import (
	"encoding/json"
	"time"

	"marketplace/domain/notification"
)

// Event names on the wire.
const (
	EventAddUser         = "add_user"
	EventNewNotification = "new_notification"
	EventOnlineUsers     = "get_online_users"
	EventError           = "error"
)

// Frame is the JSON envelope of every message in both directions.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// NotificationView is the pushed form of a notification, matching the REST listing.
type NotificationView struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	Link      string    `json:"link"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewNotificationView(n *notification.Notification) NotificationView {
	return NotificationView{
		ID:        n.ID(),
		UserID:    n.UserID(),
		Role:      string(n.Role()),
		Message:   n.Message(),
		Link:      n.Link(),
		IsRead:    n.IsRead(),
		CreatedAt: n.CreatedAt(),
	}
}

func encodeFrame(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Frame{Event: event, Data: raw})
}
