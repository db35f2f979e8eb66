package po

import (
	"time"

	"marketplace/domain/notification"
	"marketplace/domain/shared"
)

type NotificationPO struct {
	Seq       uint      `gorm:"primaryKey;autoIncrement"`
	ID        string    `gorm:"size:64;uniqueIndex;not null"`
	UserID    string    `gorm:"size:64;index:idx_notification_owner;not null"`
	Role      string    `gorm:"size:20;index:idx_notification_owner;not null"`
	Message   string    `gorm:"size:500;not null"`
	Link      string    `gorm:"size:500;not null"`
	IsRead    bool      `gorm:"default:false;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (NotificationPO) TableName() string {
	return "notifications"
}

func FromNotificationDomain(n *notification.Notification) *NotificationPO {
	return &NotificationPO{
		ID:        n.ID(),
		UserID:    n.UserID(),
		Role:      string(n.Role()),
		Message:   n.Message(),
		Link:      n.Link(),
		IsRead:    n.IsRead(),
		CreatedAt: n.CreatedAt(),
	}
}

func (po *NotificationPO) ToDomain() *notification.Notification {
	return notification.Rebuild(po.ID, po.UserID, shared.Role(po.Role), po.Message, po.Link, po.IsRead, po.CreatedAt)
}
