package mysql

import (
	"context"

	"marketplace/domain/notification"
	"marketplace/domain/shared"
	"marketplace/infrastructure/persistence/mysql/po"

	"gorm.io/gorm"
)

type NotificationRepository struct {
	base
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{base{db: db}}
}

func (r *NotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return r.getDB(ctx).Create(po.FromNotificationDomain(n)).Error
}

// MarkRead matches on id and owner together, so a foreign id reads as not found.
func (r *NotificationRepository) MarkRead(ctx context.Context, id, userID string) (*notification.Notification, error) {
	var result *notification.Notification
	err := r.inTx(ctx, func(tx *gorm.DB) error {
		var row po.NotificationPO
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&row).Error; err != nil {
			if isNotFound(err) {
				return notification.NewNotFoundError(id)
			}
			return err
		}
		if !row.IsRead {
			if err := tx.Model(&po.NotificationPO{}).Where("seq = ?", row.Seq).Update("is_read", true).Error; err != nil {
				return err
			}
			row.IsRead = true
		}
		result = row.ToDomain()
		return nil
	})
	return result, err
}

func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID string, role shared.Role) (int, error) {
	result := r.getDB(ctx).Model(&po.NotificationPO{}).
		Where("user_id = ? AND role = ? AND is_read = ?", userID, string(role), false).
		Update("is_read", true)
	return int(result.RowsAffected), result.Error
}

func (r *NotificationRepository) List(ctx context.Context, q notification.Query) ([]*notification.Notification, error) {
	db := r.owned(r.getDB(ctx), q.UserID, q.Role)
	if q.UnreadOnly {
		db = db.Where("is_read = ?", false)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}

	var rows []po.NotificationPO
	if err := db.Order("seq DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]*notification.Notification, len(rows))
	for i := range rows {
		out[i] = rows[i].ToDomain()
	}
	return out, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID string, role shared.Role) (int, error) {
	var count int64
	err := r.owned(r.getDB(ctx).Model(&po.NotificationPO{}), userID, role).
		Where("is_read = ?", false).
		Count(&count).Error
	return int(count), err
}

func (r *NotificationRepository) owned(db *gorm.DB, userID string, role shared.Role) *gorm.DB {
	db = db.Where("user_id = ?", userID)
	if role != "" {
		db = db.Where("role = ?", string(role))
	}
	return db
}

var _ notification.Repository = (*NotificationRepository)(nil)
