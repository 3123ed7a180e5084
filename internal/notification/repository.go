package notification

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	CreateNotification(ctx context.Context, n *InAppNotification) error
	ListByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]InAppNotification, int64, error)
	CountUnread(ctx context.Context, userID uint) (int64, error)
	MarkRead(ctx context.Context, userID, notificationID uint) error
	MarkAllRead(ctx context.Context, userID uint) error

	UpsertDeviceToken(ctx context.Context, t *FCMDeviceToken) error
	DeactivateDeviceToken(ctx context.Context, userID uint, token string) error
	ActiveTokensForUser(ctx context.Context, userID uint) ([]string, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) CreateNotification(ctx context.Context, n *InAppNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) ListByUser(ctx context.Context, userID uint, unreadOnly bool, limit, offset int) ([]InAppNotification, int64, error) {
	q := r.db.WithContext(ctx).Model(&InAppNotification{}).Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []InAppNotification
	err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&items).Error
	return items, total, err
}

func (r *repository) CountUnread(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&InAppNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

func (r *repository) MarkRead(ctx context.Context, userID, notificationID uint) error {
	res := r.db.WithContext(ctx).Model(&InAppNotification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) MarkAllRead(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).Model(&InAppNotification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
}

func (r *repository) UpsertDeviceToken(ctx context.Context, t *FCMDeviceToken) error {
	t.IsActive = true
	t.LastUsedAt = time.Now()
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "device_token"}},
		DoUpdates: clause.AssignmentColumns([]string{"device_type", "device_name", "is_active", "last_used_at", "updated_at"}),
	}).Create(t).Error
}

func (r *repository) DeactivateDeviceToken(ctx context.Context, userID uint, token string) error {
	return r.db.WithContext(ctx).Model(&FCMDeviceToken{}).
		Where("user_id = ? AND device_token = ?", userID, token).
		Update("is_active", false).Error
}

func (r *repository) ActiveTokensForUser(ctx context.Context, userID uint) ([]string, error) {
	var tokens []string
	err := r.db.WithContext(ctx).Model(&FCMDeviceToken{}).
		Where("user_id = ? AND is_active = ?", userID, true).
		Pluck("device_token", &tokens).Error
	return tokens, err
}
