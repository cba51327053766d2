package activity

import (
	"context"

	"TransitGuard/entities"
	"gorm.io/gorm"
)

type (
	ActivityRepository interface {
		CreateActivity(ctx context.Context, log *entities.ActivityLog) error
		GetSessionActivities(ctx context.Context, sessionID string, page, limit int) ([]*entities.ActivityLog, int64, error)
	}

	activityRepository struct {
		db *gorm.DB
	}
)

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) CreateActivity(ctx context.Context, log *entities.ActivityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *activityRepository) GetSessionActivities(ctx context.Context, sessionID string, page, limit int) ([]*entities.ActivityLog, int64, error) {
	var activities []*entities.ActivityLog
	var count int64
	offset := (page - 1) * limit

	if err := r.db.WithContext(ctx).
		Model(&entities.ActivityLog{}).
		Where("session_id = ?", sessionID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := r.db.WithContext(ctx).
		Preload("User").
		Where("session_id = ?", sessionID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&activities).Error; err != nil {
		return nil, 0, err
	}

	return activities, count, nil
}
