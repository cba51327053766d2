package session

import (
	"context"
	"time"

	"TransitGuard/entities"
	"gorm.io/gorm"
)

type (
	SessionRepository interface {
		CreateSession(ctx context.Context, session *entities.TransportSession) error
		CreateRegisteredSeals(ctx context.Context, seals []*entities.RegisteredSeal) error
		GetSessionByID(ctx context.Context, id string) (*entities.TransportSession, error)
		GetSessions(ctx context.Context, createdBy string, page, limit int) ([]*entities.TransportSession, int64, error)
		StartSession(ctx context.Context, id string, startedBy string, startedAt time.Time) error
		CreateFieldVerifications(ctx context.Context, fields []*entities.FieldVerification) error
	}

	sessionRepository struct {
		db *gorm.DB
	}
)

func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) CreateSession(ctx context.Context, session *entities.TransportSession) error {
	return r.db.WithContext(ctx).Create(session).Error
}

func (r *sessionRepository) CreateRegisteredSeals(ctx context.Context, seals []*entities.RegisteredSeal) error {
	return r.db.WithContext(ctx).Create(seals).Error
}

func (r *sessionRepository) GetSessionByID(ctx context.Context, id string) (*entities.TransportSession, error) {
	var session entities.TransportSession
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Preload("RegisteredSeals", func(db *gorm.DB) *gorm.DB {
			return db.Order("registered_at ASC")
		}).
		Where("id = ?", id).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) GetSessions(ctx context.Context, createdBy string, page, limit int) ([]*entities.TransportSession, int64, error) {
	var sessions []*entities.TransportSession
	var count int64
	offset := (page - 1) * limit

	query := r.db.WithContext(ctx).Model(&entities.TransportSession{})
	if createdBy != "" {
		query = query.Where("created_by = ?", createdBy)
	}

	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Preload("RegisteredSeals").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&sessions).Error; err != nil {
		return nil, 0, err
	}

	return sessions, count, nil
}

func (r *sessionRepository) StartSession(ctx context.Context, id string, startedBy string, startedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.TransportSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     "InProgress",
			"started_at": startedAt,
			"started_by": startedBy,
		}).Error
}

func (r *sessionRepository) CreateFieldVerifications(ctx context.Context, fields []*entities.FieldVerification) error {
	return r.db.WithContext(ctx).Create(fields).Error
}
