package report

import (
	"context"

	"TransitGuard/entities"
	"gorm.io/gorm"
)

type (
	ReportRepository interface {
		GetSessionByID(ctx context.Context, id string) (*entities.TransportSession, error)
		GetVerificationRecord(ctx context.Context, sessionID string) (*entities.VerificationRecord, error)
	}

	reportRepository struct {
		db *gorm.DB
	}
)

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) GetSessionByID(ctx context.Context, id string) (*entities.TransportSession, error) {
	var session entities.TransportSession
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *reportRepository) GetVerificationRecord(ctx context.Context, sessionID string) (*entities.VerificationRecord, error) {
	var record entities.VerificationRecord
	if err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}
