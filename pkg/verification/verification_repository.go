package verification

import (
	"context"
	"time"

	"TransitGuard/entities"
	"gorm.io/gorm"
)

type (
	VerificationRepository interface {
		GetSessionByID(ctx context.Context, id string) (*entities.TransportSession, error)
		GetRegisteredSeals(ctx context.Context, sessionID string) ([]*entities.RegisteredSeal, error)
		GetRegisteredSealByID(ctx context.Context, id string) (*entities.RegisteredSeal, error)

		GetScannedSeals(ctx context.Context, sessionID string) ([]*entities.ScannedSeal, error)
		GetScannedSealByID(ctx context.Context, id string) (*entities.ScannedSeal, error)
		GetScannedSealByNormalizedID(ctx context.Context, sessionID, normalizedID string) (*entities.ScannedSeal, error)
		CreateScannedSeal(ctx context.Context, scan *entities.ScannedSeal) error
		DeleteScannedSeal(ctx context.Context, id string) error

		GetSealStatuses(ctx context.Context, sessionID string) ([]*entities.SealStatusRecord, error)
		GetSealStatusBySealID(ctx context.Context, registeredSealID string) (*entities.SealStatusRecord, error)
		SaveSealStatus(ctx context.Context, record *entities.SealStatusRecord) error
		DeleteSealStatus(ctx context.Context, id string) error

		GetFieldVerifications(ctx context.Context, sessionID string) ([]*entities.FieldVerification, error)
		GetFieldVerificationByKey(ctx context.Context, sessionID, fieldKey string) (*entities.FieldVerification, error)
		SaveFieldVerification(ctx context.Context, field *entities.FieldVerification) error
		VerifyAllFields(ctx context.Context, sessionID string) error

		CreateVerificationRecord(ctx context.Context, record *entities.VerificationRecord) error
		CompleteSession(ctx context.Context, sessionID, completedBy string, completedAt time.Time) error

		// WithinTransaction runs fn against a repository bound to a single
		// transaction; the completion coordinator relies on it for
		// all-or-nothing finalization.
		WithinTransaction(ctx context.Context, fn func(repo VerificationRepository) error) error
	}

	verificationRepository struct {
		db *gorm.DB
	}
)

func NewVerificationRepository(db *gorm.DB) VerificationRepository {
	return &verificationRepository{db: db}
}

func (r *verificationRepository) GetSessionByID(ctx context.Context, id string) (*entities.TransportSession, error) {
	var session entities.TransportSession
	if err := r.db.WithContext(ctx).
		Preload("Creator").
		Where("id = ?", id).
		First(&session).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *verificationRepository) GetRegisteredSeals(ctx context.Context, sessionID string) ([]*entities.RegisteredSeal, error) {
	var seals []*entities.RegisteredSeal
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("registered_at ASC").
		Find(&seals).Error; err != nil {
		return nil, err
	}
	return seals, nil
}

func (r *verificationRepository) GetRegisteredSealByID(ctx context.Context, id string) (*entities.RegisteredSeal, error) {
	var seal entities.RegisteredSeal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&seal).Error; err != nil {
		return nil, err
	}
	return &seal, nil
}

func (r *verificationRepository) GetScannedSeals(ctx context.Context, sessionID string) ([]*entities.ScannedSeal, error) {
	var scans []*entities.ScannedSeal
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("scanned_at ASC").
		Find(&scans).Error; err != nil {
		return nil, err
	}
	return scans, nil
}

func (r *verificationRepository) GetScannedSealByID(ctx context.Context, id string) (*entities.ScannedSeal, error) {
	var scan entities.ScannedSeal
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&scan).Error; err != nil {
		return nil, err
	}
	return &scan, nil
}

func (r *verificationRepository) GetScannedSealByNormalizedID(ctx context.Context, sessionID, normalizedID string) (*entities.ScannedSeal, error) {
	var scan entities.ScannedSeal
	if err := r.db.WithContext(ctx).
		Where("session_id = ? AND normalized_id = ?", sessionID, normalizedID).
		First(&scan).Error; err != nil {
		return nil, err
	}
	return &scan, nil
}

func (r *verificationRepository) CreateScannedSeal(ctx context.Context, scan *entities.ScannedSeal) error {
	return r.db.WithContext(ctx).Create(scan).Error
}

func (r *verificationRepository) DeleteScannedSeal(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entities.ScannedSeal{}, "id = ?", id).Error
}

func (r *verificationRepository) GetSealStatuses(ctx context.Context, sessionID string) ([]*entities.SealStatusRecord, error) {
	var records []*entities.SealStatusRecord
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *verificationRepository) GetSealStatusBySealID(ctx context.Context, registeredSealID string) (*entities.SealStatusRecord, error) {
	var record entities.SealStatusRecord
	if err := r.db.WithContext(ctx).
		Where("registered_seal_id = ?", registeredSealID).
		First(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *verificationRepository) SaveSealStatus(ctx context.Context, record *entities.SealStatusRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

func (r *verificationRepository) DeleteSealStatus(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&entities.SealStatusRecord{}, "id = ?", id).Error
}

func (r *verificationRepository) GetFieldVerifications(ctx context.Context, sessionID string) ([]*entities.FieldVerification, error) {
	var fields []*entities.FieldVerification
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("field_key ASC").
		Find(&fields).Error; err != nil {
		return nil, err
	}
	return fields, nil
}

func (r *verificationRepository) GetFieldVerificationByKey(ctx context.Context, sessionID, fieldKey string) (*entities.FieldVerification, error) {
	var field entities.FieldVerification
	if err := r.db.WithContext(ctx).
		Where("session_id = ? AND field_key = ?", sessionID, fieldKey).
		First(&field).Error; err != nil {
		return nil, err
	}
	return &field, nil
}

func (r *verificationRepository) SaveFieldVerification(ctx context.Context, field *entities.FieldVerification) error {
	return r.db.WithContext(ctx).Save(field).Error
}

func (r *verificationRepository) VerifyAllFields(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Model(&entities.FieldVerification{}).
		Where("session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"is_verified": true,
			"matches":     true,
		}).Error
}

func (r *verificationRepository) CreateVerificationRecord(ctx context.Context, record *entities.VerificationRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *verificationRepository) CompleteSession(ctx context.Context, sessionID, completedBy string, completedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&entities.TransportSession{}).
		Where("id = ? AND status = ?", sessionID, "InProgress").
		Updates(map[string]interface{}{
			"status":       "Completed",
			"completed_at": completedAt,
			"completed_by": completedBy,
		}).Error
}

func (r *verificationRepository) WithinTransaction(ctx context.Context, fn func(repo VerificationRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&verificationRepository{db: tx})
	})
}
