package entities

import (
	"time"

	"github.com/google/uuid"
)

type TransportSession struct {
	ID              uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Source          string     `json:"source"`
	Destination     string     `json:"destination"`
	VehicleNumber   string     `json:"vehicle_number"`
	DriverName      string     `json:"driver_name"`
	DriverPhone     string     `json:"driver_phone,omitempty"`
	VehiclePhotoURL string     `json:"vehicle_photo_url,omitempty"`
	DriverPhotoURL  string     `json:"driver_photo_url,omitempty"`
	Status          string     `json:"status"` // Pending, InProgress, Completed
	CreatedBy       uuid.UUID  `json:"created_by"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	StartedBy       *uuid.UUID `json:"started_by,omitempty"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
	CompletedBy     *uuid.UUID `json:"completed_by,omitempty"`

	Creator            *User                 `gorm:"foreignKey:CreatedBy"`
	RegisteredSeals    []*RegisteredSeal     `gorm:"foreignKey:SessionID"`
	ScannedSeals       []*ScannedSeal        `gorm:"foreignKey:SessionID"`
	SealStatuses       []*SealStatusRecord   `gorm:"foreignKey:SessionID"`
	FieldVerifications []*FieldVerification  `gorm:"foreignKey:SessionID"`
	VerificationRecord *VerificationRecord   `gorm:"foreignKey:SessionID"`
	Activities         []*ActivityLog        `gorm:"foreignKey:SessionID"`
	Timestamp
}

// CanAcceptScans reports whether the session accepts new seal scans and
// status overrides. Only InProgress sessions do.
func (s *TransportSession) CanAcceptScans() bool {
	return s.Status == "InProgress"
}

// CanAcceptFieldEdits reports whether the guard may still toggle field
// verifications.
func (s *TransportSession) CanAcceptFieldEdits() bool {
	return s.Status == "InProgress"
}

// IsCompleted reports whether verification has been finalized; every
// child record is frozen from that point on.
func (s *TransportSession) IsCompleted() bool {
	return s.Status == "Completed"
}

type RegisteredSeal struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	SessionID    uuid.UUID `gorm:"index;uniqueIndex:idx_registered_seal_session_norm" json:"session_id"`
	Identifier   string    `json:"identifier"`
	NormalizedID string    `gorm:"uniqueIndex:idx_registered_seal_session_norm" json:"-"`
	Method       string    `json:"method"` // manual, digital
	ImageURL     string    `json:"image_url,omitempty"`
	RegisteredAt time.Time `json:"registered_at"`

	Session *TransportSession `gorm:"foreignKey:SessionID"`
	Timestamp
}

type ScannedSeal struct {
	ID               uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	SessionID        uuid.UUID  `gorm:"index;uniqueIndex:idx_scanned_seal_session_norm" json:"session_id"`
	Identifier       string     `json:"identifier"`
	NormalizedID     string     `gorm:"uniqueIndex:idx_scanned_seal_session_norm" json:"-"`
	Method           string     `json:"method"` // manual, digital
	ImageURL         string     `json:"image_url,omitempty"`
	Matched          bool       `json:"matched"`
	RegisteredSealID *uuid.UUID `json:"registered_seal_id,omitempty"`
	ScannedBy        uuid.UUID  `json:"scanned_by"`
	ScannedAt        time.Time  `json:"scanned_at"`

	Session        *TransportSession `gorm:"foreignKey:SessionID"`
	RegisteredSeal *RegisteredSeal   `gorm:"foreignKey:RegisteredSealID"`
	Timestamp
}
