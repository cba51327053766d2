package entities

import (
	"github.com/google/uuid"
)

type ActivityLog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	SessionID uuid.UUID `gorm:"index" json:"session_id"`
	UserID    uuid.UUID `json:"user_id"`
	Action    string    `json:"action"` // SealScanned, SealStatusChanged, FieldVerified, SessionStarted, SessionCompleted
	Detail    string    `gorm:"type:text" json:"detail,omitempty"`

	Session *TransportSession `gorm:"foreignKey:SessionID"`
	User    *User             `gorm:"foreignKey:UserID"`
	Timestamp
}
