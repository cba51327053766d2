package entities

import (
	"github.com/google/uuid"
)

type User struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	Name       string    `json:"name"`
	Email      string    `gorm:"uniqueIndex" json:"email"`
	Password   string    `json:"-"`
	Phone      string    `json:"phone,omitempty"`
	Role       string    `json:"role"` // operator, guard
	Coins      int       `json:"coins"`
	IsVerified bool      `json:"is_verified"`
	PhotoURL   string    `json:"photo_url,omitempty"`

	Sessions []*TransportSession `gorm:"foreignKey:CreatedBy"`
	Timestamp
}
