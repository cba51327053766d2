package entities

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// EvidenceList stores evidence attachment URLs as a JSONB array.
type EvidenceList []string

func (e EvidenceList) Value() (driver.Value, error) {
	if e == nil {
		return "[]", nil
	}
	b, err := json.Marshal(e)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (e *EvidenceList) Scan(value interface{}) error {
	if value == nil {
		*e = EvidenceList{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return errors.New("unsupported type for EvidenceList")
	}
}

type SealStatusRecord struct {
	ID               uuid.UUID    `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	SessionID        uuid.UUID    `gorm:"index" json:"session_id"`
	RegisteredSealID uuid.UUID    `gorm:"uniqueIndex" json:"registered_seal_id"`
	Status           string       `json:"status"` // Unscanned, Verified, Broken, Tampered, Missing
	Comment          string       `json:"comment,omitempty"`
	EvidenceURLs     EvidenceList `gorm:"type:jsonb" json:"evidence_urls"`
	VerifiedBy       *uuid.UUID   `json:"verified_by,omitempty"`
	VerifiedAt       *time.Time   `json:"verified_at,omitempty"`

	Session        *TransportSession `gorm:"foreignKey:SessionID"`
	RegisteredSeal *RegisteredSeal   `gorm:"foreignKey:RegisteredSealID"`
	Timestamp
}

type FieldVerification struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	SessionID     uuid.UUID `gorm:"index;uniqueIndex:idx_field_verification_session_key" json:"session_id"`
	FieldKey      string    `gorm:"uniqueIndex:idx_field_verification_session_key" json:"field_key"`
	OperatorValue string    `json:"operator_value"`
	GuardValue    string    `json:"guard_value"`
	IsVerified    bool      `json:"is_verified"`
	Matches       bool      `json:"matches"`
	Comment       string    `json:"comment,omitempty"`

	Session *TransportSession `gorm:"foreignKey:SessionID"`
	Timestamp
}

// FieldResultDocument is the persisted per-field outcome inside a
// verification record.
type FieldResultDocument struct {
	OperatorValue string `json:"operator_value"`
	GuardValue    string `json:"guard_value"`
	Matches       bool   `json:"matches"`
	IsVerified    bool   `json:"is_verified"`
	Comment       string `json:"comment,omitempty"`
}

// SealResultDocument is the persisted per-seal outcome inside a
// verification record.
type SealResultDocument struct {
	Identifier   string     `json:"identifier"`
	Status       string     `json:"status"`
	Comment      string     `json:"comment,omitempty"`
	EvidenceURLs []string   `json:"evidence_urls,omitempty"`
	VerifiedBy   string     `json:"verified_by,omitempty"`
	VerifiedAt   *time.Time `json:"verified_at,omitempty"`
}

type FieldResultMap map[string]FieldResultDocument

func (m FieldResultMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *FieldResultMap) Scan(value interface{}) error {
	return scanJSON(value, m, "FieldResultMap")
}

type SealResultMap map[string]SealResultDocument

func (m SealResultMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (m *SealResultMap) Scan(value interface{}) error {
	return scanJSON(value, m, "SealResultMap")
}

func scanJSON(value interface{}, dest interface{}, name string) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return errors.New("unsupported type for " + name)
	}
}

// VerificationRecord is written exactly once per session, by the
// completion coordinator. Reporting reads it and nothing else.
type VerificationRecord struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	SessionID    uuid.UUID      `gorm:"uniqueIndex" json:"session_id"`
	FieldResults FieldResultMap `gorm:"type:jsonb" json:"field_results"`
	SealResults  SealResultMap  `gorm:"type:jsonb" json:"seal_results"`
	VerifiedBy   uuid.UUID      `json:"verified_by"`
	VerifiedAt   time.Time      `json:"verified_at"`

	Session *TransportSession `gorm:"foreignKey:SessionID"`
	Timestamp
}
