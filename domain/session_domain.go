package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

// SessionStatus is the transport session lifecycle. Transitions are
// one-directional: Pending -> InProgress -> Completed.
type SessionStatus string

const (
	SessionStatusPending    SessionStatus = "Pending"
	SessionStatusInProgress SessionStatus = "InProgress"
	SessionStatusCompleted  SessionStatus = "Completed"
)

const (
	SealMethodManual  = "manual"
	SealMethodDigital = "digital"
)

var (
	MessageSuccessCreateSession = "transport session created successfully"
	MessageSuccessGetSessions   = "transport sessions retrieved successfully"
	MessageSuccessGetSession    = "transport session retrieved successfully"
	MessageSuccessStartSession  = "transport session verification started"

	MessageFailedCreateSession = "failed to create transport session"
	MessageFailedGetSessions   = "failed to retrieve transport sessions"
	MessageFailedStartSession  = "failed to start transport session verification"

	ErrSessionNotFound          = errors.New("transport session not found")
	ErrIllegalTransition        = errors.New("illegal session state transition")
	ErrDuplicateRegisteredSeal  = errors.New("duplicate seal identifier in registration")
	ErrNoSealsRegistered        = errors.New("at least one seal must be registered")
	ErrInvalidSealMethod        = errors.New("seal method must be manual or digital")
	ErrUnauthorizedSessionRole  = errors.New("role not allowed for this session operation")
)

type (
	RegisterSealRequest struct {
		Identifier string `json:"identifier" validate:"required"`
		Method     string `json:"method" validate:"required,oneof=manual digital"`
		Imagedata  *multipart.FileHeader
	}

	CreateSessionRequest struct {
		Source        string `json:"source" form:"source" validate:"required"`
		Destination   string `json:"destination" form:"destination" validate:"required"`
		VehicleNumber string `json:"vehicle_number" form:"vehicle_number" validate:"required"`
		DriverName    string `json:"driver_name" form:"driver_name" validate:"required"`
		DriverPhone   string `json:"driver_phone" form:"driver_phone"`

		SealIdentifiers []string `json:"seal_identifiers" form:"seal_identifiers" validate:"required,min=1"`
		SealMethod      string   `json:"seal_method" form:"seal_method" validate:"required,oneof=manual digital"`

		VehiclePhoto *multipart.FileHeader `json:"-"`
		DriverPhoto  *multipart.FileHeader `json:"-"`
	}

	RegisteredSealResponse struct {
		ID           string    `json:"id"`
		Identifier   string    `json:"identifier"`
		Method       string    `json:"method"`
		ImageURL     string    `json:"image_url,omitempty"`
		RegisteredAt time.Time `json:"registered_at"`
	}

	SessionResponse struct {
		ID              string                    `json:"id"`
		Source          string                    `json:"source"`
		Destination     string                    `json:"destination"`
		VehicleNumber   string                    `json:"vehicle_number"`
		DriverName      string                    `json:"driver_name"`
		DriverPhone     string                    `json:"driver_phone,omitempty"`
		VehiclePhotoURL string                    `json:"vehicle_photo_url,omitempty"`
		DriverPhotoURL  string                    `json:"driver_photo_url,omitempty"`
		Status          string                    `json:"status"`
		CreatedBy       string                    `json:"created_by"`
		StartedAt       *time.Time                `json:"started_at,omitempty"`
		CompletedAt     *time.Time                `json:"completed_at,omitempty"`
		RegisteredSeals []*RegisteredSealResponse `json:"registered_seals,omitempty"`
		CreatedAt       time.Time                 `json:"created_at"`
	}
)

// DeclaredFields lists the trip/driver fields the guard re-checks at the
// destination. Seeded into field verification rows when a session starts.
var DeclaredFields = []string{
	"source",
	"destination",
	"vehicle_number",
	"driver_name",
	"driver_phone",
	"vehicle_photo",
	"driver_photo",
}
