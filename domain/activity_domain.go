package domain

import (
	"errors"
	"time"
)

const (
	ActivitySessionCreated    = "SessionCreated"
	ActivitySessionStarted    = "SessionStarted"
	ActivitySealScanned       = "SealScanned"
	ActivityScanRemoved       = "ScanRemoved"
	ActivitySealStatusChanged = "SealStatusChanged"
	ActivityFieldVerified     = "FieldVerified"
	ActivitySessionCompleted  = "SessionCompleted"
)

var (
	MessageSuccessGetActivities = "session activities retrieved successfully"
	MessageFailedGetActivities  = "failed to retrieve session activities"

	ErrActivityNotFound = errors.New("activity not found")
)

type ActivityResponse struct {
	ID        string    `json:"id"`
	SessionID string    `json:"session_id"`
	UserID    string    `json:"user_id"`
	UserName  string    `json:"user_name,omitempty"`
	Action    string    `json:"action"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
