package domain

import (
	"errors"
	"mime/multipart"
	"time"
)

// SealStatus is the per-seal verification state. Broken and Tampered are
// evidentiary states and cannot be assigned without a comment plus at
// least one evidence attachment.
type SealStatus string

const (
	SealStatusUnscanned SealStatus = "Unscanned"
	SealStatusVerified  SealStatus = "Verified"
	SealStatusBroken    SealStatus = "Broken"
	SealStatusTampered  SealStatus = "Tampered"
	SealStatusMissing   SealStatus = "Missing"
)

// Valid reports whether s is one of the closed set of seal statuses.
func (s SealStatus) Valid() bool {
	switch s {
	case SealStatusUnscanned, SealStatusVerified, SealStatusBroken,
		SealStatusTampered, SealStatusMissing:
		return true
	}
	return false
}

// RequiresEvidence reports whether assigning s demands a comment and at
// least one evidence attachment.
func (s SealStatus) RequiresEvidence() bool {
	return s == SealStatusBroken || s == SealStatusTampered
}

var (
	MessageSuccessRecordScan      = "seal scan recorded successfully"
	MessageSuccessRemoveScan      = "seal scan removed successfully"
	MessageSuccessSetSealStatus   = "seal status updated successfully"
	MessageSuccessVerifyField     = "field verification updated successfully"
	MessageSuccessVerifyAllFields = "all fields verified successfully"
	MessageSuccessGetSummary      = "verification summary retrieved successfully"
	MessageSuccessComplete        = "verification completed successfully"

	MessageFailedRecordScan    = "failed to record seal scan"
	MessageFailedRemoveScan    = "failed to remove seal scan"
	MessageFailedSetSealStatus = "failed to update seal status"
	MessageFailedVerifyField   = "failed to update field verification"
	MessageFailedGetSummary    = "failed to retrieve verification summary"
	MessageFailedComplete      = "failed to complete verification"

	ErrInvalidSessionState      = errors.New("session is not accepting verification actions")
	ErrSessionAlreadyFinalized  = errors.New("session verification already finalized")
	ErrDuplicateScan            = errors.New("seal already scanned for this session")
	ErrMissingEvidence          = errors.New("broken or tampered status requires a comment and evidence photo")
	ErrInvalidSealStatus        = errors.New("invalid seal status")
	ErrSealNotFound             = errors.New("registered seal not found")
	ErrScanNotFound             = errors.New("seal scan not found")
	ErrFieldNotFound            = errors.New("declared field not found")
	ErrEmptySealIdentifier      = errors.New("seal identifier must not be empty")
	ErrMismatchCommentRequired  = errors.New("flagging a field mismatch requires a comment")
)

type (
	RecordScanRequest struct {
		Identifier string `json:"identifier" form:"identifier" validate:"required"`
		Method     string `json:"method" form:"method" validate:"required,oneof=manual digital"`

		CaptureImage *multipart.FileHeader `json:"-"`
	}

	RecordScanResponse struct {
		ScanID     string `json:"scan_id,omitempty"`
		Identifier string `json:"identifier"`
		Matched    bool   `json:"matched"`
		Duplicate  bool   `json:"duplicate"`
	}

	SetSealStatusRequest struct {
		Status  string `json:"status" form:"status" validate:"required"`
		Comment string `json:"comment" form:"comment"`

		EvidenceImages []*multipart.FileHeader `json:"-"`
	}

	SealStatusResponse struct {
		RegisteredSealID string     `json:"registered_seal_id"`
		Identifier       string     `json:"identifier"`
		Status           string     `json:"status"`
		Comment          string     `json:"comment,omitempty"`
		EvidenceURLs     []string   `json:"evidence_urls,omitempty"`
		VerifiedBy       string     `json:"verified_by,omitempty"`
		VerifiedAt       *time.Time `json:"verified_at,omitempty"`
	}

	VerifyFieldRequest struct {
		FlagMismatch bool   `json:"flag_mismatch"`
		Comment      string `json:"comment"`
	}

	FieldVerificationResponse struct {
		FieldKey      string `json:"field_key"`
		OperatorValue string `json:"operator_value"`
		GuardValue    string `json:"guard_value"`
		IsVerified    bool   `json:"is_verified"`
		Matches       bool   `json:"matches"`
		Comment       string `json:"comment,omitempty"`
	}

	// VerificationSummary is computed, never persisted. It exists so the
	// guard can see what completion will do before doing it.
	VerificationSummary struct {
		TotalSeals      int                `json:"total_seals"`
		ScannedSeals    int                `json:"scanned_seals"`
		UnscannedSeals  int                `json:"unscanned_seals"`
		StatusBreakdown map[SealStatus]int `json:"status_breakdown"`
		FieldsMatched   int                `json:"fields_matched"`
		FieldsMismatch  int                `json:"fields_mismatch"`
		FieldsUnchecked int                `json:"fields_unchecked"`
	}

	FinalizedVerification struct {
		SessionID    string                                `json:"session_id"`
		SealResults  map[string]*SealStatusResponse        `json:"seal_results"`
		FieldResults map[string]*FieldVerificationResponse `json:"field_results"`
		CompletedAt  time.Time                             `json:"completed_at"`
		CompletedBy  string                                `json:"completed_by"`
	}
)
