package verification

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"TransitGuard/domain"
	"TransitGuard/entities"
	"TransitGuard/internal/utils/mailing"
	"TransitGuard/internal/utils/storage"
	"TransitGuard/pkg/activity"
	"TransitGuard/pkg/coin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	VerificationService interface {
		RecordScan(ctx context.Context, sessionID string, req domain.RecordScanRequest, userID string) (*domain.RecordScanResponse, error)
		RemoveScan(ctx context.Context, sessionID, scanID, userID string) error
		SetSealStatus(ctx context.Context, sessionID, sealID string, req domain.SetSealStatusRequest, userID string) (*domain.SealStatusResponse, error)
		VerifyField(ctx context.Context, sessionID, fieldKey string, req domain.VerifyFieldRequest, userID string) (*domain.FieldVerificationResponse, error)
		VerifyAllFields(ctx context.Context, sessionID, userID string) ([]*domain.FieldVerificationResponse, error)
		PrepareSummary(ctx context.Context, sessionID string) (*domain.VerificationSummary, error)

		// Complete finalizes verification exactly once. Callers must not
		// retry a failed Complete blindly: re-query the session state
		// first, since a prior attempt may have committed.
		Complete(ctx context.Context, sessionID, userID string) (*domain.FinalizedVerification, error)
	}

	verificationService struct {
		verificationRepository VerificationRepository
		activityService        activity.ActivityService
		coinService            coin.CoinService
		s3                     storage.AwsS3
		locks                  *sessionLocks
	}
)

// sessionLocks serializes verification actions per session. A scan, a
// status override and a completion on the same session never interleave.
type sessionLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newSessionLocks() *sessionLocks {
	return &sessionLocks{locks: make(map[string]*sync.Mutex)}
}

func (l *sessionLocks) get(sessionID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	lock, ok := l.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		l.locks[sessionID] = lock
	}
	return lock
}

func NewVerificationService(
	verificationRepository VerificationRepository,
	activityService activity.ActivityService,
	coinService coin.CoinService,
	s3 storage.AwsS3,
) VerificationService {
	return &verificationService{
		verificationRepository: verificationRepository,
		activityService:        activityService,
		coinService:            coinService,
		s3:                     s3,
		locks:                  newSessionLocks(),
	}
}

func (s *verificationService) getActiveSession(ctx context.Context, sessionID string) (*entities.TransportSession, error) {
	session, err := s.verificationRepository.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}
	if session.IsCompleted() {
		return nil, domain.ErrSessionAlreadyFinalized
	}
	if !session.CanAcceptScans() {
		return nil, domain.ErrInvalidSessionState
	}
	return session, nil
}

func (s *verificationService) RecordScan(ctx context.Context, sessionID string, req domain.RecordScanRequest, userID string) (*domain.RecordScanResponse, error) {
	lock := s.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.getActiveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	normalized := NormalizeSealID(req.Identifier)
	if normalized == "" {
		return nil, domain.ErrEmptySealIdentifier
	}

	// A retried submission of the same tag is reported as a duplicate,
	// never recorded twice.
	existing, err := s.verificationRepository.GetScannedSealByNormalizedID(ctx, sessionID, normalized)
	if err == nil {
		return &domain.RecordScanResponse{
			ScanID:     existing.ID.String(),
			Identifier: existing.Identifier,
			Matched:    existing.Matched,
			Duplicate:  true,
		}, domain.ErrDuplicateScan
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	registry, err := s.verificationRepository.GetRegisteredSeals(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	match := MatchSeal(req.Identifier, registry)

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	scanID := uuid.New()
	var imageURL string
	if req.CaptureImage != nil {
		objectKey, err := s.s3.UploadFile(
			fmt.Sprintf("scan-%s", scanID.String()),
			req.CaptureImage,
			"scans",
			storage.AllowImage...,
		)
		if err != nil {
			return nil, err
		}
		imageURL = s.s3.GetPublicLinkKey(objectKey)
	}

	scan := &entities.ScannedSeal{
		ID:           scanID,
		SessionID:    session.ID,
		Identifier:   req.Identifier,
		NormalizedID: normalized,
		Method:       req.Method,
		ImageURL:     imageURL,
		Matched:      match.Matched,
		ScannedBy:    userUUID,
		ScannedAt:    time.Now(),
	}
	if match.Matched {
		sealID := match.RegisteredSealID
		scan.RegisteredSealID = &sealID
	}

	if err := s.verificationRepository.CreateScannedSeal(ctx, scan); err != nil {
		return nil, err
	}

	if match.Matched {
		if err := s.assignStatus(ctx, session.ID, match.RegisteredSealID, domain.SealStatusVerified, "", nil, userUUID); err != nil {
			return nil, err
		}
	}

	s.activityService.Log(ctx, session.ID, userUUID, domain.ActivitySealScanned,
		fmt.Sprintf("scanned %q (matched=%t)", req.Identifier, match.Matched))

	return &domain.RecordScanResponse{
		ScanID:     scanID.String(),
		Identifier: req.Identifier,
		Matched:    match.Matched,
		Duplicate:  false,
	}, nil
}

func (s *verificationService) RemoveScan(ctx context.Context, sessionID, scanID, userID string) error {
	lock := s.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.getActiveSession(ctx, sessionID)
	if err != nil {
		return err
	}

	scan, err := s.verificationRepository.GetScannedSealByID(ctx, scanID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrScanNotFound
		}
		return err
	}
	if scan.SessionID != session.ID {
		return domain.ErrScanNotFound
	}

	// Undoing a matched scan reverts the seal to Unscanned unless the
	// guard has since overridden its status manually.
	if scan.Matched && scan.RegisteredSealID != nil {
		record, err := s.verificationRepository.GetSealStatusBySealID(ctx, scan.RegisteredSealID.String())
		if err == nil && domain.SealStatus(record.Status) == domain.SealStatusVerified {
			if err := s.verificationRepository.DeleteSealStatus(ctx, record.ID.String()); err != nil {
				return err
			}
		} else if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
	}

	if err := s.verificationRepository.DeleteScannedSeal(ctx, scanID); err != nil {
		return err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}
	s.activityService.Log(ctx, session.ID, userUUID, domain.ActivityScanRemoved,
		fmt.Sprintf("removed scan %q", scan.Identifier))

	return nil
}

func (s *verificationService) SetSealStatus(ctx context.Context, sessionID, sealID string, req domain.SetSealStatusRequest, userID string) (*domain.SealStatusResponse, error) {
	lock := s.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.getActiveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	seal, err := s.verificationRepository.GetRegisteredSealByID(ctx, sealID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSealNotFound
		}
		return nil, err
	}
	if seal.SessionID != session.ID {
		return nil, domain.ErrSealNotFound
	}

	status := domain.SealStatus(req.Status)
	if err := ValidateStatusChange(status, req.Comment, len(req.EvidenceImages)); err != nil {
		return nil, err
	}

	evidenceURLs := make([]string, 0, len(req.EvidenceImages))
	for i, image := range req.EvidenceImages {
		objectKey, err := s.s3.UploadFile(
			fmt.Sprintf("seal-%s-evidence-%d", sealID, i),
			image,
			"evidence",
			storage.AllowImage...,
		)
		if err != nil {
			return nil, err
		}
		evidenceURLs = append(evidenceURLs, s.s3.GetPublicLinkKey(objectKey))
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	if err := s.assignStatus(ctx, session.ID, seal.ID, status, req.Comment, evidenceURLs, userUUID); err != nil {
		return nil, err
	}

	record, err := s.verificationRepository.GetSealStatusBySealID(ctx, sealID)
	if err != nil {
		return nil, err
	}

	s.activityService.Log(ctx, session.ID, userUUID, domain.ActivitySealStatusChanged,
		fmt.Sprintf("seal %q set to %s", seal.Identifier, status))

	return toSealStatusResponse(record, seal.Identifier), nil
}

// assignStatus upserts the status record for one registered seal. The
// caller has already validated the evidentiary gate.
func (s *verificationService) assignStatus(ctx context.Context, sessionID, sealID uuid.UUID, status domain.SealStatus, comment string, evidenceURLs []string, actingUser uuid.UUID) error {
	now := time.Now()

	record, err := s.verificationRepository.GetSealStatusBySealID(ctx, sealID.String())
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		record = &entities.SealStatusRecord{
			ID:               uuid.New(),
			SessionID:        sessionID,
			RegisteredSealID: sealID,
		}
	}

	record.Status = string(status)
	record.Comment = comment
	record.EvidenceURLs = entities.EvidenceList(evidenceURLs)
	record.VerifiedBy = &actingUser
	record.VerifiedAt = &now

	return s.verificationRepository.SaveSealStatus(ctx, record)
}

func (s *verificationService) VerifyField(ctx context.Context, sessionID, fieldKey string, req domain.VerifyFieldRequest, userID string) (*domain.FieldVerificationResponse, error) {
	lock := s.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.getActiveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.CanAcceptFieldEdits() {
		return nil, domain.ErrInvalidSessionState
	}

	field, err := s.verificationRepository.GetFieldVerificationByKey(ctx, sessionID, fieldKey)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFieldNotFound
		}
		return nil, err
	}

	if req.FlagMismatch {
		if req.Comment == "" {
			return nil, domain.ErrMismatchCommentRequired
		}
		field.IsVerified = true
		field.Matches = false
		field.Comment = req.Comment
	} else {
		// The guard attests to physical inspection; the declared value is
		// not re-keyed, so a plain toggle always records a match.
		field.IsVerified = !field.IsVerified
		field.Matches = true
		field.Comment = req.Comment
	}

	if err := s.verificationRepository.SaveFieldVerification(ctx, field); err != nil {
		return nil, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	s.activityService.Log(ctx, session.ID, userUUID, domain.ActivityFieldVerified,
		fmt.Sprintf("field %q verified=%t matches=%t", fieldKey, field.IsVerified, field.Matches))

	return toFieldResponse(field), nil
}

func (s *verificationService) VerifyAllFields(ctx context.Context, sessionID, userID string) ([]*domain.FieldVerificationResponse, error) {
	lock := s.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	session, err := s.getActiveSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	if err := s.verificationRepository.VerifyAllFields(ctx, sessionID); err != nil {
		return nil, err
	}

	fields, err := s.verificationRepository.GetFieldVerifications(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	s.activityService.Log(ctx, session.ID, userUUID, domain.ActivityFieldVerified, "all declared fields verified")

	result := make([]*domain.FieldVerificationResponse, 0, len(fields))
	for _, field := range fields {
		result = append(result, toFieldResponse(field))
	}
	return result, nil
}

func (s *verificationService) PrepareSummary(ctx context.Context, sessionID string) (*domain.VerificationSummary, error) {
	session, err := s.verificationRepository.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	registry, err := s.verificationRepository.GetRegisteredSeals(ctx, session.ID.String())
	if err != nil {
		return nil, err
	}
	records, err := s.verificationRepository.GetSealStatuses(ctx, session.ID.String())
	if err != nil {
		return nil, err
	}
	scans, err := s.verificationRepository.GetScannedSeals(ctx, session.ID.String())
	if err != nil {
		return nil, err
	}
	fields, err := s.verificationRepository.GetFieldVerifications(ctx, session.ID.String())
	if err != nil {
		return nil, err
	}

	// Only matched scans count toward the scanned total; a manual status
	// override is not a scan, and unmatched tags are not registered seals.
	scanned := 0
	for _, scan := range scans {
		if scan.Matched {
			scanned++
		}
	}

	partition := PartitionFields(fields)

	return &domain.VerificationSummary{
		TotalSeals:      len(registry),
		ScannedSeals:    scanned,
		UnscannedSeals:  len(registry) - scanned,
		StatusBreakdown: StatusBreakdown(registry, CurrentStatuses(records)),
		FieldsMatched:   len(partition.Matches),
		FieldsMismatch:  len(partition.Mismatches),
		FieldsUnchecked: len(partition.Unverified),
	}, nil
}

func (s *verificationService) Complete(ctx context.Context, sessionID, userID string) (*domain.FinalizedVerification, error) {
	lock := s.locks.get(sessionID)
	lock.Lock()
	defer lock.Unlock()

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	sessionUUID, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	var finalized *domain.FinalizedVerification
	var creator *entities.User

	err = s.verificationRepository.WithinTransaction(ctx, func(repo VerificationRepository) error {
		session, err := repo.GetSessionByID(ctx, sessionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrSessionNotFound
			}
			return err
		}
		if session.Status != string(domain.SessionStatusInProgress) {
			return domain.ErrInvalidSessionState
		}
		creator = session.Creator

		registry, err := repo.GetRegisteredSeals(ctx, sessionID)
		if err != nil {
			return err
		}
		records, err := repo.GetSealStatuses(ctx, sessionID)
		if err != nil {
			return err
		}

		now := time.Now()

		// Every seal the guard never got to is Missing. Re-assigning
		// Missing to an already-Missing seal is skipped by
		// FinalizeUnscanned, so a retried completion is idempotent here.
		byID := make(map[uuid.UUID]*entities.SealStatusRecord, len(records))
		for _, record := range records {
			byID[record.RegisteredSealID] = record
		}
		for _, sealID := range FinalizeUnscanned(registry, CurrentStatuses(records)) {
			record, ok := byID[sealID]
			if !ok {
				record = &entities.SealStatusRecord{
					ID:               uuid.New(),
					SessionID:        session.ID,
					RegisteredSealID: sealID,
				}
				byID[sealID] = record
			}
			record.Status = string(domain.SealStatusMissing)
			record.VerifiedBy = &userUUID
			record.VerifiedAt = &now
			if err := repo.SaveSealStatus(ctx, record); err != nil {
				return err
			}
		}

		fields, err := repo.GetFieldVerifications(ctx, sessionID)
		if err != nil {
			return err
		}

		sealResults := make(entities.SealResultMap, len(registry))
		sealResponses := make(map[string]*domain.SealStatusResponse, len(registry))
		for _, seal := range registry {
			record := byID[seal.ID]
			doc := entities.SealResultDocument{
				Identifier: seal.Identifier,
				Status:     record.Status,
				Comment:    record.Comment,
			}
			if len(record.EvidenceURLs) > 0 {
				doc.EvidenceURLs = record.EvidenceURLs
			}
			if record.VerifiedBy != nil {
				doc.VerifiedBy = record.VerifiedBy.String()
			}
			doc.VerifiedAt = record.VerifiedAt
			sealResults[seal.ID.String()] = doc
			sealResponses[seal.ID.String()] = toSealStatusResponse(record, seal.Identifier)
		}

		fieldResults := make(entities.FieldResultMap, len(fields))
		fieldResponses := make(map[string]*domain.FieldVerificationResponse, len(fields))
		for _, field := range fields {
			fieldResults[field.FieldKey] = entities.FieldResultDocument{
				OperatorValue: field.OperatorValue,
				GuardValue:    field.GuardValue,
				Matches:       field.Matches,
				IsVerified:    field.IsVerified,
				Comment:       field.Comment,
			}
			fieldResponses[field.FieldKey] = toFieldResponse(field)
		}

		record := &entities.VerificationRecord{
			ID:           uuid.New(),
			SessionID:    session.ID,
			FieldResults: fieldResults,
			SealResults:  sealResults,
			VerifiedBy:   userUUID,
			VerifiedAt:   now,
		}
		if err := repo.CreateVerificationRecord(ctx, record); err != nil {
			return err
		}

		if err := repo.CompleteSession(ctx, sessionID, userID, now); err != nil {
			return err
		}

		finalized = &domain.FinalizedVerification{
			SessionID:    session.ID.String(),
			SealResults:  sealResponses,
			FieldResults: fieldResponses,
			CompletedAt:  now,
			CompletedBy:  userID,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.activityService.Log(ctx, sessionUUID, userUUID, domain.ActivitySessionCompleted, "verification finalized")

	// Post-commit side effects are best-effort; the session is already
	// Completed whether or not they succeed.
	if creator != nil {
		if err := s.coinService.RewardCoins(ctx, creator.ID.String(), domain.REWARD_COMPLETED_SESSION, "completed transport session"); err != nil {
			log.Printf("failed to reward coins for session %s: %v", sessionID, err)
		}
		if creator.Email != "" {
			body := fmt.Sprintf("<p>Your transport session %s has been verified and completed.</p>", sessionID)
			if err := mailing.SendMail(creator.Email, "Transport session completed", body); err != nil {
				log.Printf("failed to send completion mail for session %s: %v", sessionID, err)
			}
		}
	}

	return finalized, nil
}

func toSealStatusResponse(record *entities.SealStatusRecord, identifier string) *domain.SealStatusResponse {
	response := &domain.SealStatusResponse{
		RegisteredSealID: record.RegisteredSealID.String(),
		Identifier:       identifier,
		Status:           record.Status,
		Comment:          record.Comment,
		EvidenceURLs:     record.EvidenceURLs,
		VerifiedAt:       record.VerifiedAt,
	}
	if record.VerifiedBy != nil {
		response.VerifiedBy = record.VerifiedBy.String()
	}
	return response
}

func toFieldResponse(field *entities.FieldVerification) *domain.FieldVerificationResponse {
	return &domain.FieldVerificationResponse{
		FieldKey:      field.FieldKey,
		OperatorValue: field.OperatorValue,
		GuardValue:    field.GuardValue,
		IsVerified:    field.IsVerified,
		Matches:       field.Matches,
		Comment:       field.Comment,
	}
}
