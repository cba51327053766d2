package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TransitGuard/domain"
	"TransitGuard/entities"
	"TransitGuard/internal/utils/storage"
	"TransitGuard/pkg/activity"
	"TransitGuard/pkg/verification"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	SessionService interface {
		CreateSession(ctx context.Context, req domain.CreateSessionRequest, userID, role string) (*domain.SessionResponse, error)
		GetSessions(ctx context.Context, userID, role string, page, limit int) ([]*domain.SessionResponse, int64, error)
		GetSessionByID(ctx context.Context, id string) (*domain.SessionResponse, error)
		StartSession(ctx context.Context, id string, userID, role string) (*domain.SessionResponse, error)
	}

	sessionService struct {
		sessionRepository SessionRepository
		activityService   activity.ActivityService
		s3                storage.AwsS3
	}
)

func NewSessionService(sessionRepository SessionRepository, activityService activity.ActivityService, s3 storage.AwsS3) SessionService {
	return &sessionService{
		sessionRepository: sessionRepository,
		activityService:   activityService,
		s3:                s3,
	}
}

func (s *sessionService) CreateSession(ctx context.Context, req domain.CreateSessionRequest, userID, role string) (*domain.SessionResponse, error) {
	if role != domain.RoleOperator {
		return nil, domain.ErrUnauthorizedSessionRole
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	if len(req.SealIdentifiers) == 0 {
		return nil, domain.ErrNoSealsRegistered
	}

	// Reject duplicate tag codes up front; sameness is normalized
	// identity, not raw string equality.
	seen := make(map[string]bool, len(req.SealIdentifiers))
	for _, identifier := range req.SealIdentifiers {
		normalized := verification.NormalizeSealID(identifier)
		if normalized == "" {
			return nil, domain.ErrDuplicateRegisteredSeal
		}
		if seen[normalized] {
			return nil, domain.ErrDuplicateRegisteredSeal
		}
		seen[normalized] = true
	}

	sessionID := uuid.New()

	var vehiclePhotoURL, driverPhotoURL string
	if req.VehiclePhoto != nil {
		objectKey, err := s.s3.UploadFile(
			fmt.Sprintf("session-%s-vehicle", sessionID.String()),
			req.VehiclePhoto,
			"sessions",
			storage.AllowImage...,
		)
		if err != nil {
			return nil, err
		}
		vehiclePhotoURL = s.s3.GetPublicLinkKey(objectKey)
	}
	if req.DriverPhoto != nil {
		objectKey, err := s.s3.UploadFile(
			fmt.Sprintf("session-%s-driver", sessionID.String()),
			req.DriverPhoto,
			"sessions",
			storage.AllowImage...,
		)
		if err != nil {
			return nil, err
		}
		driverPhotoURL = s.s3.GetPublicLinkKey(objectKey)
	}

	session := &entities.TransportSession{
		ID:              sessionID,
		Source:          req.Source,
		Destination:     req.Destination,
		VehicleNumber:   req.VehicleNumber,
		DriverName:      req.DriverName,
		DriverPhone:     req.DriverPhone,
		VehiclePhotoURL: vehiclePhotoURL,
		DriverPhotoURL:  driverPhotoURL,
		Status:          string(domain.SessionStatusPending),
		CreatedBy:       userUUID,
	}

	if err := s.sessionRepository.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	now := time.Now()
	seals := make([]*entities.RegisteredSeal, 0, len(req.SealIdentifiers))
	for _, identifier := range req.SealIdentifiers {
		seals = append(seals, &entities.RegisteredSeal{
			ID:           uuid.New(),
			SessionID:    sessionID,
			Identifier:   identifier,
			NormalizedID: verification.NormalizeSealID(identifier),
			Method:       req.SealMethod,
			RegisteredAt: now,
		})
	}
	if err := s.sessionRepository.CreateRegisteredSeals(ctx, seals); err != nil {
		return nil, err
	}

	s.activityService.Log(ctx, sessionID, userUUID, domain.ActivitySessionCreated,
		fmt.Sprintf("session created with %d registered seals", len(seals)))

	created, err := s.sessionRepository.GetSessionByID(ctx, sessionID.String())
	if err != nil {
		return nil, err
	}

	return toSessionResponse(created), nil
}

func (s *sessionService) GetSessions(ctx context.Context, userID, role string, page, limit int) ([]*domain.SessionResponse, int64, error) {
	// Operators see their own sessions; guards see every session awaiting
	// or under verification.
	createdBy := userID
	if role == domain.RoleGuard {
		createdBy = ""
	}

	sessions, count, err := s.sessionRepository.GetSessions(ctx, createdBy, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		result = append(result, toSessionResponse(session))
	}

	return result, count, nil
}

func (s *sessionService) GetSessionByID(ctx context.Context, id string) (*domain.SessionResponse, error) {
	session, err := s.sessionRepository.GetSessionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	return toSessionResponse(session), nil
}

func (s *sessionService) StartSession(ctx context.Context, id string, userID, role string) (*domain.SessionResponse, error) {
	if role != domain.RoleGuard {
		return nil, domain.ErrUnauthorizedSessionRole
	}

	session, err := s.sessionRepository.GetSessionByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, err
	}

	if session.Status != string(domain.SessionStatusPending) {
		return nil, domain.ErrIllegalTransition
	}

	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	now := time.Now()
	if err := s.sessionRepository.StartSession(ctx, id, userID, now); err != nil {
		return nil, err
	}

	// Seed one verification row per declared field. The guard value
	// defaults to the operator value; the guard attests, not re-keys.
	fields := make([]*entities.FieldVerification, 0, len(domain.DeclaredFields))
	for _, key := range domain.DeclaredFields {
		value := declaredFieldValue(session, key)
		fields = append(fields, &entities.FieldVerification{
			ID:            uuid.New(),
			SessionID:     session.ID,
			FieldKey:      key,
			OperatorValue: value,
			GuardValue:    value,
			IsVerified:    false,
			Matches:       true,
		})
	}
	if err := s.sessionRepository.CreateFieldVerifications(ctx, fields); err != nil {
		return nil, err
	}

	s.activityService.Log(ctx, session.ID, userUUID, domain.ActivitySessionStarted, "verification started")

	started, err := s.sessionRepository.GetSessionByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toSessionResponse(started), nil
}

func declaredFieldValue(session *entities.TransportSession, key string) string {
	switch key {
	case "source":
		return session.Source
	case "destination":
		return session.Destination
	case "vehicle_number":
		return session.VehicleNumber
	case "driver_name":
		return session.DriverName
	case "driver_phone":
		return session.DriverPhone
	case "vehicle_photo":
		return session.VehiclePhotoURL
	case "driver_photo":
		return session.DriverPhotoURL
	default:
		return ""
	}
}

func toSessionResponse(session *entities.TransportSession) *domain.SessionResponse {
	seals := make([]*domain.RegisteredSealResponse, 0, len(session.RegisteredSeals))
	for _, seal := range session.RegisteredSeals {
		seals = append(seals, &domain.RegisteredSealResponse{
			ID:           seal.ID.String(),
			Identifier:   seal.Identifier,
			Method:       seal.Method,
			ImageURL:     seal.ImageURL,
			RegisteredAt: seal.RegisteredAt,
		})
	}

	return &domain.SessionResponse{
		ID:              session.ID.String(),
		Source:          session.Source,
		Destination:     session.Destination,
		VehicleNumber:   session.VehicleNumber,
		DriverName:      session.DriverName,
		DriverPhone:     session.DriverPhone,
		VehiclePhotoURL: session.VehiclePhotoURL,
		DriverPhotoURL:  session.DriverPhotoURL,
		Status:          session.Status,
		CreatedBy:       session.CreatedBy.String(),
		StartedAt:       session.StartedAt,
		CompletedAt:     session.CompletedAt,
		RegisteredSeals: seals,
		CreatedAt:       session.CreatedAt,
	}
}
