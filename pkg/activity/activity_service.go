package activity

import (
	"context"
	"log"

	"TransitGuard/domain"
	"TransitGuard/entities"
	"github.com/google/uuid"
)

type (
	ActivityService interface {
		// Log appends an activity entry. It is best-effort: a failed
		// write is logged and never fails the operation that caused it.
		Log(ctx context.Context, sessionID, userID uuid.UUID, action, detail string)
		GetSessionActivities(ctx context.Context, sessionID string, page, limit int) ([]*domain.ActivityResponse, int64, error)
	}

	activityService struct {
		activityRepository ActivityRepository
	}
)

func NewActivityService(activityRepository ActivityRepository) ActivityService {
	return &activityService{activityRepository: activityRepository}
}

func (s *activityService) Log(ctx context.Context, sessionID, userID uuid.UUID, action, detail string) {
	entry := &entities.ActivityLog{
		ID:        uuid.New(),
		SessionID: sessionID,
		UserID:    userID,
		Action:    action,
		Detail:    detail,
	}
	if err := s.activityRepository.CreateActivity(ctx, entry); err != nil {
		log.Printf("failed to write activity log for session %s: %v", sessionID, err)
	}
}

func (s *activityService) GetSessionActivities(ctx context.Context, sessionID string, page, limit int) ([]*domain.ActivityResponse, int64, error) {
	activities, count, err := s.activityRepository.GetSessionActivities(ctx, sessionID, page, limit)
	if err != nil {
		return nil, 0, err
	}

	result := make([]*domain.ActivityResponse, 0, len(activities))
	for _, entry := range activities {
		response := &domain.ActivityResponse{
			ID:        entry.ID.String(),
			SessionID: entry.SessionID.String(),
			UserID:    entry.UserID.String(),
			Action:    entry.Action,
			Detail:    entry.Detail,
			CreatedAt: entry.CreatedAt,
		}
		if entry.User != nil {
			response.UserName = entry.User.Name
		}
		result = append(result, response)
	}

	return result, count, nil
}
