package handlers

import (
	"strconv"

	"TransitGuard/domain"
	"TransitGuard/internal/api/presenters"
	"TransitGuard/pkg/activity"
	"github.com/gofiber/fiber/v2"
)

type (
	ActivityHandler interface {
		GetSessionActivities(c *fiber.Ctx) error
	}

	activityHandler struct {
		activityService activity.ActivityService
	}
)

func NewActivityHandler(activityService activity.ActivityService) ActivityHandler {
	return &activityHandler{
		activityService: activityService,
	}
}

func (h *activityHandler) GetSessionActivities(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	activities, count, err := h.activityService.GetSessionActivities(c.Context(), sessionID, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetActivities, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"activities": activities,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetActivities)
}
