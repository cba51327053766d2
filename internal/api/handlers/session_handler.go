package handlers

import (
	"strconv"

	"TransitGuard/domain"
	"TransitGuard/internal/api/presenters"
	"TransitGuard/pkg/session"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	SessionHandler interface {
		CreateSession(c *fiber.Ctx) error
		GetSessions(c *fiber.Ctx) error
		GetSessionByID(c *fiber.Ctx) error
		StartSession(c *fiber.Ctx) error
	}

	sessionHandler struct {
		sessionService session.SessionService
		validator      *validator.Validate
	}
)

func NewSessionHandler(sessionService session.SessionService, validator *validator.Validate) SessionHandler {
	return &sessionHandler{
		sessionService: sessionService,
		validator:      validator,
	}
}

func (h *sessionHandler) CreateSession(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	req := new(domain.CreateSessionRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.VehiclePhoto, _ = c.FormFile("vehicle_photo")
	req.DriverPhoto, _ = c.FormFile("driver_photo")

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateSession, err)
	}

	result, err := h.sessionService.CreateSession(c.Context(), *req, userID, role)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedCreateSession, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusCreated, domain.MessageSuccessCreateSession)
}

func (h *sessionHandler) GetSessions(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)

	page, err := strconv.Atoi(c.Query("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.Query("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}

	sessions, count, err := h.sessionService.GetSessions(c.Context(), userID, role, page, limit)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetSessions, err)
	}

	return presenters.SuccessResponse(c, fiber.Map{
		"sessions": sessions,
		"pagination": fiber.Map{
			"page":        page,
			"limit":       limit,
			"total":       count,
			"total_pages": (count + int64(limit) - 1) / int64(limit),
		},
	}, fiber.StatusOK, domain.MessageSuccessGetSessions)
}

func (h *sessionHandler) GetSessionByID(c *fiber.Ctx) error {
	sessionID := c.Params("id")
	if sessionID == "" {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetSessions, domain.ErrSessionNotFound)
	}

	result, err := h.sessionService.GetSessionByID(c.Context(), sessionID)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedGetSessions, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessGetSession)
}

func (h *sessionHandler) StartSession(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	role := c.Locals("role").(string)
	sessionID := c.Params("id")

	result, err := h.sessionService.StartSession(c.Context(), sessionID, userID, role)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedStartSession, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessStartSession)
}
