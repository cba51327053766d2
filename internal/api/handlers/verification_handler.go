package handlers

import (
	"errors"

	"TransitGuard/domain"
	"TransitGuard/internal/api/presenters"
	"TransitGuard/pkg/verification"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	VerificationHandler interface {
		RecordScan(c *fiber.Ctx) error
		RemoveScan(c *fiber.Ctx) error
		SetSealStatus(c *fiber.Ctx) error
		VerifyField(c *fiber.Ctx) error
		VerifyAllFields(c *fiber.Ctx) error
		GetSummary(c *fiber.Ctx) error
		Complete(c *fiber.Ctx) error
	}

	verificationHandler struct {
		verificationService verification.VerificationService
		validator           *validator.Validate
	}
)

func NewVerificationHandler(verificationService verification.VerificationService, validator *validator.Validate) VerificationHandler {
	return &verificationHandler{
		verificationService: verificationService,
		validator:           validator,
	}
}

// verificationStatusCode maps service errors onto HTTP statuses. State
// conflicts and duplicates are 409 so clients can tell a retryable
// mistake from a rejected one.
func verificationStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrDuplicateScan),
		errors.Is(err, domain.ErrSessionAlreadyFinalized),
		errors.Is(err, domain.ErrInvalidSessionState):
		return fiber.StatusConflict
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrSealNotFound),
		errors.Is(err, domain.ErrScanNotFound),
		errors.Is(err, domain.ErrFieldNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusBadRequest
	}
}

func (h *verificationHandler) RecordScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	sessionID := c.Params("id")

	req := new(domain.RecordScanRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	req.CaptureImage, _ = c.FormFile("capture_image")

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedRecordScan, err)
	}

	result, err := h.verificationService.RecordScan(c.Context(), sessionID, *req, userID)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateScan) && result != nil {
			return presenters.ErrorResponse(c, fiber.StatusConflict, domain.MessageFailedRecordScan, err)
		}
		return presenters.ErrorResponse(c, verificationStatusCode(err), domain.MessageFailedRecordScan, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusCreated, domain.MessageSuccessRecordScan)
}

func (h *verificationHandler) RemoveScan(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	sessionID := c.Params("id")
	scanID := c.Params("scan_id")

	if err := h.verificationService.RemoveScan(c.Context(), sessionID, scanID, userID); err != nil {
		return presenters.ErrorResponse(c, verificationStatusCode(err), domain.MessageFailedRemoveScan, err)
	}

	return presenters.SuccessResponse(c, nil, fiber.StatusOK, domain.MessageSuccessRemoveScan)
}

func (h *verificationHandler) SetSealStatus(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	sessionID := c.Params("id")
	sealID := c.Params("seal_id")

	req := new(domain.SetSealStatusRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if form, err := c.MultipartForm(); err == nil && form != nil {
		req.EvidenceImages = form.File["evidence_images"]
	}

	if err := h.validator.Struct(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSetSealStatus, err)
	}

	result, err := h.verificationService.SetSealStatus(c.Context(), sessionID, sealID, *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, verificationStatusCode(err), domain.MessageFailedSetSealStatus, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessSetSealStatus)
}

func (h *verificationHandler) VerifyField(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	sessionID := c.Params("id")
	fieldKey := c.Params("field_key")

	req := new(domain.VerifyFieldRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	result, err := h.verificationService.VerifyField(c.Context(), sessionID, fieldKey, *req, userID)
	if err != nil {
		return presenters.ErrorResponse(c, verificationStatusCode(err), domain.MessageFailedVerifyField, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessVerifyField)
}

func (h *verificationHandler) VerifyAllFields(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	sessionID := c.Params("id")

	result, err := h.verificationService.VerifyAllFields(c.Context(), sessionID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, verificationStatusCode(err), domain.MessageFailedVerifyField, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessVerifyAllFields)
}

func (h *verificationHandler) GetSummary(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	result, err := h.verificationService.PrepareSummary(c.Context(), sessionID)
	if err != nil {
		return presenters.ErrorResponse(c, verificationStatusCode(err), domain.MessageFailedGetSummary, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessGetSummary)
}

func (h *verificationHandler) Complete(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	sessionID := c.Params("id")

	result, err := h.verificationService.Complete(c.Context(), sessionID, userID)
	if err != nil {
		return presenters.ErrorResponse(c, verificationStatusCode(err), domain.MessageFailedComplete, err)
	}

	return presenters.SuccessResponse(c, result, fiber.StatusOK, domain.MessageSuccessComplete)
}
