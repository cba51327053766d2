package handlers

import (
	"errors"
	"fmt"

	"TransitGuard/domain"
	"TransitGuard/internal/api/presenters"
	"TransitGuard/pkg/report"
	"github.com/gofiber/fiber/v2"
)

type (
	ReportHandler interface {
		ExportVerificationReport(c *fiber.Ctx) error
	}

	reportHandler struct {
		reportService report.ReportService
	}
)

func NewReportHandler(reportService report.ReportService) ReportHandler {
	return &reportHandler{
		reportService: reportService,
	}
}

func (h *reportHandler) ExportVerificationReport(c *fiber.Ctx) error {
	userID := c.Locals("user_id").(string)
	sessionID := c.Params("id")

	f, filename, err := h.reportService.ExportVerificationReport(c.Context(), sessionID, userID)
	if err != nil {
		status := fiber.StatusBadRequest
		switch {
		case errors.Is(err, domain.ErrReportNotAvailable):
			status = fiber.StatusConflict
		case errors.Is(err, domain.ErrInsufficientCoins):
			status = fiber.StatusPaymentRequired
		case errors.Is(err, domain.ErrSessionNotFound):
			status = fiber.StatusNotFound
		}
		return presenters.ErrorResponse(c, status, domain.MessageFailedExportReport, err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedExportReport, err)
	}

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	return c.Status(fiber.StatusOK).Send(buf.Bytes())
}
