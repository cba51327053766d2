package report

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"TransitGuard/domain"
	"TransitGuard/pkg/coin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

type (
	ReportService interface {
		// ExportVerificationReport builds the Excel workbook for a
		// completed session's verification record, charging the caller's
		// coin balance for the export.
		ExportVerificationReport(ctx context.Context, sessionID, userID string) (*excelize.File, string, error)
	}

	reportService struct {
		reportRepository ReportRepository
		coinService      coin.CoinService
	}
)

func NewReportService(reportRepository ReportRepository, coinService coin.CoinService) ReportService {
	return &reportService{
		reportRepository: reportRepository,
		coinService:      coinService,
	}
}

func (s *reportService) ExportVerificationReport(ctx context.Context, sessionID, userID string) (*excelize.File, string, error) {
	session, err := s.reportRepository.GetSessionByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", domain.ErrSessionNotFound
		}
		return nil, "", err
	}

	if !session.IsCompleted() {
		return nil, "", domain.ErrReportNotAvailable
	}

	record, err := s.reportRepository.GetVerificationRecord(ctx, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", domain.ErrReportNotAvailable
		}
		return nil, "", err
	}

	if err := s.coinService.UseCoins(ctx, userID, domain.COST_REPORT_EXPORT, "ReportExport", sessionID); err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	sheet := "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, "", err
	}

	// Trip header
	f.SetCellValue(sheet, "A1", "Session")
	f.SetCellValue(sheet, "B1", session.ID.String())
	f.SetCellValue(sheet, "A2", "Route")
	f.SetCellValue(sheet, "B2", fmt.Sprintf("%s -> %s", session.Source, session.Destination))
	f.SetCellValue(sheet, "A3", "Vehicle")
	f.SetCellValue(sheet, "B3", session.VehicleNumber)
	f.SetCellValue(sheet, "A4", "Verified at")
	f.SetCellValue(sheet, "B4", record.VerifiedAt.Format("2006-01-02 15:04:05"))

	// Seal outcomes
	row := 6
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Seal")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Status")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Comment")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Evidence")

	sealIDs := make([]string, 0, len(record.SealResults))
	for id := range record.SealResults {
		sealIDs = append(sealIDs, id)
	}
	sort.Strings(sealIDs)
	for _, id := range sealIDs {
		row++
		doc := record.SealResults[id]
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), doc.Identifier)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), doc.Status)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), doc.Comment)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), len(doc.EvidenceURLs))
	}

	// Field outcomes
	row += 2
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Field")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), "Declared")
	f.SetCellValue(sheet, fmt.Sprintf("C%d", row), "Verified")
	f.SetCellValue(sheet, fmt.Sprintf("D%d", row), "Matches")
	f.SetCellValue(sheet, fmt.Sprintf("E%d", row), "Comment")

	fieldKeys := make([]string, 0, len(record.FieldResults))
	for key := range record.FieldResults {
		fieldKeys = append(fieldKeys, key)
	}
	sort.Strings(fieldKeys)
	for _, key := range fieldKeys {
		row++
		doc := record.FieldResults[key]
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), key)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), doc.OperatorValue)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), doc.IsVerified)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), doc.Matches)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), doc.Comment)
	}

	filename := fmt.Sprintf("verification-%s.xlsx", sessionID)
	return f, filename, nil
}
