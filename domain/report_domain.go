package domain

import "errors"

var (
	MessageSuccessExportReport = "verification report exported successfully"
	MessageFailedExportReport  = "failed to export verification report"

	ErrReportNotAvailable = errors.New("verification report not available until session is completed")
)
