package verification

import (
	"strings"

	"TransitGuard/domain"
	"TransitGuard/entities"
	"github.com/google/uuid"
)

// ValidateStatusChange enforces the evidentiary gate on seal status
// assignment. Broken and Tampered need a non-empty comment and at least
// one evidence attachment; Verified and Missing need neither.
func ValidateStatusChange(status domain.SealStatus, comment string, evidenceCount int) error {
	if !status.Valid() {
		return domain.ErrInvalidSealStatus
	}
	if status.RequiresEvidence() {
		if strings.TrimSpace(comment) == "" || evidenceCount == 0 {
			return domain.ErrMissingEvidence
		}
	}
	return nil
}

// CurrentStatuses folds status records into a lookup keyed by registered
// seal id. Seals without a record are Unscanned.
func CurrentStatuses(records []*entities.SealStatusRecord) map[uuid.UUID]domain.SealStatus {
	statuses := make(map[uuid.UUID]domain.SealStatus, len(records))
	for _, record := range records {
		statuses[record.RegisteredSealID] = domain.SealStatus(record.Status)
	}
	return statuses
}

// FinalizeUnscanned returns every registered seal whose status is still
// Unscanned, in registry order. Seals already Missing are excluded, so
// re-running completion never re-processes them.
func FinalizeUnscanned(registry []*entities.RegisteredSeal, statuses map[uuid.UUID]domain.SealStatus) []uuid.UUID {
	var unscanned []uuid.UUID
	for _, seal := range registry {
		status, ok := statuses[seal.ID]
		if !ok || status == domain.SealStatusUnscanned {
			unscanned = append(unscanned, seal.ID)
		}
	}
	return unscanned
}

// StatusBreakdown builds the per-status histogram over the full registry,
// counting seals without a record as Unscanned.
func StatusBreakdown(registry []*entities.RegisteredSeal, statuses map[uuid.UUID]domain.SealStatus) map[domain.SealStatus]int {
	breakdown := map[domain.SealStatus]int{}
	for _, seal := range registry {
		status, ok := statuses[seal.ID]
		if !ok {
			status = domain.SealStatusUnscanned
		}
		breakdown[status]++
	}
	return breakdown
}
