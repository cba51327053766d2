package verification

import (
	"strings"

	"TransitGuard/entities"
	"github.com/google/uuid"
)

type MatchResult struct {
	Matched          bool
	RegisteredSealID uuid.UUID
	Identifier       string
}

// NormalizeSealID is the single definition of seal identifier sameness.
// Scan matching, duplicate detection and completion reconciliation all
// compare normalized identifiers and nothing else.
func NormalizeSealID(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

// MatchSeal compares an observed identifier against the registered seal
// snapshot. It matches iff exactly one registry entry has the same
// normalized identifier; an ambiguous registry never auto-verifies.
func MatchSeal(observed string, registry []*entities.RegisteredSeal) MatchResult {
	normalized := NormalizeSealID(observed)
	if normalized == "" {
		return MatchResult{}
	}

	var found *entities.RegisteredSeal
	matches := 0
	for _, seal := range registry {
		if NormalizeSealID(seal.Identifier) == normalized {
			found = seal
			matches++
		}
	}

	if matches != 1 {
		return MatchResult{}
	}

	return MatchResult{
		Matched:          true,
		RegisteredSealID: found.ID,
		Identifier:       found.Identifier,
	}
}
