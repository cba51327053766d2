package verification

import (
	"TransitGuard/entities"
)

// FieldPartition is the three-way classification of field verifications.
// The same partition feeds the live summary, the finalized record and the
// tests, so the numbers can never drift between them.
type FieldPartition struct {
	Matches    []*entities.FieldVerification
	Mismatches []*entities.FieldVerification
	Unverified []*entities.FieldVerification
}

// PartitionFields classifies every declared field: verified-and-matching,
// verified-but-flagged, or never acted on. Unverified fields count as
// failing at report time.
func PartitionFields(fields []*entities.FieldVerification) FieldPartition {
	var partition FieldPartition
	for _, field := range fields {
		switch {
		case field.IsVerified && field.Matches:
			partition.Matches = append(partition.Matches, field)
		case field.IsVerified:
			partition.Mismatches = append(partition.Mismatches, field)
		default:
			partition.Unverified = append(partition.Unverified, field)
		}
	}
	return partition
}
