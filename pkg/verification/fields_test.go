package verification

import (
	"testing"

	"TransitGuard/entities"
	"github.com/stretchr/testify/assert"
)

func TestPartitionFields(t *testing.T) {
	matched := &entities.FieldVerification{FieldKey: "source", IsVerified: true, Matches: true}
	flagged := &entities.FieldVerification{FieldKey: "driver_name", IsVerified: true, Matches: false, Comment: "different driver"}
	untouched := &entities.FieldVerification{FieldKey: "vehicle_number"}

	partition := PartitionFields([]*entities.FieldVerification{matched, flagged, untouched})

	assert.Equal(t, []*entities.FieldVerification{matched}, partition.Matches)
	assert.Equal(t, []*entities.FieldVerification{flagged}, partition.Mismatches)
	assert.Equal(t, []*entities.FieldVerification{untouched}, partition.Unverified)
}

func TestPartitionFieldsEmpty(t *testing.T) {
	partition := PartitionFields(nil)

	assert.Empty(t, partition.Matches)
	assert.Empty(t, partition.Mismatches)
	assert.Empty(t, partition.Unverified)
}

func TestPartitionFieldsUnverifiedMatchFlagIgnored(t *testing.T) {
	// A Matches flag left over from an undone verification must not count
	// until the field is verified again.
	stale := &entities.FieldVerification{FieldKey: "destination", IsVerified: false, Matches: true}

	partition := PartitionFields([]*entities.FieldVerification{stale})

	assert.Empty(t, partition.Matches)
	assert.Empty(t, partition.Mismatches)
	assert.Equal(t, []*entities.FieldVerification{stale}, partition.Unverified)
}
