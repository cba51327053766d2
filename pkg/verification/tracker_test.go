package verification

import (
	"testing"

	"TransitGuard/domain"
	"TransitGuard/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateStatusChange(t *testing.T) {
	tests := []struct {
		name          string
		status        domain.SealStatus
		comment       string
		evidenceCount int
		expectedErr   error
	}{
		{"verified needs nothing", domain.SealStatusVerified, "", 0, nil},
		{"missing needs nothing", domain.SealStatusMissing, "", 0, nil},
		{"unscanned is assignable", domain.SealStatusUnscanned, "", 0, nil},
		{"broken with comment and evidence", domain.SealStatusBroken, "cut open", 1, nil},
		{"tampered with comment and evidence", domain.SealStatusTampered, "resealed with glue", 2, nil},
		{"broken without comment", domain.SealStatusBroken, "", 1, domain.ErrMissingEvidence},
		{"broken with blank comment", domain.SealStatusBroken, "   ", 1, domain.ErrMissingEvidence},
		{"broken without evidence", domain.SealStatusBroken, "cut open", 0, domain.ErrMissingEvidence},
		{"tampered without either", domain.SealStatusTampered, "", 0, domain.ErrMissingEvidence},
		{"unknown status", domain.SealStatus("Exploded"), "boom", 3, domain.ErrInvalidSealStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStatusChange(tt.status, tt.comment, tt.evidenceCount)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCurrentStatuses(t *testing.T) {
	sealID := uuid.New()
	otherID := uuid.New()

	statuses := CurrentStatuses([]*entities.SealStatusRecord{
		{RegisteredSealID: sealID, Status: string(domain.SealStatusVerified)},
		{RegisteredSealID: otherID, Status: string(domain.SealStatusTampered)},
	})

	assert.Equal(t, domain.SealStatusVerified, statuses[sealID])
	assert.Equal(t, domain.SealStatusTampered, statuses[otherID])
	_, ok := statuses[uuid.New()]
	assert.False(t, ok)
}

func TestFinalizeUnscanned(t *testing.T) {
	first := &entities.RegisteredSeal{ID: uuid.New(), Identifier: "A1"}
	second := &entities.RegisteredSeal{ID: uuid.New(), Identifier: "A2"}
	third := &entities.RegisteredSeal{ID: uuid.New(), Identifier: "A3"}
	registry := []*entities.RegisteredSeal{first, second, third}

	t.Run("seals without a record are unscanned", func(t *testing.T) {
		unscanned := FinalizeUnscanned(registry, map[uuid.UUID]domain.SealStatus{
			first.ID: domain.SealStatusVerified,
		})
		require.Len(t, unscanned, 2)
		assert.Equal(t, []uuid.UUID{second.ID, third.ID}, unscanned)
	})

	t.Run("explicit unscanned records are included", func(t *testing.T) {
		unscanned := FinalizeUnscanned(registry, map[uuid.UUID]domain.SealStatus{
			first.ID:  domain.SealStatusUnscanned,
			second.ID: domain.SealStatusBroken,
			third.ID:  domain.SealStatusVerified,
		})
		assert.Equal(t, []uuid.UUID{first.ID}, unscanned)
	})

	t.Run("already missing seals are excluded", func(t *testing.T) {
		unscanned := FinalizeUnscanned(registry, map[uuid.UUID]domain.SealStatus{
			first.ID:  domain.SealStatusMissing,
			second.ID: domain.SealStatusMissing,
			third.ID:  domain.SealStatusMissing,
		})
		assert.Empty(t, unscanned)
	})

	t.Run("preserves registry order", func(t *testing.T) {
		unscanned := FinalizeUnscanned(registry, nil)
		assert.Equal(t, []uuid.UUID{first.ID, second.ID, third.ID}, unscanned)
	})
}

func TestStatusBreakdown(t *testing.T) {
	first := &entities.RegisteredSeal{ID: uuid.New()}
	second := &entities.RegisteredSeal{ID: uuid.New()}
	third := &entities.RegisteredSeal{ID: uuid.New()}
	registry := []*entities.RegisteredSeal{first, second, third}

	breakdown := StatusBreakdown(registry, map[uuid.UUID]domain.SealStatus{
		first.ID:  domain.SealStatusVerified,
		second.ID: domain.SealStatusTampered,
	})

	assert.Equal(t, 1, breakdown[domain.SealStatusVerified])
	assert.Equal(t, 1, breakdown[domain.SealStatusTampered])
	assert.Equal(t, 1, breakdown[domain.SealStatusUnscanned])
	assert.Equal(t, 0, breakdown[domain.SealStatusBroken])
}
