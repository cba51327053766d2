package verification

import (
	"testing"

	"TransitGuard/entities"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSealID(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"lowercases", "SEAL-A1", "seal-a1"},
		{"trims whitespace", "  a1  ", "a1"},
		{"trims and lowercases", " A1\t", "a1"},
		{"keeps interior spaces", "a 1", "a 1"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeSealID(tt.input))
		})
	}
}

func TestMatchSeal(t *testing.T) {
	sealA1 := &entities.RegisteredSeal{ID: uuid.New(), Identifier: "A1"}
	sealA2 := &entities.RegisteredSeal{ID: uuid.New(), Identifier: "A2"}
	registry := []*entities.RegisteredSeal{sealA1, sealA2}

	t.Run("exact identifier matches", func(t *testing.T) {
		result := MatchSeal("A1", registry)
		require.True(t, result.Matched)
		assert.Equal(t, sealA1.ID, result.RegisteredSealID)
		assert.Equal(t, "A1", result.Identifier)
	})

	t.Run("case and whitespace are insignificant", func(t *testing.T) {
		result := MatchSeal("  a1 ", registry)
		require.True(t, result.Matched)
		assert.Equal(t, sealA1.ID, result.RegisteredSealID)
	})

	t.Run("unknown identifier does not match", func(t *testing.T) {
		result := MatchSeal("B9", registry)
		assert.False(t, result.Matched)
	})

	t.Run("empty identifier never matches", func(t *testing.T) {
		assert.False(t, MatchSeal("", registry).Matched)
		assert.False(t, MatchSeal("   ", registry).Matched)
	})

	t.Run("ambiguous registry does not auto-verify", func(t *testing.T) {
		ambiguous := []*entities.RegisteredSeal{
			{ID: uuid.New(), Identifier: "A1"},
			{ID: uuid.New(), Identifier: "a1 "},
		}
		assert.False(t, MatchSeal("A1", ambiguous).Matched)
	})

	t.Run("empty registry", func(t *testing.T) {
		assert.False(t, MatchSeal("A1", nil).Matched)
	})
}
