package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandStrengthBounds(t *testing.T) {
	cases := []struct {
		hole  string
		board []string
	}{
		{"AsKs", nil},
		{"7c2d", nil},
		{"9s8h", []string{"2c3c8c"}},
		{"9s8h", []string{"2c3c8c", "Th"}},
		{"9s8h", []string{"2c3c8c", "Th", "9d"}},
	}
	for _, tc := range cases {
		s := handStrength(tc.hole, tc.board)
		assert.GreaterOrEqual(t, s, 0.0, "%s %v", tc.hole, tc.board)
		assert.LessOrEqual(t, s, 1.0, "%s %v", tc.hole, tc.board)
	}
}

func TestHandStrengthRoyalFlushIsCeiling(t *testing.T) {
	assert.Equal(t, 1.0, handStrength("AsKs", []string{"QsJsTs"}))
	assert.Equal(t, 1.0, handStrength("AsKs", []string{"QsJsTs", "2d", "3h"}))
}

func TestHandStrengthHiddenHole(t *testing.T) {
	assert.Equal(t, 0.0, handStrength("", []string{"2c3c8c"}))
}

func TestPreflopStrengthOrdering(t *testing.T) {
	aces := handStrength("AsAd", nil)
	suitedConnector := handStrength("9s8s", nil)
	junk := handStrength("7c2d", nil)

	assert.Equal(t, 1.0, aces)
	assert.Greater(t, suitedConnector, junk)
	assert.Greater(t, aces, suitedConnector)
}

func TestHandStrengthImprovesWithMadeHand(t *testing.T) {
	// Quads on the board beat a busted high card.
	quads := handStrength("9s9h", []string{"9c9dTh"})
	highCard := handStrength("7c2d", []string{"9c4dTh"})
	require.Greater(t, quads, highCard)
}

func TestParseCardsRejectsGarbage(t *testing.T) {
	for _, s := range []string{"9", "9x", "Xs", "9s8"} {
		_, err := parseCards(s)
		assert.Error(t, err, "cards %q", s)
	}
}
