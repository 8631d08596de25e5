package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMaxWinning(t *testing.T) {
	assert.Equal(t, 24.0, MaxWinning(1, 2))
	assert.Equal(t, 240.0, MaxWinning(10, 20))
}

func TestNormalizeRewardEndpoints(t *testing.T) {
	maxWin := MaxWinning(10, 20)
	assert.Equal(t, 0.0, NormalizeReward(-maxWin, maxWin))
	assert.Equal(t, 0.5, NormalizeReward(0, maxWin))
	assert.Equal(t, 1.0, NormalizeReward(maxWin, maxWin))
}

func TestNormalizeRewardBreakEvenIsExactlyHalf(t *testing.T) {
	assert.Equal(t, 0.5, NormalizeReward(0, MaxWinning(1, 2)))
}

func TestNormalizeRewardIsMonotonic(t *testing.T) {
	maxWin := MaxWinning(10, 20)
	prev := NormalizeReward(-maxWin, maxWin)
	for raw := -maxWin + 10; raw <= maxWin; raw += 10 {
		r := NormalizeReward(raw, maxWin)
		assert.Greater(t, r, prev)
		prev = r
	}
}
