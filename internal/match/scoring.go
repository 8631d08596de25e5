package match

// MaxWinning is the theoretical per-hand chip ceiling for the limit game:
// four maximum-sized bets per round, two small-bet rounds and two big-bet
// rounds.
func MaxWinning(smallBet, bigBet int) float64 {
	return float64(2*(4*smallBet) + 2*(4*bigBet))
}

// NormalizeReward maps an average per-hand score onto [0,1], with losing
// the maximum every hand at 0 and winning it at 1. No clamping: a value
// outside the interval means the accounting upstream is broken.
func NormalizeReward(rawAvg, maxWinning float64) float64 {
	maxLosing := -maxWinning
	return (rawAvg - maxLosing) / (maxWinning - maxLosing)
}
