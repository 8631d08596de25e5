// Package stats aggregates normalized match rewards across an evaluation
// run.
package stats

import (
	"fmt"
	"math"
	"sort"
)

// MatchResult is the outcome of one match from the evaluated policy's
// point of view.
type MatchResult struct {
	Reward   float64 // normalized reward in [0,1]
	RawScore float64 // net chips over the match
	Seed     int64   // dealer seed, for replay
	Opponent string
}

// Rewards tracks summary statistics over normalized match rewards.
type Rewards struct {
	Matches int
	Sum     float64
	Sum2    float64 // sum of squares for variance calculation
	Values  []float64

	Wins   int // matches finishing above break-even
	Losses int
}

// Mean returns the arithmetic mean reward.
func (r *Rewards) Mean() float64 {
	if r.Matches == 0 {
		return 0
	}
	return r.Sum / float64(r.Matches)
}

// Variance returns the sample variance of the rewards.
func (r *Rewards) Variance() float64 {
	if r.Matches < 2 {
		return 0
	}
	mean := r.Mean()
	return (r.Sum2 - float64(r.Matches)*mean*mean) / float64(r.Matches-1)
}

// StdDev returns the sample standard deviation.
func (r *Rewards) StdDev() float64 {
	return math.Sqrt(r.Variance())
}

// StdError returns the standard error of the mean.
func (r *Rewards) StdError() float64 {
	if r.Matches == 0 {
		return 0
	}
	return r.StdDev() / math.Sqrt(float64(r.Matches))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean.
func (r *Rewards) ConfidenceInterval95() (float64, float64) {
	mean := r.Mean()
	margin := 1.96 * r.StdError()
	return mean - margin, mean + margin
}

// Add incorporates one match result.
func (r *Rewards) Add(result MatchResult) {
	reward := result.Reward
	r.Matches++
	r.Sum += reward
	r.Sum2 += reward * reward
	r.Values = append(r.Values, reward)

	if reward > 0.5 {
		r.Wins++
	} else if reward < 0.5 {
		r.Losses++
	}
}

// Median returns the median reward.
func (r *Rewards) Median() float64 {
	if len(r.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(r.Values))
	copy(sorted, r.Values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Validate checks the aggregate for consistency. Rewards are normalized
// upstream, so anything outside [0,1] means the scoring pipeline is
// broken.
func (r *Rewards) Validate() error {
	if r.Matches != len(r.Values) {
		return fmt.Errorf("match count %d disagrees with %d stored values", r.Matches, len(r.Values))
	}
	for i, v := range r.Values {
		if v < 0 || v > 1 || math.IsNaN(v) {
			return fmt.Errorf("reward %d out of range: %f", i, v)
		}
	}
	return nil
}

// Summary renders a one-line human-readable digest.
func (r *Rewards) Summary() string {
	lo, hi := r.ConfidenceInterval95()
	return fmt.Sprintf("matches=%d mean=%.4f median=%.4f stddev=%.4f ci95=[%.4f,%.4f] wins=%d losses=%d",
		r.Matches, r.Mean(), r.Median(), r.StdDev(), lo, hi, r.Wins, r.Losses)
}
