// Package env wraps the match orchestrator in the evaluation lifecycle an
// evolutionary driver consumes: point populations, per-team scoring and
// validation.
package env

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/rs/zerolog"

	"github.com/lox/acpcbench/internal/match"
	"github.com/lox/acpcbench/internal/model"
	"github.com/lox/acpcbench/internal/protocol"
	"github.com/lox/acpcbench/internal/stats"
)

// Mode selects which point population scores a team.
type Mode int

const (
	Training Mode = iota
	Validation
	Champion
)

func (m Mode) String() string {
	switch m {
	case Training:
		return "training"
	case Validation:
		return "validation"
	case Champion:
		return "champion"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// MatchRunner plays one full match. Implemented by match.Orchestrator;
// stubbed in tests.
type MatchRunner interface {
	Play(ctx context.Context, policy, opponent match.Policy, seed int64, isTraining bool) (match.Result, error)
}

type Config struct {
	// PointPopulationSize is the number of training points, spread
	// round-robin over the coded opponents.
	PointPopulationSize int
	// ValidationPopulationSize is the number of held-out validation points.
	ValidationPopulationSize int
	// Positions is informational: the dealer already rotates blinds every
	// hand, so both seatings are exercised within a single match.
	Positions int
	// Seed drives point generation, making runs repeatable.
	Seed int64
}

func (c *Config) applyDefaults() {
	if c.PointPopulationSize == 0 {
		c.PointPopulationSize = 8
	}
	if c.ValidationPopulationSize == 0 {
		c.ValidationPopulationSize = 12
	}
	if c.Positions == 0 {
		c.Positions = 2
	}
}

// Environment owns the point populations and scores opaque policies
// against them.
type Environment struct {
	cfg    Config
	runner MatchRunner
	logger zerolog.Logger
	rng    *rand.Rand

	points           []Point
	validationPoints []Point

	// mean reward each training point yielded during the last generation,
	// used to retire points that stopped being challenging
	pointRewards map[string]*stats.Rewards
}

func New(cfg Config, runner MatchRunner, logger zerolog.Logger) *Environment {
	cfg.applyDefaults()
	e := &Environment{cfg: cfg, runner: runner, logger: logger}
	e.Reset()
	return e
}

// Reset rebuilds both point populations from scratch. Called once per run.
func (e *Environment) Reset() {
	e.rng = rand.New(rand.NewSource(e.cfg.Seed))
	e.points = e.newPoints(e.cfg.PointPopulationSize)
	e.validationPoints = e.newPoints(e.cfg.ValidationPopulationSize)
	e.pointRewards = make(map[string]*stats.Rewards)
	e.logger.Debug().
		Int("training_points", len(e.points)).
		Int("validation_points", len(e.validationPoints)).
		Msg("Environment reset")
}

// Setup prepares a new generation: training points keep their opponents
// but draw fresh seeds so teams cannot memorize deals. Validation points
// are left untouched for comparability across generations.
func (e *Environment) Setup() {
	for i := range e.points {
		e.points[i].Seed = e.rng.Int63n(maxSeed + 1)
	}
	e.pointRewards = make(map[string]*stats.Rewards)
}

func (e *Environment) newPoints(n int) []Point {
	opponents := []Opponent{
		NewRandomOpponent(e.rng.Int63n(maxSeed + 1)),
		AlwaysFoldOpponent{},
		AlwaysCallOpponent{},
		AlwaysRaiseOpponent{},
	}
	points := make([]Point, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, newPoint(opponents[i%len(opponents)], e.rng))
	}
	return points
}

// Points returns the current training point population.
func (e *Environment) Points() []Point {
	return e.points
}

// EvaluatePointPopulation retires the least challenging half of the
// training points, judged by the mean reward teams extracted from them
// during the last generation, and replaces them with fresh points.
func (e *Environment) EvaluatePointPopulation() {
	type scored struct {
		index  int
		reward float64
	}
	var ranked []scored
	for i, p := range e.points {
		if r, ok := e.pointRewards[p.ID]; ok && r.Matches > 0 {
			ranked = append(ranked, scored{index: i, reward: r.Mean()})
		}
	}
	if len(ranked) == 0 {
		return
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].reward > ranked[j].reward })

	retire := len(ranked) / 2
	replacements := e.newPoints(retire)
	for i := 0; i < retire; i++ {
		old := e.points[ranked[i].index]
		e.logger.Debug().
			Str("point", old.ID).
			Float64("mean_reward", ranked[i].reward).
			Msg("Retiring point")
		delete(e.pointRewards, old.ID)
		e.points[ranked[i].index] = replacements[i]
	}
}

// EvaluateTeam scores one team as its mean normalized reward over the
// point population selected by mode. A failed match aborts the whole
// evaluation: a partial mean is not comparable to a complete one.
func (e *Environment) EvaluateTeam(ctx context.Context, team match.Policy, mode Mode) (float64, error) {
	rewards, err := e.evaluate(ctx, team, e.population(mode), mode)
	if err != nil {
		return 0, err
	}
	return rewards.Mean(), nil
}

// EvaluateTeamPopulation scores every team against the training points.
// The result is index-aligned with teams.
func (e *Environment) EvaluateTeamPopulation(ctx context.Context, teams []match.Policy) ([]float64, error) {
	scores := make([]float64, len(teams))
	for i, team := range teams {
		score, err := e.EvaluateTeam(ctx, team, Training)
		if err != nil {
			return nil, fmt.Errorf("team %d: %w", i, err)
		}
		scores[i] = score
	}
	return scores, nil
}

// Validate scores every team on the held-out validation points and
// returns the index and score of the best one.
func (e *Environment) Validate(ctx context.Context, generation int, teams []match.Policy) (int, float64, error) {
	if len(teams) == 0 {
		return 0, 0, fmt.Errorf("validate: no teams")
	}
	best, bestScore := 0, -1.0
	for i, team := range teams {
		rewards, err := e.evaluate(ctx, team, e.validationPoints, Validation)
		if err != nil {
			return 0, 0, fmt.Errorf("team %d: %w", i, err)
		}
		e.logger.Info().
			Int("generation", generation).
			Int("team", i).
			Str("rewards", rewards.Summary()).
			Msg("Validated team")
		if score := rewards.Mean(); score > bestScore {
			best, bestScore = i, score
		}
	}
	return best, bestScore, nil
}

func (e *Environment) evaluate(ctx context.Context, team match.Policy, points []Point, mode Mode) (*stats.Rewards, error) {
	rewards := &stats.Rewards{}
	for _, point := range points {
		result, err := e.runner.Play(ctx, team, point.Opponent, point.Seed, mode == Training)
		if err != nil {
			return nil, fmt.Errorf("point %s: %w", point.ID, err)
		}
		mr := stats.MatchResult{
			Reward:   result.Reward,
			RawScore: result.RawScore,
			Seed:     point.Seed,
			Opponent: point.Opponent.Name(),
		}
		rewards.Add(mr)
		if mode == Training {
			pr, ok := e.pointRewards[point.ID]
			if !ok {
				pr = &stats.Rewards{}
				e.pointRewards[point.ID] = pr
			}
			pr.Add(mr)
		}
	}
	if err := rewards.Validate(); err != nil {
		return nil, fmt.Errorf("%s rewards: %w", mode, err)
	}
	return rewards, nil
}

func (e *Environment) population(mode Mode) []Point {
	if mode == Training {
		return e.points
	}
	return e.validationPoints
}

var inputNames = []string{
	"round", "pot", "pot odds", "position", "hand strength",
	"self raises", "opponent raises",
	"self short-term aggressiveness", "self long-term aggressiveness",
	"opponent short-term aggressiveness", "opponent long-term aggressiveness",
}

// Metrics describes the evaluation setup, printed at the start and end of
// a run.
func (e *Environment) Metrics() string {
	msg := "\n### Environment Info:"
	msg += fmt.Sprintf("\ntotal inputs: %d", protocol.NumInputs+model.NumInputs)
	msg += fmt.Sprintf("\ninputs: %v", inputNames)
	msg += fmt.Sprintf("\ntotal actions: %d", protocol.NumActions)
	msg += fmt.Sprintf("\nactions mapping: 0:%s 1:%s 2:%s", protocol.Fold, protocol.Call, protocol.Raise)
	msg += fmt.Sprintf("\npositions: %d", e.cfg.Positions)
	msg += fmt.Sprintf("\nmatches per opponent (for each position): %d", e.cfg.PointPopulationSize)
	return msg
}
