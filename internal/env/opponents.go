package env

import (
	"math/rand"

	"github.com/lox/acpcbench/internal/match"
	"github.com/lox/acpcbench/internal/protocol"
)

// Opponent is a coded policy with a stable name for point bookkeeping.
type Opponent interface {
	match.Policy
	Name() string
}

// RandomOpponent picks uniformly among the legal actions. It reseeds at
// every hand boundary so the same hand against the same actions replays
// identically.
type RandomOpponent struct {
	seed int64
	rng  *rand.Rand
}

func NewRandomOpponent(seed int64) *RandomOpponent {
	return &RandomOpponent{seed: seed}
}

func (o *RandomOpponent) Name() string { return "random" }

func (o *RandomOpponent) Initialize() {
	o.rng = rand.New(rand.NewSource(o.seed))
}

func (o *RandomOpponent) Execute(matchID string, inputs []float64, legal []protocol.Action, isTraining bool) (protocol.Action, bool) {
	if len(legal) == 0 {
		return 0, false
	}
	if o.rng == nil {
		o.Initialize()
	}
	return legal[o.rng.Intn(len(legal))], true
}

// AlwaysFoldOpponent folds whenever folding is legal, otherwise checks.
type AlwaysFoldOpponent struct{}

func (AlwaysFoldOpponent) Name() string { return "always_fold" }
func (AlwaysFoldOpponent) Initialize() {}

func (AlwaysFoldOpponent) Execute(matchID string, inputs []float64, legal []protocol.Action, isTraining bool) (protocol.Action, bool) {
	return pickOrCall(legal, protocol.Fold)
}

// AlwaysCallOpponent calls every decision.
type AlwaysCallOpponent struct{}

func (AlwaysCallOpponent) Name() string { return "always_call" }
func (AlwaysCallOpponent) Initialize() {}

func (AlwaysCallOpponent) Execute(matchID string, inputs []float64, legal []protocol.Action, isTraining bool) (protocol.Action, bool) {
	return protocol.Call, true
}

// AlwaysRaiseOpponent raises until the cap, then calls.
type AlwaysRaiseOpponent struct{}

func (AlwaysRaiseOpponent) Name() string { return "always_raise" }
func (AlwaysRaiseOpponent) Initialize() {}

func (AlwaysRaiseOpponent) Execute(matchID string, inputs []float64, legal []protocol.Action, isTraining bool) (protocol.Action, bool) {
	return pickOrCall(legal, protocol.Raise)
}

// pickOrCall returns want when the dealer allows it, falling back to the
// always-legal call.
func pickOrCall(legal []protocol.Action, want protocol.Action) (protocol.Action, bool) {
	for _, a := range legal {
		if a == want {
			return want, true
		}
	}
	return protocol.Call, true
}
