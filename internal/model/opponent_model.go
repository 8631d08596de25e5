// Package model tracks per-seat aggressiveness across the hands of one
// match, following "Countering Evolutionary Forgetting in No-Limit Texas
// Hold'em Poker Agents".
package model

import "github.com/lox/acpcbench/internal/protocol"

// NumInputs is the number of features exposed to policies: short- and
// long-term aggressiveness for each seat.
const NumInputs = 4

// shortTermWindow bounds the short-term aggressiveness mean. The window is
// the first hands ever recorded, not a trailing window.
const shortTermWindow = 10

// OpponentModel accumulates one aggressiveness score per completed hand for
// each seat. One instance lives for exactly one match.
type OpponentModel struct {
	selfAggressiveness     []float64
	opponentAggressiveness []float64
}

func New() *OpponentModel {
	return &OpponentModel{}
}

// UpdateAggressiveness records one completed hand. A fold is appended to
// the folding seat's history when it is not already fold-terminated, so a
// hand ended by the dealer timing out the last street still counts the
// fold. Called exactly once per hand, after its outcome is knowable.
func (m *OpponentModel) UpdateAggressiveness(selfActions, opponentActions []protocol.Action, selfFolded, opponentFolded bool) {
	selfActions = appendFold(selfActions, selfFolded)
	opponentActions = appendFold(opponentActions, opponentFolded)

	if len(selfActions) > 0 {
		m.selfAggressiveness = append(m.selfAggressiveness, aggressiveness(selfActions))
	}
	if len(opponentActions) > 0 {
		m.opponentAggressiveness = append(m.opponentAggressiveness, aggressiveness(opponentActions))
	}
}

func appendFold(actions []protocol.Action, folded bool) []protocol.Action {
	if !folded {
		return actions
	}
	if n := len(actions); n > 0 && actions[n-1] == protocol.Fold {
		return actions
	}
	out := make([]protocol.Action, len(actions), len(actions)+1)
	copy(out, actions)
	return append(out, protocol.Fold)
}

// aggressiveness scores one hand: calls are worth 0.5, raises 1.0, folds
// nothing, normalized by the number of decisions. Always in [0,1].
func aggressiveness(actions []protocol.Action) float64 {
	points := 0.0
	for _, a := range actions {
		switch a {
		case protocol.Call:
			points += 0.5
		case protocol.Raise:
			points += 1.0
		}
	}
	return points / float64(len(actions))
}

// Inputs returns the four aggressiveness features: self short-term, self
// long-term, opponent short-term, opponent long-term. All zero before any
// hand has completed.
func (m *OpponentModel) Inputs() []float64 {
	inputs := make([]float64, NumInputs)
	if len(m.selfAggressiveness) > 0 {
		inputs[0] = mean(prefix(m.selfAggressiveness, shortTermWindow))
		inputs[1] = mean(m.selfAggressiveness)
	}
	if len(m.opponentAggressiveness) > 0 {
		inputs[2] = mean(prefix(m.opponentAggressiveness, shortTermWindow))
		inputs[3] = mean(m.opponentAggressiveness)
	}
	return inputs
}

// HandsRecorded returns how many hands have contributed to each seat's
// history.
func (m *OpponentModel) HandsRecorded() (self, opponent int) {
	return len(m.selfAggressiveness), len(m.opponentAggressiveness)
}

func prefix(xs []float64, n int) []float64 {
	if len(xs) < n {
		return xs
	}
	return xs[:n]
}

func mean(xs []float64) float64 {
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}
