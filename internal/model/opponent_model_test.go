package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/acpcbench/internal/protocol"
)

func TestInputsZeroBeforeFirstHand(t *testing.T) {
	m := New()
	assert.Equal(t, []float64{0, 0, 0, 0}, m.Inputs())
}

func TestAggressivenessScoring(t *testing.T) {
	m := New()
	m.UpdateAggressiveness(
		[]protocol.Action{protocol.Call, protocol.Raise},       // (0.5+1.0)/2
		[]protocol.Action{protocol.Call, protocol.Call},        // (0.5+0.5)/2
		false, false,
	)

	inputs := m.Inputs()
	assert.InDelta(t, 0.75, inputs[0], 1e-9)
	assert.InDelta(t, 0.75, inputs[1], 1e-9)
	assert.InDelta(t, 0.5, inputs[2], 1e-9)
	assert.InDelta(t, 0.5, inputs[3], 1e-9)
}

func TestAggressivenessStaysInUnitInterval(t *testing.T) {
	m := New()
	hands := [][]protocol.Action{
		{protocol.Raise, protocol.Raise, protocol.Raise},
		{protocol.Fold},
		{protocol.Call},
		{protocol.Call, protocol.Raise, protocol.Fold},
	}
	for _, hand := range hands {
		m.UpdateAggressiveness(hand, hand, false, false)
		for _, v := range m.Inputs() {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestFoldAppendedWhenNotTerminal(t *testing.T) {
	m := New()
	// Self called earlier in the hand, then folded to a later bet that the
	// final message of the hand does not show as an action of ours.
	m.UpdateAggressiveness(
		[]protocol.Action{protocol.Call},
		[]protocol.Action{protocol.Raise},
		true, false,
	)
	inputs := m.Inputs()
	// (0.5 + 0.0) / 2 with the appended fold.
	assert.InDelta(t, 0.25, inputs[0], 1e-9)
}

func TestFoldNotDoubleAppended(t *testing.T) {
	m := New()
	m.UpdateAggressiveness(
		[]protocol.Action{protocol.Call, protocol.Fold},
		[]protocol.Action{protocol.Raise},
		true, false,
	)
	inputs := m.Inputs()
	assert.InDelta(t, 0.25, inputs[0], 1e-9) // still two actions
}

func TestUpdateDoesNotMutateCallerSlices(t *testing.T) {
	m := New()
	self := []protocol.Action{protocol.Call}
	m.UpdateAggressiveness(self, []protocol.Action{protocol.Call}, true, false)
	assert.Equal(t, []protocol.Action{protocol.Call}, self)
}

func TestSeatWithNoActionsRecordsNothing(t *testing.T) {
	// The small blind folded before we ever acted: our history is empty
	// and must not produce a score for the hand.
	m := New()
	m.UpdateAggressiveness(nil, []protocol.Action{protocol.Fold}, false, true)

	self, opponent := m.HandsRecorded()
	assert.Equal(t, 0, self)
	assert.Equal(t, 1, opponent)
}

func TestHistoryGrowsByAtMostOnePerHand(t *testing.T) {
	m := New()
	for i := 0; i < 5; i++ {
		before, _ := m.HandsRecorded()
		m.UpdateAggressiveness(
			[]protocol.Action{protocol.Call},
			[]protocol.Action{protocol.Call},
			false, false,
		)
		after, _ := m.HandsRecorded()
		assert.Equal(t, before+1, after)
	}
}

func TestInputsShortTermIsPrefixWindow(t *testing.T) {
	// The short-term mean covers the first ten hands ever recorded, not the
	// most recent ten. Ten passive hands followed by five maximally
	// aggressive ones must leave the short-term mean untouched.
	m := New()
	for i := 0; i < 10; i++ {
		m.UpdateAggressiveness(
			[]protocol.Action{protocol.Call, protocol.Call},
			[]protocol.Action{protocol.Call},
			false, false,
		)
	}
	for i := 0; i < 5; i++ {
		m.UpdateAggressiveness(
			[]protocol.Action{protocol.Raise, protocol.Raise},
			[]protocol.Action{protocol.Raise},
			false, false,
		)
	}

	inputs := m.Inputs()
	require.InDelta(t, 0.5, inputs[0], 1e-9) // prefix window: calls only
	longTerm := (10*0.5 + 5*1.0) / 15
	assert.InDelta(t, longTerm, inputs[1], 1e-9)
	assert.InDelta(t, 0.5, inputs[2], 1e-9)
	assert.InDelta(t, longTerm, inputs[3], 1e-9)
}
