package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/acpcbench/internal/protocol"
)

var allActions = []protocol.Action{protocol.Fold, protocol.Call, protocol.Raise}

func TestRandomOpponentReplaysIdenticallyAfterInitialize(t *testing.T) {
	o := NewRandomOpponent(42)

	o.Initialize()
	var first []protocol.Action
	for i := 0; i < 20; i++ {
		a, ok := o.Execute("m", nil, allActions, false)
		require.True(t, ok)
		first = append(first, a)
	}

	o.Initialize()
	for i := 0; i < 20; i++ {
		a, ok := o.Execute("m", nil, allActions, false)
		require.True(t, ok)
		assert.Equal(t, first[i], a, "choice %d diverged after reseed", i)
	}
}

func TestRandomOpponentStaysLegal(t *testing.T) {
	o := NewRandomOpponent(7)
	o.Initialize()
	legal := []protocol.Action{protocol.Call, protocol.Raise}
	for i := 0; i < 50; i++ {
		a, ok := o.Execute("m", nil, legal, false)
		require.True(t, ok)
		assert.Contains(t, legal, a)
	}
}

func TestAlwaysFoldFallsBackToCall(t *testing.T) {
	o := AlwaysFoldOpponent{}

	a, ok := o.Execute("m", nil, allActions, false)
	require.True(t, ok)
	assert.Equal(t, protocol.Fold, a)

	// Nothing outstanding: folding is not on offer.
	a, ok = o.Execute("m", nil, []protocol.Action{protocol.Call, protocol.Raise}, false)
	require.True(t, ok)
	assert.Equal(t, protocol.Call, a)
}

func TestAlwaysRaiseFallsBackToCallAtCap(t *testing.T) {
	o := AlwaysRaiseOpponent{}

	a, ok := o.Execute("m", nil, allActions, false)
	require.True(t, ok)
	assert.Equal(t, protocol.Raise, a)

	a, ok = o.Execute("m", nil, []protocol.Action{protocol.Fold, protocol.Call}, false)
	require.True(t, ok)
	assert.Equal(t, protocol.Call, a)
}

func TestAlwaysCallAlwaysCalls(t *testing.T) {
	o := AlwaysCallOpponent{}
	a, ok := o.Execute("m", nil, allActions, false)
	require.True(t, ok)
	assert.Equal(t, protocol.Call, a)
}
