package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionCodeMappingIsTotal(t *testing.T) {
	want := map[Action]byte{
		Fold:  'f',
		Call:  'c',
		Raise: 'r',
	}
	require.Len(t, want, NumActions)

	for a := Action(0); a < NumActions; a++ {
		code, ok := want[a]
		require.True(t, ok, "unmapped action %d", int(a))
		assert.Equal(t, code, a.Code())

		back, err := ActionFromCode(code)
		require.NoError(t, err)
		assert.Equal(t, a, back)
	}
}

func TestActionFromCodeUnknown(t *testing.T) {
	_, err := ActionFromCode('x')
	assert.Error(t, err)
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "fold", Fold.String())
	assert.Equal(t, "call", Call.String())
	assert.Equal(t, "raise", Raise.String())
}
