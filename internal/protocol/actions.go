package protocol

import "fmt"

// Action is a betting decision in a limit hold'em match.
type Action int

const (
	Fold Action = iota
	Call
	Raise
)

// NumActions is the size of the action space exposed to policies.
const NumActions = 3

// Code returns the single-character wire code the dealer expects.
// The mapping is total over the enum and pinned by tests.
func (a Action) Code() byte {
	switch a {
	case Fold:
		return 'f'
	case Call:
		return 'c'
	case Raise:
		return 'r'
	}
	panic(fmt.Sprintf("protocol: invalid action %d", int(a)))
}

func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Call:
		return "call"
	case Raise:
		return "raise"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// ActionFromCode converts a wire code back to an Action.
func ActionFromCode(c byte) (Action, error) {
	switch c {
	case 'f':
		return Fold, nil
	case 'c':
		return Call, nil
	case 'r':
		return Raise, nil
	}
	return 0, fmt.Errorf("protocol: unknown action code %q", string(c))
}
