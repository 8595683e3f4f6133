package gate

import "fmt"

// State is a node of the gate state machine.
type State int

const (
	Generating State = iota
	Validating
	Accepted
	Retrying
	Failed
)

var stateNames = [...]string{"generating", "validating", "accepted", "retrying", "failed"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int(s))
	}
	return stateNames[s]
}

// Terminal reports whether no transition leaves s.
func (s State) Terminal() bool {
	return s == Accepted || s == Failed
}

// Transition is one recorded edge. Cause is set when an error drove it.
type Transition struct {
	Attempt int
	From    State
	To      State
	Cause   string
}
