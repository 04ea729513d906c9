package gridworld

import (
	"fmt"
	"strings"
)

// Action is one of the four compass moves available in every cell.
type Action int8

// NoAction marks cells that carry no decision: blockages and the goal.
const NoAction Action = -1

const (
	Up Action = iota
	Down
	Right
	Left
)

// Actions lists the moves in enumeration order. Greedy selection breaks ties
// in favour of the earliest entry.
var Actions = [...]Action{Up, Down, Right, Left}

// Delta returns the row and column offset the action applies.
func (a Action) Delta() (int, int) {
	switch a {
	case Up:
		return -1, 0
	case Down:
		return 1, 0
	case Right:
		return 0, 1
	case Left:
		return 0, -1
	default:
		return 0, 0
	}
}

// Valid reports whether a is one of the four moves.
func (a Action) Valid() bool {
	return a >= Up && a <= Left
}

func (a Action) String() string {
	switch a {
	case Up:
		return "up"
	case Down:
		return "down"
	case Right:
		return "right"
	case Left:
		return "left"
	case NoAction:
		return "none"
	default:
		return fmt.Sprintf("action(%d)", int8(a))
	}
}

// ParseAction converts a textual action name into an Action.
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "up", "u":
		return Up, nil
	case "down", "d":
		return Down, nil
	case "right", "r":
		return Right, nil
	case "left", "l":
		return Left, nil
	case "none", "-", "":
		return NoAction, nil
	default:
		return NoAction, fmt.Errorf("unknown action %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() && a != NoAction {
		return nil, fmt.Errorf("cannot marshal %s", a)
	}
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Action) UnmarshalText(text []byte) error {
	parsed, err := ParseAction(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
