// internal/naming/side.go
package naming

import "fmt"

// Side is the half of the character an object belongs to.
type Side int

const (
	Center Side = iota
	Left
	Right
)

// Token returns the delimiter that encodes the side inside a name.
func (s Side) Token() string {
	switch s {
	case Left:
		return "_l_"
	case Right:
		return "_r_"
	default:
		return "_"
	}
}

// Opposite swaps left and right. Center maps to itself.
func (s Side) Opposite() Side {
	switch s {
	case Left:
		return Right
	case Right:
		return Left
	default:
		return Center
	}
}

// Sign is -1 for the right side and 1 otherwise. Used to mirror offsets.
func (s Side) Sign() float64 {
	if s == Right {
		return -1
	}
	return 1
}

func (s Side) String() string {
	switch s {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "center"
	}
}

// ParseSide accepts the spellings used in configuration files.
func ParseSide(raw string) (Side, error) {
	switch raw {
	case "", "c", "center", "Center", "C":
		return Center, nil
	case "l", "left", "Left", "L":
		return Left, nil
	case "r", "right", "Right", "R":
		return Right, nil
	}
	return Center, fmt.Errorf("unknown side %q: must be 'left', 'right' or 'center'", raw)
}
