package robot

import "strings"

// Direction is the closed set of headings a robot can face.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

var directionNames = [...]string{
	North: "NORTH",
	East:  "EAST",
	South: "SOUTH",
	West:  "WEST",
}

// Fixed rotation tables. Left follows the counter-clockwise cycle
// NORTH->WEST->SOUTH->EAST->NORTH, Right the clockwise one.
var (
	leftOf = [...]Direction{
		North: West,
		West:  South,
		South: East,
		East:  North,
	}
	rightOf = [...]Direction{
		North: East,
		East:  South,
		South: West,
		West:  North,
	}
)

// Unit step for each heading. Origin is the south-west corner, Y grows north.
var steps = [...]struct{ dx, dy int }{
	North: {0, 1},
	East:  {1, 0},
	South: {0, -1},
	West:  {-1, 0},
}

func (d Direction) Valid() bool {
	return d >= North && d <= West
}

func (d Direction) String() string {
	if !d.Valid() {
		return "UNKNOWN"
	}
	return directionNames[d]
}

// Left returns the heading after a 90 degree counter-clockwise turn.
func (d Direction) Left() Direction {
	return leftOf[d]
}

// Right returns the heading after a 90 degree clockwise turn.
func (d Direction) Right() Direction {
	return rightOf[d]
}

// ParseDirection maps a textual heading (case-insensitive, trimmed) to a
// Direction. The second return value reports whether the text was recognized.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NORTH":
		return North, true
	case "EAST":
		return East, true
	case "SOUTH":
		return South, true
	case "WEST":
		return West, true
	default:
		return 0, false
	}
}
