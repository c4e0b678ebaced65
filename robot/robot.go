// Package robot implements the toy robot state machine: a single robot on a
// fixed 5x5 table that can be placed, moved, rotated and queried. All other
// layers talk to it through explicit results; it never sees raw command text.
package robot

import (
	"errors"
	"fmt"
	"sync"
)

// Table bounds. Coordinates run 0..4 inclusive on both axes.
const (
	TableWidth  = 5
	TableHeight = 5
)

var (
	// ErrInvalidPlacement is returned when a placement is out of bounds or the
	// facing value is not recognized. The robot state is left unchanged.
	ErrInvalidPlacement = errors.New("invalid placement")

	// ErrNotPlaced is returned when an operation requires a placed robot.
	ErrNotPlaced = errors.New("robot not placed")

	// ErrWouldFallOff is returned when a move would leave the table. The move
	// is a no-op, not a failure; position and facing are untouched.
	ErrWouldFallOff = errors.New("move would fall off the table")
)

// State is a value snapshot of the robot. When Placed is false the remaining
// fields carry no meaning.
type State struct {
	X      int
	Y      int
	Facing Direction
	Placed bool
}

// Report renders the snapshot in the classic "X,Y,FACING" form.
func (s State) Report() string {
	if !s.Placed {
		return "not placed"
	}
	return fmt.Sprintf("%d,%d,%s", s.X, s.Y, s.Facing)
}

// Robot is the single shared instance. A mutex serializes operations so that
// concurrent callers see them applied atomically and in order.
type Robot struct {
	x      int
	y      int
	facing Direction
	placed bool
	mutex  sync.Mutex
}

// New returns a robot in the unplaced state.
func New() *Robot {
	return &Robot{}
}

// Place puts the robot at (x, y) facing the given heading. Re-placing an
// already placed robot is always allowed. On failure the current state is
// unchanged.
func (r *Robot) Place(x, y int, facing Direction) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if x < 0 || x >= TableWidth || y < 0 || y >= TableHeight || !facing.Valid() {
		return ErrInvalidPlacement
	}

	r.x = x
	r.y = y
	r.facing = facing
	r.placed = true
	return nil
}

// Move advances the robot one unit in its current heading. A step that would
// leave the table returns ErrWouldFallOff and leaves the position unchanged.
func (r *Robot) Move() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.placed {
		return ErrNotPlaced
	}

	step := steps[r.facing]
	nx, ny := r.x+step.dx, r.y+step.dy
	if nx < 0 || nx >= TableWidth || ny < 0 || ny >= TableHeight {
		return ErrWouldFallOff
	}

	r.x = nx
	r.y = ny
	return nil
}

// Left rotates the robot 90 degrees counter-clockwise.
func (r *Robot) Left() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.placed {
		return ErrNotPlaced
	}
	r.facing = r.facing.Left()
	return nil
}

// Right rotates the robot 90 degrees clockwise.
func (r *Robot) Right() error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.placed {
		return ErrNotPlaced
	}
	r.facing = r.facing.Right()
	return nil
}

// Report returns the current state. It is a pure query; on an unplaced robot
// it returns ErrNotPlaced alongside the unplaced snapshot.
func (r *Robot) Report() (State, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.placed {
		return State{}, ErrNotPlaced
	}
	return State{X: r.x, Y: r.y, Facing: r.facing, Placed: true}, nil
}

// Snapshot returns the current state without a placement precondition.
func (r *Robot) Snapshot() State {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if !r.placed {
		return State{}
	}
	return State{X: r.x, Y: r.y, Facing: r.facing, Placed: true}
}

// Reset returns the robot to the unplaced state. It always succeeds.
func (r *Robot) Reset() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.x = 0
	r.y = 0
	r.facing = North
	r.placed = false
}
