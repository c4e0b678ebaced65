// Package command parses the textual robot command grammar into a closed
// command type. Parsing happens once at the boundary; everything past this
// package works with Command values, never raw strings.
package command

import (
	"errors"
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/wfunc/robotserver/robot"
)

// ErrInvalidCommand is returned for text that does not match the grammar.
var ErrInvalidCommand = errors.New("invalid command")

// Kind identifies one of the five robot commands.
type Kind int

const (
	KindPlace Kind = iota
	KindMove
	KindLeft
	KindRight
	KindReport
)

var kindNames = [...]string{
	KindPlace:  "PLACE",
	KindMove:   "MOVE",
	KindLeft:   "LEFT",
	KindRight:  "RIGHT",
	KindReport: "REPORT",
}

func (k Kind) String() string {
	if k < KindPlace || k > KindReport {
		return "UNKNOWN"
	}
	return kindNames[k]
}

// Command is the parsed form handed to the service layer. X, Y and Facing are
// only meaningful for KindPlace.
type Command struct {
	Kind   Kind
	X      int
	Y      int
	Facing robot.Direction
}

// String renders the command back in its canonical textual form.
func (c Command) String() string {
	if c.Kind == KindPlace {
		return fmt.Sprintf("PLACE %d,%d,%s", c.X, c.Y, c.Facing)
	}
	return c.Kind.String()
}

// Grammar: `PLACE X,Y,F` or a bare verb. Input is upper-cased before parsing,
// so the literals only need their canonical spelling.
type commandLine struct {
	Place *placeClause `parser:"  @@"`
	Verb  *string      `parser:"| @('MOVE'|'LEFT'|'RIGHT'|'REPORT')"`
}

type placeClause struct {
	X      int    `parser:"'PLACE' @Int ','"`
	Y      int    `parser:"@Int ','"`
	Facing string `parser:"@Ident"`
}

var parser = participle.MustBuild[commandLine]()

// Parse converts one line of command text (case-insensitive, trimmed) into a
// Command. Text outside the grammar yields ErrInvalidCommand; a PLACE with an
// unrecognized facing yields robot.ErrInvalidPlacement, matching what the
// state machine itself would report.
func Parse(text string) (Command, error) {
	line := strings.ToUpper(strings.TrimSpace(text))
	if line == "" {
		return Command{}, fmt.Errorf("%w: empty input", ErrInvalidCommand)
	}

	parsed, err := parser.ParseString("command", line)
	if err != nil {
		return Command{}, fmt.Errorf("%w: %q", ErrInvalidCommand, strings.TrimSpace(text))
	}

	if parsed.Place != nil {
		facing, ok := robot.ParseDirection(parsed.Place.Facing)
		if !ok {
			return Command{}, fmt.Errorf("%w: unknown facing %q", robot.ErrInvalidPlacement, parsed.Place.Facing)
		}
		return Command{Kind: KindPlace, X: parsed.Place.X, Y: parsed.Place.Y, Facing: facing}, nil
	}

	switch *parsed.Verb {
	case "MOVE":
		return Command{Kind: KindMove}, nil
	case "LEFT":
		return Command{Kind: KindLeft}, nil
	case "RIGHT":
		return Command{Kind: KindRight}, nil
	case "REPORT":
		return Command{Kind: KindReport}, nil
	}

	return Command{}, fmt.Errorf("%w: %q", ErrInvalidCommand, strings.TrimSpace(text))
}
