package services

import (
	"errors"
	"testing"

	"github.com/wfunc/robotserver/command"
	"github.com/wfunc/robotserver/history"
	"github.com/wfunc/robotserver/models"
	"github.com/wfunc/robotserver/robot"
)

// MockBroadcaster records every published state.
type MockBroadcaster struct {
	Published []models.StateResponse
}

func (m *MockBroadcaster) BroadcastState(state models.StateResponse) error {
	m.Published = append(m.Published, state)
	return nil
}

func newTestService() (*RobotService, *history.Memory, *MockBroadcaster) {
	store := history.NewMemory(50)
	b := &MockBroadcaster{}
	return NewRobotService(store, b), store, b
}

func mustParse(t *testing.T, text string) command.Command {
	t.Helper()
	cmd, err := command.Parse(text)
	if err != nil {
		t.Fatalf("Parse(%q) failed: %v", text, err)
	}
	return cmd
}

func TestPlaceJournalsAndBroadcasts(t *testing.T) {
	svc, store, b := newTestService()

	st, err := svc.Place(1, 2, robot.East)
	if err != nil {
		t.Fatalf("Place failed: %v", err)
	}
	if st.X != 1 || st.Y != 2 || st.Facing != robot.East {
		t.Errorf("Place snapshot = %+v", st)
	}

	records, _ := store.Recent(10)
	if len(records) != 1 || records[0].Command != "PLACE 1,2,EAST" || records[0].Outcome != "ok" {
		t.Errorf("unexpected journal: %+v", records)
	}
	if len(b.Published) != 1 || !b.Published[0].IsPlaced {
		t.Errorf("unexpected broadcasts: %+v", b.Published)
	}
}

func TestPlaceRejectedIsNotJournaled(t *testing.T) {
	svc, store, b := newTestService()

	if _, err := svc.Place(9, 0, robot.North); !errors.Is(err, robot.ErrInvalidPlacement) {
		t.Fatalf("Place = %v, want ErrInvalidPlacement", err)
	}

	if records, _ := store.Recent(10); len(records) != 0 {
		t.Errorf("rejected placement should not be journaled: %+v", records)
	}
	if len(b.Published) != 0 {
		t.Errorf("rejected placement should not be broadcast: %+v", b.Published)
	}
}

func TestExecuteMove(t *testing.T) {
	svc, _, b := newTestService()
	svc.Place(1, 2, robot.East)

	st, outcome, err := svc.Execute(mustParse(t, "MOVE"))
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if outcome != OutcomeOK {
		t.Errorf("outcome = %v, want ok", outcome)
	}
	if st.X != 2 || st.Y != 2 {
		t.Errorf("state after move = %+v, want (2, 2)", st)
	}
	if len(b.Published) != 2 { // place + move
		t.Errorf("expected 2 broadcasts, got %d", len(b.Published))
	}
}

func TestExecuteMoveBlockedAtEdge(t *testing.T) {
	svc, store, b := newTestService()
	svc.Place(0, 0, robot.South)

	st, outcome, err := svc.Execute(mustParse(t, "MOVE"))
	if err != nil {
		t.Fatalf("blocked move should not return an error, got %v", err)
	}
	if outcome != OutcomeBlocked {
		t.Fatalf("outcome = %v, want blocked", outcome)
	}
	if st.X != 0 || st.Y != 0 || st.Facing != robot.South {
		t.Errorf("blocked move changed state: %+v", st)
	}

	records, _ := store.Recent(1)
	if len(records) != 1 || records[0].Outcome != "blocked" {
		t.Errorf("blocked move should be journaled as blocked: %+v", records)
	}
	if len(b.Published) != 1 { // only the place
		t.Errorf("blocked move must not broadcast, got %d events", len(b.Published))
	}
}

func TestExecuteRotations(t *testing.T) {
	svc, _, _ := newTestService()
	svc.Place(0, 0, robot.North)

	st, _, err := svc.Execute(mustParse(t, "LEFT"))
	if err != nil {
		t.Fatalf("Execute LEFT failed: %v", err)
	}
	if st.Facing != robot.West {
		t.Errorf("facing after LEFT = %s, want WEST", st.Facing)
	}

	st, _, err = svc.Execute(mustParse(t, "RIGHT"))
	if err != nil {
		t.Fatalf("Execute RIGHT failed: %v", err)
	}
	if st.Facing != robot.North {
		t.Errorf("facing after RIGHT = %s, want NORTH", st.Facing)
	}
}

func TestExecuteReportIsPure(t *testing.T) {
	svc, store, b := newTestService()
	svc.Place(3, 3, robot.West)
	journaled, _ := store.Recent(10)
	broadcasts := len(b.Published)

	st, _, err := svc.Execute(mustParse(t, "REPORT"))
	if err != nil {
		t.Fatalf("Execute REPORT failed: %v", err)
	}
	if st.X != 3 || st.Y != 3 || st.Facing != robot.West {
		t.Errorf("report state = %+v", st)
	}

	after, _ := store.Recent(10)
	if len(after) != len(journaled) {
		t.Error("REPORT must not be journaled")
	}
	if len(b.Published) != broadcasts {
		t.Error("REPORT must not broadcast")
	}
}

func TestExecuteUnplaced(t *testing.T) {
	for _, text := range []string{"MOVE", "LEFT", "RIGHT", "REPORT"} {
		svc, _, _ := newTestService()
		if _, _, err := svc.Execute(mustParse(t, text)); !errors.Is(err, robot.ErrNotPlaced) {
			t.Errorf("Execute(%s) on fresh robot = %v, want ErrNotPlaced", text, err)
		}
	}
}

func TestResetJournalsAndBroadcasts(t *testing.T) {
	svc, store, b := newTestService()
	svc.Place(4, 4, robot.North)

	st := svc.Reset()
	if st.Placed {
		t.Errorf("state after reset = %+v, want unplaced", st)
	}

	records, _ := store.Recent(1)
	if len(records) != 1 || records[0].Command != "RESET" {
		t.Errorf("reset should be journaled: %+v", records)
	}
	last := b.Published[len(b.Published)-1]
	if last.IsPlaced || last.X != nil {
		t.Errorf("reset broadcast should carry the unplaced state: %+v", last)
	}
}

func TestHistoryPassthrough(t *testing.T) {
	svc, _, _ := newTestService()
	svc.Place(1, 1, robot.North)
	svc.Execute(mustParse(t, "MOVE"))

	records, err := svc.History(10)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("History returned %d records, want 2", len(records))
	}
	if records[0].Command != "MOVE" || records[1].Command != "PLACE 1,1,NORTH" {
		t.Errorf("unexpected order: %+v", records)
	}
}
