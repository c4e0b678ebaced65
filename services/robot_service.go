// services/robot_service.go
package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/wfunc/robotserver/broadcast"
	"github.com/wfunc/robotserver/command"
	"github.com/wfunc/robotserver/history"
	"github.com/wfunc/robotserver/logger"
	"github.com/wfunc/robotserver/models"
	"github.com/wfunc/robotserver/robot"
)

// Outcome classifies how a command finished. Blocked covers a move that the
// table edge stopped: the command was accepted but the state did not change.
type Outcome string

const (
	OutcomeOK      Outcome = "ok"
	OutcomeBlocked Outcome = "blocked"
)

// RobotService owns the single robot instance and its collaborators. All
// boundaries (HTTP, websocket, rpc) go through it, so the journal and the
// watcher stream see every mutation exactly once.
type RobotService struct {
	robot       *robot.Robot
	store       history.Store
	broadcaster broadcast.Broadcaster
}

func NewRobotService(store history.Store, broadcaster broadcast.Broadcaster) *RobotService {
	return &RobotService{
		robot:       robot.New(),
		store:       store,
		broadcaster: broadcaster,
	}
}

// Place positions the robot and publishes the new state. On failure the
// returned snapshot is the unchanged prior state.
func (s *RobotService) Place(x, y int, facing robot.Direction) (robot.State, error) {
	if err := s.robot.Place(x, y, facing); err != nil {
		return s.robot.Snapshot(), err
	}

	st := s.robot.Snapshot()
	placed := command.Command{Kind: command.KindPlace, X: x, Y: y, Facing: facing}
	s.record(placed.String(), OutcomeOK, st)
	s.publish(st)
	return st, nil
}

// Execute runs one parsed command. REPORT is a pure query and is neither
// journaled nor broadcast; a blocked move is journaled but not broadcast
// since the state did not change.
func (s *RobotService) Execute(cmd command.Command) (robot.State, Outcome, error) {
	switch cmd.Kind {
	case command.KindPlace:
		st, err := s.Place(cmd.X, cmd.Y, cmd.Facing)
		return st, OutcomeOK, err

	case command.KindMove:
		err := s.robot.Move()
		st := s.robot.Snapshot()
		if errors.Is(err, robot.ErrWouldFallOff) {
			s.record(cmd.String(), OutcomeBlocked, st)
			return st, OutcomeBlocked, nil
		}
		if err != nil {
			return st, OutcomeOK, err
		}
		s.record(cmd.String(), OutcomeOK, st)
		s.publish(st)
		return st, OutcomeOK, nil

	case command.KindLeft, command.KindRight:
		var err error
		if cmd.Kind == command.KindLeft {
			err = s.robot.Left()
		} else {
			err = s.robot.Right()
		}
		st := s.robot.Snapshot()
		if err != nil {
			return st, OutcomeOK, err
		}
		s.record(cmd.String(), OutcomeOK, st)
		s.publish(st)
		return st, OutcomeOK, nil

	case command.KindReport:
		st, err := s.robot.Report()
		return st, OutcomeOK, err
	}

	return s.robot.Snapshot(), OutcomeOK, fmt.Errorf("%w: kind %d", command.ErrInvalidCommand, cmd.Kind)
}

// State returns the current snapshot without preconditions.
func (s *RobotService) State() robot.State {
	return s.robot.Snapshot()
}

// Reset unconditionally removes the robot from the table.
func (s *RobotService) Reset() robot.State {
	s.robot.Reset()
	st := s.robot.Snapshot()
	s.record("RESET", OutcomeOK, st)
	s.publish(st)
	return st
}

// History returns up to limit journal entries, newest first.
func (s *RobotService) History(limit int) ([]models.CommandRecord, error) {
	return s.store.Recent(limit)
}

// record appends to the journal. Journal failures never fail the command.
func (s *RobotService) record(cmdText string, outcome Outcome, st robot.State) {
	rec := models.CommandRecord{
		Command:   cmdText,
		Outcome:   string(outcome),
		State:     models.FromRobotState(st),
		CreatedAt: time.Now(),
	}
	if err := s.store.Append(rec); err != nil {
		logger.Log.Warnf("Failed to journal command %q: %v", cmdText, err)
	}
}

func (s *RobotService) publish(st robot.State) {
	if s.broadcaster == nil {
		return
	}
	s.broadcaster.BroadcastState(models.FromRobotState(st))
}
