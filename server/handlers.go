package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wfunc/robotserver/command"
	"github.com/wfunc/robotserver/logger"
	"github.com/wfunc/robotserver/models"
	"github.com/wfunc/robotserver/network"
	"github.com/wfunc/robotserver/robot"
	"github.com/wfunc/robotserver/services"
	"github.com/wfunc/robotserver/session"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

func (s *RobotServer) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.ServiceInfo{
		Name:      serviceName,
		Version:   serviceVersion,
		Status:    "running",
		TableSize: fmt.Sprintf("%dx%d", robot.TableWidth, robot.TableHeight),
	})
}

func (s *RobotServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *RobotServer) handlePlace(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.PlaceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, models.ErrorTypeValidation, "malformed request body", nil)
		return
	}
	if req.X == nil || req.Y == nil || req.Facing == nil {
		writeError(w, r, http.StatusUnprocessableEntity, models.ErrorTypeValidation, "x, y and facing are required", nil)
		return
	}

	facing, ok := robot.ParseDirection(*req.Facing)
	if !ok {
		s.observe("PLACE", "rejected", started)
		writeError(w, r, http.StatusBadRequest, models.ErrorTypeInvalidPlacement,
			fmt.Sprintf("unrecognized facing %q", *req.Facing),
			map[string]interface{}{"facing": *req.Facing})
		return
	}

	st, err := s.service.Place(*req.X, *req.Y, facing)
	if err != nil {
		s.observe("PLACE", "rejected", started)
		writeError(w, r, http.StatusBadRequest, models.ErrorTypeInvalidPlacement,
			fmt.Sprintf("cannot place robot at (%d, %d) facing %s", *req.X, *req.Y, facing),
			map[string]interface{}{"x": *req.X, "y": *req.Y})
		return
	}

	s.observe("PLACE", "ok", started)
	s.setPlacedGauge(st.Placed)

	resp := models.FromRobotState(st)
	resp.Message = fmt.Sprintf("Robot placed at (%d, %d) facing %s", st.X, st.Y, st.Facing)
	writeJSON(w, http.StatusOK, resp)
}

func (s *RobotServer) handleCommand(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	var req models.CommandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, models.ErrorTypeValidation, "malformed request body", nil)
		return
	}

	cmd, err := command.Parse(req.Command)
	if err != nil {
		if errors.Is(err, robot.ErrInvalidPlacement) {
			s.observe("PLACE", "rejected", started)
			writeError(w, r, http.StatusBadRequest, models.ErrorTypeInvalidPlacement, err.Error(),
				map[string]interface{}{"command": req.Command})
			return
		}
		s.observe("UNKNOWN", "rejected", started)
		writeError(w, r, http.StatusBadRequest, models.ErrorTypeInvalidCommand,
			fmt.Sprintf("invalid or unknown command: %s", req.Command),
			map[string]interface{}{"command": req.Command})
		return
	}

	st, outcome, err := s.service.Execute(cmd)
	if err != nil {
		switch {
		case errors.Is(err, robot.ErrNotPlaced):
			// REPORT on an unplaced robot is an explicit not-placed result,
			// not a failure.
			if cmd.Kind == command.KindReport {
				s.observe(cmd.Kind.String(), "ok", started)
				resp := models.FromRobotState(s.service.State())
				resp.Message = "Robot has not been placed on the table"
				writeJSON(w, http.StatusOK, resp)
				return
			}
			s.observe(cmd.Kind.String(), "rejected", started)
			writeError(w, r, http.StatusBadRequest, models.ErrorTypeRobotNotPlaced,
				"Robot has not been placed on the table yet", nil)
			return
		case errors.Is(err, robot.ErrInvalidPlacement):
			s.observe(cmd.Kind.String(), "rejected", started)
			writeError(w, r, http.StatusBadRequest, models.ErrorTypeInvalidPlacement,
				fmt.Sprintf("cannot place robot at (%d, %d) facing %s", cmd.X, cmd.Y, cmd.Facing),
				map[string]interface{}{"x": cmd.X, "y": cmd.Y})
			return
		default:
			s.observe(cmd.Kind.String(), "error", started)
			writeError(w, r, http.StatusInternalServerError, models.ErrorTypeInternal,
				"an unexpected error occurred", nil)
			return
		}
	}

	s.observe(cmd.Kind.String(), string(outcome), started)
	s.setPlacedGauge(st.Placed)

	resp := models.FromRobotState(st)
	resp.Message = commandMessage(cmd, outcome, st)
	writeJSON(w, http.StatusOK, resp)
}

// commandMessage builds the human-readable result line for a successful
// command, in the wording of the REST boundary.
func commandMessage(cmd command.Command, outcome services.Outcome, st robot.State) string {
	if outcome == services.OutcomeBlocked {
		return "Move blocked: the robot would fall off the table"
	}
	switch cmd.Kind {
	case command.KindPlace:
		return fmt.Sprintf("Robot placed at (%d, %d) facing %s", st.X, st.Y, st.Facing)
	case command.KindMove:
		return fmt.Sprintf("Robot moved to (%d, %d)", st.X, st.Y)
	case command.KindLeft, command.KindRight:
		return fmt.Sprintf("Robot rotated %s, now facing %s", strings.ToLower(cmd.Kind.String()), st.Facing)
	case command.KindReport:
		return fmt.Sprintf("Report: %s", st.Report())
	}
	return fmt.Sprintf("Command %s executed", cmd.Kind)
}

func (s *RobotServer) handleState(w http.ResponseWriter, r *http.Request) {
	st := s.service.State()

	resp := models.FromRobotState(st)
	if st.Placed {
		resp.Message = fmt.Sprintf("Robot is at (%d, %d) facing %s", st.X, st.Y, st.Facing)
	} else {
		resp.Message = "Robot has not been placed on the table"
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *RobotServer) handleReset(w http.ResponseWriter, r *http.Request) {
	started := time.Now()

	st := s.service.Reset()
	s.observe("RESET", "ok", started)
	s.setPlacedGauge(st.Placed)

	resp := models.FromRobotState(st)
	resp.Message = "Robot has been reset"
	writeJSON(w, http.StatusOK, resp)
}

func (s *RobotServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := defaultHistoryLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			writeError(w, r, http.StatusUnprocessableEntity, models.ErrorTypeValidation,
				fmt.Sprintf("invalid limit %q", raw), nil)
			return
		}
		limit = parsed
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	records, err := s.service.History(limit)
	if err != nil {
		logger.Log.Errorf("Failed to read command history: %v", err)
		writeError(w, r, http.StatusInternalServerError, models.ErrorTypeInternal,
			"failed to read command history", nil)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"commands": records,
		"count":    len(records),
	})
}

func (s *RobotServer) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Infof("Failed to upgrade connection: %v", err)
		return
	}

	wsConn := network.NewWSConnection(conn)
	sess := session.NewSession(uuid.New().String(), wsConn)
	s.sessionManager.Add(sess)
	if s.monitor != nil {
		s.monitor.IncWatcherSessions()
	}

	logger.Log.Infof("Watcher connected from %s, session ID: %s", wsConn.RemoteAddr(), sess.GetID())

	defer func() {
		logger.Log.Infof("Watcher disconnected, session ID: %s", sess.GetID())
		s.sessionManager.Remove(sess.GetID())
		if s.monitor != nil {
			s.monitor.DecWatcherSessions()
		}
		wsConn.Close()
	}()

	// Greet the watcher with the current state so it can render immediately.
	hello := network.Event{Type: network.EventHello, State: models.FromRobotState(s.service.State())}
	if err := sess.SendEvent(hello); err != nil {
		return
	}

	for {
		select {
		case <-s.shutdownChan:
			return
		default:
			if err := wsConn.NextMessage(); err != nil {
				return
			}
			sess.Touch()
		}
	}
}

func (s *RobotServer) observe(cmd, outcome string, started time.Time) {
	if s.monitor == nil {
		return
	}
	s.monitor.IncCommandsReceived(cmd, outcome)
	s.monitor.ObserveCommandLatency(time.Since(started))
}

func (s *RobotServer) setPlacedGauge(placed bool) {
	if s.monitor != nil {
		s.monitor.SetRobotPlaced(placed)
	}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Errorf("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, errType, message string, details map[string]interface{}) {
	if details == nil {
		details = map[string]interface{}{}
	}
	details["error_type"] = errType

	writeJSON(w, status, models.ErrorResponse{
		Error:   message,
		Details: details,
		Path:    r.URL.Path,
	})
}
