// models holds the JSON shapes exchanged at the HTTP and RPC boundaries.
package models

import (
	"time"

	"github.com/wfunc/robotserver/robot"
)

// Error type tags carried in ErrorResponse.Details.
const (
	ErrorTypeInvalidPlacement = "invalid_placement"
	ErrorTypeRobotNotPlaced   = "robot_not_placed"
	ErrorTypeInvalidCommand   = "invalid_command"
	ErrorTypeValidation       = "validation_error"
	ErrorTypeInternal         = "internal_error"
)

// PlaceRequest is the body of POST /api/robot/place. Pointer fields let the
// handler distinguish a missing field from a zero value.
type PlaceRequest struct {
	X      *int    `json:"x"`
	Y      *int    `json:"y"`
	Facing *string `json:"facing"`
}

// CommandRequest is the body of POST /api/robot/command. Command accepts the
// full textual grammar, PLACE included.
type CommandRequest struct {
	Command string `json:"command"`
}

// StateResponse is the robot state as exchanged at the boundary. Coordinates
// and facing are null while the robot is unplaced.
type StateResponse struct {
	X        *int    `json:"x"`
	Y        *int    `json:"y"`
	Facing   *string `json:"facing"`
	IsPlaced bool    `json:"is_placed"`
	Message  string  `json:"message,omitempty"`
}

// FromRobotState converts a core snapshot into the wire shape.
func FromRobotState(st robot.State) StateResponse {
	resp := StateResponse{IsPlaced: st.Placed}
	if st.Placed {
		x, y := st.X, st.Y
		facing := st.Facing.String()
		resp.X = &x
		resp.Y = &y
		resp.Facing = &facing
	}
	return resp
}

// ErrorResponse mirrors the error JSON of the REST boundary.
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Details map[string]interface{} `json:"details,omitempty"`
	Path    string                 `json:"path"`
}

// CommandRecord is one entry of the command journal.
type CommandRecord struct {
	Command   string        `json:"command"`
	Outcome   string        `json:"outcome"`
	State     StateResponse `json:"state"`
	CreatedAt time.Time     `json:"created_at"`
}

// ServiceInfo is returned by the root endpoint.
type ServiceInfo struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	Status    string `json:"status"`
	TableSize string `json:"table_size"`
}
