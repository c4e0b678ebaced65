package rpc

import (
	"net"
	"net/rpc"

	"github.com/wfunc/robotserver/command"
	"github.com/wfunc/robotserver/logger"
	"github.com/wfunc/robotserver/robot"
	"github.com/wfunc/robotserver/services"
)

// Server manages the RPC listener.
type Server struct {
	listener net.Listener
	address  string
}

// NewServer creates a new RPC server. The RobotService must be registered
// with net/rpc separately.
func NewServer(addr string) (*Server, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Server{
		listener: listener,
		address:  addr,
	}, nil
}

// Start begins listening for RPC requests.
func (s *Server) Start() {
	logger.Log.Infof("RPC server listening on %s", s.address)
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			// Check if the error is due to the listener being closed.
			if _, ok := err.(*net.OpError); ok {
				logger.Log.Info("RPC server listener closed.")
				return
			}
			logger.Log.Errorf("RPC server accept error: %v", err)
			continue
		}
		go rpc.ServeConn(conn)
	}
}

// Stop closes the RPC listener.
func (s *Server) Stop() {
	if s.listener != nil {
		logger.Log.Info("Stopping RPC server.")
		s.listener.Close()
	}
}

// RobotService exposes the robot boundary over net/rpc for operational
// tooling. Methods follow the net/rpc signature rules: exported arguments,
// pointer reply, error return.
type RobotService struct {
	service *services.RobotService
}

func NewRobotService(service *services.RobotService) *RobotService {
	return &RobotService{service: service}
}

type PlaceArgs struct {
	X      int
	Y      int
	Facing string
}

type CommandArgs struct {
	Line string
}

type Empty struct{}

// StateReply is the flat wire form used over gob; Facing is empty while the
// robot is unplaced.
type StateReply struct {
	X        int
	Y        int
	Facing   string
	IsPlaced bool
	Message  string
}

func toReply(st robot.State) StateReply {
	if !st.Placed {
		return StateReply{}
	}
	return StateReply{X: st.X, Y: st.Y, Facing: st.Facing.String(), IsPlaced: true}
}

func (rs *RobotService) Place(args *PlaceArgs, reply *StateReply) error {
	facing, ok := robot.ParseDirection(args.Facing)
	if !ok {
		return robot.ErrInvalidPlacement
	}
	st, err := rs.service.Place(args.X, args.Y, facing)
	if err != nil {
		return err
	}
	*reply = toReply(st)
	return nil
}

// Command accepts the full textual grammar, PLACE included. A blocked move is
// a success whose reply message says so.
func (rs *RobotService) Command(args *CommandArgs, reply *StateReply) error {
	cmd, err := command.Parse(args.Line)
	if err != nil {
		return err
	}

	st, outcome, err := rs.service.Execute(cmd)
	if err != nil {
		return err
	}

	*reply = toReply(st)
	if outcome == services.OutcomeBlocked {
		reply.Message = "move blocked at the table edge"
	}
	return nil
}

func (rs *RobotService) GetState(args *Empty, reply *StateReply) error {
	*reply = toReply(rs.service.State())
	return nil
}

func (rs *RobotService) Reset(args *Empty, reply *StateReply) error {
	*reply = toReply(rs.service.Reset())
	return nil
}
