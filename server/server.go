package server

import (
	"net/http"
	"net/rpc"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wfunc/robotserver/broadcast"
	"github.com/wfunc/robotserver/config"
	"github.com/wfunc/robotserver/history"
	"github.com/wfunc/robotserver/logger"
	"github.com/wfunc/robotserver/monitor"
	robotrpc "github.com/wfunc/robotserver/rpc"
	"github.com/wfunc/robotserver/services"
	"github.com/wfunc/robotserver/session"
)

const (
	serviceName    = "Toy Robot Simulator API"
	serviceVersion = "1.0.0"

	sweepInterval  = time.Minute
	maxWatcherIdle = 10 * time.Minute
)

// RobotServer exposes the robot over REST, a websocket state stream and a
// net/rpc admin boundary.
type RobotServer struct {
	cfg            *config.Config
	upgrader       websocket.Upgrader
	service        *services.RobotService
	sessionManager *session.Manager
	monitor        *monitor.Monitor
	rpcServer      *robotrpc.Server
	stopSweep      func()
	shutdownChan   chan struct{}
}

func NewRobotServer(cfg *config.Config, store history.Store) *RobotServer {
	sessionManager := session.NewManager()
	broadcaster := broadcast.NewSessionBroadcaster(sessionManager)

	return &RobotServer{
		cfg:            cfg,
		service:        services.NewRobotService(store, broadcaster),
		sessionManager: sessionManager,
		monitor:        monitor.NewMonitor("robotserver"),
		shutdownChan:   make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// Handler assembles the REST routes and the middleware chain. Split from
// Start so the surface can be exercised without binding listeners.
func (s *RobotServer) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/robot/place", s.handlePlace)
	mux.HandleFunc("POST /api/robot/command", s.handleCommand)
	mux.HandleFunc("GET /api/robot/state", s.handleState)
	mux.HandleFunc("POST /api/robot/reset", s.handleReset)
	mux.HandleFunc("GET /api/robot/history", s.handleHistory)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	var handler http.Handler = mux
	handler = s.corsMiddleware(handler)
	handler = requestLogging(handler)
	handler = requestID(handler)
	return handler
}

func (s *RobotServer) Start() error {
	rpcServer, err := robotrpc.NewServer(s.cfg.Server.RPCAddress)
	if err != nil {
		return err
	}
	s.rpcServer = rpcServer
	rpc.Register(robotrpc.NewRobotService(s.service))
	go s.rpcServer.Start()

	s.monitor.StartServer(s.cfg.Server.MetricsAddress)
	s.stopSweep = s.sessionManager.StartSweep(sweepInterval, maxWatcherIdle)

	logger.Log.Infof("Robot server listening on %s", s.cfg.Server.HTTPAddress)
	return http.ListenAndServe(s.cfg.Server.HTTPAddress, s.Handler())
}

func (s *RobotServer) Shutdown() {
	close(s.shutdownChan)
	if s.stopSweep != nil {
		s.stopSweep()
	}
	if s.rpcServer != nil {
		s.rpcServer.Stop()
	}
}
