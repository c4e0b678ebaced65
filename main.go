package main

import (
	"github.com/wfunc/robotserver/config"
	"github.com/wfunc/robotserver/history"
	"github.com/wfunc/robotserver/logger"
	"github.com/wfunc/robotserver/server"
)

func main() {
	// Initialize logger
	logger.Init()
	defer logger.Sync()

	// Load configuration
	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Log.Fatalf("Failed to open configuration: %v", err)
	}

	// Open the command journal
	store, err := openHistoryStore(cfg)
	if err != nil {
		logger.Log.Fatalf("Failed to open history store: %v", err)
	}
	defer store.Close()

	// Start Robot Server
	robotServer := server.NewRobotServer(cfg, store)
	logger.Log.Infof("Starting robot server on %s", cfg.Server.HTTPAddress)
	if err := robotServer.Start(); err != nil {
		logger.Log.Fatalf("Failed to start server: %v", err)
	}
}

// openHistoryStore picks the journal backend from the configuration. Without
// a database the journal lives in memory for the life of the process.
func openHistoryStore(cfg *config.Config) (history.Store, error) {
	if !cfg.History.Enabled {
		return history.NewMemory(cfg.History.Capacity), nil
	}

	pg := cfg.History.Postgres
	switch cfg.History.Driver {
	case "postgres":
		return history.NewPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	default:
		return history.NewGormPostgreSQL(pg.Host, pg.Port, pg.User, pg.Password, pg.DBName)
	}
}
