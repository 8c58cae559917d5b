// FilePath: internal/server/server.go
package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agrosense/fieldhub/api"
	"github.com/agrosense/fieldhub/internal/config"
	"github.com/agrosense/fieldhub/internal/database"
	"github.com/agrosense/fieldhub/internal/dispatcher"
	"github.com/agrosense/fieldhub/internal/fieldservice"
	"github.com/agrosense/fieldhub/internal/hub"
	"github.com/agrosense/fieldhub/internal/repository/postgres"
	"github.com/agrosense/fieldhub/internal/simulator"
	nuts "github.com/vaudience/go-nuts"
)

// Server wires the datastore, the facade, the background schedulers and the
// HTTP surface together and owns their lifecycle.
type Server struct {
	config   *config.Config
	srv      *http.Server
	db       database.DB
	eventHub *hub.Hub
	service  *fieldservice.FieldService

	cancelBackground context.CancelFunc
}

// New creates a new server instance
func New(cfg *config.Config) *Server {
	return &Server{
		config: cfg,
	}
}

// Start initializes all components, launches the schedulers and listens for
// requests until an interrupt arrives.
func (s *Server) Start() error {
	if err := s.initialize(); err != nil {
		return err
	}

	go func() {
		nuts.L.Infof("[Server] Starting server on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			nuts.L.Errorf("[Server] Error starting server: %v", err)
			os.Exit(1)
		}
	}()

	return s.waitForShutdown()
}

// initialize connects the datastore and builds every component in dependency
// order.
func (s *Server) initialize() error {
	db, err := database.NewPostgresDB(s.config.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	s.db = db

	if err := postgres.InitializeSchema(db); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}

	readings := postgres.NewReadingRepository(db)
	commands := postgres.NewCommandRepository(db)
	rovers := postgres.NewRoverRepository(db)

	s.eventHub = hub.New(s.config.Hub.SubscriberBuffer)

	s.service = fieldservice.New(readings, commands, rovers, s.eventHub)
	if err := s.service.Validate(); err != nil {
		return fmt.Errorf("failed to validate service: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancelBackground = cancel

	gen := simulator.NewGenerator(s.config.Simulator.ProbeCount, time.Now().UnixNano())
	sim := simulator.New(gen, readings, s.eventHub, s.config.Simulator.Interval)
	go sim.Run(ctx)

	disp := dispatcher.New(commands, s.eventHub, s.config.Dispatcher)
	go disp.Run(ctx)

	router := api.NewRouter(s.service, s.eventHub)
	s.srv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port),
		Handler:      router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
	}

	return nil
}

// waitForShutdown waits for interrupt signal and gracefully shuts down the server
func (s *Server) waitForShutdown() error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	nuts.L.Infof("[Server] Shutting down server...")

	// Stop the schedulers first so nothing publishes into a closing hub.
	s.cancelBackground()
	s.eventHub.Close()

	ctx, cancel := context.WithTimeout(context.Background(), s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	if err := s.db.Close(); err != nil {
		nuts.L.Warnf("[Server] Error closing database: %v", err)
	}

	nuts.L.Infof("[Server] Server shut down successfully")
	return nil
}
