package httpserver

import (
	"context"
	"errors"

	"stock-stream-srv/internal/pipeline"
	"stock-stream-srv/pkg/log"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency the readiness probe checks.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusProvider exposes the running pipeline.
type StatusProvider interface {
	Status() pipeline.Status
}

type HTTPServer struct {
	// Server Configuration
	gin         *gin.Engine
	l           log.Logger
	host        string
	port        int
	mode        string
	environment string

	// Pipeline
	sink   Pinger
	status StatusProvider
}

type Config struct {
	// Server Configuration
	Logger      log.Logger
	Host        string
	Port        int
	Mode        string
	Environment string

	// Pipeline
	Sink   Pinger
	Status StatusProvider
}

// New creates a new HTTPServer instance with the provided configuration.
func New(cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		// Server Configuration
		l:           cfg.Logger,
		gin:         gin.New(),
		host:        cfg.Host,
		port:        cfg.Port,
		mode:        cfg.Mode,
		environment: cfg.Environment,

		// Pipeline
		sink:   cfg.Sink,
		status: cfg.Status,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	srv.mapHandlers()
	return srv, nil
}

// validate validates that all required dependencies are provided.
func (srv HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	// host can be empty (listen on all interfaces)
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.sink == nil {
		return errors.New("sink is required")
	}
	if srv.status == nil {
		return errors.New("status provider is required")
	}
	return nil
}
