package httpserver

import (
	"errors"

	"github.com/gin-gonic/gin"

	"guest-intent-engine/internal/detect"
	"guest-intent-engine/pkg/llmprovider"
	"guest-intent-engine/pkg/log"
)

// HTTPServer holds all dependencies for the HTTP server.
type HTTPServer struct {
	gin         *gin.Engine
	l           log.Logger
	port        int
	mode        string
	environment string

	detector *detect.Service
	llm      *llmprovider.Manager

	rateLimitPerMin int
}

// Config is the dependency bag passed to New().
type Config struct {
	Logger      log.Logger
	Port        int
	Mode        string
	Environment string

	Detector *detect.Service
	LLM      *llmprovider.Manager

	// Per-client request budget; 0 disables rate limiting.
	RateLimitPerMin int
}

// New creates a new HTTPServer instance.
func New(logger log.Logger, cfg Config) (*HTTPServer, error) {
	gin.SetMode(cfg.Mode)

	srv := &HTTPServer{
		l:               logger,
		gin:             gin.New(),
		port:            cfg.Port,
		mode:            cfg.Mode,
		environment:     cfg.Environment,
		detector:        cfg.Detector,
		llm:             cfg.LLM,
		rateLimitPerMin: cfg.RateLimitPerMin,
	}

	if err := srv.validate(); err != nil {
		return nil, err
	}

	return srv, nil
}

func (srv *HTTPServer) validate() error {
	if srv.l == nil {
		return errors.New("logger is required")
	}
	if srv.mode == "" {
		return errors.New("mode is required")
	}
	if srv.port == 0 {
		return errors.New("port is required")
	}
	if srv.detector == nil {
		return errors.New("detector is required")
	}
	if srv.llm == nil {
		return errors.New("llm manager is required")
	}
	return nil
}
