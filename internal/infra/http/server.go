package http

import (
	"context"
	"net/http"
	"time"

	"github.com/Ramcharan1706/BlockEstate/internal/config"
	"github.com/Ramcharan1706/BlockEstate/internal/domain"
	"github.com/Ramcharan1706/BlockEstate/internal/infra/ratelimit"

	"github.com/gin-gonic/gin"
)

// WorkflowRunner starts one transfer run. Implemented by
// usecase.TransferWorkflow.
type WorkflowRunner interface {
	Execute(ctx context.Context, runID string) (*domain.TransferRun, error)
}

// RunStore reads back recorded runs.
type RunStore interface {
	GetRun(ctx context.Context, runID string) (domain.TransferRun, error)
	ListRuns(ctx context.Context, limit int) ([]domain.TransferRun, error)
}

type Server struct {
	cfg config.Config
	r   *gin.Engine

	workflow WorkflowRunner
	runs     RunStore

	rateLimiter       domain.RateLimiter
	rateLimitRequests int
	rateLimitWindow   time.Duration
}

type ServerDeps struct {
	Workflow    WorkflowRunner
	Runs        RunStore
	RateLimiter domain.RateLimiter
}

func NewServer(cfg config.Config, deps ServerDeps) *Server {
	r := gin.New()
	r.Use(gin.Recovery())

	s := &Server{
		cfg:      cfg,
		r:        r,
		workflow: deps.Workflow,
		runs:     deps.Runs,
	}
	s.initRateLimit(deps.RateLimiter)
	s.routes()
	return s
}

func (s *Server) initRateLimit(override domain.RateLimiter) {
	if override != nil {
		s.rateLimiter = override
	}
	if s.rateLimiter == nil && s.cfg.RateLimitRequests > 0 {
		if s.cfg.RedisAddr != "" {
			if limiter, err := ratelimit.NewRedisLimiter(s.cfg.RedisAddr, s.cfg.RedisPassword, s.cfg.RedisDB, nil); err == nil {
				s.rateLimiter = limiter
			}
		}
		if s.rateLimiter == nil {
			s.rateLimiter = ratelimit.NewMemoryLimiter(nil, 0)
		}
	}
	s.rateLimitRequests = s.cfg.RateLimitRequests
	if s.cfg.RateLimitWindowSeconds > 0 {
		s.rateLimitWindow = time.Duration(s.cfg.RateLimitWindowSeconds) * time.Second
	}
}

func (s *Server) routes() {
	s.r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	v1 := s.r.Group("/v1")
	{
		v1.POST("/transfers", s.handleStartTransfer)
		v1.GET("/runs", s.handleListRuns)
		v1.GET("/runs/:run_id", s.handleGetRun)
	}

	s.r.NoRoute(s.handleNoRoute)
}

func (s *Server) Run() error {
	return s.r.Run(s.cfg.HTTPAddr)
}
