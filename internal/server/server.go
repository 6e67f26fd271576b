// Package server exposes the countdown solver over HTTP.
//
// Routes:
//
//	POST /v1/solve   solve one problem, standard or resilient
//	GET  /v1/health  liveness and version
//	GET  /metrics    Prometheus metrics (optional)
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gitrdm/countdown/internal/cache"
	"github.com/gitrdm/countdown/internal/report"
	"github.com/gitrdm/countdown/pkg/countdown"
)

// Options configures a Server.
type Options struct {
	// Cache stores complete results. Nil disables caching.
	Cache *cache.Cache
	// Solver options applied to every request.
	Solver []countdown.OptimizeOption
	// MetricsPath mounts the Prometheus handler. Empty disables it.
	MetricsPath string
	Logger      *zap.Logger
}

// Server handles solve requests.
type Server struct {
	cache       *cache.Cache
	solverOpts  []countdown.OptimizeOption
	metricsPath string
	log         *zap.Logger
}

// New creates a server.
func New(opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cache:       opts.Cache,
		solverOpts:  opts.Solver,
		metricsPath: opts.MetricsPath,
		log:         log,
	}
}

// SolveRequest is the body of POST /v1/solve.
type SolveRequest struct {
	Numbers   []int `json:"numbers" binding:"required"`
	Target    *int  `json:"target" binding:"required"`
	Resilient bool  `json:"resilient"`
}

// SolveResponse is the body of a successful solve.
type SolveResponse struct {
	RequestID string                       `json:"request_id"`
	Cached    bool                         `json:"cached"`
	Partial   bool                         `json:"partial"`
	Lines     []string                     `json:"lines"`
	Solution  *countdown.Solution          `json:"solution,omitempty"`
	Resilient *countdown.ResilientSolution `json:"resilient,omitempty"`
}

// HealthResponse is the body of GET /v1/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse is the standard error response format.
type ErrorResponse struct {
	RequestID string `json:"request_id,omitempty"`
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/v1")
	v1.POST("/solve", s.HandleSolve)
	v1.GET("/health", s.HandleHealth)

	if s.metricsPath != "" {
		r.GET(s.metricsPath, gin.WrapH(promhttp.Handler()))
	}
	return r
}

// Run serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.log.Info("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	<-errCh
	return nil
}

// HandleHealth handles GET /v1/health.
func (s *Server) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "healthy", Version: countdown.GetVersion()})
}

// HandleSolve handles POST /v1/solve.
//
// Response:
//
//	200 OK: SolveResponse, Partial set when a limit stopped the search
//	400 Bad Request: malformed body or pool size
//	422 Unprocessable Entity: no assignment satisfies the model
//	504 Gateway Timeout: the limit hit before any incumbent
func (s *Server) HandleSolve(c *gin.Context) {
	requestID := getOrCreateRequestID(c)
	log := s.log.With(zap.String("request_id", requestID))

	var req SolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("invalid request body", zap.Error(err))
		c.JSON(http.StatusBadRequest, ErrorResponse{RequestID: requestID, Error: "invalid request body", Code: "INVALID_REQUEST"})
		return
	}

	p, err := countdown.NewProblem(req.Numbers, *req.Target)
	if err != nil {
		s.fail(c, log, requestID, err)
		return
	}

	resp := SolveResponse{RequestID: requestID}
	if req.Resilient {
		err = s.solveResilient(c.Request.Context(), log, p, &resp)
	} else {
		err = s.solveStandard(c.Request.Context(), log, p, &resp)
	}
	if err != nil {
		s.fail(c, log, requestID, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) solveStandard(ctx context.Context, log *zap.Logger, p *countdown.Problem, resp *SolveResponse) error {
	if s.cache != nil {
		sol, ok, err := s.cache.GetSolution(p)
		if err != nil {
			log.Warn("cache lookup failed", zap.Error(err))
		} else if ok {
			resp.Cached, resp.Solution, resp.Lines = true, sol, report.Lines(sol)
			return nil
		}
	}

	sol, err := countdown.NewSolver(countdown.NewModel(p)).SolveOptimal(ctx, s.options(log)...)
	if sol == nil {
		return err
	}
	resp.Solution, resp.Lines = sol, report.Lines(sol)
	if err != nil {
		resp.Partial = true
		log.Info("returning partial solution", zap.Error(err))
		return nil
	}
	if s.cache != nil {
		if err := s.cache.PutSolution(sol); err != nil {
			log.Warn("cache store failed", zap.Error(err))
		}
	}
	return nil
}

func (s *Server) solveResilient(ctx context.Context, log *zap.Logger, p *countdown.Problem, resp *SolveResponse) error {
	if s.cache != nil {
		sol, ok, err := s.cache.GetResilient(p)
		if err != nil {
			log.Warn("cache lookup failed", zap.Error(err))
		} else if ok {
			resp.Cached, resp.Resilient, resp.Lines = true, sol, report.ResilientLines(sol)
			return nil
		}
	}

	sol, err := countdown.NewSolver(countdown.NewResilientModel(p)).SolveResilient(ctx, s.options(log)...)
	if sol == nil {
		return err
	}
	resp.Resilient, resp.Lines = sol, report.ResilientLines(sol)
	if err != nil {
		resp.Partial = true
		log.Info("returning partial solution", zap.Error(err))
		return nil
	}
	if s.cache != nil {
		if err := s.cache.PutResilient(sol); err != nil {
			log.Warn("cache store failed", zap.Error(err))
		}
	}
	return nil
}

func (s *Server) options(log *zap.Logger) []countdown.OptimizeOption {
	return append([]countdown.OptimizeOption{countdown.WithLogger(log)}, s.solverOpts...)
}

func (s *Server) fail(c *gin.Context, log *zap.Logger, requestID string, err error) {
	status, code := http.StatusInternalServerError, "SOLVE_FAILED"
	switch {
	case errors.Is(err, countdown.ErrInvalidProblem):
		status, code = http.StatusBadRequest, "INVALID_PROBLEM"
	case errors.Is(err, countdown.ErrInfeasible):
		status, code = http.StatusUnprocessableEntity, "INFEASIBLE"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, countdown.ErrSearchLimitReached):
		status, code = http.StatusGatewayTimeout, "LIMIT_REACHED"
	}
	log.Warn("solve failed", zap.Int("status", status), zap.Error(err))
	c.JSON(status, ErrorResponse{RequestID: requestID, Error: err.Error(), Code: code})
}

func getOrCreateRequestID(c *gin.Context) string {
	requestID := c.GetHeader("X-Request-ID")
	if requestID == "" {
		requestID = uuid.NewString()
	}
	c.Header("X-Request-ID", requestID)
	return requestID
}
