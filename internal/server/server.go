package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agenthands/regcompare/internal/config"
	"github.com/agenthands/regcompare/internal/core"
	"github.com/agenthands/regcompare/internal/core/matcher"
	"github.com/agenthands/regcompare/internal/document"
	"github.com/agenthands/regcompare/internal/driver"
	"github.com/agenthands/regcompare/internal/metrics"
)

type Server struct {
	Engine  *core.Engine
	Metrics *metrics.Collector
	Logger  *slog.Logger
}

func NewServer(engine *core.Engine, m *metrics.Collector, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{Engine: engine, Metrics: m, Logger: logger}
}

// NewFromConfig wires metrics, the engine and, when configured, the Memgraph
// archive. The returned cleanup closes the archive connection.
func NewFromConfig(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Server, func(), error) {
	m := metrics.New()
	cleanup := func() {}

	var drv driver.GraphDriver
	if cfg.Memgraph.Archive && cfg.Memgraph.URI != "" {
		d, err := driver.NewMemgraphDriver(ctx, cfg.Memgraph.URI, cfg.Memgraph.User, cfg.Memgraph.Password, logger)
		if err != nil {
			return nil, cleanup, err
		}
		if err := d.BuildIndices(ctx); err != nil {
			logger.Warn("failed to build indices", "error", err)
		}
		drv = d
		cleanup = func() { _ = d.Close(context.Background()) }
	}

	opts := matcher.Options{SimilarityThreshold: cfg.Matcher.SimilarityThreshold}
	engine := core.NewEngine(drv, opts, m, logger)
	return NewServer(engine, m, logger), cleanup, nil
}

func (s *Server) SetupRouter() *gin.Engine {
	r := gin.Default()

	r.GET("/health", s.Health)
	r.POST("/compare", s.Compare)
	r.GET("/runs", s.ListRuns)
	r.GET("/runs/:id", s.GetRun)
	r.DELETE("/runs/:id", s.DeleteRun)
	if s.Metrics != nil {
		r.GET("/metrics", gin.WrapH(s.Metrics.Handler()))
	}

	return r
}

func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "archive": s.Engine.Driver != nil})
}

type CompareRequest struct {
	First  *document.Page `json:"first" binding:"required"`
	Second *document.Page `json:"second" binding:"required"`
}

// Compare answers with the full report, or with the summary alone when
// called with ?view=summary.
func (s *Server) Compare(c *gin.Context) {
	var req CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	first, err := req.First.ToPage()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "first: " + err.Error()})
		return
	}
	second, err := req.Second.ToPage()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "second: " + err.Error()})
		return
	}

	rep, err := s.Engine.Compare(c.Request.Context(), first, second)
	if err != nil {
		if rep == nil {
			s.Logger.Error("comparison failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compare pages"})
			return
		}
		s.Logger.Error("failed to archive run", "run", rep.ID, "error", err)
		c.Header("X-Archive-Status", "failed")
	}

	if c.Query("view") == "summary" {
		c.JSON(http.StatusOK, gin.H{"id": rep.ID, "summary": rep.Summary})
		return
	}
	c.JSON(http.StatusOK, rep)
}

func (s *Server) ListRuns(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	runs, err := s.Engine.ListRuns(c.Request.Context(), limit)
	if err != nil {
		s.archiveError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) GetRun(c *gin.Context) {
	run, err := s.Engine.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.archiveError(c, err)
		return
	}
	c.JSON(http.StatusOK, run)
}

func (s *Server) DeleteRun(c *gin.Context) {
	if err := s.Engine.DeleteRun(c.Request.Context(), c.Param("id")); err != nil {
		s.archiveError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) archiveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, core.ErrNoArchive):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Run archive not configured"})
	case errors.Is(err, core.ErrRunNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Run not found"})
	default:
		s.Logger.Error("archive query failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Archive query failed"})
	}
}
