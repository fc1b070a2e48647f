package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"ai_content_generator/config"
	"ai_content_generator/generator"
	"ai_content_generator/render"
)

// generation can include several attempts against the model
const requestTimeout = 5 * time.Minute

type Server struct {
	cfg      config.Config
	store    *generator.SessionStore
	renderer *render.Renderer
	logger   *zap.Logger
}

func New(agent *generator.Agent, cfg config.Config, logger *zap.Logger) (*Server, error) {
	if agent == nil {
		return nil, errors.New("generator agent required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		cfg:      cfg,
		store:    generator.NewSessionStore(agent, cfg.StoreOptions()...),
		renderer: render.New(),
		logger:   logger.Named("server"),
	}, nil
}

func (s *Server) Routes() http.Handler {
	r := gin.New()
	r.Use(gin.Recovery(), s.logMiddleware())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = s.cfg.CORSOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type"}
	corsConfig.MaxAge = 12 * time.Hour
	if len(corsConfig.AllowOrigins) > 0 {
		r.Use(cors.New(corsConfig))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.GET("/options", s.handleOptions)
	api.POST("/prompt", s.handlePrompt)
	api.POST("/sessions", s.handleSessionCreate)
	api.POST("/sessions/:id/generate", s.handleGenerate)
	api.GET("/sessions/:id/history", s.handleHistory)
	api.DELETE("/sessions/:id", s.handleSessionEnd)
	return r
}

func (s *Server) logMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		s.logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
