package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/carevolve/triage-rl/agent"
	"github.com/carevolve/triage-rl/data"
	"github.com/carevolve/triage-rl/env"
)

// Server is the HTTP boundary in front of the agent. It owns no training
// state of its own: it encodes requests through the fitted pipeline, calls
// the agent's entry points, and maps the core error taxonomy to status
// codes.
type Server struct {
	agent       *agent.Agent
	pipeline    *data.Pipeline
	environment *env.Environment
	trainBatch  int
	engine      *gin.Engine
}

func New(a *agent.Agent, pipeline *data.Pipeline, environment *env.Environment, trainBatch int) *Server {
	gin.SetMode(gin.ReleaseMode)
	s := &Server{
		agent:       a,
		pipeline:    pipeline,
		environment: environment,
		trainBatch:  trainBatch,
		engine:      gin.New(),
	}
	s.engine.Use(gin.Recovery())

	s.engine.GET("/", s.handleRoot)
	s.engine.GET("/health", s.handleHealth)
	s.engine.POST("/predict", s.handlePredict)
	s.engine.POST("/train", s.handleTrain)
	s.engine.GET("/metrics", s.handleMetrics)
	return s
}

func (s *Server) Run(addr string) error {
	return s.engine.Run(addr)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}
