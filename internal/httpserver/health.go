package httpserver

import (
	"fmt"

	"stock-stream-srv/internal/pipeline"
	"stock-stream-srv/pkg/response"

	"github.com/gin-gonic/gin"
)

// Health response constants (single source for version and service identity).
const (
	HealthVersion = "1.0.0"
	ServiceName   = "stock-stream-srv"
)

// healthCheck reports the process is up and which state the pipeline is in.
func (srv HTTPServer) healthCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":   "healthy",
		"version":  HealthVersion,
		"service":  ServiceName,
		"pipeline": srv.status.Status().State,
	})
}

// readyCheck requires a reachable database and a RUNNING pipeline.
func (srv HTTPServer) readyCheck(c *gin.Context) {
	ctx := c.Request.Context()
	if err := srv.sink.Ping(ctx); err != nil {
		response.Unavailable(c, gin.H{
			"status":  "not ready",
			"message": "Database connection failed",
		}, err)
		return
	}
	st := srv.status.Status()
	if st.State != pipeline.StateRunning {
		response.Unavailable(c, gin.H{
			"status":   "not ready",
			"message":  "Pipeline is not running",
			"pipeline": st.State,
		}, fmt.Errorf("pipeline state %s", st.State))
		return
	}
	response.OK(c, gin.H{
		"status":   "ready",
		"version":  HealthVersion,
		"service":  ServiceName,
		"database": "connected",
		"pipeline": st.State,
	})
}

// liveCheck only proves the HTTP loop answers.
func (srv HTTPServer) liveCheck(c *gin.Context) {
	response.OK(c, gin.H{
		"status":  "alive",
		"version": HealthVersion,
		"service": ServiceName,
	})
}

func (srv HTTPServer) pipelineStatus(c *gin.Context) {
	response.OK(c, srv.status.Status())
}
