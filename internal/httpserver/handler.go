package httpserver

import (
	"stock-stream-srv/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (srv HTTPServer) mapHandlers() {
	srv.gin.Use(middleware.Recovery(srv.l), middleware.RequestLogger(srv.l))

	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)
	srv.gin.GET("/status", srv.pipelineStatus)
	srv.gin.GET("/metrics", gin.WrapH(promhttp.Handler()))
}
