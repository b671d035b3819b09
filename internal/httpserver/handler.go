package httpserver

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"guest-intent-engine/pkg/response"
)

const requestIDHeader = "X-Request-ID"

func (srv *HTTPServer) mapHandlers() {
	srv.registerMiddlewares()
	srv.registerSystemRoutes()
	srv.registerDomainRoutes()
}

func (srv *HTTPServer) registerMiddlewares() {
	srv.gin.Use(srv.recovery())
	srv.gin.Use(requestID())

	if srv.rateLimitPerMin > 0 {
		srv.gin.Use(srv.rateLimitMiddleware())
	}
}

// recovery turns a handler panic into a logged 500 envelope instead of a
// dropped connection.
func (srv *HTTPServer) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		srv.l.Errorf(c.Request.Context(), "Handler panic: %v", recovered)
		response.InternalError(c, fmt.Errorf("%v", recovered))
		c.Abort()
	})
}

// requestID tags every request so guest conversations can be traced
// across log lines. An inbound header wins, otherwise one is minted.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Set("request_id", id)
		c.Next()
	}
}

func (srv *HTTPServer) registerSystemRoutes() {
	srv.gin.GET("/health", srv.healthCheck)
	srv.gin.GET("/ready", srv.readyCheck)
	srv.gin.GET("/live", srv.liveCheck)
}

func (srv *HTTPServer) registerDomainRoutes() {
	ctx := context.Background()

	api := srv.gin.Group("/api/v1")
	api.POST("/classify", srv.classify)
	api.POST("/reply", srv.reply)
	api.GET("/providers/status", srv.providersStatus)
	api.POST("/providers/reset", srv.resetProviders)
	api.POST("/providers/:id/reset", srv.resetProvider)

	srv.l.Infof(ctx, "Intent routes registered under /api/v1")
}
