package handler

import (
	"cashu-pos/config"
	"cashu-pos/internal/adapter/http/middleware"
	"cashu-pos/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	Terminal       config.TerminalConfig
	TerminalID     string
	Pubkey         string
	TrustSvc       ports.TrustService
	SyncSvc        ports.SyncService
	ForwardSvc     ports.ForwardService
	QueueSvc       ports.OfflineQueueService
	Reachability   ports.Reachability
	HealthCheckers []ports.HealthChecker
	Mode           string
	Logger         zerolog.Logger
}

// SetupRouter initialises the Gin engine with the operator API. The API is
// meant for the terminal's own operator UI on the local network; it binds
// to whatever the config says and carries no auth of its own.
func SetupRouter(deps RouterDeps) *gin.Engine {
	switch deps.Mode {
	case gin.DebugMode, gin.TestMode:
		gin.SetMode(deps.Mode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20))

	r.GET("/health", HealthCheck(deps.HealthCheckers...))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := r.Group("/api/v1")

	statusHandler := NewStatusHandler(
		deps.Terminal, deps.TerminalID, deps.Pubkey,
		deps.TrustSvc, deps.QueueSvc, deps.ForwardSvc, deps.SyncSvc, deps.Reachability,
	)
	v1.GET("/status", statusHandler.Status)
	v1.POST("/sync/catchup", statusHandler.CatchUp)

	queueHandler := NewQueueHandler(deps.QueueSvc)
	payments := v1.Group("/payments")
	{
		payments.POST("", queueHandler.QueuePayment)
		payments.GET("", queueHandler.ListPayments)
		payments.POST("/process", queueHandler.ProcessQueue)
		payments.POST("/clear-processed", queueHandler.ClearProcessed)
		payments.POST("/:id/retry", queueHandler.RetryPayment)
		payments.DELETE("/:id", queueHandler.RemovePayment)
	}

	deviceHandler := NewDeviceHandler(deps.TrustSvc)
	devices := v1.Group("/devices")
	{
		devices.GET("", deviceHandler.ListDevices)
		devices.GET("/pending", deviceHandler.PendingRequests)
		devices.POST("/:id/approve", deviceHandler.ApproveDevice)
		devices.POST("/:id/deny", deviceHandler.DenyDevice)
		devices.POST("/:id/revoke", deviceHandler.RevokeDevice)
	}
	v1.POST("/join", deviceHandler.RequestJoin)

	forwardHandler := NewForwardHandler(deps.ForwardSvc)
	forwards := v1.Group("/forwards")
	{
		forwards.POST("", forwardHandler.Forward)
		forwards.GET("", forwardHandler.ListPending)
		forwards.POST("/:id/resend", forwardHandler.Resend)
	}

	return r
}
