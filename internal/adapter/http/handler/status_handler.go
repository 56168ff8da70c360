package handler

import (
	"net/http"

	"cashu-pos/config"
	"cashu-pos/internal/adapter/http/dto"
	"cashu-pos/internal/core/ports"
	"cashu-pos/pkg/response"

	"github.com/gin-gonic/gin"
)

// StatusHandler summarizes the terminal for the operator dashboard.
type StatusHandler struct {
	cfg        config.TerminalConfig
	terminalID string
	pubkey     string
	trustSvc   ports.TrustService
	queueSvc   ports.OfflineQueueService
	forwardSvc ports.ForwardService
	syncSvc    ports.SyncService
	reach      ports.Reachability
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler(
	cfg config.TerminalConfig,
	terminalID, pubkey string,
	trustSvc ports.TrustService,
	queueSvc ports.OfflineQueueService,
	forwardSvc ports.ForwardService,
	syncSvc ports.SyncService,
	reach ports.Reachability,
) *StatusHandler {
	return &StatusHandler{
		cfg:        cfg,
		terminalID: terminalID,
		pubkey:     pubkey,
		trustSvc:   trustSvc,
		queueSvc:   queueSvc,
		forwardSvc: forwardSvc,
		syncSvc:    syncSvc,
		reach:      reach,
	}
}

// Status handles GET /api/v1/status.
func (h *StatusHandler) Status(c *gin.Context) {
	ctx := c.Request.Context()

	queueStatus, err := h.queueSvc.Status(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}
	pending, err := h.forwardSvc.PendingForwards(ctx)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.TerminalStatusResponse{
		TerminalID:      h.terminalID,
		TerminalName:    h.cfg.Name,
		Role:            h.cfg.Role,
		MerchantID:      h.cfg.MerchantID,
		Pubkey:          h.pubkey,
		ApprovalStatus:  string(h.trustSvc.LocalStatus()),
		Online:          h.reach.Online(ctx),
		Queue:           dto.FromQueueStatus(queueStatus),
		PendingForwards: len(pending),
	})
}

// CatchUp handles POST /api/v1/sync/catchup: a one-shot replay of relay
// history since the checkpoint.
func (h *StatusHandler) CatchUp(c *gin.Context) {
	if err := h.syncSvc.CatchUp(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"status": "caught_up"})
}

// HealthCheck pings every registered dependency; any failure degrades the
// response to 503.
func HealthCheck(checkers ...ports.HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		deps := make(map[string]string, len(checkers))
		for _, checker := range checkers {
			if err := checker.Ping(c.Request.Context()); err != nil {
				deps[checker.Name()] = "down: " + err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			deps[checker.Name()] = "up"
		}

		result := "healthy"
		if status != http.StatusOK {
			result = "degraded"
		}
		c.JSON(status, gin.H{"status": result, "dependencies": deps})
	}
}
