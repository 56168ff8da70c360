package handler

import (
	"cashu-pos/internal/adapter/http/dto"
	"cashu-pos/internal/core/ports"
	"cashu-pos/pkg/response"

	"github.com/gin-gonic/gin"
)

// DeviceHandler exposes the device-trust state machine.
type DeviceHandler struct {
	trustSvc ports.TrustService
}

// NewDeviceHandler creates a new DeviceHandler.
func NewDeviceHandler(trustSvc ports.TrustService) *DeviceHandler {
	return &DeviceHandler{trustSvc: trustSvc}
}

// ListDevices handles GET /api/v1/devices.
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	devices, err := h.trustSvc.ApprovedDevices(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.DeviceResponse, len(devices))
	for i := range devices {
		out[i] = dto.FromDevice(&devices[i])
	}
	response.OK(c, out)
}

// PendingRequests handles GET /api/v1/devices/pending.
func (h *DeviceHandler) PendingRequests(c *gin.Context) {
	reqs := h.trustSvc.PendingRequests()
	out := make([]dto.JoinRequestResponse, len(reqs))
	for i := range reqs {
		out[i] = dto.FromJoinRequest(&reqs[i])
	}
	response.OK(c, out)
}

// ApproveDevice handles POST /api/v1/devices/:id/approve.
func (h *DeviceHandler) ApproveDevice(c *gin.Context) {
	if err := h.trustSvc.ApproveDevice(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"terminal_id": c.Param("id"), "approved": true})
}

// DenyDevice handles POST /api/v1/devices/:id/deny.
func (h *DeviceHandler) DenyDevice(c *gin.Context) {
	if err := h.trustSvc.DenyDevice(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"terminal_id": c.Param("id"), "approved": false})
}

// RevokeDevice handles POST /api/v1/devices/:id/revoke.
func (h *DeviceHandler) RevokeDevice(c *gin.Context) {
	if err := h.trustSvc.RevokeDevice(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"terminal_id": c.Param("id"), "revoked": true})
}

// RequestJoin handles POST /api/v1/join. A sub-terminal asks the main
// terminal to admit it.
func (h *DeviceHandler) RequestJoin(c *gin.Context) {
	if err := h.trustSvc.RequestJoin(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"status": "pending"})
}
