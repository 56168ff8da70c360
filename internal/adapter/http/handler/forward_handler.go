package handler

import (
	"cashu-pos/internal/adapter/http/dto"
	"cashu-pos/internal/core/ports"
	"cashu-pos/pkg/apperror"
	"cashu-pos/pkg/response"

	"github.com/gin-gonic/gin"
)

// ForwardHandler exposes the token-forward channel.
type ForwardHandler struct {
	forwardSvc ports.ForwardService
}

// NewForwardHandler creates a new ForwardHandler.
func NewForwardHandler(forwardSvc ports.ForwardService) *ForwardHandler {
	return &ForwardHandler{forwardSvc: forwardSvc}
}

// Forward handles POST /api/v1/forwards.
func (h *ForwardHandler) Forward(c *gin.Context) {
	var req dto.ForwardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidToken(err))
		return
	}

	forward, err := h.forwardSvc.Forward(c.Request.Context(), req.TransactionID, req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromForward(forward))
}

// ListPending handles GET /api/v1/forwards.
func (h *ForwardHandler) ListPending(c *gin.Context) {
	forwards, err := h.forwardSvc.PendingForwards(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.ForwardResponse, len(forwards))
	for i := range forwards {
		out[i] = dto.FromForward(&forwards[i])
	}
	response.OK(c, out)
}

// Resend handles POST /api/v1/forwards/:id/resend.
func (h *ForwardHandler) Resend(c *gin.Context) {
	forward, err := h.forwardSvc.Resend(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromForward(forward))
}
