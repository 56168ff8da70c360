package handler

import (
	"cashu-pos/internal/adapter/http/dto"
	"cashu-pos/internal/core/ports"
	"cashu-pos/pkg/apperror"
	"cashu-pos/pkg/response"

	"github.com/gin-gonic/gin"
)

// QueueHandler exposes the offline payment queue.
type QueueHandler struct {
	queueSvc ports.OfflineQueueService
}

// NewQueueHandler creates a new QueueHandler.
func NewQueueHandler(queueSvc ports.OfflineQueueService) *QueueHandler {
	return &QueueHandler{queueSvc: queueSvc}
}

// QueuePayment handles POST /api/v1/payments.
func (h *QueueHandler) QueuePayment(c *gin.Context) {
	var req dto.QueuePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrInvalidToken(err))
		return
	}

	payment, err := h.queueSvc.QueuePayment(c.Request.Context(), req.Token)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromPayment(payment))
}

// ListPayments handles GET /api/v1/payments.
func (h *QueueHandler) ListPayments(c *gin.Context) {
	payments, err := h.queueSvc.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	out := make([]dto.PaymentResponse, len(payments))
	for i := range payments {
		out[i] = dto.FromPayment(&payments[i])
	}
	response.OK(c, out)
}

// ProcessQueue handles POST /api/v1/payments/process. It runs one
// verification pass immediately instead of waiting for the ticker.
func (h *QueueHandler) ProcessQueue(c *gin.Context) {
	if err := h.queueSvc.ProcessQueue(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}

	status, err := h.queueSvc.Status(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.FromQueueStatus(status))
}

// RetryPayment handles POST /api/v1/payments/:id/retry.
func (h *QueueHandler) RetryPayment(c *gin.Context) {
	if err := h.queueSvc.RetryPayment(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": c.Param("id"), "status": "pending"})
}

// RemovePayment handles DELETE /api/v1/payments/:id.
func (h *QueueHandler) RemovePayment(c *gin.Context) {
	if err := h.queueSvc.RemovePayment(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": c.Param("id"), "removed": true})
}

// ClearProcessed handles POST /api/v1/payments/clear-processed.
func (h *QueueHandler) ClearProcessed(c *gin.Context) {
	removed, err := h.queueSvc.ClearProcessed(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.ClearedResponse{Removed: removed})
}
