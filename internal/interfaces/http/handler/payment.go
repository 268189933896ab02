package handler

import (
	apppayment "github.com/bizledger/backend/internal/application/payment"
	"github.com/gin-gonic/gin"
)

// PaymentHandler handles payment and allocation API endpoints
type PaymentHandler struct {
	BaseHandler
	payments *apppayment.Service
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(payments *apppayment.Service) *PaymentHandler {
	return &PaymentHandler{payments: payments}
}

// RegisterRoutes registers payment routes
func (h *PaymentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.POST("", h.Record)
		payments.GET("", h.List)
		payments.GET("/:id", h.Get)
		payments.POST("/:id/cancel", h.Cancel)
		payments.GET("/:id/allocations", h.ListAllocations)
		payments.GET("/:id/allocatable", h.ListAllocatable)
		payments.POST("/:id/allocations", h.Allocate)
		payments.DELETE("/:id/allocations/:allocation_id", h.ReverseAllocation)
	}
}

// Record records a payment
func (h *PaymentHandler) Record(c *gin.Context) {
	var req apppayment.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pay, err := h.payments.Record(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, pay)
}

// List returns payments matching the query filter, paginated
func (h *PaymentHandler) List(c *gin.Context) {
	var filter apppayment.PaymentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.payments.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get returns a payment by ID
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	pay, err := h.payments.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pay)
}

// Cancel cancels a payment that has no active allocations
func (h *PaymentHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	var req apppayment.CancelPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	pay, err := h.payments.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pay)
}

// ListAllocations returns all allocations of a payment, newest first
func (h *PaymentHandler) ListAllocations(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	allocations, err := h.payments.ListAllocations(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, allocations)
}

// ListAllocatable returns the open documents the payment could settle,
// oldest first
func (h *PaymentHandler) ListAllocatable(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	docs, err := h.payments.ListAllocatable(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, docs)
}

// Allocate settles part of a document from the payment
func (h *PaymentHandler) Allocate(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	var req apppayment.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	allocation, err := h.payments.Allocate(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, allocation)
}

// ReverseAllocation undoes an allocation; the row stays, marked reversed
func (h *PaymentHandler) ReverseAllocation(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}
	allocationID, ok := parseID(c, "allocation_id")
	if !ok {
		h.InvalidID(c)
		return
	}

	allocation, err := h.payments.ReverseAllocation(c.Request.Context(), id, allocationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, allocation)
}
