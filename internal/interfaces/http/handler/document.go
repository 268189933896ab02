package handler

import (
	"context"
	"time"

	appaccounting "github.com/bizledger/backend/internal/application/accounting"
	"github.com/bizledger/backend/internal/domain/accounting"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// DocumentHandler handles financial document API endpoints
type DocumentHandler struct {
	BaseHandler
	documents *appaccounting.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documents *appaccounting.DocumentService) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

// RegisterRoutes registers document routes
func (h *DocumentHandler) RegisterRoutes(rg *gin.RouterGroup) {
	documents := rg.Group("/documents")
	{
		documents.POST("", h.Create)
		documents.GET("", h.List)
		documents.GET("/:id", h.Get)
		documents.GET("/number/:number", h.GetByNumber)
		documents.PUT("/:id/lines", h.UpdateLines)
		documents.PUT("/:id/adjustments", h.UpdateAdjustments)
		documents.POST("/:id/commit", h.Commit)
		documents.POST("/:id/accept", h.Accept)
		documents.POST("/:id/receive", h.MarkReceived)
		documents.POST("/:id/cancel", h.Cancel)
		documents.DELETE("/:id", h.Delete)
		documents.POST("/sweep-overdue", h.SweepOverdue)
	}
}

// Create creates a financial document, optionally committing it in the
// same request
func (h *DocumentHandler) Create(c *gin.Context) {
	var req appaccounting.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documents.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, doc)
}

// List returns documents matching the query filter, paginated
func (h *DocumentHandler) List(c *gin.Context) {
	var filter appaccounting.DocumentListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.documents.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// Get returns a document by ID
func (h *DocumentHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	doc, err := h.documents.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// GetByNumber returns a document by its human-readable number
func (h *DocumentHandler) GetByNumber(c *gin.Context) {
	doc, err := h.documents.GetByNumber(c.Request.Context(), c.Param("number"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// UpdateLines replaces the full line set of a draft document
func (h *DocumentHandler) UpdateLines(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	var req appaccounting.UpdateLinesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documents.UpdateLines(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// UpdateAdjustments changes discount, shipping, and round-off on a draft
func (h *DocumentHandler) UpdateAdjustments(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	var req appaccounting.UpdateAdjustmentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documents.UpdateAdjustments(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Commit moves a draft to its committed state
func (h *DocumentHandler) Commit(c *gin.Context) {
	h.transition(c, h.documents.Commit)
}

// Accept marks a sent quotation as accepted
func (h *DocumentHandler) Accept(c *gin.Context) {
	h.transition(c, h.documents.Accept)
}

// MarkReceived marks an issued purchase order as received
func (h *DocumentHandler) MarkReceived(c *gin.Context) {
	h.transition(c, h.documents.MarkReceived)
}

// Cancel retires a document
func (h *DocumentHandler) Cancel(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	var req appaccounting.CancelDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	doc, err := h.documents.Cancel(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}

// Delete removes a draft document
func (h *DocumentHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.documents.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// SweepOverdue marks every effectively overdue document of a type with the
// stored Overdue status
func (h *DocumentHandler) SweepOverdue(c *gin.Context) {
	docType := accounting.DocumentType(c.Query("document_type"))
	if !docType.IsValid() {
		h.BadRequest(c, "document_type must be a valid document type")
		return
	}

	swept, err := h.documents.SweepOverdue(c.Request.Context(), docType, time.Now())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"swept": swept})
}

func (h *DocumentHandler) transition(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*appaccounting.DocumentResponse, error)) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	doc, err := fn(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, doc)
}
