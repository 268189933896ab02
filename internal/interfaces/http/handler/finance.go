package handler

import (
	appfinance "github.com/bizledger/backend/internal/application/finance"
	"github.com/gin-gonic/gin"
)

// FinanceHandler handles bank account and expense API endpoints
type FinanceHandler struct {
	BaseHandler
	finance *appfinance.Service
}

// NewFinanceHandler creates a new FinanceHandler
func NewFinanceHandler(finance *appfinance.Service) *FinanceHandler {
	return &FinanceHandler{finance: finance}
}

// RegisterRoutes registers bank account and expense routes
func (h *FinanceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/bank-accounts")
	{
		accounts.POST("", h.CreateBankAccount)
		accounts.GET("", h.ListBankAccounts)
		accounts.GET("/:id", h.GetBankAccount)
		accounts.POST("/:id/default", h.SetDefaultBankAccount)
		accounts.POST("/:id/deactivate", h.DeactivateBankAccount)
	}

	expenses := rg.Group("/expenses")
	{
		expenses.POST("", h.CreateExpense)
		expenses.GET("", h.ListExpenses)
		expenses.GET("/:id", h.GetExpense)
		expenses.PUT("/:id", h.UpdateExpense)
		expenses.POST("/:id/submit", h.SubmitExpense)
		expenses.POST("/:id/approve", h.ApproveExpense)
		expenses.POST("/:id/reject", h.RejectExpense)
		expenses.POST("/:id/cancel", h.CancelExpense)
		expenses.POST("/:id/pay", h.PayExpense)
	}
}

// CreateBankAccount creates a bank or cash account
func (h *FinanceHandler) CreateBankAccount(c *gin.Context) {
	var req appfinance.CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	account, err := h.finance.CreateBankAccount(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, account)
}

// ListBankAccounts returns all bank accounts, active first
func (h *FinanceHandler) ListBankAccounts(c *gin.Context) {
	accounts, err := h.finance.ListBankAccounts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, accounts)
}

// GetBankAccount returns a bank account by ID
func (h *FinanceHandler) GetBankAccount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	account, err := h.finance.GetBankAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// SetDefaultBankAccount moves the default flag to this account
func (h *FinanceHandler) SetDefaultBankAccount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	account, err := h.finance.SetDefaultBankAccount(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// DeactivateBankAccount retires an account from further use
func (h *FinanceHandler) DeactivateBankAccount(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	if err := h.finance.DeactivateBankAccount(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// CreateExpense records an expense, optionally submitting it for approval
func (h *FinanceHandler) CreateExpense(c *gin.Context) {
	var req appfinance.CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.finance.CreateExpense(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, expense)
}

// ListExpenses returns expenses matching the query filter, paginated
func (h *FinanceHandler) ListExpenses(c *gin.Context) {
	var filter appfinance.ExpenseListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.finance.ListExpenses(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetExpense returns an expense by ID
func (h *FinanceHandler) GetExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	expense, err := h.finance.GetExpense(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// UpdateExpense edits a draft expense
func (h *FinanceHandler) UpdateExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	var req appfinance.UpdateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.finance.UpdateExpense(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// SubmitExpense sends a draft expense for approval
func (h *FinanceHandler) SubmitExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	expense, err := h.finance.SubmitExpense(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// ApproveExpense approves a pending expense
func (h *FinanceHandler) ApproveExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	var req appfinance.ApproveExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.finance.ApproveExpense(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// RejectExpense rejects a pending expense
func (h *FinanceHandler) RejectExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	var req appfinance.RejectExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.finance.RejectExpense(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// CancelExpense cancels a draft or pending expense
func (h *FinanceHandler) CancelExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	var req appfinance.CancelExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.finance.CancelExpense(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}

// PayExpense pays an approved expense out of a bank account
func (h *FinanceHandler) PayExpense(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		h.InvalidID(c)
		return
	}

	var req appfinance.PayExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	expense, err := h.finance.PayExpense(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, expense)
}
