package handler

import (
	"time"

	appreport "github.com/bizledger/backend/internal/application/report"
	"github.com/bizledger/backend/internal/domain/accounting"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles the read-only reporting API endpoints
type ReportHandler struct {
	BaseHandler
	reports *appreport.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *appreport.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/dashboard", h.Dashboard)
		reports.GET("/aging", h.Aging)
		reports.GET("/cashflow", h.Cashflow)
		reports.GET("/expenses-by-category", h.ExpensesByCategory)
	}
}

// reportRange binds the optional start_date and end_date query parameters
type reportRange struct {
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
}

// bounds returns the range as timestamps. Both dates are inclusive, so the
// upper bound extends to the last instant of the end date.
func (r reportRange) bounds() (time.Time, time.Time) {
	var from, to time.Time
	if r.StartDate != nil {
		from = *r.StartDate
	}
	if r.EndDate != nil {
		to = r.EndDate.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return from, to
}

// Dashboard returns the point-in-time summary
func (h *ReportHandler) Dashboard(c *gin.Context) {
	var rng reportRange
	if err := c.ShouldBindQuery(&rng); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	from, to := rng.bounds()
	summary, err := h.reports.Dashboard(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Aging buckets open balances by days past due. kind selects receivable
// (invoices) or payable (bills).
func (h *ReportHandler) Aging(c *gin.Context) {
	var docType accounting.DocumentType
	switch c.DefaultQuery("kind", "receivable") {
	case "receivable":
		docType = accounting.DocumentTypeInvoice
	case "payable":
		docType = accounting.DocumentTypeBill
	default:
		h.BadRequest(c, "kind must be receivable or payable")
		return
	}

	asOf := time.Now()
	if raw := c.Query("as_of"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			h.BadRequest(c, "as_of must be formatted as YYYY-MM-DD")
			return
		}
		asOf = parsed
	}

	aging, err := h.reports.Aging(c.Request.Context(), docType, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, aging)
}

// Cashflow returns the inflow/outflow chart series
func (h *ReportHandler) Cashflow(c *gin.Context) {
	var rng reportRange
	if err := c.ShouldBindQuery(&rng); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	from, to := rng.bounds()
	merged, err := h.reports.Cashflow(c.Request.Context(), from, to, c.Query("period"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, merged)
}

// ExpensesByCategory sums paid expenses per category in a date range
func (h *ReportHandler) ExpensesByCategory(c *gin.Context) {
	var rng reportRange
	if err := c.ShouldBindQuery(&rng); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	from, to := rng.bounds()
	totals, err := h.reports.ExpensesByCategory(c.Request.Context(), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, totals)
}
