package handler

import (
	"time"

	appledger "github.com/fuelops/backend/internal/application/ledger"
	"github.com/fuelops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles reporting HTTP requests. Every report is derived on
// demand from posted voucher lines.
type ReportHandler struct {
	BaseHandler
	reports *appledger.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reports *appledger.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes registers the reporting routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.TrialBalance)
		reports.GET("/ledger/:id", h.LedgerStatement)
		reports.GET("/cash-flow", h.CashFlow)
		reports.GET("/integrity-check", h.IntegrityCheck)
	}
}

// TrialBalance handles GET /reports/trial-balance
func (h *ReportHandler) TrialBalance(c *gin.Context) {
	asOf, ok := parseDateQuery(c, "as_of")
	if !ok {
		h.BadRequest(c, "Invalid as_of date; expected YYYY-MM-DD")
		return
	}

	resp, err := h.reports.GetTrialBalance(c.Request.Context(), middleware.GetTenantKey(c), asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// LedgerStatement handles GET /reports/ledger/:id
func (h *ReportHandler) LedgerStatement(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	from, to, ok := h.parseRange(c)
	if !ok {
		return
	}

	resp, err := h.reports.GetLedgerStatement(c.Request.Context(), middleware.GetTenantKey(c), id, from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// CashFlow handles GET /reports/cash-flow
func (h *ReportHandler) CashFlow(c *gin.Context) {
	from, to, ok := h.parseRange(c)
	if !ok {
		return
	}

	resp, err := h.reports.GetCashFlowReport(c.Request.Context(), middleware.GetTenantKey(c), from, to)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// IntegrityCheck handles GET /reports/integrity-check
func (h *ReportHandler) IntegrityCheck(c *gin.Context) {
	resp, err := h.reports.GetIntegrityCheck(c.Request.Context(), middleware.GetTenantKey(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *ReportHandler) parseRange(c *gin.Context) (time.Time, time.Time, bool) {
	from, ok := parseDateQuery(c, "from")
	if !ok {
		h.BadRequest(c, "Invalid from date; expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	to, ok := parseDateQuery(c, "to")
	if !ok {
		h.BadRequest(c, "Invalid to date; expected YYYY-MM-DD")
		return time.Time{}, time.Time{}, false
	}
	return from, to, true
}
