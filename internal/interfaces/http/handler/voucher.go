package handler

import (
	"context"

	appledger "github.com/fuelops/backend/internal/application/ledger"
	"github.com/fuelops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// VoucherHandler handles voucher posting HTTP requests
type VoucherHandler struct {
	BaseHandler
	vouchers *appledger.VoucherService
}

// NewVoucherHandler creates a new VoucherHandler
func NewVoucherHandler(vouchers *appledger.VoucherService) *VoucherHandler {
	return &VoucherHandler{vouchers: vouchers}
}

// RegisterRoutes registers the voucher routes
func (h *VoucherHandler) RegisterRoutes(rg *gin.RouterGroup) {
	vouchers := rg.Group("/vouchers")
	{
		vouchers.POST("", h.Create)
		vouchers.POST("/validate", h.Validate)
		vouchers.POST("/payment", h.CreatePayment)
		vouchers.POST("/receipt", h.CreateReceipt)
		vouchers.POST("/journal", h.CreateJournal)
		vouchers.GET("", h.List)
		vouchers.GET("/:id", h.Get)
		vouchers.GET("/number/:number", h.GetByNumber)
		vouchers.POST("/:id/cancel", h.Cancel)
	}
}

// Create handles POST /vouchers
func (h *VoucherHandler) Create(c *gin.Context) {
	req, ok := h.bindCreate(c)
	if !ok {
		return
	}

	resp, err := h.vouchers.CreateVoucher(c.Request.Context(), middleware.GetTenantKey(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// CreatePayment handles POST /vouchers/payment
func (h *VoucherHandler) CreatePayment(c *gin.Context) {
	h.createTyped(c, h.vouchers.CreatePaymentVoucher)
}

// CreateReceipt handles POST /vouchers/receipt
func (h *VoucherHandler) CreateReceipt(c *gin.Context) {
	h.createTyped(c, h.vouchers.CreateReceiptVoucher)
}

// CreateJournal handles POST /vouchers/journal
func (h *VoucherHandler) CreateJournal(c *gin.Context) {
	h.createTyped(c, h.vouchers.CreateJournalVoucher)
}

// Validate handles POST /vouchers/validate, a dry run that persists nothing
func (h *VoucherHandler) Validate(c *gin.Context) {
	req, ok := h.bindCreate(c)
	if !ok {
		return
	}

	resp, err := h.vouchers.ValidateVoucher(c.Request.Context(), middleware.GetTenantKey(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// List handles GET /vouchers
func (h *VoucherHandler) List(c *gin.Context) {
	var filter appledger.VoucherListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.vouchers.ListVouchers(c.Request.Context(), middleware.GetTenantKey(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /vouchers/:id
func (h *VoucherHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}

	resp, err := h.vouchers.GetVoucher(c.Request.Context(), middleware.GetTenantKey(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByNumber handles GET /vouchers/number/:number
func (h *VoucherHandler) GetByNumber(c *gin.Context) {
	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Missing voucher number")
		return
	}

	resp, err := h.vouchers.GetVoucherByNumber(c.Request.Context(), middleware.GetTenantKey(c), number)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel handles POST /vouchers/:id/cancel
func (h *VoucherHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid voucher ID")
		return
	}

	var req appledger.CancelVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.CancelledBy = middleware.GetActorID(c)

	resp, err := h.vouchers.CancelVoucher(c.Request.Context(), middleware.GetTenantKey(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

func (h *VoucherHandler) bindCreate(c *gin.Context) (appledger.CreateVoucherRequest, bool) {
	var req appledger.CreateVoucherRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return req, false
	}
	req.CreatedBy = middleware.GetActorID(c)
	return req, true
}

func (h *VoucherHandler) createTyped(c *gin.Context, create func(ctx context.Context, tenantKey string, req appledger.CreateVoucherRequest) (*appledger.VoucherResponse, error)) {
	req, ok := h.bindCreate(c)
	if !ok {
		return
	}

	resp, err := create(c.Request.Context(), middleware.GetTenantKey(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}
