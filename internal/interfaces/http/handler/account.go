package handler

import (
	"time"

	appledger "github.com/fuelops/backend/internal/application/ledger"
	"github.com/fuelops/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AccountHandler handles chart-of-accounts HTTP requests
type AccountHandler struct {
	BaseHandler
	accounts *appledger.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accounts *appledger.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// RegisterRoutes registers the chart-of-accounts routes
func (h *AccountHandler) RegisterRoutes(rg *gin.RouterGroup) {
	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.Create)
		accounts.GET("", h.List)
		accounts.GET("/:id", h.Get)
		accounts.PATCH("/:id", h.Update)
		accounts.DELETE("/:id", h.Delete)
		accounts.POST("/:id/deactivate", h.Deactivate)
		accounts.POST("/:id/activate", h.Activate)
		accounts.GET("/:id/balance", h.Balance)
	}
}

// Create handles POST /accounts
func (h *AccountHandler) Create(c *gin.Context) {
	var req appledger.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.CreatedBy = middleware.GetActorID(c)

	resp, err := h.accounts.CreateAccount(c.Request.Context(), middleware.GetTenantKey(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List handles GET /accounts
func (h *AccountHandler) List(c *gin.Context) {
	var filter appledger.AccountListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Invalid query parameters: "+err.Error())
		return
	}

	page, err := h.accounts.ListAccounts(c.Request.Context(), middleware.GetTenantKey(c), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get handles GET /accounts/:id
func (h *AccountHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	resp, err := h.accounts.GetAccount(c.Request.Context(), middleware.GetTenantKey(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Update handles PATCH /accounts/:id
func (h *AccountHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	var req appledger.UpdateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	req.UpdatedBy = middleware.GetActorID(c)

	resp, err := h.accounts.UpdateAccount(c.Request.Context(), middleware.GetTenantKey(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Deactivate handles POST /accounts/:id/deactivate
func (h *AccountHandler) Deactivate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	resp, err := h.accounts.DeactivateAccount(c.Request.Context(), middleware.GetTenantKey(c), id, middleware.GetActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Activate handles POST /accounts/:id/activate
func (h *AccountHandler) Activate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	resp, err := h.accounts.ActivateAccount(c.Request.Context(), middleware.GetTenantKey(c), id, middleware.GetActorID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete handles DELETE /accounts/:id
func (h *AccountHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	if err := h.accounts.DeleteAccount(c.Request.Context(), middleware.GetTenantKey(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Balance handles GET /accounts/:id/balance
func (h *AccountHandler) Balance(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		h.BadRequest(c, "Invalid account ID")
		return
	}

	asOf, ok := parseDateQuery(c, "as_of")
	if !ok {
		h.BadRequest(c, "Invalid as_of date; expected YYYY-MM-DD")
		return
	}

	resp, err := h.accounts.GetAccountBalance(c.Request.Context(), middleware.GetTenantKey(c), id, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// parseDateQuery parses an optional YYYY-MM-DD query parameter. A missing
// parameter yields the zero time, which services treat as "now".
func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
