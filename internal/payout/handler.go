package payout

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"mindpay/internal/api"
	"mindpay/internal/auth"
	"mindpay/internal/period"
)

type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service) *Handler {
	return &Handler{
		service: service,
		now:     time.Now,
	}
}

type SettleRequest struct {
	ProviderID              int64       `json:"provider_id" binding:"required"`
	Month                   string      `json:"month" example:"2024-02"`
	From                    string      `json:"from" example:"2024-02-01"`
	To                      string      `json:"to" example:"2024-02-29"`
	PaymentMethod           string      `json:"payment_method" binding:"required" example:"bank_transfer"`
	BankDetails             BankDetails `json:"bank_details" swaggertype:"object"`
	Reference               string      `json:"reference"`
	ExpectedNetPayoutCents  *int64      `json:"expected_net_payout_cents"`
	ExpectedCommissionCents *int64      `json:"expected_commission_cents"`
}

type MarkPaidRequest struct {
	ProviderID int64  `json:"provider_id" binding:"required"`
	Month      string `json:"month" example:"2024-02"`
	From       string `json:"from"`
	To         string `json:"to"`
}

// optionalPeriod returns nil when no period was requested, meaning
// "everything outstanding".
func optionalPeriod(month, from, to string, now time.Time) (*period.Period, error) {
	if month == "" && from == "" && to == "" {
		return nil, nil
	}
	p, err := period.Parse(month, from, to, now)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// @Summary      Pending payouts
// @Description  Outstanding provider balances grouped by provider, one estimate per package
// @Tags         admin,payouts
// @Produce      json
// @Security     BearerAuth
// @Param        month query string false "Month (YYYY-MM)"
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date, inclusive (YYYY-MM-DD)"
// @Success      200 {array} payout.Summary
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/payouts/pending [get]
func (h *Handler) Pending(c *gin.Context) {
	p, err := period.Parse(c.Query("month"), c.Query("from"), c.Query("to"), h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	summaries, err := h.service.Pending(c.Request.Context(), p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load pending payouts"})
		return
	}

	c.JSON(http.StatusOK, summaries)
}

// @Summary      Settle a payout
// @Description  Pays out every pending finalized amount of a provider in one transaction
// @Tags         admin,payouts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body payout.SettleRequest true "Settlement payload"
// @Success      201 {object} payout.Payout
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/payouts/settle [post]
func (h *Handler) Settle(c *gin.Context) {
	var req SettleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	p, err := optionalPeriod(req.Month, req.From, req.To, h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	in := SettleInput{
		ProviderID:    req.ProviderID,
		Period:        p,
		PaymentMethod: req.PaymentMethod,
		BankDetails:   req.BankDetails,
	}

	if req.Reference != "" {
		ref, err := uuid.Parse(req.Reference)
		if err != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "reference must be a UUID"})
			return
		}
		in.Reference = &ref
	}

	switch {
	case req.ExpectedNetPayoutCents != nil && req.ExpectedCommissionCents != nil:
		in.Expected = &Totals{ProviderCents: *req.ExpectedNetPayoutCents, CommissionCents: *req.ExpectedCommissionCents}
	case req.ExpectedNetPayoutCents != nil || req.ExpectedCommissionCents != nil:
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "expected_net_payout_cents and expected_commission_cents must be given together"})
		return
	}

	if userID, ok := auth.GetUserID(c); ok {
		in.ProcessedBy = &userID
	}

	payout, err := h.service.Settle(c.Request.Context(), in)
	h.respondSettlement(c, payout, err)
}

// @Summary      Mark pending payout as paid
// @Description  Settles with totals inferred from pending rows and payment method "manual"
// @Tags         admin,payouts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body payout.MarkPaidRequest true "Provider and optional period"
// @Success      201 {object} payout.Payout
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/payouts/mark-paid [post]
func (h *Handler) MarkAsPaid(c *gin.Context) {
	var req MarkPaidRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}

	p, err := optionalPeriod(req.Month, req.From, req.To, h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	var processedBy *int64
	if userID, ok := auth.GetUserID(c); ok {
		processedBy = &userID
	}

	payout, err := h.service.MarkAsPaid(c.Request.Context(), req.ProviderID, p, processedBy)
	h.respondSettlement(c, payout, err)
}

func (h *Handler) respondSettlement(c *gin.Context, p *Payout, err error) {
	if err == nil {
		c.JSON(http.StatusCreated, p)
		return
	}

	switch {
	case errors.Is(err, ErrNothingPendingToSettle):
		c.JSON(http.StatusOK, api.MessageResponse{Message: ErrNothingPendingToSettle.Error()})
	case errors.Is(err, ErrInvalidSettlement):
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
	case errors.Is(err, ErrConcurrentSettlementConflict):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: "Pending amounts changed, reload and retry"})
	case errors.Is(err, ErrDuplicateReference):
		c.JSON(http.StatusConflict, api.ErrorResponse{Error: ErrDuplicateReference.Error()})
	default:
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to settle payout"})
	}
}

// @Summary      List payouts
// @Tags         admin,payouts
// @Produce      json
// @Security     BearerAuth
// @Param        provider_id query int false "Provider ID"
// @Success      200 {array} payout.Payout
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/payouts [get]
func (h *Handler) List(c *gin.Context) {
	providerID, err := api.OptionalQueryID(c, "provider_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid provider ID"})
		return
	}

	payouts, err := h.service.List(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load payouts"})
		return
	}

	c.JSON(http.StatusOK, payouts)
}

// @Summary      Get a payout
// @Description  Payout with the commission history rows it settled
// @Tags         admin,payouts
// @Produce      json
// @Security     BearerAuth
// @Param        payoutID path int true "Payout ID"
// @Success      200 {object} payout.Detail
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/payouts/{payoutID} [get]
func (h *Handler) Get(c *gin.Context) {
	id, err := api.PathID(c, "payoutID")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid payout ID"})
		return
	}

	detail, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrPayoutNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Payout not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load payout"})
		return
	}

	c.JSON(http.StatusOK, detail)
}
