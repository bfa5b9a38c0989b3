package dashboard

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"mindpay/internal/api"
	"mindpay/internal/period"
)

type Handler struct {
	service Service
	now     func() time.Time
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service, now: time.Now}
}

// @Summary      Finance dashboard
// @Description  Revenue, company commission, pending and completed payouts and session counts. Defaults to the current month.
// @Tags         admin,dashboard
// @Produce      json
// @Security     BearerAuth
// @Param        provider_id query int false "Provider ID"
// @Param        month query string false "Month (YYYY-MM)"
// @Param        from query string false "From date (YYYY-MM-DD)"
// @Param        to query string false "To date, inclusive (YYYY-MM-DD)"
// @Success      200 {object} dashboard.Stats
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/dashboard [get]
func (h *Handler) GetStats(c *gin.Context) {
	providerID, err := api.OptionalQueryID(c, "provider_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid provider ID"})
		return
	}

	p, err := period.Parse(c.Query("month"), c.Query("from"), c.Query("to"), h.now())
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), providerID, p)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, stats)
}
