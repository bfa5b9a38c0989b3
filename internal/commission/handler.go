package commission

import (
	"context"
	"database/sql"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"mindpay/internal/api"
	"mindpay/internal/auth"
	"mindpay/internal/packages"
)

type sessionFinalizer interface {
	FinalizeSession(ctx context.Context, sessionID int64) (*Outcome, error)
}

type Handler struct {
	service   Service
	finalizer sessionFinalizer
}

func NewHandler(service Service, finalizer sessionFinalizer) *Handler {
	return &Handler{
		service:   service,
		finalizer: finalizer,
	}
}

// @Summary      Commission overview
// @Description  Current schedule and finalized totals per provider
// @Tags         admin,commissions
// @Produce      json
// @Security     BearerAuth
// @Param        provider_id query int false "Provider ID"
// @Success      200 {array} commission.ProviderOverview
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/commissions [get]
func (h *Handler) ListCommissions(c *gin.Context) {
	providerID, err := api.OptionalQueryID(c, "provider_id")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid provider ID"})
		return
	}

	overview, err := h.service.Overview(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load commissions"})
		return
	}

	c.JSON(http.StatusOK, overview)
}

// @Summary      Commission schedule versions
// @Tags         admin,commissions
// @Produce      json
// @Security     BearerAuth
// @Param        providerID path int true "Provider ID"
// @Success      200 {array} commission.Schedule
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/commissions/{providerID}/history [get]
func (h *Handler) ListVersions(c *gin.Context) {
	providerID, err := api.PathID(c, "providerID")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid provider ID"})
		return
	}

	versions, err := h.service.Versions(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to load schedule history"})
		return
	}

	c.JSON(http.StatusOK, versions)
}

// @Summary      Replace commission schedule
// @Description  Deactivates the current schedule and activates a new version
// @Tags         admin,commissions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        providerID path int true "Provider ID"
// @Param        request body commission.UpdateScheduleInput true "Schedule payload"
// @Success      200 {object} commission.Schedule
// @Failure      400 {object} api.ErrorResponse
// @Failure      401 {object} api.ErrorResponse
// @Failure      403 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/commissions/{providerID} [put]
func (h *Handler) UpdateSchedule(c *gin.Context) {
	providerID, err := api.PathID(c, "providerID")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid provider ID"})
		return
	}

	var req UpdateScheduleInput
	if err := c.ShouldBindJSON(&req); err != nil {
		api.RespondBindError(c, err)
		return
	}
	req.ProviderID = providerID
	if userID, ok := auth.GetUserID(c); ok {
		req.CreatedBy = &userID
	}

	schedule, err := h.service.Update(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCommissionAmount) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to update commission schedule"})
		return
	}

	c.JSON(http.StatusOK, schedule)
}

// @Summary      Finalize a session
// @Description  Writes the commission history entry for a completed session or its completed package
// @Tags         admin,commissions
// @Produce      json
// @Security     BearerAuth
// @Param        sessionID path int true "Session ID"
// @Success      200 {object} commission.Outcome
// @Success      201 {object} commission.Outcome
// @Failure      400 {object} api.ErrorResponse
// @Failure      404 {object} api.ErrorResponse
// @Failure      409 {object} api.ErrorResponse
// @Failure      422 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/sessions/{sessionID}/finalize [post]
func (h *Handler) FinalizeSession(c *gin.Context) {
	sessionID, err := api.PathID(c, "sessionID")
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "Invalid session ID"})
		return
	}

	outcome, err := h.finalizer.FinalizeSession(c.Request.Context(), sessionID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			c.JSON(http.StatusNotFound, api.ErrorResponse{Error: "Session not found"})
		case errors.Is(err, ErrSessionNotFinalizable), errors.Is(err, packages.ErrPackageIncomplete):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, ErrNoScheduleConfigured):
			c.JSON(http.StatusUnprocessableEntity, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "Failed to finalize session"})
		}
		return
	}

	status := http.StatusOK
	if outcome.Created {
		status = http.StatusCreated
	}
	c.JSON(status, outcome)
}
