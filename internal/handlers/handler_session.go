package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tradepay/payment_recon_app/internal/apperrors"
	portssvc "github.com/tradepay/payment_recon_app/internal/core/ports/services"
	"github.com/tradepay/payment_recon_app/internal/core/services"
	"github.com/tradepay/payment_recon_app/internal/dto"
	"github.com/tradepay/payment_recon_app/internal/middleware"
)

// sessionHandler exposes the reconciliation draft API. Every mutating route
// returns the full refreshed projection, so clients never have to derive
// balances themselves.
type sessionHandler struct {
	reconService portssvc.ReconciliationSvcFacade
}

func newSessionHandler(rs portssvc.ReconciliationSvcFacade) *sessionHandler {
	return &sessionHandler{reconService: rs}
}

// registerSessionRoutes registers routes related to reconciliation sessions.
func registerSessionRoutes(rg *gin.RouterGroup, reconService portssvc.ReconciliationSvcFacade) {
	h := newSessionHandler(reconService)

	sessions := rg.Group("/sessions")
	{
		sessions.POST("", h.createSession)
		sessions.GET("/:sessionID", h.getSession)
		sessions.PUT("/:sessionID/dimensions", h.setDimensions)
		sessions.PUT("/:sessionID/payment-number", h.setPaymentNumber)
		sessions.POST("/:sessionID/invoices/:invoiceID", h.selectInvoice)
		sessions.DELETE("/:sessionID/invoices/:invoiceID", h.deselectInvoice)
		sessions.PATCH("/:sessionID/allocations/:invoiceID", h.updateAllocation)
		sessions.PUT("/:sessionID/advance", h.updateAdvance)
		sessions.PUT("/:sessionID/income-tax", h.updateIncomeTax)
		sessions.POST("/:sessionID/submit", h.submitSession)
	}
}

// respondSessionError maps service and engine errors onto HTTP statuses.
func respondSessionError(c *gin.Context, err error) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var appErr *apperrors.AppError
	switch {
	case errors.Is(err, services.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, services.ErrNothingToSubmit):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.As(err, &appErr):
		c.JSON(appErr.Code, ErrorResponse{Error: appErr.Message})
	default:
		logger.Error("Session operation failed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Operation failed"})
	}
}

// createSession godoc
// @Summary Open a reconciliation draft
// @Description Creates a draft session, loading the pair's invoice catalog and payment history.
// @Tags sessions
// @Accept json
// @Produce json
// @Param session body dto.CreateSessionRequest true "Draft dimensions"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions [post]
func (h *sessionHandler) createSession(c *gin.Context) {
	var req dto.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.reconService.CreateSession(c.Request.Context(), req, creatorUserID)
	if err != nil {
		respondSessionError(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// getSession godoc
// @Summary Get a draft's current projection
// @Tags sessions
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions/{sessionID} [get]
func (h *sessionHandler) getSession(c *gin.Context) {
	resp, err := h.reconService.GetSession(c.Request.Context(), c.Param("sessionID"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// setDimensions godoc
// @Summary Change a draft's seller/buyer/type
// @Description Changing any dimension discards the working set and reloads the pair's snapshots.
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param dimensions body dto.UpdateDimensionsRequest true "New dimensions"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions/{sessionID}/dimensions [put]
func (h *sessionHandler) setDimensions(c *gin.Context) {
	var req dto.UpdateDimensionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.reconService.SetDimensions(c.Request.Context(), c.Param("sessionID"), req)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// setPaymentNumber godoc
// @Summary Select a history payment for baseline lookup
// @Description Changing the payment number rebuilds the working set from the named payment's allocations.
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param paymentNumber body dto.SetPaymentNumberRequest true "Payment number"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions/{sessionID}/payment-number [put]
func (h *sessionHandler) setPaymentNumber(c *gin.Context) {
	var req dto.SetPaymentNumberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.reconService.SetPaymentNumber(c.Request.Context(), c.Param("sessionID"), req)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// selectInvoice godoc
// @Summary Add an invoice to the draft's working set
// @Tags sessions
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions/{sessionID}/invoices/{invoiceID} [post]
func (h *sessionHandler) selectInvoice(c *gin.Context) {
	resp, err := h.reconService.SelectInvoice(c.Request.Context(), c.Param("sessionID"), c.Param("invoiceID"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// deselectInvoice godoc
// @Summary Remove an invoice from the draft's working set
// @Tags sessions
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param invoiceID path string true "Invoice ID"
// @Success 200 {object} dto.SessionResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions/{sessionID}/invoices/{invoiceID} [delete]
func (h *sessionHandler) deselectInvoice(c *gin.Context) {
	resp, err := h.reconService.DeselectInvoice(c.Request.Context(), c.Param("sessionID"), c.Param("invoiceID"))
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateAllocation godoc
// @Summary Edit one allocation's received/adjusted amounts
// @Description Omitted fields are left untouched; an explicit zero is a real entry, not a blank.
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param invoiceID path string true "Invoice ID"
// @Param allocation body dto.UpdateAllocationRequest true "Amount edits"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions/{sessionID}/allocations/{invoiceID} [patch]
func (h *sessionHandler) updateAllocation(c *gin.Context) {
	var req dto.UpdateAllocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.reconService.UpdateAllocation(c.Request.Context(), c.Param("sessionID"), c.Param("invoiceID"), req)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateAdvance godoc
// @Summary Edit the draft's advance figure
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param advance body dto.UpdateAdvanceRequest true "Advance amount"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions/{sessionID}/advance [put]
func (h *sessionHandler) updateAdvance(c *gin.Context) {
	var req dto.UpdateAdvanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.reconService.UpdateAdvance(c.Request.Context(), c.Param("sessionID"), req)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// updateIncomeTax godoc
// @Summary Edit the draft's income-tax figures
// @Tags sessions
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param incomeTax body dto.UpdateIncomeTaxRequest true "Income tax edits"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions/{sessionID}/income-tax [put]
func (h *sessionHandler) updateIncomeTax(c *gin.Context) {
	var req dto.UpdateIncomeTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	resp, err := h.reconService.UpdateIncomeTax(c.Request.Context(), c.Param("sessionID"), req)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// submitSession godoc
// @Summary Finalize a draft into a pending payment
// @Description Persists the draft and its allocations atomically, then discards the session.
// @Tags sessions
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 201 {object} dto.SubmitSessionResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /sessions/{sessionID}/submit [post]
func (h *sessionHandler) submitSession(c *gin.Context) {
	submitterUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.reconService.SubmitSession(c.Request.Context(), c.Param("sessionID"), submitterUserID)
	if err != nil {
		respondSessionError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
