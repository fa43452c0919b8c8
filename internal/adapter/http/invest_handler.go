package http

import (
	"net/http"

	"billit-client/internal/adapter/middleware"
	domainSession "billit-client/internal/domain/session"
	"billit-client/internal/usecase/investwizard"
	"billit-client/internal/usecase/session"

	"github.com/labstack/echo/v4"
)

type InvestHandler struct {
	uc       *investwizard.Usecase
	sessions *session.Usecase
}

func NewInvestHandler(uc *investwizard.Usecase, sessions *session.Usecase) *InvestHandler {
	return &InvestHandler{uc: uc, sessions: sessions}
}

func (h *InvestHandler) principal(c echo.Context) (*domainSession.Principal, error) {
	return h.sessions.Restore(c.Request().Context(), middleware.ClientID(c))
}

type investInputReq struct {
	RiskLevel string `json:"risk_level" validate:"required,risklevel"`
	AccountID string `json:"account_id" validate:"required"`
}

// Input starts the investment wizard with a risk appetite and payout account.
func (h *InvestHandler) Input(c echo.Context) error {
	var req investInputReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	p, err := h.principal(c)
	if err != nil {
		return writeError(c, err)
	}
	draft, err := h.uc.SubmitInput(c.Request().Context(), middleware.ClientID(c), p, req.RiskLevel, req.AccountID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, draft)
}

// Groups lists the fundable groups for the drafted risk level. ?sort=desc
// orders by expected return, highest first; sorting never changes the draft.
func (h *InvestHandler) Groups(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return writeError(c, err)
	}
	sortDesc := c.QueryParam("sort") == "desc"
	groups, err := h.uc.ListGroups(c.Request().Context(), middleware.ClientID(c), p, sortDesc)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, groups)
}

type setAmountReq struct {
	GroupID int64  `json:"group_id" validate:"required,gt=0"`
	Amount  string `json:"amount"   validate:"amountstr"`
}

// SetAmount records the per-group amount typed into the selection grid.
// A blank amount clears the row.
func (h *InvestHandler) SetAmount(c echo.Context) error {
	var req setAmountReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	draft, err := h.uc.SetAmount(c.Request().Context(), middleware.ClientID(c), req.GroupID, req.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, draft)
}

// Review moves the draft to the review step, dropping zero-amount rows.
func (h *InvestHandler) Review(c echo.Context) error {
	draft, err := h.uc.Review(c.Request().Context(), middleware.ClientID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, draft)
}

// Confirm submits every reviewed selection as one batch and closes the wizard.
func (h *InvestHandler) Confirm(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return writeError(c, err)
	}
	total, err := h.uc.Confirm(c.Request().Context(), middleware.ClientID(c), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"status":       "confirmed",
		"total_amount": total,
	})
}

func (h *InvestHandler) Cancel(c echo.Context) error {
	if err := h.uc.Cancel(c.Request().Context(), middleware.ClientID(c)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *InvestHandler) Get(c echo.Context) error {
	draft, err := h.uc.Get(c.Request().Context(), middleware.ClientID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, draft)
}
