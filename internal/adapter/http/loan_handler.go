package http

import (
	"net/http"

	"billit-client/internal/adapter/middleware"
	domainSession "billit-client/internal/domain/session"
	"billit-client/internal/usecase/loanwizard"
	"billit-client/internal/usecase/session"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct {
	uc       *loanwizard.Usecase
	sessions *session.Usecase
}

func NewLoanHandler(uc *loanwizard.Usecase, sessions *session.Usecase) *LoanHandler {
	return &LoanHandler{uc: uc, sessions: sessions}
}

func (h *LoanHandler) principal(c echo.Context) (*domainSession.Principal, error) {
	return h.sessions.Restore(c.Request().Context(), middleware.ClientID(c))
}

type loanInputReq struct {
	AccountID    string   `json:"account_id"    validate:"required"`
	Amount       string   `json:"amount"        validate:"required,amountstr"`
	TermMonths   int      `json:"term_months"   validate:"required,gt=0"`
	Purpose      string   `json:"purpose"       validate:"required"`
	DocumentURLs []string `json:"document_urls"`
}

// Input submits the loan wizard's first step and runs the credit evaluation.
func (h *LoanHandler) Input(c echo.Context) error {
	var req loanInputReq
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
	draft, err := h.uc.SubmitInput(c.Request().Context(), middleware.ClientID(c), p, loanwizard.InputParams{
		AccountID:    req.AccountID,
		Amount:       req.Amount,
		TermMonths:   req.TermMonths,
		Purpose:      req.Purpose,
		DocumentURLs: req.DocumentURLs,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, draft)
}

type loanConfirmReq struct {
	Amount string `json:"amount" validate:"required,amountstr"`
}

// Confirm commits the evaluated loan at the chosen amount.
func (h *LoanHandler) Confirm(c echo.Context) error {
	var req loanConfirmReq
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
	res, err := h.uc.Confirm(c.Request().Context(), middleware.ClientID(c), p, req.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) AssignGroup(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.AssignGroup(c.Request().Context(), middleware.ClientID(c), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func (h *LoanHandler) Cancel(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Cancel(c.Request().Context(), middleware.ClientID(c), p); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// Get returns the current loan draft so a reloaded page can resume the wizard.
func (h *LoanHandler) Get(c echo.Context) error {
	draft, err := h.uc.Get(c.Request().Context(), middleware.ClientID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, draft)
}
