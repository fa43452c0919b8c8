package http

import (
	"net/http"

	"billit-client/internal/adapter/middleware"
	domainSession "billit-client/internal/domain/session"
	"billit-client/internal/usecase/accounts"
	"billit-client/internal/usecase/session"

	"github.com/labstack/echo/v4"
)

type AccountsHandler struct {
	uc       *accounts.Usecase
	sessions *session.Usecase
}

func NewAccountsHandler(uc *accounts.Usecase, sessions *session.Usecase) *AccountsHandler {
	return &AccountsHandler{uc: uc, sessions: sessions}
}

func (h *AccountsHandler) principal(c echo.Context) (*domainSession.Principal, error) {
	return h.sessions.Restore(c.Request().Context(), middleware.ClientID(c))
}

func (h *AccountsHandler) List(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.uc.List(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

type registerAccountReq struct {
	BankName      string `json:"bank_name"      validate:"required"`
	AccountNumber string `json:"account_number" validate:"required"`
	HolderName    string `json:"holder_name"    validate:"required"`
	ReverifyToken string `json:"reverify_token" validate:"required"`
}

// Register adds a withdrawal account. Requires a fresh reverify token, so
// a stolen session alone cannot redirect payouts.
func (h *AccountsHandler) Register(c echo.Context) error {
	var req registerAccountReq
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
	acc, err := h.uc.Register(c.Request().Context(), middleware.ClientID(c), p, accounts.RegisterParams{
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		HolderName:    req.HolderName,
		ReverifyToken: req.ReverifyToken,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, acc)
}
