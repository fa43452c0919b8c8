package http

import (
	"net/http"
	"strconv"

	"billit-client/internal/adapter/middleware"
	domainSession "billit-client/internal/domain/session"
	"billit-client/internal/domain/wizard"
	"billit-client/internal/usecase/portfolio"
	"billit-client/internal/usecase/session"

	"github.com/labstack/echo/v4"
)

type PortfolioHandler struct {
	uc       *portfolio.Usecase
	sessions *session.Usecase
}

func NewPortfolioHandler(uc *portfolio.Usecase, sessions *session.Usecase) *PortfolioHandler {
	return &PortfolioHandler{uc: uc, sessions: sessions}
}

func (h *PortfolioHandler) principal(c echo.Context) (*domainSession.Principal, error) {
	return h.sessions.Restore(c.Request().Context(), middleware.ClientID(c))
}

func (h *PortfolioHandler) Portfolio(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return writeError(c, err)
	}
	entries, err := h.uc.Portfolio(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, entries)
}

func (h *PortfolioHandler) InvestmentDetail(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("investment_id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid investment_id path param"})
	}
	p, err := h.principal(c)
	if err != nil {
		return writeError(c, err)
	}
	detail, err := h.uc.InvestmentDetail(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, detail)
}

func (h *PortfolioHandler) Settlements(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("investment_id"), 10, 64)
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid investment_id path param"})
	}
	p, err := h.principal(c)
	if err != nil {
		return writeError(c, err)
	}
	rows, err := h.uc.Settlements(c.Request().Context(), p, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *PortfolioHandler) Repayments(c echo.Context) error {
	p, err := h.principal(c)
	if err != nil {
		return writeError(c, err)
	}
	rows, err := h.uc.Repayments(c.Request().Context(), p)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

type createRepaymentReq struct {
	LoanID int64 `json:"loan_id" validate:"required,gt=0"`
	Amount int64 `json:"amount"  validate:"required,gt=0"`
}

func (h *PortfolioHandler) CreateRepayment(c echo.Context) error {
	var req createRepaymentReq
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
	if err := h.uc.CreateRepayment(c.Request().Context(), p, req.LoanID, req.Amount); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusCreated)
}

// LoanHistory lists the borrower's past applications. ?status filters by
// upstream loan status; default is waiting-for-group.
func (h *PortfolioHandler) LoanHistory(c echo.Context) error {
	status := int(wizard.LoanStatusWaiting)
	if raw := c.QueryParam("status"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid status query param"})
		}
		status = n
	}
	p, err := h.principal(c)
	if err != nil {
		return writeError(c, err)
	}
	rows, err := h.uc.LoanHistory(c.Request().Context(), p, status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}
