package http

import (
	"errors"
	"net/http"

	domainSession "billit-client/internal/domain/session"
	"billit-client/internal/domain/store"
	"billit-client/internal/domain/wizard"
	"billit-client/internal/gateway"
	"billit-client/internal/usecase/accounts"
	"billit-client/internal/usecase/investwizard"
	"billit-client/internal/usecase/loanwizard"
	"billit-client/internal/usecase/portfolio"

	"github.com/labstack/echo/v4"
)

// writeError maps domain and usecase errors to HTTP responses. All handlers
// funnel usecase errors through here so the payload shape stays uniform.
func writeError(c echo.Context, err error) error {
	// Missing prior-step state carries a redirect hint for the client.
	var gone *wizard.StateGoneError
	if errors.As(err, &gone) {
		return c.JSON(http.StatusConflict, ErrorResponse{
			Error:      "wizard state missing",
			RedirectTo: gone.RedirectTo,
		})
	}

	// Upstream failures surface the backend's message when it sent one.
	var apiErr *gateway.APIError
	if errors.As(err, &apiErr) {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: apiErr.Message})
	}

	switch {
	case errors.Is(err, domainSession.ErrUnauthenticated),
		errors.Is(err, domainSession.ErrBadCredentials),
		errors.Is(err, wizard.ErrTokenRequired):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})

	case errors.Is(err, wizard.ErrDenied),
		errors.Is(err, wizard.ErrInvalidTransition),
		errors.Is(err, wizard.ErrInFlight),
		errors.Is(err, store.ErrVersionConflict):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})

	case errors.Is(err, store.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})

	case errors.Is(err, loanwizard.ErrAccountRequired),
		errors.Is(err, loanwizard.ErrAmountInvalid),
		errors.Is(err, loanwizard.ErrTermInvalid),
		errors.Is(err, investwizard.ErrAccountRequired),
		errors.Is(err, investwizard.ErrAmountInvalid),
		errors.Is(err, portfolio.ErrAmountInvalid),
		errors.Is(err, accounts.ErrBankNameRequired),
		errors.Is(err, accounts.ErrAccountNumberRequired),
		errors.Is(err, accounts.ErrHolderNameRequired),
		errors.Is(err, wizard.ErrNoSelections),
		errors.Is(err, wizard.ErrUnknownRisk),
		errors.Is(err, wizard.ErrGroupNotListed):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}

	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// principalDTO is the session shape returned to the browser. The bearer
// token never leaves this service.
type principalDTO struct {
	SubjectID   string `json:"subject_id"`
	Role        string `json:"role"`
	DisplayName string `json:"display_name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
}

func toPrincipalDTO(p *domainSession.Principal) principalDTO {
	return principalDTO{
		SubjectID:   p.SubjectID,
		Role:        string(p.Role),
		DisplayName: p.DisplayName,
		Phone:       p.Phone,
		Email:       p.Email,
	}
}
