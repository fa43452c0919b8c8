package http

import (
	"net/http"

	"billit-client/internal/adapter/middleware"
	domainSession "billit-client/internal/domain/session"
	"billit-client/internal/usecase/session"

	"github.com/labstack/echo/v4"
)

type SessionHandler struct{ uc *session.Usecase }

func NewSessionHandler(uc *session.Usecase) *SessionHandler { return &SessionHandler{uc: uc} }

type loginReq struct {
	Role     string `json:"role"     validate:"required,role"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *SessionHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	p, err := h.uc.Login(c.Request().Context(), middleware.ClientID(c), domainSession.Role(req.Role), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toPrincipalDTO(p))
}

type socialLoginReq struct {
	Role     string `json:"role"     validate:"required,role"`
	Provider string `json:"provider" validate:"required"`
	Code     string `json:"code"     validate:"required"`
}

func (h *SessionHandler) SocialLogin(c echo.Context) error {
	var req socialLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	p, err := h.uc.SocialLogin(c.Request().Context(), middleware.ClientID(c), domainSession.Role(req.Role), req.Provider, req.Code)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toPrincipalDTO(p))
}

// Me restores the persisted session for this client, if any.
func (h *SessionHandler) Me(c echo.Context) error {
	p, err := h.uc.Restore(c.Request().Context(), middleware.ClientID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, toPrincipalDTO(p))
}

func (h *SessionHandler) Logout(c echo.Context) error {
	if err := h.uc.Logout(c.Request().Context(), middleware.ClientID(c)); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

type reverifyReq struct {
	Password string `json:"password" validate:"required"`
}

// Reverify re-checks the password of the logged-in principal and mints a
// short-lived token that gates sensitive operations.
func (h *SessionHandler) Reverify(c echo.Context) error {
	var req reverifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	token, err := h.uc.Reverify(c.Request().Context(), middleware.ClientID(c), req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"reverify_token": token})
}
