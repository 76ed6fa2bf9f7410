package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/epicevents/crm/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Login authenticates a staff member and returns a bearer token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	token, account, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err = observe("session", "login", err); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loginResponse{Token: token, Account: account})
}

// Logout revokes the caller's token.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401   {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	err := h.authService.Logout(c.Request().Context(), tokenFrom(c))
	if err = observe("session", "logout", err); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// WhoAmI returns the account behind the caller's token.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200   {object}  domain.Account
// @Failure      401   {object}  errorResponse
// @Router       /auth/whoami [get]
func (h *AuthHandler) WhoAmI(c echo.Context) error {
	account, err := h.authService.WhoAmI(c.Request().Context(), identityFrom(c))
	if err = observe("session", "whoami", err); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}
