package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/epicevents/crm/internal/core/ports"
)

// AccountHandler exposes staff accounts. Any authenticated caller may list
// them; writes are reserved to management.
type AccountHandler struct {
	accounts ports.AccountService
}

func NewAccountHandler(accounts ports.AccountService) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

// List handles GET /v1/accounts.
//
// @Summary      List staff accounts
// @Tags         accounts
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Account
// @Failure      401  {object}  errorResponse
// @Router       /v1/accounts [get]
func (h *AccountHandler) List(c echo.Context) error {
	accounts, err := h.accounts.List(c.Request().Context(), identityFrom(c))
	if err = observe("account", "list", err); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, accounts)
}

// Create handles POST /v1/accounts.
//
// @Summary      Create a staff account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAccountRequest  true  "Account"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/accounts [post]
func (h *AccountHandler) Create(c echo.Context) error {
	var req createAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.Create(c.Request().Context(), identityFrom(c), ports.CreateAccountInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err = observe("account", "create", err); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, account)
}

// Update handles PATCH /v1/accounts/:id.
//
// @Summary      Update a staff account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                   true  "Account ID"
// @Param        body  body      updateAccountRequest  true  "Fields to change"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/accounts/{id} [patch]
func (h *AccountHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateAccountRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	account, err := h.accounts.Update(c.Request().Context(), identityFrom(c), id, ports.UpdateAccountInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err = observe("account", "update", err); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Delete handles DELETE /v1/accounts/:id.
//
// @Summary      Delete a staff account
// @Tags         accounts
// @Security     BearerAuth
// @Param        id   path  int  true  "Account ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/accounts/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	err = h.accounts.Delete(c.Request().Context(), identityFrom(c), id)
	if err = observe("account", "delete", err); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
