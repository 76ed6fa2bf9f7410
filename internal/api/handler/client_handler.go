package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/epicevents/crm/internal/core/ports"
)

type ClientHandler struct {
	clients ports.ClientService
}

func NewClientHandler(clients ports.ClientService) *ClientHandler {
	return &ClientHandler{clients: clients}
}

// List handles GET /v1/clients.
//
// @Summary      List clients
// @Tags         clients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Client
// @Failure      401  {object}  errorResponse
// @Router       /v1/clients [get]
func (h *ClientHandler) List(c echo.Context) error {
	clients, err := h.clients.List(c.Request().Context(), identityFrom(c))
	if err = observe("client", "list", err); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, clients)
}

// Create handles POST /v1/clients. The caller becomes the owning commercial.
//
// @Summary      Create a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createClientRequest  true  "Client"
// @Success      201   {object}  domain.Client
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /v1/clients [post]
func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := h.clients.Create(c.Request().Context(), identityFrom(c), ports.CreateClientInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
	})
	if err = observe("client", "create", err); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

// Update handles PATCH /v1/clients/:id.
//
// @Summary      Update a client
// @Tags         clients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Client ID"
// @Param        body  body      updateClientRequest  true  "Fields to change"
// @Success      200   {object}  domain.Client
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/clients/{id} [patch]
func (h *ClientHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateClientRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	client, err := h.clients.Update(c.Request().Context(), identityFrom(c), id, ports.UpdateClientInput{
		FullName:    req.FullName,
		Email:       req.Email,
		Phone:       req.Phone,
		CompanyName: req.CompanyName,
	})
	if err = observe("client", "update", err); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}
