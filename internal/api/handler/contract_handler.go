package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/epicevents/crm/internal/core/ports"
)

type ContractHandler struct {
	contracts ports.ContractService
}

func NewContractHandler(contracts ports.ContractService) *ContractHandler {
	return &ContractHandler{contracts: contracts}
}

// List handles GET /v1/contracts.
//
// @Summary      List contracts
// @Tags         contracts
// @Produce      json
// @Security     BearerAuth
// @Param        signed  query     bool  false  "Only signed (true) or unsigned (false) contracts"
// @Param        paid    query     bool  false  "Only fully paid (true) or outstanding (false) contracts"
// @Success      200     {array}   domain.Contract
// @Failure      400     {object}  errorResponse
// @Failure      401     {object}  errorResponse
// @Router       /v1/contracts [get]
func (h *ContractHandler) List(c echo.Context) error {
	signed, err := queryBool(c, "signed")
	if err != nil {
		return err
	}
	paid, err := queryBool(c, "paid")
	if err != nil {
		return err
	}

	contracts, err := h.contracts.List(c.Request().Context(), identityFrom(c), ports.ListContractsInput{
		Signed: signed,
		Paid:   paid,
	})
	if err = observe("contract", "list", err); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contracts)
}

// Create handles POST /v1/contracts.
//
// @Summary      Create a contract
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createContractRequest  true  "Contract"
// @Success      201   {object}  domain.Contract
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/contracts [post]
func (h *ContractHandler) Create(c echo.Context) error {
	var req createContractRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	contract, err := h.contracts.Create(c.Request().Context(), identityFrom(c), ports.CreateContractInput{
		ClientID:        req.ClientID,
		TotalAmount:     string(req.TotalAmount),
		RemainingAmount: string(req.RemainingAmount),
	})
	if err = observe("contract", "create", err); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, contract)
}

// Update handles PATCH /v1/contracts/:id.
//
// @Summary      Update a contract
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                    true  "Contract ID"
// @Param        body  body      updateContractRequest  true  "Fields to change"
// @Success      200   {object}  domain.Contract
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/contracts/{id} [patch]
func (h *ContractHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateContractRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	contract, err := h.contracts.Update(c.Request().Context(), identityFrom(c), id, ports.UpdateContractInput{
		TotalAmount:     optScalar(req.TotalAmount),
		RemainingAmount: optScalar(req.RemainingAmount),
		Status:          optScalar(req.Status),
	})
	if err = observe("contract", "update", err); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contract)
}
