package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/epicevents/crm/internal/core/ports"
)

// EventHandler exposes events organised for signed contracts.
type EventHandler struct {
	events ports.EventService
}

// NewEventHandler creates an EventHandler backed by the given service.
func NewEventHandler(events ports.EventService) *EventHandler {
	return &EventHandler{events: events}
}

// List handles GET /v1/events.
//
// @Summary      List events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        unassigned  query     bool  false  "Only events without a support contact"
// @Param        mine        query     bool  false  "Only events assigned to the caller"
// @Success      200         {array}   domain.Event
// @Failure      400         {object}  errorResponse
// @Failure      401         {object}  errorResponse
// @Router       /v1/events [get]
func (h *EventHandler) List(c echo.Context) error {
	unassigned, err := queryBool(c, "unassigned")
	if err != nil {
		return err
	}
	mine, err := queryBool(c, "mine")
	if err != nil {
		return err
	}

	events, err := h.events.List(c.Request().Context(), identityFrom(c), ports.ListEventsInput{
		UnassignedOnly: unassigned != nil && *unassigned,
		MineOnly:       mine != nil && *mine,
	})
	if err = observe("event", "list", err); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, events)
}

// Create handles POST /v1/events.
//
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createEventRequest  true  "Event"
// @Success      201   {object}  domain.Event
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/events [post]
func (h *EventHandler) Create(c echo.Context) error {
	var req createEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.events.Create(c.Request().Context(), identityFrom(c), ports.CreateEventInput{
		ContractID: req.ContractID,
		Start:      req.Start,
		End:        req.End,
		Location:   req.Location,
		Attendees:  string(req.Attendees),
		Notes:      req.Notes,
	})
	if err = observe("event", "create", err); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, event)
}

// Update handles PATCH /v1/events/:id.
//
// @Summary      Update an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                 true  "Event ID"
// @Param        body  body      updateEventRequest  true  "Fields to change"
// @Success      200   {object}  domain.Event
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/events/{id} [patch]
func (h *EventHandler) Update(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req updateEventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	event, err := h.events.Update(c.Request().Context(), identityFrom(c), id, ports.UpdateEventInput{
		Start:            req.Start,
		End:              req.End,
		Location:         req.Location,
		Attendees:        optScalar(req.Attendees),
		Notes:            req.Notes,
		SupportContactID: req.SupportContactID,
	})
	if err = observe("event", "update", err); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}
