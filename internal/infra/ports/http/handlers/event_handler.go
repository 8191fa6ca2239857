package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/commune-hq/commune/internal/domain/input"
	"github.com/commune-hq/commune/internal/infra/appctx"
	"github.com/commune-hq/commune/internal/infra/ports/http/dto"
	"github.com/commune-hq/commune/internal/usecase"
)

type EventHandler struct {
	eventUsecase usecase.EventUsecase
}

func NewEventHandler(eventUsecase usecase.EventUsecase) *EventHandler {
	return &EventHandler{eventUsecase: eventUsecase}
}

func (h *EventHandler) CreateEventHandler(c echo.Context) error {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid channel id"})
	}

	var req dto.CreateEventRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	event, err := h.eventUsecase.CreateEvent(c.Request().Context(), identity, channelID, &input.CreateEventInput{
		Title:       req.Title,
		Description: req.Description,
		StartsAt:    req.StartsAt,
	})
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, event)
}

func (h *EventHandler) ListEventsHandler(c echo.Context) error {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid channel id"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	events, err := h.eventUsecase.ListEvents(c.Request().Context(), identity, channelID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, events)
}

func (h *EventHandler) RSVPHandler(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid event id"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	if err := h.eventUsecase.RSVP(c.Request().Context(), identity, eventID); err != nil {
		return respondError(c, err)
	}

	return c.NoContent(http.StatusOK)
}

func (h *EventHandler) ListAttendeesHandler(c echo.Context) error {
	eventID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid event id"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	userIDs, err := h.eventUsecase.ListAttendees(c.Request().Context(), identity, eventID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.AttendeesResponse{UserIDs: userIDs})
}
