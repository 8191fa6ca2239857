package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/commune-hq/commune/internal/application/constant"
	"github.com/commune-hq/commune/internal/domain/input"
	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/infra/appctx"
	"github.com/commune-hq/commune/internal/infra/ports/http/dto"
	"github.com/commune-hq/commune/internal/usecase"
)

type ChannelHandler struct {
	channelUsecase usecase.ChannelUsecase
}

func NewChannelHandler(channelUsecase usecase.ChannelUsecase) *ChannelHandler {
	return &ChannelHandler{channelUsecase: channelUsecase}
}

func (h *ChannelHandler) ListChannelsHandler(c echo.Context) error {
	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	userChannels, err := h.channelUsecase.GetChannelsByUserID(c.Request().Context(), identity.ID)
	if err != nil {
		slog.Error("get channels by user id", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get channels"})
	}

	publicChannels, err := h.channelUsecase.GetPublicChannels(c.Request().Context())
	if err != nil {
		slog.Error("get public channels", slog.Any(constant.Error, err))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "failed to get public channels"})
	}

	resp := dto.ListChannelsResponse{
		Channels: make([]dto.ChannelResponse, 0, len(userChannels)+len(publicChannels)),
	}

	seen := make(map[uuid.UUID]struct{}, len(userChannels))

	for _, ch := range userChannels {
		seen[ch.ID] = struct{}{}
		resp.Channels = append(resp.Channels, dto.NewChannelResponseFromModel(ch))
	}

	for _, ch := range publicChannels {
		if _, dup := seen[ch.ID]; dup {
			continue
		}
		resp.Channels = append(resp.Channels, dto.NewChannelResponseFromModel(ch))
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *ChannelHandler) CreateChannelHandler(c echo.Context) error {
	var req dto.CreateChannelRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	channel, err := h.channelUsecase.CreateChannel(c.Request().Context(), identity, &input.CreateChannelInput{
		Name:        req.Name,
		Description: req.Description,
		Visibility:  models.Visibility(req.Visibility),
	})
	if err != nil {
		slog.Error("create channel", slog.Any(constant.Error, err))
		return respondError(c, err)
	}

	return c.JSON(http.StatusCreated, dto.NewChannelResponseFromModel(channel))
}

func (h *ChannelHandler) GetChannelHandler(c echo.Context) error {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid channel id"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	channel, err := h.channelUsecase.GetChannel(c.Request().Context(), identity, channelID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewChannelResponseFromModel(channel))
}

func (h *ChannelHandler) SetVisibilityHandler(c echo.Context) error {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid channel id"})
	}

	var req dto.SetVisibilityRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	channel, err := h.channelUsecase.SetVisibility(c.Request().Context(), identity, channelID, models.Visibility(req.Visibility))
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewChannelResponseFromModel(channel))
}

func (h *ChannelHandler) SetInviteExpiryHandler(c echo.Context) error {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid channel id"})
	}

	var req dto.SetInviteExpiryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	channel, err := h.channelUsecase.SetInviteExpiry(c.Request().Context(), identity, channelID, req.ExpiresAt)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewChannelResponseFromModel(channel))
}

func (h *ChannelHandler) RotateInviteCodeHandler(c echo.Context) error {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid channel id"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	channel, err := h.channelUsecase.RotateInviteCode(c.Request().Context(), identity, channelID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewChannelResponseFromModel(channel))
}

func (h *ChannelHandler) SoftDeleteHandler(c echo.Context) error {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid channel id"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	channel, err := h.channelUsecase.SoftDelete(c.Request().Context(), identity, channelID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewChannelResponseFromModel(channel))
}
