package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/commune-hq/commune/internal/domain/models"
	"github.com/commune-hq/commune/internal/infra/appctx"
	"github.com/commune-hq/commune/internal/infra/ports/http/dto"
	"github.com/commune-hq/commune/internal/usecase"
)

type ModerationHandler struct {
	membershipUsecase usecase.MembershipUsecase
	auditUsecase      usecase.AuditUsecase
}

func NewModerationHandler(membershipUsecase usecase.MembershipUsecase, auditUsecase usecase.AuditUsecase) *ModerationHandler {
	return &ModerationHandler{
		membershipUsecase: membershipUsecase,
		auditUsecase:      auditUsecase,
	}
}

func (h *ModerationHandler) PromoteAdminHandler(c echo.Context) error {
	return h.targetTransition(c, h.membershipUsecase.PromoteAdmin)
}

func (h *ModerationHandler) DemoteAdminHandler(c echo.Context) error {
	return h.targetTransition(c, h.membershipUsecase.DemoteAdmin)
}

func (h *ModerationHandler) MuteHandler(c echo.Context) error {
	return h.targetTransition(c, h.membershipUsecase.Mute)
}

func (h *ModerationHandler) UnmuteHandler(c echo.Context) error {
	return h.targetTransition(c, h.membershipUsecase.Unmute)
}

func (h *ModerationHandler) RemoveHandler(c echo.Context) error {
	return h.targetTransition(c, h.membershipUsecase.Remove)
}

func (h *ModerationHandler) BanHandler(c echo.Context) error {
	channelID, targetID, identity, ok := h.moderationArgs(c)
	if !ok {
		return nil
	}

	var req dto.BanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	result, err := h.membershipUsecase.Ban(c.Request().Context(), identity, channelID, targetID, req.Reason)
	if err != nil {
		return respondError(c, err)
	}

	resp := dto.BanResponse{
		Channel: dto.NewChannelResponseFromModel(result.Channel),
	}
	if result.AuditDegraded {
		resp.Warning = "ban applied but audit record could not be persisted"
	}

	return c.JSON(http.StatusOK, resp)
}

func (h *ModerationHandler) UnbanHandler(c echo.Context) error {
	channelID, targetID, identity, ok := h.moderationArgs(c)
	if !ok {
		return nil
	}

	var req dto.UnbanRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	channel, err := h.membershipUsecase.Unban(c.Request().Context(), identity, channelID, targetID, req.RestoreMembership)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewChannelResponseFromModel(channel))
}

func (h *ModerationHandler) ListBanHistoryHandler(c echo.Context) error {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid channel id"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	records, err := h.auditUsecase.ListBanHistory(c.Request().Context(), identity, channelID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewBanHistoryResponse(records))
}

func (h *ModerationHandler) targetTransition(
	c echo.Context,
	transition func(ctx context.Context, actor models.Identity, channelID, targetID uuid.UUID) (*models.Channel, error),
) error {
	channelID, targetID, identity, ok := h.moderationArgs(c)
	if !ok {
		return nil
	}

	channel, err := transition(c.Request().Context(), identity, channelID, targetID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewChannelResponseFromModel(channel))
}

// moderationArgs parses the channel and target path params and the caller
// identity, writing the error response itself when something is off.
func (h *ModerationHandler) moderationArgs(c echo.Context) (channelID, targetID uuid.UUID, identity models.Identity, ok bool) {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid channel id"})
		return uuid.Nil, uuid.Nil, models.Identity{}, false
	}

	targetID, err = uuid.Parse(c.Param("userID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid user id"})
		return uuid.Nil, uuid.Nil, models.Identity{}, false
	}

	identity, found := appctx.Identity(c.Request().Context())
	if !found {
		c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
		return uuid.Nil, uuid.Nil, models.Identity{}, false
	}

	return channelID, targetID, identity, true
}
