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

type MembershipHandler struct {
	membershipUsecase usecase.MembershipUsecase
}

func NewMembershipHandler(membershipUsecase usecase.MembershipUsecase) *MembershipHandler {
	return &MembershipHandler{membershipUsecase: membershipUsecase}
}

func (h *MembershipHandler) InviteHandler(c echo.Context) error {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid channel id"})
	}

	var req dto.InviteRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	channel, err := h.membershipUsecase.Invite(c.Request().Context(), identity, channelID, req.Contact)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewChannelResponseFromModel(channel))
}

func (h *MembershipHandler) AcceptInviteHandler(c echo.Context) error {
	return h.simpleTransition(c, h.membershipUsecase.AcceptInvite)
}

func (h *MembershipHandler) DeclineInviteHandler(c echo.Context) error {
	return h.simpleTransition(c, h.membershipUsecase.DeclineInvite)
}

func (h *MembershipHandler) AutoJoinHandler(c echo.Context) error {
	return h.simpleTransition(c, h.membershipUsecase.AutoJoin)
}

func (h *MembershipHandler) LeaveHandler(c echo.Context) error {
	return h.simpleTransition(c, h.membershipUsecase.Leave)
}

func (h *MembershipHandler) RedeemInviteCodeHandler(c echo.Context) error {
	var req dto.RedeemInviteCodeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	channel, err := h.membershipUsecase.RedeemInviteCode(c.Request().Context(), identity, req.Code)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewChannelResponseFromModel(channel))
}

func (h *MembershipHandler) ResolveHandler(c echo.Context) error {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid channel id"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	res, err := h.membershipUsecase.Resolve(c.Request().Context(), identity, channelID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewRoleResponse(res))
}

// simpleTransition handles the transitions that take only the caller and
// the channel: accept/decline invite, auto-join, leave.
func (h *MembershipHandler) simpleTransition(
	c echo.Context,
	transition func(ctx context.Context, user models.Identity, channelID uuid.UUID) (*models.Channel, error),
) error {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid channel id"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	channel, err := transition(c.Request().Context(), identity, channelID)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, dto.NewChannelResponseFromModel(channel))
}
