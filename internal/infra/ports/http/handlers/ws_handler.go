package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"github.com/commune-hq/commune/internal/domain/role"
	"github.com/commune-hq/commune/internal/infra/appctx"
	"github.com/commune-hq/commune/internal/infra/ports/ws"
	"github.com/commune-hq/commune/internal/usecase"
)

type WebSocketHandler struct {
	hub               *ws.Hub
	membershipUsecase usecase.MembershipUsecase

	upgrader websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, membershipUsecase usecase.MembershipUsecase) *WebSocketHandler {
	return &WebSocketHandler{
		hub:               hub,
		membershipUsecase: membershipUsecase,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
}

// SubscribeHandler upgrades the connection and streams channel snapshots
// until the client disconnects. Subscribing requires view capability on
// the channel.
func (h *WebSocketHandler) SubscribeHandler(c echo.Context) error {
	channelID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid channel id"})
	}

	identity, ok := appctx.Identity(c.Request().Context())
	if !ok {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid user"})
	}

	resolution, err := h.membershipUsecase.Resolve(c.Request().Context(), identity, channelID)
	if err != nil {
		return respondError(c, err)
	}
	if !resolution.Capabilities.Has(role.CapView) {
		return c.JSON(http.StatusForbidden, map[string]string{"error": "not allowed to view channel"})
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	unsubscribe := h.hub.Subscribe(channelID, conn)
	defer unsubscribe()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return nil
		}
	}
}
