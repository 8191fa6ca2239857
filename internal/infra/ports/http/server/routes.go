package server

import (
	"github.com/labstack/echo/v4"

	"github.com/commune-hq/commune/internal/application/config"
	"github.com/commune-hq/commune/internal/infra/ports/http/handlers"
	"github.com/commune-hq/commune/internal/infra/ports/http/middleware"
)

func New(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	channelHandler *handlers.ChannelHandler,
	membershipHandler *handlers.MembershipHandler,
	moderationHandler *handlers.ModerationHandler,
	postHandler *handlers.PostHandler,
	eventHandler *handlers.EventHandler,
	wsHandler *handlers.WebSocketHandler,
) *echo.Echo {
	e := echo.New()

	e.Use(middleware.SlogLogger())
	e.Use(middleware.PrometheusMiddleware())

	api := e.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		v1 := api.Group("/v1")
		v1.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
		{
			v1.GET("/me", authHandler.GetMe)

			v1.GET("/channels", channelHandler.ListChannelsHandler)
			v1.POST("/channels", channelHandler.CreateChannelHandler)
			v1.GET("/channels/:id", channelHandler.GetChannelHandler)
			v1.DELETE("/channels/:id", channelHandler.SoftDeleteHandler)
			v1.PATCH("/channels/:id/visibility", channelHandler.SetVisibilityHandler)
			v1.PATCH("/channels/:id/invite-expiry", channelHandler.SetInviteExpiryHandler)
			v1.POST("/channels/:id/invite-code/rotate", channelHandler.RotateInviteCodeHandler)

			v1.GET("/channels/:id/role", membershipHandler.ResolveHandler)
			v1.POST("/channels/:id/invites", membershipHandler.InviteHandler)
			v1.POST("/channels/:id/invites/accept", membershipHandler.AcceptInviteHandler)
			v1.POST("/channels/:id/invites/decline", membershipHandler.DeclineInviteHandler)
			v1.POST("/channels/:id/join", membershipHandler.AutoJoinHandler)
			v1.POST("/channels/:id/leave", membershipHandler.LeaveHandler)
			v1.POST("/invite-codes/redeem", membershipHandler.RedeemInviteCodeHandler)

			v1.POST("/channels/:id/admins/:userID", moderationHandler.PromoteAdminHandler)
			v1.DELETE("/channels/:id/admins/:userID", moderationHandler.DemoteAdminHandler)
			v1.POST("/channels/:id/muted/:userID", moderationHandler.MuteHandler)
			v1.DELETE("/channels/:id/muted/:userID", moderationHandler.UnmuteHandler)
			v1.POST("/channels/:id/bans/:userID", moderationHandler.BanHandler)
			v1.DELETE("/channels/:id/bans/:userID", moderationHandler.UnbanHandler)
			v1.DELETE("/channels/:id/members/:userID", moderationHandler.RemoveHandler)
			v1.GET("/channels/:id/bans", moderationHandler.ListBanHistoryHandler)

			v1.POST("/channels/:id/posts", postHandler.CreatePostHandler)
			v1.GET("/channels/:id/posts", postHandler.ListPostsHandler)
			v1.POST("/channels/:id/events", eventHandler.CreateEventHandler)
			v1.GET("/channels/:id/events", eventHandler.ListEventsHandler)
			v1.POST("/events/:id/rsvp", eventHandler.RSVPHandler)
			v1.GET("/events/:id/attendees", eventHandler.ListAttendeesHandler)

			v1.GET("/channels/:id/ws", wsHandler.SubscribeHandler)
		}
	}

	return e
}
