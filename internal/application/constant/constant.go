package constant

// Shared slog attribute keys.
const (
	Error     = "error"
	UserID    = "user_id"
	ChannelID = "channel_id"
	UserName  = "username"
)
